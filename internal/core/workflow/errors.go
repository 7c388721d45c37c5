package workflow

import (
	"errors"
	"fmt"
)

// Surfaced before any execution record exists (404/401 at the HTTP boundary).
var (
	ErrWebhookNotFound      = errors.New("webhook not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// InvalidParametersError reports an action missing required parameters.
// It is recoverable: the engine records it in the step trace and continues.
type InvalidParametersError struct {
	ActionType string
	Reason     string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid parameters for %s action: %s", e.ActionType, e.Reason)
}

func invalidParams(actionType, reason string) *InvalidParametersError {
	return &InvalidParametersError{ActionType: actionType, Reason: reason}
}

// ActionExecutionError reports a failure of an action's delegated external
// call. Recoverable, reported per-action in the step trace.
type ActionExecutionError struct {
	ActionType string
	Err        error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("%s action failed: %v", e.ActionType, e.Err)
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Err
}

// EngineError marks a failure outside the action loop (corrupt action list,
// persistence failure, budget expiry). It aborts the run and flips the
// execution to its error terminal state.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
