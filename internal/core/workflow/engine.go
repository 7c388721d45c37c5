package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Executor runs a single action against the execution context
type Executor interface {
	Execute(ctx context.Context, companyID uuid.UUID, action Action, contextData map[string]interface{}) (map[string]interface{}, error)
}

// Engine runs a workflow's ordered action list against an evolving context
// map. Each successful action's result is merged into the context, so later
// actions see earlier actions' outputs.
type Engine struct {
	executor Executor
}

// NewEngine creates a new execution engine
func NewEngine(executor Executor) *Engine {
	return &Engine{executor: executor}
}

// Run executes the actions strictly in order and returns the step trace.
// Per-action failures are recorded in the trace and do not abort the run;
// the failed step leaves the context unchanged. Only an expired or cancelled
// context aborts with an engine-level error.
func (e *Engine) Run(ctx context.Context, companyID uuid.UUID, actions []Action, contextData map[string]interface{}) ([]StepResult, error) {
	trace := make([]StepResult, 0, len(actions))

	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return trace, &EngineError{
				Err: fmt.Errorf("execution budget exceeded after %d of %d actions: %w", i, len(actions), err),
			}
		}

		log.Printf("   🔧 Action %d/%d: %s", i+1, len(actions), action.Type)

		result, err := e.executor.Execute(ctx, companyID, action, contextData)
		if err != nil {
			log.Printf("   ❌ Action failed: %v", err)
			trace = append(trace, StepResult{
				Action:  action.Type,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}

		// Merge the result into the context; later writes shadow earlier keys
		for k, v := range result {
			contextData[k] = v
		}

		trace = append(trace, StepResult{
			Action:  action.Type,
			Success: true,
			Result:  result,
		})
	}

	return trace, nil
}
