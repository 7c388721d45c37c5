package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxDelay caps the delay action's wait inside the webhook request path
const maxDelay = 5 * time.Minute

// EmailSender delivers emails for the send_email action
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// TaskStore persists tasks created by the create_task action
type TaskStore interface {
	CreateTask(ctx context.Context, companyID uuid.UUID, fields map[string]interface{}) (uuid.UUID, error)
}

// ActionExecutor executes workflow actions
type ActionExecutor struct {
	db         *gorm.DB
	email      EmailSender
	tasks      TaskStore
	evaluator  *ConditionEvaluator
	httpClient *http.Client
}

// NewActionExecutor creates a new action executor
func NewActionExecutor(db *gorm.DB, email EmailSender, tasks TaskStore) *ActionExecutor {
	return &ActionExecutor{
		db:         db,
		email:      email,
		tasks:      tasks,
		evaluator:  NewConditionEvaluator(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Execute executes a single action with the given context data and returns
// the action's result map. The caller merges the result into the context so
// later actions see it.
func (e *ActionExecutor) Execute(ctx context.Context, companyID uuid.UUID, action Action, contextData map[string]interface{}) (map[string]interface{}, error) {
	log.Printf("🔧 Executing action: %s", action.Type)

	switch action.Type {
	case "send_email":
		return e.executeSendEmail(action, contextData)

	case "create_task":
		return e.executeCreateTask(ctx, companyID, action, contextData)

	case "update_record":
		return e.executeUpdateRecord(companyID, action)

	case "api_request":
		return e.executeAPIRequest(ctx, action, contextData)

	case "conditional_logic":
		return e.executeConditionalLogic(action, contextData)

	case "delay":
		return e.executeDelay(ctx, action)

	default:
		// Unrecognized action types are informational, not fatal
		log.Printf("⚠️ Action type not implemented: %s", action.Type)
		return map[string]interface{}{
			"status":      "not implemented",
			"action_type": action.Type,
		}, nil
	}
}

// executeSendEmail delegates to the configured email provider
func (e *ActionExecutor) executeSendEmail(action Action, contextData map[string]interface{}) (map[string]interface{}, error) {
	to, ok := e.stringParam(action, "to")
	if !ok {
		return nil, invalidParams(action.Type, "to is required")
	}
	subject, ok := e.stringParam(action, "subject")
	if !ok {
		return nil, invalidParams(action.Type, "subject is required")
	}
	body, ok := e.stringParam(action, "body")
	if !ok {
		return nil, invalidParams(action.Type, "body is required")
	}

	to = e.replaceVariables(to, contextData)
	subject = e.replaceVariables(subject, contextData)
	body = e.replaceVariables(body, contextData)

	log.Printf("📧 Sending email to %s: %s", to, subject)
	if err := e.email.SendEmail(to, subject, body); err != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: err}
	}

	return map[string]interface{}{
		"email_sent": true,
		"recipient":  to,
	}, nil
}

// executeCreateTask inserts a task record and returns its identifier
func (e *ActionExecutor) executeCreateTask(ctx context.Context, companyID uuid.UUID, action Action, contextData map[string]interface{}) (map[string]interface{}, error) {
	title, ok := e.stringParam(action, "title")
	if !ok {
		return nil, invalidParams(action.Type, "title is required")
	}
	title = e.replaceVariables(title, contextData)

	fields := map[string]interface{}{"title": title}
	for _, key := range []string{"description", "assignee", "due_date", "priority"} {
		if v, ok := e.stringParam(action, key); ok {
			fields[key] = e.replaceVariables(v, contextData)
		}
	}

	taskID, err := e.tasks.CreateTask(ctx, companyID, fields)
	if err != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: err}
	}

	log.Printf("✅ Task created: %s (ID: %s)", title, taskID)
	return map[string]interface{}{
		"task_id":    taskID.String(),
		"task_title": title,
	}, nil
}

// executeUpdateRecord performs a company-scoped update on the given table
func (e *ActionExecutor) executeUpdateRecord(companyID uuid.UUID, action Action) (map[string]interface{}, error) {
	table, ok := e.stringParam(action, "table")
	if !ok {
		return nil, invalidParams(action.Type, "table is required")
	}

	recordID := action.Params["record_id"]
	if recordID == nil || recordID == "" {
		return nil, invalidParams(action.Type, "record_id is required")
	}

	fields, ok := action.Params["fields"].(map[string]interface{})
	if !ok || len(fields) == 0 {
		return nil, invalidParams(action.Type, "fields is required and must not be empty")
	}

	result := e.db.Table(table).
		Where("id = ? AND company_id = ?", recordID, companyID).
		Updates(fields)
	if result.Error != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: result.Error}
	}

	log.Printf("✅ Updated %d row(s) in table %s", result.RowsAffected, table)
	return map[string]interface{}{
		"updated":       true,
		"table":         table,
		"record_id":     recordID,
		"rows_affected": result.RowsAffected,
	}, nil
}

// executeAPIRequest calls an external API and returns the parsed response
func (e *ActionExecutor) executeAPIRequest(ctx context.Context, action Action, contextData map[string]interface{}) (map[string]interface{}, error) {
	url, ok := e.stringParam(action, "url")
	if !ok {
		return nil, invalidParams(action.Type, "url is required")
	}
	url = e.replaceVariables(url, contextData)

	method, ok := e.stringParam(action, "method")
	if !ok {
		method = http.MethodPost
	}
	method = strings.ToUpper(method)

	var bodyBytes []byte
	if body := action.Params["body"]; body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, invalidParams(action.Type, fmt.Sprintf("body is not serializable: %v", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: err}
	}

	if headers, ok := action.Params["headers"].(map[string]interface{}); ok {
		for key, value := range headers {
			if strValue, ok := value.(string); ok {
				req.Header.Set(key, strValue)
			}
		}
	}
	if req.Header.Get("Content-Type") == "" && bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Printf("🌐 Calling API: %s %s", method, url)
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: err}
	}

	// Return the body as parsed JSON when possible, raw string otherwise
	var parsed interface{}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		parsed = string(respBody)
	}

	log.Printf("✅ API call completed: %d", resp.StatusCode)
	return map[string]interface{}{
		"response":    parsed,
		"status_code": resp.StatusCode,
	}, nil
}

// executeConditionalLogic evaluates the action's conditions against the
// context and reports which branch would be taken. It does not execute a
// different action list per branch.
func (e *ActionExecutor) executeConditionalLogic(action Action, contextData map[string]interface{}) (map[string]interface{}, error) {
	rawConditions := action.Params["conditions"]
	if rawConditions == nil {
		return nil, invalidParams(action.Type, "conditions is required")
	}

	// Round-trip through JSON so both []interface{} from decoded payloads
	// and typed slices from callers are accepted
	conditionsJSON, err := json.Marshal(rawConditions)
	if err != nil {
		return nil, invalidParams(action.Type, fmt.Sprintf("conditions is not serializable: %v", err))
	}
	var conditions []Condition
	if err := json.Unmarshal(conditionsJSON, &conditions); err != nil {
		return nil, invalidParams(action.Type, fmt.Sprintf("conditions is malformed: %v", err))
	}

	met, err := e.evaluator.Evaluate(conditions, contextData)
	if err != nil {
		return nil, &ActionExecutionError{ActionType: action.Type, Err: err}
	}

	pathTaken := "false"
	if met {
		pathTaken = "true"
	}
	return map[string]interface{}{
		"condition_met": met,
		"path_taken":    pathTaken,
	}, nil
}

// executeDelay waits for the clamped duration. The wait is a cooperative
// goroutine suspension, not a pinned OS thread, and honors cancellation.
func (e *ActionExecutor) executeDelay(ctx context.Context, action Action) (map[string]interface{}, error) {
	duration, err := toFloat64(action.Params["duration"])
	if err != nil {
		return nil, invalidParams(action.Type, "duration is required and must be a number")
	}
	unit, ok := e.stringParam(action, "unit")
	if !ok {
		unit = "seconds"
	}

	wait, err := clampDelay(duration, unit)
	if err != nil {
		return nil, invalidParams(action.Type, err.Error())
	}

	log.Printf("⏳ Delaying for %s", wait)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, &ActionExecutionError{ActionType: action.Type, Err: ctx.Err()}
	case <-timer.C:
	}

	return map[string]interface{}{
		"delayed_seconds": wait.Seconds(),
	}, nil
}

// clampDelay converts a duration/unit pair into a wait capped at maxDelay
func clampDelay(duration float64, unit string) (time.Duration, error) {
	if duration < 0 {
		duration = 0
	}

	var wait time.Duration
	switch unit {
	case "seconds":
		wait = time.Duration(duration * float64(time.Second))
	case "minutes":
		wait = time.Duration(duration * float64(time.Minute))
	case "hours":
		wait = time.Duration(duration * float64(time.Hour))
	default:
		return 0, fmt.Errorf("unsupported unit: %s", unit)
	}

	if wait > maxDelay {
		wait = maxDelay
	}
	return wait, nil
}

// stringParam extracts a non-empty string parameter from the action
func (e *ActionExecutor) stringParam(action Action, key string) (string, bool) {
	value, ok := action.Params[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// replaceVariables replaces {variable} placeholders with values from the
// execution context
func (e *ActionExecutor) replaceVariables(template string, contextData map[string]interface{}) string {
	re := regexp.MustCompile(`\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(template, func(match string) string {
		varName := strings.Trim(match, "{}")
		if value, exists := contextData[varName]; exists {
			return fmt.Sprintf("%v", value)
		}
		return match
	})
}
