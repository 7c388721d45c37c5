package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeEmailSender) SendEmail(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeTaskStore struct {
	created []map[string]interface{}
	taskID  uuid.UUID
	err     error
}

func (f *fakeTaskStore) CreateTask(ctx context.Context, companyID uuid.UUID, fields map[string]interface{}) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.created = append(f.created, fields)
	return f.taskID, nil
}

func newTestExecutor(email *fakeEmailSender, tasks *fakeTaskStore) *ActionExecutor {
	if email == nil {
		email = &fakeEmailSender{}
	}
	if tasks == nil {
		tasks = &fakeTaskStore{taskID: uuid.New()}
	}
	return NewActionExecutor(nil, email, tasks)
}

func TestActionExecutor_SendEmail(t *testing.T) {
	t.Run("substitutes context variables", func(t *testing.T) {
		email := &fakeEmailSender{}
		executor := newTestExecutor(email, nil)

		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type: "send_email",
			Params: map[string]interface{}{
				"to":      "{email}",
				"subject": "Welcome {name}",
				"body":    "Hello {name}, thanks for signing up.",
			},
		}, map[string]interface{}{"email": "jo@example.com", "name": "Jo"})

		require.NoError(t, err)
		assert.Equal(t, true, result["email_sent"])
		assert.Equal(t, "jo@example.com", result["recipient"])
		require.Len(t, email.sent, 1)
		assert.Equal(t, "Welcome Jo", email.sent[0].Subject)
		assert.Equal(t, "Hello Jo, thanks for signing up.", email.sent[0].Body)
	})

	t.Run("unknown placeholders are left intact", func(t *testing.T) {
		email := &fakeEmailSender{}
		executor := newTestExecutor(email, nil)

		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type: "send_email",
			Params: map[string]interface{}{
				"to":      "ops@example.com",
				"subject": "Order {order_id}",
				"body":    "n/a",
			},
		}, map[string]interface{}{})

		require.NoError(t, err)
		require.Len(t, email.sent, 1)
		assert.Equal(t, "Order {order_id}", email.sent[0].Subject)
	})

	t.Run("missing recipient is an invalid parameter", func(t *testing.T) {
		executor := newTestExecutor(nil, nil)

		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "send_email",
			Params: map[string]interface{}{"subject": "s", "body": "b"},
		}, map[string]interface{}{})

		var invalidErr *InvalidParametersError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "send_email", invalidErr.ActionType)
	})

	t.Run("provider failure surfaces as execution error", func(t *testing.T) {
		email := &fakeEmailSender{err: errors.New("smtp down")}
		executor := newTestExecutor(email, nil)

		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "send_email",
			Params: map[string]interface{}{"to": "a@b.com", "subject": "s", "body": "b"},
		}, map[string]interface{}{})

		var execErr *ActionExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "send_email", execErr.ActionType)
	})
}

func TestActionExecutor_CreateTask(t *testing.T) {
	t.Run("persists task and returns its id", func(t *testing.T) {
		taskID := uuid.New()
		tasks := &fakeTaskStore{taskID: taskID}
		executor := newTestExecutor(nil, tasks)

		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type: "create_task",
			Params: map[string]interface{}{
				"title":       "Follow up with {name}",
				"description": "From webhook",
				"priority":    "high",
			},
		}, map[string]interface{}{"name": "Jo"})

		require.NoError(t, err)
		assert.Equal(t, taskID.String(), result["task_id"])
		assert.Equal(t, "Follow up with Jo", result["task_title"])
		require.Len(t, tasks.created, 1)
		assert.Equal(t, "high", tasks.created[0]["priority"])
	})

	t.Run("missing title is an invalid parameter", func(t *testing.T) {
		tasks := &fakeTaskStore{}
		executor := newTestExecutor(nil, tasks)

		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "create_task",
			Params: map[string]interface{}{"description": "no title"},
		}, map[string]interface{}{})

		var invalidErr *InvalidParametersError
		require.ErrorAs(t, err, &invalidErr)
		assert.Empty(t, tasks.created)
	})
}

func TestActionExecutor_UpdateRecord_Validation(t *testing.T) {
	executor := newTestExecutor(nil, nil)
	companyID := uuid.New()

	tests := []struct {
		name   string
		params map[string]interface{}
	}{
		{"missing table", map[string]interface{}{"record_id": "42", "fields": map[string]interface{}{"status": "done"}}},
		{"missing record_id", map[string]interface{}{"table": "orders", "fields": map[string]interface{}{"status": "done"}}},
		{"missing fields", map[string]interface{}{"table": "orders", "record_id": "42"}},
		{"empty fields", map[string]interface{}{"table": "orders", "record_id": "42", "fields": map[string]interface{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation must reject before any database access happens;
			// the executor is built with a nil handle so a slip panics.
			_, err := executor.Execute(context.Background(), companyID, Action{
				Type:   "update_record",
				Params: tt.params,
			}, map[string]interface{}{})

			var invalidErr *InvalidParametersError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, "update_record", invalidErr.ActionType)
		})
	}
}

func TestActionExecutor_APIRequest(t *testing.T) {
	t.Run("posts body and parses json response", func(t *testing.T) {
		var gotMethod, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"ok":true}`)
		}))
		defer server.Close()

		executor := newTestExecutor(nil, nil)
		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type: "api_request",
			Params: map[string]interface{}{
				"url":  server.URL,
				"body": map[string]interface{}{"event": "lead"},
			},
		}, map[string]interface{}{})

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, 200, result["status_code"])
		response, ok := result["response"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, response["ok"])
	})

	t.Run("non-2xx status is still a result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "upstream broke")
		}))
		defer server.Close()

		executor := newTestExecutor(nil, nil)
		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "api_request",
			Params: map[string]interface{}{"url": server.URL, "method": "get"},
		}, map[string]interface{}{})

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, result["status_code"])
		assert.Equal(t, "upstream broke", result["response"])
	})

	t.Run("url placeholders resolve from context", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			fmt.Fprint(w, `{}`)
		}))
		defer server.Close()

		executor := newTestExecutor(nil, nil)
		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "api_request",
			Params: map[string]interface{}{"url": server.URL + "/orders/{order_id}", "method": "GET"},
		}, map[string]interface{}{"order_id": "o-77"})

		require.NoError(t, err)
		assert.Equal(t, "/orders/o-77", gotPath)
	})

	t.Run("missing url is an invalid parameter", func(t *testing.T) {
		executor := newTestExecutor(nil, nil)
		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "api_request",
			Params: map[string]interface{}{"method": "GET"},
		}, map[string]interface{}{})

		var invalidErr *InvalidParametersError
		require.ErrorAs(t, err, &invalidErr)
	})

	t.Run("unreachable host is an execution error", func(t *testing.T) {
		executor := newTestExecutor(nil, nil)
		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "api_request",
			Params: map[string]interface{}{"url": "http://127.0.0.1:1/nope", "method": "GET"},
		}, map[string]interface{}{})

		var execErr *ActionExecutionError
		require.ErrorAs(t, err, &execErr)
	})
}

func TestActionExecutor_ConditionalLogic(t *testing.T) {
	executor := newTestExecutor(nil, nil)

	t.Run("reports the true path", func(t *testing.T) {
		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type: "conditional_logic",
			Params: map[string]interface{}{
				"conditions": []interface{}{
					map[string]interface{}{"field": "amount", "operator": "greater_than", "value": 100},
				},
			},
		}, map[string]interface{}{"amount": float64(250)})

		require.NoError(t, err)
		assert.Equal(t, true, result["condition_met"])
		assert.Equal(t, "true", result["path_taken"])
	})

	t.Run("reports the false path without failing the step", func(t *testing.T) {
		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type: "conditional_logic",
			Params: map[string]interface{}{
				"conditions": []interface{}{
					map[string]interface{}{"field": "amount", "operator": "greater_than", "value": 100},
				},
			},
		}, map[string]interface{}{"amount": float64(5)})

		require.NoError(t, err)
		assert.Equal(t, false, result["condition_met"])
		assert.Equal(t, "false", result["path_taken"])
	})

	t.Run("missing conditions is an invalid parameter", func(t *testing.T) {
		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "conditional_logic",
			Params: map[string]interface{}{},
		}, map[string]interface{}{})

		var invalidErr *InvalidParametersError
		require.ErrorAs(t, err, &invalidErr)
	})
}

func TestActionExecutor_Delay(t *testing.T) {
	t.Run("zero duration completes immediately", func(t *testing.T) {
		executor := newTestExecutor(nil, nil)
		result, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "delay",
			Params: map[string]interface{}{"duration": float64(0)},
		}, map[string]interface{}{})

		require.NoError(t, err)
		assert.Equal(t, float64(0), result["delayed_seconds"])
	})

	t.Run("cancellation aborts the wait", func(t *testing.T) {
		executor := newTestExecutor(nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		_, err := executor.Execute(ctx, uuid.New(), Action{
			Type:   "delay",
			Params: map[string]interface{}{"duration": float64(60)},
		}, map[string]interface{}{})

		var execErr *ActionExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("missing duration is an invalid parameter", func(t *testing.T) {
		executor := newTestExecutor(nil, nil)
		_, err := executor.Execute(context.Background(), uuid.New(), Action{
			Type:   "delay",
			Params: map[string]interface{}{"unit": "seconds"},
		}, map[string]interface{}{})

		var invalidErr *InvalidParametersError
		require.ErrorAs(t, err, &invalidErr)
	})
}

func TestClampDelay(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		unit     string
		expected time.Duration
	}{
		{"under the cap", 300, "seconds", 300 * time.Second},
		{"just over the cap", 301, "seconds", maxDelay},
		{"well over the cap", 600, "seconds", maxDelay},
		{"minutes within cap", 2, "minutes", 2 * time.Minute},
		{"minutes over cap", 10, "minutes", maxDelay},
		{"hours always clamp", 1, "hours", maxDelay},
		{"fractional seconds", 1.5, "seconds", 1500 * time.Millisecond},
		{"negative clamps to zero", -5, "seconds", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wait, err := clampDelay(tt.duration, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, wait)
		})
	}

	t.Run("unknown unit errors", func(t *testing.T) {
		_, err := clampDelay(5, "fortnights")
		assert.Error(t, err)
	})
}

func TestActionExecutor_UnknownType(t *testing.T) {
	executor := newTestExecutor(nil, nil)

	result, err := executor.Execute(context.Background(), uuid.New(), Action{
		Type:   "generate_report",
		Params: map[string]interface{}{},
	}, map[string]interface{}{})

	require.NoError(t, err)
	assert.Equal(t, "not implemented", result["status"])
	assert.Equal(t, "generate_report", result["action_type"])
}
