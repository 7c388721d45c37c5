package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor returns a scripted result or error per action type.
type stubExecutor struct {
	results map[string]map[string]interface{}
	errs    map[string]error
	seen    []map[string]interface{}
}

func (s *stubExecutor) Execute(ctx context.Context, companyID uuid.UUID, action Action, contextData map[string]interface{}) (map[string]interface{}, error) {
	snapshot := make(map[string]interface{}, len(contextData))
	for k, v := range contextData {
		snapshot[k] = v
	}
	s.seen = append(s.seen, snapshot)

	if err, ok := s.errs[action.Type]; ok {
		return nil, err
	}
	return s.results[action.Type], nil
}

func TestEngine_RunAllActionsInOrder(t *testing.T) {
	executor := &stubExecutor{
		results: map[string]map[string]interface{}{
			"first":  {"a": 1},
			"second": {"b": 2},
			"third":  {"c": 3},
		},
	}
	engine := NewEngine(executor)

	trace, err := engine.Run(context.Background(), uuid.New(), []Action{
		{Type: "first"}, {Type: "second"}, {Type: "third"},
	}, map[string]interface{}{"input": "x"})

	require.NoError(t, err)
	require.Len(t, trace, 3)
	for i, step := range trace {
		assert.True(t, step.Success, "step %d", i)
	}
	assert.Equal(t, []string{"first", "second", "third"}, []string{trace[0].Action, trace[1].Action, trace[2].Action})
}

func TestEngine_ContinuesPastFailedAction(t *testing.T) {
	executor := &stubExecutor{
		results: map[string]map[string]interface{}{
			"first": {"a": 1},
			"third": {"c": 3},
		},
		errs: map[string]error{
			"second": errors.New("provider exploded"),
		},
	}
	engine := NewEngine(executor)

	trace, err := engine.Run(context.Background(), uuid.New(), []Action{
		{Type: "first"}, {Type: "second"}, {Type: "third"},
	}, map[string]interface{}{})

	require.NoError(t, err)
	require.Len(t, trace, 3)
	assert.True(t, trace[0].Success)
	assert.False(t, trace[1].Success)
	assert.Contains(t, trace[1].Error, "provider exploded")
	assert.True(t, trace[2].Success)

	// The failed step must not pollute the context the third action sees
	require.Len(t, executor.seen, 3)
	assert.Equal(t, map[string]interface{}{"a": 1}, executor.seen[2])
}

func TestEngine_ContextThreading(t *testing.T) {
	executor := &stubExecutor{
		results: map[string]map[string]interface{}{
			"first":  {"task_id": "t-1", "shared": "from-first"},
			"second": {"shared": "from-second"},
		},
	}
	engine := NewEngine(executor)

	contextData := map[string]interface{}{"email": "jo@example.com"}
	_, err := engine.Run(context.Background(), uuid.New(), []Action{
		{Type: "first"}, {Type: "second"},
	}, contextData)
	require.NoError(t, err)

	// Second action saw the first action's output merged into the input
	require.Len(t, executor.seen, 2)
	assert.Equal(t, "jo@example.com", executor.seen[1]["email"])
	assert.Equal(t, "t-1", executor.seen[1]["task_id"])

	// Later writes shadow earlier keys in the final context
	assert.Equal(t, "from-second", contextData["shared"])
	assert.Equal(t, "t-1", contextData["task_id"])
}

func TestEngine_BudgetExpiryAbortsRun(t *testing.T) {
	executor := &stubExecutor{
		results: map[string]map[string]interface{}{"first": {"a": 1}},
	}
	engine := NewEngine(executor)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	trace, err := engine.Run(ctx, uuid.New(), []Action{{Type: "first"}, {Type: "second"}}, map[string]interface{}{})

	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Empty(t, trace)
	assert.Empty(t, executor.seen)
}

func TestEngine_NoActions(t *testing.T) {
	engine := NewEngine(&stubExecutor{})
	trace, err := engine.Run(context.Background(), uuid.New(), nil, map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, trace)
}
