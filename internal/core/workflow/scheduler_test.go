package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddAndRemove(t *testing.T) {
	scheduler := NewScheduler()

	require.NoError(t, scheduler.AddWorkflow("wf-1", "0 18 * * *", func() {}))
	require.NoError(t, scheduler.AddWorkflow("wf-2", "*/5 * * * *", func() {}))
	assert.ElementsMatch(t, []string{"wf-1", "wf-2"}, scheduler.ScheduledWorkflows())

	scheduler.RemoveWorkflow("wf-1")
	assert.Equal(t, []string{"wf-2"}, scheduler.ScheduledWorkflows())

	// Removing an unknown workflow is a no-op
	scheduler.RemoveWorkflow("wf-404")
	assert.Len(t, scheduler.ScheduledWorkflows(), 1)
}

func TestScheduler_ReAddReplacesEntry(t *testing.T) {
	scheduler := NewScheduler()

	require.NoError(t, scheduler.AddWorkflow("wf-1", "0 18 * * *", func() {}))
	require.NoError(t, scheduler.AddWorkflow("wf-1", "0 9 * * *", func() {}))
	assert.Equal(t, []string{"wf-1"}, scheduler.ScheduledWorkflows())
}

func TestScheduler_RejectsInvalidExpression(t *testing.T) {
	scheduler := NewScheduler()

	err := scheduler.AddWorkflow("wf-1", "every day at noon", func() {})
	assert.Error(t, err)
	assert.Empty(t, scheduler.ScheduledWorkflows())
}
