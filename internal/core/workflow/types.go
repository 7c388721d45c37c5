package workflow

// TriggerConfig represents the configuration for a workflow trigger
type TriggerConfig struct {
	AuthMode string `json:"auth_mode,omitempty"` // For webhook triggers: "none", "api_key", "basic"
	Secret   string `json:"secret,omitempty"`    // Shared secret, used when auth_mode is not "none"
	Schedule string `json:"schedule,omitempty"`  // For schedule triggers: cron expression "0 18 * * *"
}

// Condition represents a single condition to evaluate
type Condition struct {
	Field    string      `json:"field"`    // Field to check in the execution context (e.g., "total_amount")
	Operator string      `json:"operator"` // "equals", "not_equals", "greater_than", "less_than", "contains"
	Value    interface{} `json:"value"`    // Value to compare against
}

// Action represents a single step in a workflow's action list
type Action struct {
	Type   string                 `json:"type"`   // "send_email", "create_task", "update_record", "api_request", "conditional_logic", "delay"
	Params map[string]interface{} `json:"params"` // Action-specific parameters
}

// StepResult is the outcome of one action within an execution's trace.
// Exactly one of Result and Error is set.
type StepResult struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// CreateWorkflowRequest represents the request body for creating a workflow
type CreateWorkflowRequest struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	TriggerType   string        `json:"trigger_type"` // "webhook", "schedule", "email"
	TriggerConfig TriggerConfig `json:"trigger_config"`
	Actions       []Action      `json:"actions"`
	IsActive      *bool         `json:"is_active"` // Pointer to allow explicit false
}
