// pkg/registry/schema.go
package registry

import "campus-gig-workers/internal/common/validation"

// ActivityRegistry describes every task type the worker manager serves, so
// process modelers know the variables each expects and the BPMN errors it can throw.
type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	TaskType    string                `json:"taskType"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	InputSchema validation.JSONSchema `json:"inputSchema"`
	// ErrorCodes are the BPMN error codes the worker throws; infrastructure
	// failures are retried and never thrown.
	ErrorCodes []string `json:"errorCodes"`
}
