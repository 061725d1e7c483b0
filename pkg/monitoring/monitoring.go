// Package monitoring defines the master-database records served by the
// workflow monitoring API.
//
// The master database keeps one row per planned root workflow together
// with a pointer to the workflow's own stampede database. The HTTP layer
// serves these records; the stampede databases themselves are queried by
// external tooling through the resolved URL.
package monitoring

import "errors"

// Sentinel errors for monitoring queries.
var (
	// ErrNotFound is returned when a requested workflow does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOrder is returned when an order clause names an unknown
	// field or direction.
	ErrInvalidOrder = errors.New("invalid order clause")

	// ErrInvalidRange is returned for negative paging offsets or limits.
	ErrInvalidRange = errors.New("invalid paging range")
)

// WorkflowState is the most recent state event recorded for a workflow.
type WorkflowState struct {
	State        string  `json:"state"`
	Status       int     `json:"status"`
	RestartCount int     `json:"restart_count"`
	Timestamp    float64 `json:"timestamp"`
}

// RootWorkflow is one row of the master workflow table joined with its
// most recent state event. DBURL points at the workflow's stampede
// database and is never serialized to API clients.
type RootWorkflow struct {
	WfID             int64          `json:"wf_id"`
	WfUUID           string         `json:"wf_uuid"`
	SubmitHostname   string         `json:"submit_hostname"`
	SubmitDir        string         `json:"submit_dir"`
	PlannerArguments string         `json:"planner_arguments"`
	PlannerVersion   string         `json:"planner_version"`
	User             string         `json:"user"`
	GridDN           string         `json:"grid_dn"`
	DAXLabel         string         `json:"dax_label"`
	DAXVersion       string         `json:"dax_version"`
	DAXFile          string         `json:"dax_file"`
	DAGFileName      string         `json:"dag_file_name"`
	Timestamp        float64        `json:"timestamp"`
	State            *WorkflowState `json:"workflow_state,omitempty"`

	DBURL string `json:"-"`
}

// QueryOptions mirror the query arguments accepted by the monitoring
// endpoints.
type QueryOptions struct {
	// StartIndex is the zero-based offset of the first record returned.
	StartIndex int

	// MaxResults caps the number of returned records. Zero means no cap.
	MaxResults int

	// Order is a comma-separated sort clause such as "timestamp desc".
	// Fields are checked against the resource's allow-list.
	Order string

	// Recent restricts state listings to the most recent event per
	// workflow. Root workflow records always embed only that event.
	Recent bool

	// PrettyPrint requests indented JSON responses.
	PrettyPrint bool
}
