package queries

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/zaiyan-alam/pegasus/pkg/monitoring"

	_ "github.com/go-sql-driver/mysql"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name    string
		order   string
		want    string
		wantErr error
	}{
		{name: "Default", order: "", want: "w.wf_id ASC"},
		{name: "Blank", order: "   ", want: "w.wf_id ASC"},
		{name: "Field", order: "timestamp", want: "w.timestamp ASC"},
		{name: "Descending", order: "timestamp desc", want: "w.timestamp DESC"},
		{name: "MixedCase", order: "Timestamp DESC", want: "w.timestamp DESC"},
		{name: "MultiTerm", order: "dax_label asc, timestamp desc", want: "w.dax_label ASC, w.timestamp DESC"},
		{name: "UnknownField", order: "db_url", wantErr: monitoring.ErrInvalidOrder},
		{name: "BadDirection", order: "timestamp sideways", wantErr: monitoring.ErrInvalidOrder},
		{name: "TooManyWords", order: "timestamp desc now", wantErr: monitoring.ErrInvalidOrder},
		{name: "EmptyTerm", order: "timestamp,,wf_id", wantErr: monitoring.ErrInvalidOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOrder(tt.order)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseOrder(%q) error = %v, want %v", tt.order, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrder(%q): %v", tt.order, err)
			}
			if got != tt.want {
				t.Errorf("parseOrder(%q) = %q, want %q", tt.order, got, tt.want)
			}
		})
	}
}

func TestWorkflowIDColumn(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{name: "Numeric", id: "42", want: "w.wf_id"},
		{name: "UUID", id: "1b305c5f-3a1f-4bbf-90ab-283d5d7f2e56", want: "w.wf_uuid"},
		{name: "Garbage", id: "not-an-id", wantErr: monitoring.ErrNotFound},
		{name: "Empty", id: "", wantErr: monitoring.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workflowIDColumn(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("workflowIDColumn(%q) error = %v, want %v", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("workflowIDColumn(%q): %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("workflowIDColumn(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestRootWorkflowsRejectsBadOptions(t *testing.T) {
	// Option validation runs before any database access, so a zero
	// handle is fine here.
	q := &MasterWorkflowQueries{}
	ctx := context.Background()

	if _, _, _, err := q.RootWorkflows(ctx, "", monitoring.QueryOptions{StartIndex: -1}); !errors.Is(err, monitoring.ErrInvalidRange) {
		t.Errorf("negative start index error = %v, want ErrInvalidRange", err)
	}
	if _, _, _, err := q.RootWorkflows(ctx, "", monitoring.QueryOptions{MaxResults: -5}); !errors.Is(err, monitoring.ErrInvalidRange) {
		t.Errorf("negative max results error = %v, want ErrInvalidRange", err)
	}
	if _, _, _, err := q.RootWorkflows(ctx, "", monitoring.QueryOptions{Order: "db_url"}); !errors.Is(err, monitoring.ErrInvalidOrder) {
		t.Errorf("disallowed order error = %v, want ErrInvalidOrder", err)
	}
}

func TestMasterWorkflowQueries(t *testing.T) {
	testDSN := os.Getenv("PEGASUS_MYSQL_TEST_DSN")
	if testDSN == "" {
		t.Skip("PEGASUS_MYSQL_TEST_DSN not set")
	}

	q, err := New(WithDSN(testDSN))
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	ctx := context.Background()
	records, total, filtered, err := q.RootWorkflows(ctx, "", monitoring.QueryOptions{})
	if err != nil {
		t.Fatalf("RootWorkflows: %v", err)
	}
	if filtered != total {
		t.Errorf("filtered = %d, want %d (no search filter)", filtered, total)
	}
	if len(records) == 0 {
		t.Skip("master database has no workflows")
	}

	// The same record must resolve by wf_id and by wf_uuid.
	first := records[0]
	byID, err := q.RootWorkflow(ctx, "", first.WfUUID)
	if err != nil {
		t.Fatalf("RootWorkflow by uuid: %v", err)
	}
	if byID.WfID != first.WfID {
		t.Errorf("wf_id = %d, want %d", byID.WfID, first.WfID)
	}
}
