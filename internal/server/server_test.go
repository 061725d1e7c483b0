package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/zaiyan-alam/pegasus/pkg/cache"
	"github.com/zaiyan-alam/pegasus/pkg/monitoring"
)

// fakeQueries serves records from memory with the same contract as the
// real master-database layer.
type fakeQueries struct {
	records []monitoring.RootWorkflow
	calls   int
}

func (f *fakeQueries) RootWorkflow(ctx context.Context, username, mWfID string) (*monitoring.RootWorkflow, error) {
	f.calls++
	for i := range f.records {
		wf := &f.records[i]
		if username != "" && wf.User != username {
			continue
		}
		if strconv.FormatInt(wf.WfID, 10) == mWfID || wf.WfUUID == mWfID {
			return wf, nil
		}
	}
	return nil, fmt.Errorf("workflow %q: %w", mWfID, monitoring.ErrNotFound)
}

func (f *fakeQueries) RootWorkflows(ctx context.Context, username string, opts monitoring.QueryOptions) ([]monitoring.RootWorkflow, int, int, error) {
	if opts.StartIndex < 0 || opts.MaxResults < 0 {
		return nil, 0, 0, monitoring.ErrInvalidRange
	}
	var out []monitoring.RootWorkflow
	for _, wf := range f.records {
		if username == "" || wf.User == username {
			out = append(out, wf)
		}
	}
	total := len(out)
	if opts.StartIndex < len(out) {
		out = out[opts.StartIndex:]
	} else {
		out = nil
	}
	if opts.MaxResults > 0 && opts.MaxResults < len(out) {
		out = out[:opts.MaxResults]
	}
	return out, total, total, nil
}

func testRecords() []monitoring.RootWorkflow {
	return []monitoring.RootWorkflow{
		{
			WfID:     1,
			WfUUID:   "5b2e5b38-8c55-4b45-96c8-1f2b9cb21e05",
			User:     "alum",
			DAXLabel: "diamond",
			DBURL:    "sqlite:///scratch/run0001/monitord.db",
			State:    &monitoring.WorkflowState{State: "WORKFLOW_TERMINATED", Status: 0},
		},
		{
			WfID:     2,
			WfUUID:   "b4ae48e1-4cd5-4b45-96c8-9ef2b2b63628",
			User:     "alum",
			DAXLabel: "montage",
			DBURL:    "sqlite:///scratch/run0002/monitord.db",
		},
		{
			WfID:   3,
			WfUUID: "0f7d2b6a-93f7-4a29-8524-b6b437bd1bd7",
			User:   "vahi",
			DBURL:  "sqlite:///scratch/run0003/monitord.db",
		},
	}
}

func newTestServer(t *testing.T, q Queries) *Server {
	t.Helper()
	c, err := cache.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	getter, ok := q.(monitoring.RootWorkflowGetter)
	if !ok {
		t.Fatal("queries must implement RootWorkflowGetter")
	}
	resolver := monitoring.NewStampedeResolver(getter, c, "sqlite:///master.db", 0)
	return New(q, resolver, log.New(io.Discard), false)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestGetRootWorkflows(t *testing.T) {
	s := newTestServer(t, &fakeQueries{records: testRecords()})

	w := get(t, s, "/monitoring/user/alum/root")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Records []monitoring.RootWorkflow `json:"records"`
		Meta    struct {
			RecordsTotal    int `json:"records_total"`
			RecordsFiltered int `json:"records_filtered"`
		} `json:"_meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Records) != 2 {
		t.Errorf("records = %d, want 2", len(body.Records))
	}
	if body.Meta.RecordsTotal != 2 || body.Meta.RecordsFiltered != 2 {
		t.Errorf("meta = %+v, want totals of 2", body.Meta)
	}
	if strings.Contains(w.Body.String(), "db_url") {
		t.Error("response must not leak the stampede db_url")
	}
}

func TestGetRootWorkflowsPaging(t *testing.T) {
	s := newTestServer(t, &fakeQueries{records: testRecords()})

	w := get(t, s, "/monitoring/user/alum/root?start-index=1&max-results=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Records []monitoring.RootWorkflow `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Records) != 1 || body.Records[0].WfID != 2 {
		t.Errorf("records = %+v, want the second workflow only", body.Records)
	}
}

func TestGetRootWorkflowsNoContent(t *testing.T) {
	s := newTestServer(t, &fakeQueries{})

	w := get(t, s, "/monitoring/user/alum/root")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestGetRootWorkflowsBadArgs(t *testing.T) {
	s := newTestServer(t, &fakeQueries{records: testRecords()})

	for _, path := range []string{
		"/monitoring/user/alum/root?start-index=two",
		"/monitoring/user/alum/root?max-results=1.5",
	} {
		w := get(t, s, path)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusBadRequest)
		}
		if !strings.Contains(w.Body.String(), "not a valid int") {
			t.Errorf("GET %s body = %q, want an int error message", path, w.Body.String())
		}
	}
}

func TestGetRootWorkflow(t *testing.T) {
	s := newTestServer(t, &fakeQueries{records: testRecords()})

	w := get(t, s, "/monitoring/user/alum/root/2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var wf monitoring.RootWorkflow
	if err := json.Unmarshal(w.Body.Bytes(), &wf); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if wf.WfID != 2 || wf.DAXLabel != "montage" {
		t.Errorf("record = %+v, want wf_id 2", wf)
	}

	// The same record resolves by uuid
	w = get(t, s, "/monitoring/user/alum/root/b4ae48e1-4cd5-4b45-96c8-9ef2b2b63628")
	if w.Code != http.StatusOK {
		t.Errorf("status by uuid = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestGetRootWorkflowNotFound(t *testing.T) {
	s := newTestServer(t, &fakeQueries{records: testRecords()})

	// Unknown id, and an id belonging to another user
	for _, path := range []string{
		"/monitoring/user/alum/root/99",
		"/monitoring/user/alum/root/3",
	} {
		w := get(t, s, path)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
}

func TestGetRootWorkflowPretty(t *testing.T) {
	s := newTestServer(t, &fakeQueries{records: testRecords()})

	terse := get(t, s, "/monitoring/user/alum/root/1")
	pretty := get(t, s, "/monitoring/user/alum/root/1?pretty-print=true")
	if !strings.Contains(pretty.Body.String(), "\n    ") {
		t.Error("pretty-print=true should indent the response")
	}
	if strings.Contains(terse.Body.String(), "\n") {
		t.Error("default response should be compact")
	}
}

func TestStampedeBoundary(t *testing.T) {
	q := &fakeQueries{records: testRecords()}
	s := newTestServer(t, q)

	w := get(t, s, "/monitoring/user/alum/root/1/workflow")
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotImplemented)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["stampede_db_url"] != "sqlite:///scratch/run0001/monitord.db" {
		t.Errorf("stampede_db_url = %q", body["stampede_db_url"])
	}

	// Second request is served from the cache
	lookups := q.calls
	if w := get(t, s, "/monitoring/user/alum/root/1/workflow"); w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotImplemented)
	}
	if q.calls != lookups {
		t.Errorf("lookups = %d, want %d (cache hit)", q.calls, lookups)
	}

	// Unknown workflows 404 before reaching the boundary
	if w := get(t, s, "/monitoring/user/alum/root/99/workflow"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
