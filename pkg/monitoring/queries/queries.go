// Package queries implements master-database access for the monitoring
// API using database/sql.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/zaiyan-alam/pegasus/pkg/monitoring"
)

// MasterWorkflowQueries reads root workflow records from the master
// database.
type MasterWorkflowQueries struct {
	db *sql.DB
}

type config struct {
	driver string
	dsn    string
	db     *sql.DB
}

// Option configures MasterWorkflowQueries.
type Option func(*config)

// WithDSN sets the master database data source name.
func WithDSN(dsn string) Option {
	return func(c *config) {
		c.dsn = dsn
	}
}

// WithDriver sets a custom database driver. The default is "mysql" and
// is ignored when WithDB is used.
func WithDriver(driver string) Option {
	return func(c *config) {
		c.driver = driver
	}
}

// WithDB uses an existing database handle. Takes precedence over
// WithDSN and WithDriver.
func WithDB(db *sql.DB) Option {
	return func(c *config) {
		c.db = db
	}
}

// New opens the master database and verifies the connection.
func New(opts ...Option) (*MasterWorkflowQueries, error) {
	cfg := &config{driver: "mysql"}
	for _, opt := range opts {
		opt(cfg)
	}
	var err error
	if cfg.db == nil {
		cfg.db, err = sql.Open(cfg.driver, cfg.dsn)
		if err != nil {
			return nil, err
		}
	}
	if err = cfg.db.Ping(); err != nil {
		return nil, err
	}
	return &MasterWorkflowQueries{db: cfg.db}, nil
}

// Close releases the underlying database handle.
func (q *MasterWorkflowQueries) Close() error {
	return q.db.Close()
}

// selectRootWorkflow joins each master workflow with its most recent
// state event.
const selectRootWorkflow = `
SELECT w.wf_id, w.wf_uuid, w.submit_hostname, w.submit_dir,
       w.planner_arguments, w.planner_version, w.user, w.grid_dn,
       w.dax_label, w.dax_version, w.dax_file, w.dag_file_name,
       w.db_url, w.timestamp,
       ws.state, ws.status, ws.restart_count, ws.timestamp
  FROM master_workflow w
  LEFT JOIN (SELECT wf_id, MAX(timestamp) AS max_time
               FROM master_workflowstate
              GROUP BY wf_id) latest
         ON latest.wf_id = w.wf_id
  LEFT JOIN master_workflowstate ws
         ON ws.wf_id = latest.wf_id AND ws.timestamp = latest.max_time`

// RootWorkflow returns the root workflow identified by mWfID, which may
// be a numeric wf_id or a wf_uuid. A non-empty username restricts the
// lookup to workflows planned by that user.
func (q *MasterWorkflowQueries) RootWorkflow(ctx context.Context, username, mWfID string) (*monitoring.RootWorkflow, error) {
	col, err := workflowIDColumn(mWfID)
	if err != nil {
		return nil, err
	}

	where := []string{col + " = ?"}
	args := []any{mWfID}
	if username != "" {
		where = append(where, "w.user = ?")
		args = append(args, username)
	}

	row := q.db.QueryRowContext(ctx, selectRootWorkflow+" WHERE "+strings.Join(where, " AND "), args...)
	wf, err := scanRootWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workflow %q: %w", mWfID, monitoring.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return wf, nil
}

// RootWorkflows returns a page of root workflows for username together
// with the total and filtered record counts. An empty username lists
// workflows for all users.
func (q *MasterWorkflowQueries) RootWorkflows(ctx context.Context, username string, opts monitoring.QueryOptions) ([]monitoring.RootWorkflow, int, int, error) {
	if opts.StartIndex < 0 || opts.MaxResults < 0 {
		return nil, 0, 0, fmt.Errorf("start-index %d, max-results %d: %w",
			opts.StartIndex, opts.MaxResults, monitoring.ErrInvalidRange)
	}
	orderBy, err := parseOrder(opts.Order)
	if err != nil {
		return nil, 0, 0, err
	}

	var (
		where string
		args  []any
	)
	if username != "" {
		where = " WHERE w.user = ?"
		args = append(args, username)
	}

	var total int
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM master_workflow w"+where, args...).Scan(&total); err != nil {
		return nil, 0, 0, err
	}
	// No search filter is applied, so the filtered count equals the total.
	filtered := total
	if total == 0 {
		return nil, 0, 0, nil
	}

	query := selectRootWorkflow + where + " ORDER BY " + orderBy
	if opts.MaxResults > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.MaxResults, opts.StartIndex)
	} else if opts.StartIndex > 0 {
		// MySQL only honors OFFSET alongside a LIMIT clause.
		query += " LIMIT 18446744073709551615 OFFSET ?"
		args = append(args, opts.StartIndex)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var records []monitoring.RootWorkflow
	for rows.Next() {
		wf, err := scanRootWorkflow(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		records = append(records, *wf)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}
	return records, total, filtered, nil
}

// workflowIDColumn decides whether mWfID is a numeric wf_id or a
// wf_uuid. Identifiers that are neither cannot match any row.
func workflowIDColumn(mWfID string) (string, error) {
	if _, err := strconv.ParseInt(mWfID, 10, 64); err == nil {
		return "w.wf_id", nil
	}
	if _, err := uuid.Parse(mWfID); err == nil {
		return "w.wf_uuid", nil
	}
	return "", fmt.Errorf("workflow %q: %w", mWfID, monitoring.ErrNotFound)
}

func scanRootWorkflow(row interface{ Scan(dest ...any) error }) (*monitoring.RootWorkflow, error) {
	var (
		wf               monitoring.RootWorkflow
		submitHostname   sql.NullString
		submitDir        sql.NullString
		plannerArguments sql.NullString
		plannerVersion   sql.NullString
		user             sql.NullString
		gridDN           sql.NullString
		daxLabel         sql.NullString
		daxVersion       sql.NullString
		daxFile          sql.NullString
		dagFileName      sql.NullString
		dbURL            sql.NullString
		timestamp        sql.NullFloat64
		state            sql.NullString
		status           sql.NullInt64
		restartCount     sql.NullInt64
		stateTimestamp   sql.NullFloat64
	)
	if err := row.Scan(&wf.WfID, &wf.WfUUID, &submitHostname, &submitDir,
		&plannerArguments, &plannerVersion, &user, &gridDN,
		&daxLabel, &daxVersion, &daxFile, &dagFileName,
		&dbURL, &timestamp,
		&state, &status, &restartCount, &stateTimestamp); err != nil {
		return nil, err
	}

	wf.SubmitHostname = submitHostname.String
	wf.SubmitDir = submitDir.String
	wf.PlannerArguments = plannerArguments.String
	wf.PlannerVersion = plannerVersion.String
	wf.User = user.String
	wf.GridDN = gridDN.String
	wf.DAXLabel = daxLabel.String
	wf.DAXVersion = daxVersion.String
	wf.DAXFile = daxFile.String
	wf.DAGFileName = dagFileName.String
	wf.DBURL = dbURL.String
	wf.Timestamp = timestamp.Float64
	if state.Valid {
		wf.State = &monitoring.WorkflowState{
			State:        state.String,
			Status:       int(status.Int64),
			RestartCount: int(restartCount.Int64),
			Timestamp:    stateTimestamp.Float64,
		}
	}
	return &wf, nil
}

// orderColumns is the allow-list of sortable fields for the root
// workflow resource.
var orderColumns = map[string]string{
	"wf_id":             "w.wf_id",
	"wf_uuid":           "w.wf_uuid",
	"submit_hostname":   "w.submit_hostname",
	"submit_dir":        "w.submit_dir",
	"planner_arguments": "w.planner_arguments",
	"planner_version":   "w.planner_version",
	"user":              "w.user",
	"grid_dn":           "w.grid_dn",
	"dax_label":         "w.dax_label",
	"dax_version":       "w.dax_version",
	"dax_file":          "w.dax_file",
	"dag_file_name":     "w.dag_file_name",
	"timestamp":         "w.timestamp",
}

// parseOrder translates a comma-separated order clause into SQL. Each
// term is a field name optionally followed by "asc" or "desc". Fields
// are checked against orderColumns so caller input never reaches the
// query verbatim.
func parseOrder(order string) (string, error) {
	if strings.TrimSpace(order) == "" {
		return "w.wf_id ASC", nil
	}

	var clauses []string
	for _, term := range strings.Split(order, ",") {
		fields := strings.Fields(term)
		if len(fields) == 0 || len(fields) > 2 {
			return "", fmt.Errorf("%q: %w", term, monitoring.ErrInvalidOrder)
		}
		col, ok := orderColumns[strings.ToLower(fields[0])]
		if !ok {
			return "", fmt.Errorf("%q: %w", fields[0], monitoring.ErrInvalidOrder)
		}
		dir := "ASC"
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				dir = "DESC"
			default:
				return "", fmt.Errorf("%q: %w", fields[1], monitoring.ErrInvalidOrder)
			}
		}
		clauses = append(clauses, col+" "+dir)
	}
	return strings.Join(clauses, ", "), nil
}
