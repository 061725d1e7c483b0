package monitoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/zaiyan-alam/pegasus/pkg/cache"
)

// DBURLTTL bounds how long resolved stampede URLs stay cached.
const DBURLTTL = 10 * time.Minute

// RootWorkflowGetter fetches a single root workflow record. Implemented
// by queries.MasterWorkflowQueries.
type RootWorkflowGetter interface {
	RootWorkflow(ctx context.Context, username, mWfID string) (*RootWorkflow, error)
}

// StampedeResolver maps a workflow identifier onto the URL of its
// stampede database. Resolutions are cached under md5(masterDBURL).suffix
// keys so separate master databases never share entries, and each record
// is stored once per identifier (numeric wf_id and wf_uuid).
type StampedeResolver struct {
	q      RootWorkflowGetter
	cache  cache.Cache
	prefix string
	ttl    time.Duration
}

// NewStampedeResolver creates a resolver backed by q and c. masterDBURL
// identifies the master database the resolver reads from and is only
// used to derive cache keys. A non-positive ttl falls back to DBURLTTL.
func NewStampedeResolver(q RootWorkflowGetter, c cache.Cache, masterDBURL string, ttl time.Duration) *StampedeResolver {
	if ttl <= 0 {
		ttl = DBURLTTL
	}
	sum := md5.Sum([]byte(masterDBURL))
	return &StampedeResolver{q: q, cache: c, prefix: hex.EncodeToString(sum[:]), ttl: ttl}
}

// DBURL resolves the stampede database URL for mWfID. Cache failures
// fall back to the master database; caching the result is best effort.
func (r *StampedeResolver) DBURL(ctx context.Context, mWfID string) (string, error) {
	if data, hit, err := r.cache.Get(ctx, r.key(mWfID)); err == nil && hit {
		return string(data), nil
	}

	wf, err := r.q.RootWorkflow(ctx, "", mWfID)
	if err != nil {
		return "", err
	}

	url := []byte(wf.DBURL)
	_ = r.cache.Set(ctx, r.key(strconv.FormatInt(wf.WfID, 10)), url, r.ttl)
	_ = r.cache.Set(ctx, r.key(wf.WfUUID), url, r.ttl)
	return wf.DBURL, nil
}

func (r *StampedeResolver) key(suffix string) string {
	return fmt.Sprintf("%s.%s", r.prefix, suffix)
}
