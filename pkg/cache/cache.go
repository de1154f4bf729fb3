// Package cache provides result caching for computed statistics,
// layouts, and community detections.
//
// The same algorithm over the same graph always produces the same
// answer (seeded layouts included), so results are safe to memoize
// indefinitely. Keys derive from the canonical graph hash plus the
// compute function name and its normalized options: two submissions
// describing the same graph hit the same entry regardless of node
// and edge entry order.
//
// Backends:
//   - memory: bounded in-process LRU for single-instance servers
//   - file: directory-backed cache for CLI runs
//   - redis: shared cache for multi-instance deployments
//   - mongo: durable cache with server-side TTL expiry
//   - null: caching disabled
//
// All backends store opaque bytes; callers serialize results
// themselves so the cache stays ignorant of result shapes.
package cache

import (
	"context"
	"slices"
	"time"
)

// DefaultTTL is the default lifetime for cached results.
const DefaultTTL = 24 * time.Hour

// Cache is the interface all storage backends implement. Get reports
// a miss as (nil, false, nil); errors are reserved for backend
// failures so callers can treat the cache as best-effort.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without
	// expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from computation identities.
type Keyer interface {
	// ResultKey generates a key for a computed result. graphHash is
	// the canonical graph digest; function is the registry name
	// ("stats/degree").
	ResultKey(graphHash, function string, opts ResultKeyOpts) string
}

// ResultKeyOpts carries the parts of a request that change its
// answer.
type ResultKeyOpts struct {
	// Nodes is the requested node subset. nil means every node and
	// keys differently from an explicit empty subset.
	Nodes []string

	// Options are the normalized algorithm options.
	Options map[string]any
}

// DefaultKeyer hashes the full computation identity into keys of the
// form "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ResultKey generates a key for a computed result. The node subset is
// sorted first: per-node results come back as id-keyed maps, so two
// requests naming the same nodes in different order share an entry.
func (DefaultKeyer) ResultKey(graphHash, function string, opts ResultKeyOpts) string {
	var nodes []string
	if opts.Nodes != nil {
		nodes = slices.Clone(opts.Nodes)
		slices.Sort(nodes)
	}
	return hashKey("result", graphHash, function, nodes, opts.Options)
}
