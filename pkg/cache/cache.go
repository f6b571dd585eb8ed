// Package cache provides pluggable result caching for graph builds.
//
// A built and laid-out graph is a pure function of its raw payload, the
// layout mode, and the active filters, so results are cached under a key
// derived from those three inputs. Backends exist for local files (CLI),
// Redis (server deployments), and a null implementation for tests and
// cache-disabled runs.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Graph results are cheap to rebuild, so
// entries expire rather than being invalidated.
const (
	// GraphTTL applies to built and laid-out graph results.
	GraphTTL = 15 * time.Minute

	// FilterTTL applies to derived filter metadata (languages, categories).
	FilterTTL = 5 * time.Minute
)

// Cache is the backend interface. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the inputs, besides the payload itself, that change a
// graph result.
type GraphKeyOpts struct {
	Mode       string
	Categories []string
	Language   string
	Limit      int
}

// Keyer generates cache keys. Implementations must be deterministic: the
// same inputs always yield the same key.
type Keyer interface {
	// GraphKey keys a built graph result by payload hash and build options.
	GraphKey(payloadHash string, opts GraphKeyOpts) string

	// FilterKey keys derived filter metadata by payload hash.
	FilterKey(payloadHash string) string
}

// DefaultKeyer hashes all inputs with SHA-256 under a fixed prefix per
// entry kind.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey implements Keyer.
func (k *DefaultKeyer) GraphKey(payloadHash string, opts GraphKeyOpts) string {
	return hashKey("graph", payloadHash, opts.Mode, opts.Categories, opts.Language, opts.Limit)
}

// FilterKey implements Keyer.
func (k *DefaultKeyer) FilterKey(payloadHash string) string {
	return hashKey("filters", payloadHash)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
