package cache

// ScopedKeyer wraps a Keyer with a prefix so different corpora get
// separate cache namespaces.
//
// Example usage:
//
//	// Keys scoped to one stored corpus
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "corpus:"+corpusID+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for a graph result.
func (k *ScopedKeyer) GraphKey(payloadHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(payloadHash, opts)
}

// FilterKey generates a prefixed key for filter metadata.
func (k *ScopedKeyer) FilterKey(payloadHash string) string {
	return k.prefix + k.inner.FilterKey(payloadHash)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
