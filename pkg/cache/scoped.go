package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Deployments sharing one Redis or Mongo instance use it to keep
// their entries apart.
//
// Example usage:
//
//	// Per-environment keys on a shared backend
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// ResultKey generates a prefixed key for a computed result.
func (k *ScopedKeyer) ResultKey(graphHash, function string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(graphHash, function, opts)
}
