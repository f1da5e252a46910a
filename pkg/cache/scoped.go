package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several directories can
// share one Redis instance without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "team-a:")
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

// SourceKey generates a prefixed key for fetched sources.
func (k *ScopedKeyer) SourceKey(location string) string {
	return k.prefix + k.inner.SourceKey(location)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(recordsHash, opts)
}
