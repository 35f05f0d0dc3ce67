package cache

// ScopedKeyer wraps a Keyer with a prefix so several corpora or layout
// variants can share one cache directory without colliding.
//
// Example usage:
//
//	// Keys for one production's corpus
//	k := NewScopedKeyer(NewDefaultKeyer(), "hamilton:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(corpusHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(corpusHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
