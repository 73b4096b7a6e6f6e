package cache

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey addresses an artifact derived from a map, such as "csv",
	// "dot", "svg" or "png".
	ArtifactKey(inputHash, format string) string
}

// DefaultKeyer hashes key components under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(inputHash, format string) string {
	return hashKey("artifact:"+format, inputHash)
}

// ScopedKeyer wraps a Keyer with a prefix so that several applications can
// share one backend without seeing each other's entries.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(inputHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, format)
}
