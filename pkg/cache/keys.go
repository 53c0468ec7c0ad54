package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes the SHA-256 hash of data as a 64-character hex string.
// Artifact keys are built from content hashes so identical trees share
// cache entries regardless of where they were loaded from.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hashKey builds "prefix:hash(parts...)". Full SHA-256 keeps collisions out
// of the picture even across millions of entries.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// ArtifactKeyOpts distinguishes artifacts rendered from the same tree.
type ArtifactKeyOpts struct {
	// Format is the output format (dot, svg, png).
	Format string
	// Detailed and Severed mirror the render options baked into the output.
	Detailed bool
	Severed  bool
}

// Keyer derives cache keys for the things grove caches. Implementations
// must be deterministic: the same inputs always give the same key.
type Keyer interface {
	// ArtifactKey keys a rendered artifact by the hash of its source tree
	// and the render options.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string

	// ResponseKey keys an HTTP inspector response by route and query.
	ResponseKey(route, query string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ArtifactKey returns "artifact:<hash of tree hash + opts>".
func (k *DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

// ResponseKey returns "response:<route>:<query>".
func (k *DefaultKeyer) ResponseKey(route, query string) string {
	return fmt.Sprintf("response:%s:%s", route, query)
}

// ScopedKeyer prefixes every key produced by an inner keyer, isolating
// namespaces that share one backend (per scenario, per user, per test).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with a prefix. A nil inner falls back to the
// default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}

// ResponseKey returns the prefixed response key.
func (k *ScopedKeyer) ResponseKey(route, query string) string {
	return k.prefix + k.inner.ResponseKey(route, query)
}
