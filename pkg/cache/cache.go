// Package cache stores computed layouts and rendered artifacts between runs.
//
// Entries are opaque byte slices addressed by string keys built with a
// [Keyer]. The CLI uses [FileCache] under the user cache directory;
// [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys for the values the pipeline stores.
type Keyer interface {
	// LayoutKey addresses a serialized layout computed from a corpus.
	LayoutKey(corpusHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered artifact derived from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every option that changes a computed layout.
type LayoutKeyOpts struct {
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Seed          uint64    `json:"seed"`
	Iterations    int       `json:"iterations"`
	MinWeight     float64   `json:"min_weight"`
	MaxWeight     float64   `json:"max_weight"`
	ThemeSizeMin  float64   `json:"theme_size_min"`
	ThemeSizeMax  float64   `json:"theme_size_max"`
	Timeline      []float64 `json:"timeline"`
	SkipMissing   bool      `json:"skip_missing"`
	TagBoth       bool      `json:"tag_both"`
	ImagePath     string    `json:"image_path"`
	Characters    []string  `json:"characters"`
	Conversations []string  `json:"conversations"`
	Themes        []string  `json:"themes"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format       string `json:"format"`
	Detailed     bool   `json:"detailed"`
	OnlySelected bool   `json:"only_selected"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key builder.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(corpusHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", corpusHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
