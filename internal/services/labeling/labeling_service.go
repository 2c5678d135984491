// Package labeling maps certifications to the compliance-mark artwork that
// must appear on a product's label. The mapping is a pluggable lookup keyed
// by slugified certification name so new marks can be added without
// touching callers.
package labeling

import (
	"sync"

	"github.com/gosimple/slug"
	"github.com/tamsys/backend/internal/apperrors"
)

// Artwork describes one compliance mark asset
type Artwork struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	AssetPath   string `json:"asset_path"`
	// MinHeightMM is the smallest legible print height for the mark
	MinHeightMM float64 `json:"min_height_mm"`
}

// Resolver resolves certification names to label artwork
type Resolver interface {
	Resolve(certificationName string) (*Artwork, error)
	List() []Artwork
}

// StaticResolver is an in-memory Resolver backed by a slug-keyed table
type StaticResolver struct {
	mu       sync.RWMutex
	artworks map[string]Artwork
}

// NewStaticResolver returns a resolver preloaded with the built-in marks
func NewStaticResolver() *StaticResolver {
	r := &StaticResolver{artworks: make(map[string]Artwork)}
	for _, a := range builtinArtworks {
		r.artworks[a.Key] = a
	}
	return r
}

// Register adds or replaces the artwork for a certification name
func (r *StaticResolver) Register(certificationName string, art Artwork) {
	key := slug.Make(certificationName)
	art.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()
	r.artworks[key] = art
}

// Resolve returns the artwork for a certification name
func (r *StaticResolver) Resolve(certificationName string) (*Artwork, error) {
	key := slug.Make(certificationName)

	r.mu.RLock()
	defer r.mu.RUnlock()
	art, ok := r.artworks[key]
	if !ok {
		return nil, apperrors.NotFound("no label artwork registered for certification %q", certificationName)
	}
	return &art, nil
}

// List returns all registered artworks
func (r *StaticResolver) List() []Artwork {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Artwork, 0, len(r.artworks))
	for _, a := range r.artworks {
		out = append(out, a)
	}
	return out
}

// builtinArtworks covers the common radio and safety marks
var builtinArtworks = []Artwork{
	{Key: slug.Make("FCC Part 15"), DisplayName: "FCC Mark", AssetPath: "artwork/fcc.svg", MinHeightMM: 3.0},
	{Key: slug.Make("CE RED"), DisplayName: "CE Mark", AssetPath: "artwork/ce.svg", MinHeightMM: 5.0},
	{Key: slug.Make("UKCA"), DisplayName: "UKCA Mark", AssetPath: "artwork/ukca.svg", MinHeightMM: 5.0},
	{Key: slug.Make("ISED RSS-247"), DisplayName: "ISED Mark", AssetPath: "artwork/ised.svg", MinHeightMM: 3.0},
	{Key: slug.Make("MIC Japan"), DisplayName: "Giteki Mark", AssetPath: "artwork/giteki.svg", MinHeightMM: 3.0},
	{Key: slug.Make("SRRC"), DisplayName: "SRRC ID", AssetPath: "artwork/srrc.svg", MinHeightMM: 3.0},
	{Key: slug.Make("KC Korea"), DisplayName: "KC Mark", AssetPath: "artwork/kc.svg", MinHeightMM: 5.0},
	{Key: slug.Make("RCM"), DisplayName: "RCM Mark", AssetPath: "artwork/rcm.svg", MinHeightMM: 3.0},
}
