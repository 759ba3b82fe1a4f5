package lattice

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// LoadState describes where an asset is in its load lifecycle. The scene
// polls it once per pass; nothing in the engine awaits a load.
type LoadState uint8

const (
	// LoadStateLoading means the asset is not resolved yet. Spawns that
	// depend on it are retried on a later pass.
	LoadStateLoading LoadState = iota

	// LoadStateLoaded means the asset and its dependency closure resolved.
	LoadStateLoaded

	// LoadStateFailed means the load failed permanently. Roots depending on
	// it are marked failed and never retried.
	LoadStateFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadStateLoading:
		return "Loading"
	case LoadStateLoaded:
		return "Loaded"
	case LoadStateFailed:
		return "Failed"
	}
	return "Unknown"
}

// Assets is the boundary to the host's asset system. The engine never parses
// raw bytes; it dereferences paths to already-loaded values and checks their
// load state.
type Assets interface {
	// Layout returns the parsed layout for path, if loaded.
	Layout(path string) (*Layout, LoadState)

	// Image returns the image for path, if loaded.
	Image(path string) (*ebiten.Image, LoadState)

	// Font returns the font for path, if loaded.
	Font(path string) (Font, LoadState)
}

// AssetLibrary is an in-memory Assets implementation. Hosts (and tests)
// register parsed assets explicitly; anything not registered reports
// LoadStateLoading until MarkFailed is called for it.
type AssetLibrary struct {
	layouts map[string]*Layout
	images  map[string]*ebiten.Image
	fonts   map[string]Font
	failed  map[string]struct{}
}

// NewAssetLibrary creates an empty library.
func NewAssetLibrary() *AssetLibrary {
	return &AssetLibrary{
		layouts: make(map[string]*Layout),
		images:  make(map[string]*ebiten.Image),
		fonts:   make(map[string]Font),
		failed:  make(map[string]struct{}),
	}
}

// AddLayout registers a parsed layout under path.
func (a *AssetLibrary) AddLayout(path string, layout *Layout) {
	a.layouts[path] = layout
}

// AddImage registers an image under path.
func (a *AssetLibrary) AddImage(path string, img *ebiten.Image) {
	a.images[path] = img
}

// AddFont registers a font under path.
func (a *AssetLibrary) AddFont(path string, font Font) {
	a.fonts[path] = font
}

// MarkFailed records a permanent load failure for path.
func (a *AssetLibrary) MarkFailed(path string) {
	a.failed[path] = struct{}{}
}

func (a *AssetLibrary) state(path string, ok bool) LoadState {
	if ok {
		return LoadStateLoaded
	}
	if _, failed := a.failed[path]; failed {
		return LoadStateFailed
	}
	return LoadStateLoading
}

// Layout implements Assets.
func (a *AssetLibrary) Layout(path string) (*Layout, LoadState) {
	l, ok := a.layouts[path]
	return l, a.state(path, ok)
}

// Image implements Assets.
func (a *AssetLibrary) Image(path string) (*ebiten.Image, LoadState) {
	img, ok := a.images[path]
	return img, a.state(path, ok)
}

// Font implements Assets.
func (a *AssetLibrary) Font(path string) (Font, LoadState) {
	f, ok := a.fonts[path]
	return f, a.state(path, ok)
}

// LoadContext is the restricted view of the asset system handed to
// DependencyInitializer hooks during asset loading. It records every
// requested path so the loader can include them in the layout's dependency
// closure.
type LoadContext struct {
	assets    Assets
	requested []string
}

// NewLoadContext wraps assets for use during a single layout load.
func NewLoadContext(assets Assets) *LoadContext {
	return &LoadContext{assets: assets}
}

// Load requests the asset at path and records it as a dependency. The
// returned state reflects the current poll only.
func (c *LoadContext) Load(path string) LoadState {
	c.requested = append(c.requested, path)
	if c.assets == nil {
		return LoadStateLoading
	}
	_, state := c.assets.Layout(path)
	if state == LoadStateLoaded {
		return state
	}
	if _, s := c.assets.Image(path); s == LoadStateLoaded {
		return s
	}
	if _, s := c.assets.Font(path); s == LoadStateLoaded {
		return s
	}
	return state
}

// Requested returns every path requested through this context, in order.
func (c *LoadContext) Requested() []string {
	return c.requested
}
