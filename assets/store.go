// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package assets loads the bitmaps, border art, metrics and colors a
// compositor scene is built from.
//
// A Store reads a directory holding desc.json and the image files it names:
//
//	{
//	  "images":  {"CARD": {"type": "Frame", "image": "card.png", "margin": [4, 4, 4, 4]}},
//	  "metrics": {"TOOLBAR_HEIGHT": 17},
//	  "colors":  {"background": [32, 32, 48]},
//	  "use_smooth_resize": true
//	}
//
// Image entries are "Image", "Frame" (margin is [top, left, bottom, right])
// or "MultiStateFrame" (adds "states" and an optional "default"). PNG, BMP
// and WebP files are decoded.
//
// Every entry is decoded and validated by Load, so a scene that loads
// successfully never fails later on a bad asset. A Store is safe for
// concurrent use; Reload and Watch swap the whole catalog at once.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG decoder
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/compositor"
)

// Errors returned by Store.
var (
	// ErrNotLoaded is returned by accessors before a successful Load.
	ErrNotLoaded = errors.New("assets: not loaded")
	// ErrMissingKey is returned by Load when a required name is absent.
	ErrMissingKey = errors.New("assets: missing required key")
	// ErrBadDescriptor is returned by Load for malformed descriptors or assets.
	ErrBadDescriptor = errors.New("assets: bad descriptor")
	// ErrUnknownName is returned for a name the catalog does not hold.
	ErrUnknownName = errors.New("assets: unknown name")
	// ErrWrongKind is returned when an entry is requested as another kind.
	ErrWrongKind = errors.New("assets: wrong image kind")
	// ErrWatching is returned by Watch when the store is already watched.
	ErrWatching = errors.New("assets: already watching")
)

// DescriptorName is the default descriptor file name.
const DescriptorName = "desc.json"

// Requirements lists the names a scene cannot do without. Load fails with
// ErrMissingKey if any of them is absent from the descriptor.
type Requirements struct {
	Images  []string
	Metrics []string
	Colors  []string
}

// Option configures a Store.
type Option func(*Store)

// WithRequirements sets the names Load insists on.
func WithRequirements(r Requirements) Option {
	return func(s *Store) {
		s.req = r
	}
}

// WithDescriptorName reads name instead of desc.json.
func WithDescriptorName(name string) Option {
	return func(s *Store) {
		s.descName = name
	}
}

// WithDebounce sets how long Watch waits for file events to settle before
// reloading. The default is 100ms.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		s.debounce = max(d, 0)
	}
}

// Store is a catalog of named assets loaded from one directory.
type Store struct {
	dir      string
	descName string
	req      Requirements
	debounce time.Duration

	mu  sync.RWMutex
	cat *catalog

	wmu     sync.Mutex
	watcher *fsnotify.Watcher
}

// New returns an empty store for dir. Nothing is read until Load.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:      dir,
		descName: DescriptorName,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the asset directory.
func (s *Store) Dir() string { return s.dir }

// Load reads and validates the descriptor and every image it names. On
// failure the previous catalog, if any, stays in place.
func (s *Store) Load() error {
	cat, err := s.build()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()

	compositor.Logger().Info("assets: catalog loaded",
		"dir", s.dir, "images", len(cat.images), "metrics", len(cat.metrics), "colors", len(cat.colors))
	return nil
}

// Reload loads the catalog again. It fails with ErrNotLoaded if Load never
// succeeded. A failed reload keeps the catalog currently in use.
func (s *Store) Reload() error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	if err := s.Load(); err != nil {
		compositor.Logger().Warn("assets: reload failed, keeping previous catalog", "dir", s.dir, "err", err)
		return err
	}
	return nil
}

// Loaded reports whether a catalog is available.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat != nil
}

// Close stops a running Watch. It is safe to call more than once.
func (s *Store) Close() error {
	s.wmu.Lock()
	w := s.watcher
	s.watcher = nil
	s.wmu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}

// Image returns a copy of the decoded source of any image entry.
func (s *Store) Image(name string) (*compositor.Pixmap, error) {
	e, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	return e.pixmap.Clone(), nil
}

// Frame returns the Frame of a Frame entry. Frames are immutable and the
// same value is returned on every call.
func (s *Store) Frame(name string) (*compositor.Frame, error) {
	e, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	if e.kind != KindFrame {
		return nil, fmt.Errorf("%w: %q is %v, not Frame", ErrWrongKind, name, e.kind)
	}
	return e.frame, nil
}

// MultiStateFrame returns a new MultiStateFrame for a MultiStateFrame entry,
// set to the entry's default state. Each call returns an independent
// instance since state and size are per widget.
func (s *Store) MultiStateFrame(name string) (*compositor.MultiStateFrame, error) {
	e, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	if e.kind != KindMultiStateFrame {
		return nil, fmt.Errorf("%w: %q is %v, not MultiStateFrame", ErrWrongKind, name, e.kind)
	}
	return compositor.NewMultiStateFrame(e.pixmap, e.states, e.margin, e.def,
		compositor.WithFrameInterpolation(e.interp))
}

// Metric returns a named metric.
func (s *Store) Metric(name string) (float64, error) {
	cat, err := s.catalog()
	if err != nil {
		return 0, err
	}
	v, ok := cat.metrics[name]
	if !ok {
		return 0, fmt.Errorf("%w: metric %q", ErrUnknownName, name)
	}
	return v, nil
}

// Color returns a named color.
func (s *Store) Color(name string) (color.NRGBA, error) {
	cat, err := s.catalog()
	if err != nil {
		return color.NRGBA{}, err
	}
	c, ok := cat.colors[name]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrUnknownName, name)
	}
	return c, nil
}

// Interpolation returns InterpBilinear when the descriptor asks for smooth
// resizing and InterpNearest otherwise. Use it with
// compositor.WithInterpolation so members scale the same way frames do.
func (s *Store) Interpolation() (compositor.Interp, error) {
	cat, err := s.catalog()
	if err != nil {
		return compositor.InterpNearest, err
	}
	return cat.interp, nil
}

// Names returns the image names in sorted order.
func (s *Store) Names() ([]string, error) {
	cat, err := s.catalog()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(cat.images)), nil
}

// ImageInfo describes one image entry.
type ImageInfo struct {
	Kind    Kind
	Size    compositor.Size
	Margin  compositor.Margin
	States  int
	Default int
}

// Summary is a read-only description of the loaded catalog.
type Summary struct {
	Dir           string
	Images        map[string]ImageInfo
	Metrics       map[string]float64
	Colors        map[string]color.NRGBA
	Interpolation compositor.Interp
}

// Summary describes the loaded catalog.
func (s *Store) Summary() (Summary, error) {
	cat, err := s.catalog()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Dir:           s.dir,
		Images:        make(map[string]ImageInfo, len(cat.images)),
		Metrics:       maps.Clone(cat.metrics),
		Colors:        maps.Clone(cat.colors),
		Interpolation: cat.interp,
	}
	for name, e := range cat.images {
		sum.Images[name] = ImageInfo{
			Kind:    e.kind,
			Size:    e.pixmap.Size(),
			Margin:  e.margin,
			States:  e.states,
			Default: e.def,
		}
	}
	return sum, nil
}

func (s *Store) catalog() (*catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cat == nil {
		return nil, ErrNotLoaded
	}
	return s.cat, nil
}

func (s *Store) entry(name string) (*entry, error) {
	cat, err := s.catalog()
	if err != nil {
		return nil, err
	}
	e, ok := cat.images[name]
	if !ok {
		return nil, fmt.Errorf("%w: image %q", ErrUnknownName, name)
	}
	return e, nil
}

// catalog is one immutable load result.
type catalog struct {
	images  map[string]*entry
	metrics map[string]float64
	colors  map[string]color.NRGBA
	interp  compositor.Interp
}

type entry struct {
	kind   Kind
	pixmap *compositor.Pixmap
	margin compositor.Margin
	states int
	def    int
	interp compositor.Interp
	frame  *compositor.Frame // KindFrame only
}

func (s *Store) build() (*catalog, error) {
	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", s.dir, err)
	}
	defer root.Close()

	data, err := fs.ReadFile(root.FS(), s.descName)
	if err != nil {
		return nil, fmt.Errorf("assets: read descriptor: %w", err)
	}
	d, err := parseDescriptor(data)
	if err != nil {
		return nil, err
	}
	if err := s.checkRequired(d); err != nil {
		return nil, err
	}

	cat := &catalog{
		images:  make(map[string]*entry, len(d.Images)),
		metrics: make(map[string]float64, len(d.Metrics)),
		colors:  make(map[string]color.NRGBA, len(d.Colors)),
		interp:  compositor.InterpNearest,
	}
	if d.UseSmoothResize {
		cat.interp = compositor.InterpBilinear
	}
	maps.Copy(cat.metrics, d.Metrics)
	for name, v := range d.Colors {
		c, err := parseColor(v)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", name, err)
		}
		cat.colors[name] = c
	}
	for name, ie := range d.Images {
		e, err := buildEntry(root, ie, cat.interp)
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", name, err)
		}
		cat.images[name] = e
	}
	return cat, nil
}

func (s *Store) checkRequired(d *descriptor) error {
	for _, name := range s.req.Images {
		if _, ok := d.Images[name]; !ok {
			return fmt.Errorf("%w: image %q", ErrMissingKey, name)
		}
	}
	for _, name := range s.req.Metrics {
		if _, ok := d.Metrics[name]; !ok {
			return fmt.Errorf("%w: metric %q", ErrMissingKey, name)
		}
	}
	for _, name := range s.req.Colors {
		if _, ok := d.Colors[name]; !ok {
			return fmt.Errorf("%w: color %q", ErrMissingKey, name)
		}
	}
	return nil
}

func buildEntry(root *os.Root, ie imageEntry, interp compositor.Interp) (*entry, error) {
	kind, err := parseKind(ie.Type)
	if err != nil {
		return nil, err
	}
	margin, err := ie.check(kind)
	if err != nil {
		return nil, err
	}
	pm, err := decode(root, ie.Image)
	if err != nil {
		return nil, err
	}

	e := &entry{kind: kind, pixmap: pm, margin: margin, interp: interp}
	switch kind {
	case KindFrame:
		e.frame, err = compositor.NewFrame(pm, margin, compositor.WithFrameInterpolation(interp))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadDescriptor, err)
		}
	case KindMultiStateFrame:
		e.states, e.def = ie.States, ie.Default
		if _, err := compositor.NewMultiStateFrame(pm, e.states, margin, e.def, compositor.WithFrameInterpolation(interp)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadDescriptor, err)
		}
	}
	return e, nil
}

// decode reads an image file below root. Paths escaping the asset
// directory are rejected by os.Root.
func decode(root *os.Root, name string) (*compositor.Pixmap, error) {
	f, err := root.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDescriptor, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrBadDescriptor, name, err)
	}
	compositor.Logger().Debug("assets: image decoded", "file", name, "format", format, "size", img.Bounds().Size())
	return compositor.FromImage(img), nil
}
