// Package assets resolves logical asset names ("player", "zombie_moan") to
// images and sound data. The simulation never sees file paths.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	_ "image/png" // sprite files
)

// ErrNotFound is wrapped by LoadError when a provider has no such asset.
var ErrNotFound = errors.New("asset not found")

// LoadError reports a missing or undecodable asset.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("assets: cannot load %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Provider loads assets by logical name.
type Provider interface {
	// LoadImage returns the sprite image for name.
	LoadImage(name string) (image.Image, error)
	// OpenSound returns WAV data for name.
	OpenSound(name string) (io.ReadCloser, error)
}

// Images lists the sprites a session needs before it can start.
var Images = []string{
	"player",
	"zombie",
	"bullet",
	"health",
	"shotgun",
	"muzzle_flash",
	"splat",
	LightMask,
}

// LightMask is the radial gradient used by the night overlay.
const LightMask = "light_mask"

// Dir loads <name>.png and <name>.wav from a directory tree. Assets that do
// not exist there are taken from the fallback provider.
type Dir struct {
	fsys     fs.FS
	fallback Provider
}

// NewDir creates a provider rooted at root. fallback may be nil.
func NewDir(root string, fallback Provider) *Dir {
	return NewFS(os.DirFS(root), fallback)
}

// NewFS creates a provider over any filesystem.
func NewFS(fsys fs.FS, fallback Provider) *Dir {
	return &Dir{fsys: fsys, fallback: fallback}
}

// LoadImage decodes <name>.png.
func (d *Dir) LoadImage(name string) (image.Image, error) {
	f, err := d.fsys.Open(name + ".png")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && d.fallback != nil {
			return d.fallback.LoadImage(name)
		}
		return nil, &LoadError{Name: name, Err: notFound(err)}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	return img, nil
}

// OpenSound opens <name>.wav.
func (d *Dir) OpenSound(name string) (io.ReadCloser, error) {
	f, err := d.fsys.Open(name + ".wav")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && d.fallback != nil {
			return d.fallback.OpenSound(name)
		}
		return nil, &LoadError{Name: name, Err: notFound(err)}
	}
	return f, nil
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// Preload loads every image in names and returns them keyed by name.
func Preload(p Provider, names []string) (map[string]image.Image, error) {
	out := make(map[string]image.Image, len(names))
	for _, name := range names {
		img, err := p.LoadImage(name)
		if err != nil {
			return nil, err
		}
		out[name] = img
	}
	return out, nil
}
