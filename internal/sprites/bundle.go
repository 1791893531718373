// Package sprites serves sprite images from a directory of PNG files loaded
// into memory at startup.
package sprites

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/pokemonsay/internal/log"
	"github.com/llehouerou/pokemonsay/internal/pokemon"
)

// Bundle maps sprite file names to PNG bytes. It is read-only once loaded
// and safe for concurrent use.
type Bundle struct {
	files map[string][]byte
	size  uint64
}

var _ pokemon.SpriteSource = (*Bundle)(nil)

// LoadDir loads every PNG under dir.
func LoadDir(dir string) (*Bundle, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: sprites directory not set", pokemon.ErrTransport)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokemon.ErrTransport, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", pokemon.ErrTransport, dir)
	}
	return Load(os.DirFS(dir))
}

// Load walks fsys recursively and registers every *.png file under its base
// name. When two files share a name, the one walked last wins.
func Load(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{files: make(map[string][]byte)}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".png") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := path.Base(p)
		if old, ok := b.files[name]; ok {
			log.Warn("duplicate sprite file name", "name", name, "path", p)
			b.size -= uint64(len(old))
		}
		b.files[name] = data
		b.size += uint64(len(data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load sprites: %w", pokemon.ErrTransport, err)
	}

	log.Debug("loaded sprite bundle", "files", len(b.files), "size", humanize.Bytes(b.size))
	return b, nil
}

// Key strips the PokeAPI sprite base URL from url, leaving the file name.
func Key(url string) string {
	return strings.ReplaceAll(url, pokemon.SpriteBaseURL, "")
}

// Sprite returns the bytes for the sprite at url.
func (b *Bundle) Sprite(_ context.Context, url string) ([]byte, error) {
	key := Key(url)
	data, ok := b.files[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, pokemon.ErrMissingAsset)
	}
	return data, nil
}

// Has reports whether the bundle holds a sprite for url.
func (b *Bundle) Has(url string) bool {
	_, ok := b.files[Key(url)]
	return ok
}

// Len returns the number of sprites in the bundle.
func (b *Bundle) Len() int {
	return len(b.files)
}

// Names returns the sorted file names in the bundle.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
