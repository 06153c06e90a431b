package photoset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

// referenceMarkers flag the colour reference inside a set; every other
// image is a product photo.
var referenceMarkers = []string{"block", "reference", "dots", "cloud", "dancer"}

// Catalog reads photo sets from an assets directory: every subdirectory
// whose name starts with "ticket" is one set.
type Catalog struct {
	dir string
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

var _ CatalogInterface = (*Catalog)(nil)

// Dir returns the assets directory backing the catalog.
func (c *Catalog) Dir() string {
	return c.dir
}

// List returns the sets sorted by name. A missing assets directory is an
// empty catalog, not an error.
func (c *Catalog) List(ctx context.Context) ([]Photoset, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Photoset{}, nil
		}
		return nil, fmt.Errorf("read assets dir: %w", err)
	}

	sets := []Photoset{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() || !strings.HasPrefix(strings.ToLower(e.Name()), "ticket") {
			continue
		}

		set, err := c.read(e.Name())
		if err != nil {
			return nil, err
		}
		sets = append(sets, *set)
	}

	return sets, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*Photoset, error) {
	sets, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].ID == id {
			return &sets[i], nil
		}
	}
	return nil, ErrPhotosetNotFound
}

func (c *Catalog) read(name string) (*Photoset, error) {
	files, err := os.ReadDir(filepath.Join(c.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read photoset %s: %w", name, err)
	}

	set := &Photoset{ID: name, Name: name, ProductPhotos: []string{}}
	for _, f := range files {
		if f.IsDir() || !isImage(f.Name()) {
			continue
		}

		u := assetURL(name, f.Name())
		if isReference(f.Name()) {
			set.ReferenceImage = &u
			continue
		}
		set.ProductPhotos = append(set.ProductPhotos, u)
	}
	slices.Sort(set.ProductPhotos)

	return set, nil
}

func isImage(file string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(file)))
}

func isReference(file string) bool {
	name := strings.ToLower(file)
	return slices.ContainsFunc(referenceMarkers, func(m string) bool {
		return strings.Contains(name, m)
	})
}

func assetURL(dir, file string) string {
	return "/assets/" + url.PathEscape(dir) + "/" + url.PathEscape(file)
}
