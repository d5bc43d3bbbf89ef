// Package catalog enumerates and loads facts stored as numbered folders.
//
// Layout:
//
//	<root>/
//	  <N>/
//	    text.txt    caption, UTF-8
//	    image.jpg   any decodable image
//
// Entries whose names are not all decimal digits, and plain files, are ignored.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/hpungsan/catfact/internal/errors"
)

// File names inside a fact folder.
const (
	TextFile  = "text.txt"
	ImageFile = "image.jpg"
)

// FactID identifies one fact folder by its integer name.
type FactID int

// String returns the decimal form of the id.
func (id FactID) String() string {
	return strconv.Itoa(int(id))
}

// Catalog reads facts from a root directory. It holds no cached state;
// every call goes back to storage.
type Catalog struct {
	root string
}

// New creates a Catalog rooted at root.
func New(root string) *Catalog {
	return &Catalog{root: root}
}

// Root returns the catalog root directory.
func (c *Catalog) Root() string {
	return c.root
}

// List scans the root's immediate children and returns the distinct fact ids
// in ascending order. An entry qualifies iff its name is all decimal digits
// and it is a directory (symlinks are followed).
func (c *Catalog) List() ([]FactID, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, errors.NewCatalogUnavailable(c.root, err)
	}

	seen := make(map[FactID]bool, len(entries))
	ids := make([]FactID, 0, len(entries))
	for _, e := range entries {
		id, ok := parseFolderName(e.Name())
		if !ok || seen[id] {
			continue
		}
		if !c.isDir(e.Name()) {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ParseID parses a user-supplied fact id. Only decimal digits are accepted.
func ParseID(s string) (FactID, error) {
	id, ok := parseFolderName(s)
	if !ok {
		return 0, errors.NewInvalidRequest("fact id must be a non-negative integer")
	}
	return id, nil
}

// parseFolderName reports whether name is a non-empty run of ASCII digits
// that fits in an int, and returns its value.
func parseFolderName(name string) (FactID, bool) {
	if name == "" {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return FactID(n), true
}

func (c *Catalog) isDir(name string) bool {
	info, err := os.Stat(filepath.Join(c.root, name))
	return err == nil && info.IsDir()
}
