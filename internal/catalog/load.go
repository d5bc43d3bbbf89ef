package catalog

import (
	stderrors "errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"

	"github.com/hpungsan/catfact/internal/errors"
)

// Fact is one caption-plus-image unit.
type Fact struct {
	ID      FactID
	Caption string
	Image   *image.NRGBA
}

// Load reads the caption and decodes the image of one fact.
// Nothing is cached: every call re-reads both files.
func (c *Catalog) Load(id FactID) (*Fact, error) {
	dir, err := c.folder(id)
	if err != nil {
		return nil, err
	}

	caption, err := readCaption(filepath.Join(dir, TextFile))
	if err != nil {
		return nil, errors.NewFactCorrupt(int(id), TextFile, err)
	}

	img, err := imaging.Open(filepath.Join(dir, ImageFile))
	if err != nil {
		return nil, errors.NewFactCorrupt(int(id), ImageFile, err)
	}

	return &Fact{
		ID:      id,
		Caption: caption,
		Image:   ToRGB(img),
	}, nil
}

// Caption reads only the caption text of a fact.
func (c *Catalog) Caption(id FactID) (string, error) {
	dir, err := c.folder(id)
	if err != nil {
		return "", err
	}
	caption, err := readCaption(filepath.Join(dir, TextFile))
	if err != nil {
		return "", errors.NewFactCorrupt(int(id), TextFile, err)
	}
	return caption, nil
}

// folder resolves the directory for id. The canonical name is tried first;
// folders with leading zeros ("02") are found by rescanning the root.
func (c *Catalog) folder(id FactID) (string, error) {
	canonical := id.String()
	if c.isDir(canonical) {
		return filepath.Join(c.root, canonical), nil
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return "", errors.NewCatalogUnavailable(c.root, err)
	}
	for _, e := range entries {
		if n, ok := parseFolderName(e.Name()); ok && n == id && c.isDir(e.Name()) {
			return filepath.Join(c.root, e.Name()), nil
		}
	}
	return "", errors.NewFactNotFound(int(id))
}

func readCaption(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}
	return strings.TrimSpace(string(data)), nil
}

var errInvalidUTF8 = stderrors.New("caption is not valid UTF-8")

// ToRGB normalizes any decoded image to opaque 3-channel colour.
// Grayscale and paletted sources are expanded; an alpha channel is dropped
// (colour values are kept as stored, not composited over a background).
func ToRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
