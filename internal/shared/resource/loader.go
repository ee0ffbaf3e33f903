package resource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math/bits"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
)

// MaxResourceSize bounds a single resource read
const MaxResourceSize = 16 * 1024 * 1024

var (
	// ErrNotImage is returned when a resource is not a decodable image
	ErrNotImage = errors.New("resource is not an image")

	// ErrIconSize is returned when an icon's sides are not powers of two
	ErrIconSize = errors.New("icon size must be a power of two")

	// ErrBadPattern is returned by Glob for a malformed pattern
	ErrBadPattern = errors.New("invalid resource pattern")
)

// LoadError reports a failed resource load
type LoadError struct {
	ID  ID
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load resource %s: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads resources from a filesystem laid out as <namespace>/<path>
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Bytes reads the raw content of a resource
func (l *Loader) Bytes(id ID) ([]byte, error) {
	info, err := fs.Stat(l.fsys, id.file())
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("%s is a directory", id.file())}
	}
	if info.Size() > MaxResourceSize {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("size %d exceeds maximum %d", info.Size(), MaxResourceSize)}
	}

	data, err := fs.ReadFile(l.fsys, id.file())
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	return data, nil
}

// MIMEType detects the content type of a resource
func (l *Loader) MIMEType(id ID) (string, error) {
	data, err := l.Bytes(id)
	if err != nil {
		return "", err
	}
	return mimetype.Detect(data).String(), nil
}

// Image loads and decodes an image resource (png, jpeg or gif)
func (l *Loader) Image(id ID) (image.Image, error) {
	data, err := l.Bytes(id)
	if err != nil {
		return nil, err
	}

	mtype := mimetype.Detect(data)
	if !mtype.Is("image/png") && !mtype.Is("image/jpeg") && !mtype.Is("image/gif") {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("%w: %s", ErrNotImage, mtype.String())}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("%w: %v", ErrNotImage, err)}
	}
	return img, nil
}

// Icon loads an image resource whose sides are powers of two
func (l *Loader) Icon(id ID) (image.Image, error) {
	img, err := l.Image(id)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if !isPowerOfTwo(b.Dx()) || !isPowerOfTwo(b.Dy()) {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("%w: got %dx%d", ErrIconSize, b.Dx(), b.Dy())}
	}
	return img, nil
}

// Exists reports whether a resource is present
func (l *Loader) Exists(id ID) bool {
	_, err := fs.Stat(l.fsys, id.file())
	return err == nil
}

// Glob lists the resources of namespace matching a doublestar pattern such as
// "apps/**/*.png". Results are sorted.
func (l *Loader) Glob(namespace, pattern string) ([]ID, error) {
	if !namespacePattern.MatchString(namespace) {
		return nil, fmt.Errorf("invalid resource namespace %q", namespace)
	}
	if !doublestar.ValidatePattern(pattern) || strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	matches, err := doublestar.Glob(l.fsys, path.Join(namespace, pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s:%s: %w", namespace, pattern, err)
	}

	ids := make([]ID, 0, len(matches))
	for _, m := range matches {
		id, err := New(namespace, strings.TrimPrefix(m, namespace+"/"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Path < ids[j].Path })
	return ids, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}
