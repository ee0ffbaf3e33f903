package resource

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// DefaultNamespace is used when a reference omits the namespace
const DefaultNamespace = "tablet"

var (
	namespacePattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	pathPattern      = regexp.MustCompile(`^[a-z0-9_./-]+$`)
)

// ID is an opaque "namespace:path" resource reference
type ID struct {
	Namespace string
	Path      string
}

// New creates a resource ID, validating both parts
func New(namespace, p string) (ID, error) {
	if !namespacePattern.MatchString(namespace) {
		return ID{}, fmt.Errorf("invalid resource namespace %q", namespace)
	}
	if !pathPattern.MatchString(p) || strings.Contains(p, "..") || strings.HasPrefix(p, "/") {
		return ID{}, fmt.Errorf("invalid resource path %q", p)
	}
	return ID{Namespace: namespace, Path: p}, nil
}

// Parse parses "namespace:path" or a bare path in the default namespace
func Parse(s string) (ID, error) {
	ns, p, found := strings.Cut(s, ":")
	if !found {
		return New(DefaultNamespace, s)
	}
	return New(ns, p)
}

// MustParse is like Parse but panics on invalid input.
// Intended for package-level constants in applications.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the "namespace:path" form
func (id ID) String() string {
	return id.Namespace + ":" + id.Path
}

// IsZero reports whether the ID is unset
func (id ID) IsZero() bool {
	return id.Namespace == "" && id.Path == ""
}

// file returns the slash-separated location of the resource inside a loader FS
func (id ID) file() string {
	return path.Join(id.Namespace, id.Path)
}
