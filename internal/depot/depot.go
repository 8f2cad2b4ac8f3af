package depot

import (
	"errors"
	"path/filepath"
	"strings"
)

// Token is the placeholder stored in persisted paths in place of the
// depot root.
const Token = "$DEPOT_ALL"

// ErrNoRoot indicates a Resolver was constructed without a depot root.
var ErrNoRoot = errors.New("depot root is required")

// Resolver expands and contracts the depot placeholder against one
// configured root. Methods are pure string operations.
type Resolver struct {
	root string
}

// NewResolver builds a Resolver for the given depot root.
func NewResolver(root string) (*Resolver, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, ErrNoRoot
	}
	return &Resolver{root: filepath.Clean(trimmed)}, nil
}

// Root returns the configured depot root.
func (r *Resolver) Root() string {
	return r.root
}

// Expand replaces a leading placeholder token with the depot root. Paths
// without the token pass through unchanged.
func (r *Resolver) Expand(path string) string {
	if !strings.HasPrefix(path, Token) {
		return path
	}
	rest := strings.TrimPrefix(path, Token)
	rest = strings.TrimLeft(rest, "/\\")
	if rest == "" {
		return r.root
	}
	return filepath.Join(r.root, rest)
}

// Symbolic is the inverse of Expand: an absolute path under the depot root
// is rewritten to start with the placeholder token. Paths outside the root
// pass through unchanged.
func (r *Resolver) Symbolic(path string) string {
	cleaned := filepath.Clean(path)
	if cleaned == r.root {
		return Token
	}
	prefix := r.root + string(filepath.Separator)
	if !strings.HasPrefix(cleaned, prefix) {
		return path
	}
	rest := strings.TrimPrefix(cleaned, prefix)
	return Token + "/" + filepath.ToSlash(rest)
}

// Rel returns the path relative to the depot root, expanding the
// placeholder first. Used for servable references.
func (r *Resolver) Rel(path string) (string, error) {
	expanded := r.Expand(path)
	rel, err := filepath.Rel(r.root, expanded)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
