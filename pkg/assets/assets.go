// Package assets resolves auxiliary presentation assets (scripts,
// styles) to URIs the host viewport can load.
package assets

import (
	"net/url"
	"os"
	"path/filepath"

	sverrors "github.com/ha1tch/sqlview/pkg/errors"
)

// Resolver maps a repository-relative asset path to a URI string.
type Resolver interface {
	Resolve(relativePath string) (string, error)
}

// DirResolver resolves assets against a base directory and returns
// file:// URIs. The asset must exist on disk.
type DirResolver struct {
	base string
}

// NewDirResolver creates a resolver rooted at base.
func NewDirResolver(base string) *DirResolver {
	return &DirResolver{base: base}
}

// Resolve returns a file URI for the asset at relativePath under the
// resolver's base directory.
func (r *DirResolver) Resolve(relativePath string) (string, error) {
	if relativePath == "" {
		return "", sverrors.InvalidInput("asset path", "must not be empty").
			WithOp("DirResolver.Resolve").
			Err()
	}

	path := filepath.Join(r.base, filepath.FromSlash(relativePath))
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", sverrors.Wrap(err, sverrors.ErrCodeAssetPath, "resolve asset path").
			WithOp("DirResolver.Resolve").
			WithField("path", path).
			Err()
	}

	if _, err := os.Stat(abs); err != nil {
		return "", sverrors.Wrap(err, sverrors.ErrCodeAssetNotFound, "asset not found").
			WithOp("DirResolver.Resolve").
			WithField("path", abs).
			Err()
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
