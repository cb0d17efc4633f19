package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads site-specific styles and templates from an asset
// directory such as the one passed with --asset-path.
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader opens dir as an asset directory. It fails with
// ErrInvalidBasePath unless dir is an existing, listable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot list %s: %w", ErrInvalidBasePath, root, err)
	}

	return &FilesystemLoader{root: root}, nil
}

// LoadStyle reads styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styleKind, name)
}

// LoadTemplate reads templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templateKind, name)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path, err := f.resolve(filepath.FromSlash(k.file(name)))
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- resolve keeps path under root
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %w", ErrAssetRead, err)
	}
	return string(data), nil
}

// resolve joins rel onto the root and follows symlinks. The result must
// stay under the root. A missing file resolves to its joined path so the
// read reports it as not found.
func (f *FilesystemLoader) resolve(rel string) (string, error) {
	path := filepath.Join(f.root, rel)
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
	}

	inside, err := filepath.Rel(f.root, path)
	if err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, rel)
	}
	return path, nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
