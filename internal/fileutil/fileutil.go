// Package fileutil provides file and path helpers for site builds.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Permissions for generated output.
const (
	DirPerm  os.FileMode = 0o750
	FilePerm os.FileMode = 0o644
)

// Sentinel errors for file utility operations.
var (
	ErrUnsafeDir   = errors.New("refusing to reset directory")
	ErrNotInTree   = errors.New("path is outside the source tree")
	ErrNotMarkdown = errors.New("not a markdown file")
)

// MarkdownExts are the recognized markdown source extensions.
var MarkdownExts = []string{".md", ".markdown"}

// PageExt is the extension of generated pages.
const PageExt = ".html"

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./site.css" -> true (relative path)
//   - "/absolute/page.html" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like inline CSS rather than a
// style name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsMarkdown reports whether path has a markdown extension, ignoring case.
func IsMarkdown(path string) bool {
	ext := filepath.Ext(path)
	for _, md := range MarkdownExts {
		if strings.EqualFold(ext, md) {
			return true
		}
	}
	return false
}

// IsHidden reports whether a file or directory name starts with a dot.
func IsHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

// PagePath maps a markdown file under srcRoot to its page under dstRoot:
// content/blog/post.md becomes public/blog/post.html.
func PagePath(srcRoot, dstRoot, srcPath string) (string, error) {
	if !IsMarkdown(srcPath) {
		return "", fmt.Errorf("%w: %s", ErrNotMarkdown, srcPath)
	}
	rel, err := filepath.Rel(srcRoot, srcPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrNotInTree, srcPath)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + PageExt
	return filepath.Join(dstRoot, rel), nil
}

// Overlaps reports whether a and b resolve to the same directory or one
// contains the other. Paths are made absolute and cleaned first, so
// "content", "./content/" and its absolute form all compare equal. An empty
// path never overlaps.
func Overlaps(a, b string) (bool, error) {
	if a == "" || b == "" {
		return false, nil
	}
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", b, err)
	}
	return within(absA, absB) || within(absB, absA), nil
}

// within reports whether child is parent or lies below it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// FindMarkdown returns every markdown file under root in lexical order.
// Hidden directories and files are skipped.
func FindMarkdown(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsMarkdown(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// ResetDir deletes dir and everything in it, then recreates it empty. The
// filesystem root, the working directory and the empty path are refused.
func ResetDir(dir string) error {
	clean := filepath.Clean(dir)
	if dir == "" || clean == "." || clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrUnsafeDir, dir)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("removing %s: %w", clean, err)
	}
	if err := os.MkdirAll(clean, DirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", clean, err)
	}
	return nil
}

// CopyFunc observes each directory created and file copied by CopyTree.
type CopyFunc func(src, dst string, isDir bool)

// CopyTree mirrors src into dst. Directories are created with DirPerm and
// files are copied with FilePerm. Symlinks are followed. onCopy may be nil.
// It returns the number of files copied.
func CopyTree(src, dst string, onCopy CopyFunc) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := os.MkdirAll(target, DirPerm); err != nil {
				return err
			}
			if onCopy != nil && path != src {
				onCopy(path, target, true)
			}
			return nil
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		copied++
		if onCopy != nil {
			onCopy(path, target, false)
		}
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- walking a user-selected tree
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm) // #nosec G304 -- derived from walk
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory, so readers never observe a partial page. Parent directories are
// created with DirPerm.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".md2site-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp, FilePerm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
