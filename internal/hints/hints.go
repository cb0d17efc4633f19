// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ForConfigNotFound suggests --config and the first per-user location among
// the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if filepath.Base(filepath.Dir(p)) == "go-md2site" {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForOutputOverlap returns hints when the output directory overlaps a
// source directory.
func ForOutputOverlap() string {
	return format("pick an output directory outside content and static, e.g. --output public")
}

// ForContentDirectory returns hints when the content directory is missing.
func ForContentDirectory(dir string) string {
	return format(fmt.Sprintf("create %s/ with at least one .md page or pass --content", dir))
}

// ForStyleNotFound lists the built-in styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForTemplateNotFound lists the built-in templates and where custom ones go.
func ForTemplateNotFound(available []string) string {
	hints := []string{"custom templates live in {asset-path}/templates/{name}.html"}
	if len(available) > 0 {
		hints = append([]string{"available: " + strings.Join(available, ", ")}, hints...)
	}
	return formatHints(hints)
}

// ForTemplateMissingContent explains the required placeholder.
func ForTemplateMissingContent() string {
	return format("add {{ Content }} where the page body belongs; {{ Title }} is optional")
}

// ForNoTitle explains how a page title is found.
func ForNoTitle() string {
	return format(`start a line with "# " (one hash and a space) to give the page a title`)
}

// ForUnbalancedDelimiter names the delimiter left open.
func ForUnbalancedDelimiter(delim string) string {
	if delim == "" {
		return format("every **, * and ` must be closed on the same block")
	}
	return format(fmt.Sprintf("close the %s pair within the same block; nested emphasis is not supported", delim))
}

// ForEmptyDocument returns hints for pages with no content.
func ForEmptyDocument() string {
	return format("the page has no text outside blank lines")
}

// ForAddrInUse suggests another listen address.
func ForAddrInUse(addr string) string {
	return format(fmt.Sprintf("%s is taken; pass --addr localhost:0 for a free port", addr))
}

// ForWatchLimit suggests raising the inotify watch limit.
func ForWatchLimit() string {
	return format("raise fs.inotify.max_user_watches or serve without --watch")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
