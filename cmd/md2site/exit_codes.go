package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// Exit codes for the md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or assets
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // One or more pages could not be rendered
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render errors (exit 4)
	if errors.Is(err, ErrPagesFailed) ||
		errors.Is(err, md2site.ErrUnbalancedDelimiter) ||
		errors.Is(err, md2site.ErrEmptyDocument) ||
		errors.Is(err, md2site.ErrEmptyValue) ||
		errors.Is(err, md2site.ErrEmptyChildren) ||
		errors.Is(err, md2site.ErrNoTitle) ||
		errors.Is(err, md2site.ErrHTMLConversion) {
		return ExitRender
	}

	// Usage/config/asset errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2site.ErrUnknownEngine) ||
		errors.Is(err, md2site.ErrStyleNotFound) ||
		errors.Is(err, md2site.ErrTemplateNotFound) ||
		errors.Is(err, md2site.ErrTemplateMissingContent) ||
		errors.Is(err, md2site.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrContentDir) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, ErrListen) ||
		errors.Is(err, fileutil.ErrUnsafeDir) {
		return ExitIO
	}

	return ExitGeneral
}
