package md2site

import (
	"errors"

	"github.com/alnah/go-md2site/internal/assets"
)

// Built-in asset names.
const (
	// DefaultStyle is the built-in CSS style applied when none is chosen.
	DefaultStyle = assets.DefaultStyleName

	// DefaultTemplate is the built-in page template.
	DefaultTemplate = assets.DefaultTemplateName

	// NoStyle disables CSS injection.
	NoStyle = "none"
)

// AssetLoader defines the contract for loading CSS styles and page
// templates by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a page template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader for the site's asset directory. Names are
// looked up in basePath/styles/{name}.css and basePath/templates/{name}.html
// first, then among the built-ins. An empty basePath serves built-ins only.
//
// Returns ErrInvalidAssetPath if basePath is set but is not a readable
// directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{loader: resolver}, nil
}

// StyleNames lists the built-in styles.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}

// TemplateNames lists the built-in page templates.
func TemplateNames() []string {
	return assets.NewEmbeddedLoader().TemplateNames()
}

// assetLoaderAdapter maps internal asset errors to public sentinels.
type assetLoaderAdapter struct {
	loader assets.AssetLoader
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.loader.LoadStyle(name)
	if err != nil {
		return "", convertNameError(err, ErrStyleNotFound)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.loader.LoadTemplate(name)
	if err != nil {
		return "", convertNameError(err, ErrTemplateNotFound)
	}
	return content, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// convertNameError treats an invalid name as a missing asset.
func convertNameError(err, notFound error) error {
	if errors.Is(err, assets.ErrInvalidAssetName) {
		return wrapError(notFound, err)
	}
	return convertAssetError(err)
}

// wrapError keeps the original message and matches the public sentinel
// with errors.Is.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel. Internal errors stay hidden.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
