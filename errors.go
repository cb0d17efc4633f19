package md2site

import (
	"errors"

	"github.com/alnah/go-md2site/internal/htmlnode"
	"github.com/alnah/go-md2site/internal/inline"
	"github.com/alnah/go-md2site/internal/markdown"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown          = errors.New("markdown content cannot be empty")
	ErrHTMLConversion         = pipeline.ErrHTMLConversion
	ErrUnknownEngine          = pipeline.ErrUnknownEngine
	ErrTemplateMissingContent = pipeline.ErrTemplateMissingContent
	ErrPoolClosed             = errors.New("generator pool is closed")

	// Parsing and rendering errors.
	ErrUnbalancedDelimiter = inline.ErrUnbalancedDelimiter
	ErrEmptyValue          = htmlnode.ErrEmptyValue
	ErrMissingTag          = htmlnode.ErrMissingTag
	ErrEmptyChildren       = htmlnode.ErrEmptyChildren
	ErrEmptyDocument       = markdown.ErrEmptyDocument
	ErrNoTitle             = markdown.ErrNoTitle

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// UnbalancedError reports the delimiter left open and where it starts.
// Use errors.As to retrieve it.
type UnbalancedError = inline.UnbalancedError
