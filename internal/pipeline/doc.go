// Package pipeline implements the stages that turn one markdown page into a
// finished HTML document.
//
// Stages run in this order:
//   - Markdown preprocessing (line endings, Unicode NFC, blank line runs)
//   - Markdown to HTML conversion with the native engine or goldmark
//   - Optional rewriting of relative .md links to .html
//   - Page template substitution ({{ Title }} and {{ Content }})
//   - CSS injection into the page head
//
// File discovery and writing are handled by the CLI. The pipeline only deals
// with strings so that every stage can be tested in isolation.
package pipeline
