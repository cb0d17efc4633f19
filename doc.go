// Package md2site turns Markdown pages into complete HTML pages for a
// static site.
//
// # Quick Start
//
// Render a fragment with the built-in parser:
//
//	html, err := md2site.RenderMarkdownToHTML("# Hello\n\nWorld")
//	// <div><h1>Hello</h1><p>World</p></div>
//
// Generate a full page from a template:
//
//	gen, err := md2site.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := gen.Generate(ctx, md2site.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", page.HTML, 0o644)
//
// # Markdown Subset
//
// The native engine splits a document on blank lines and classifies each
// block as a heading (one to six '#'), a fenced code block, a quote (every
// line starts with "> "), an unordered list ("* " or "- "), an ordered list
// ("1. ", "2. ", ... in sequence) or a paragraph. Inside blocks it
// recognizes **bold**, *italic*, `code`, [links](url) and ![images](url).
// Emphasis does not nest, and an unmatched delimiter is an error rather
// than literal text. Output is not HTML-escaped.
//
// The goldmark engine (WithEngine(EngineGoldmark)) renders CommonMark with
// GitHub extensions and syntax highlighting instead.
//
// # Generation Pipeline
//
//  1. Markdown preprocessing (line endings, Unicode NFC)
//  2. Title: Input.Title, else the first "# " line
//  3. Markdown to HTML with the selected engine
//  4. Optional .md link rewriting to .html
//  5. Template substitution of {{ Title }} and {{ Content }}
//  6. CSS injection
//
// # Parallel Processing
//
// A Generator holds no per-call state. GeneratorPool bounds how many pages
// are generated at once:
//
//	pool, err := md2site.NewGeneratorPool(md2site.ResolvePoolSize(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	page, err := pool.Generate(ctx, input)
//
// # Errors
//
// Errors wrap package sentinels; match them with errors.Is:
//
//	_, err := md2site.RenderMarkdownToHTML("some **bold")
//	if errors.Is(err, md2site.ErrUnbalancedDelimiter) {
//	    // ...
//	}
package md2site
