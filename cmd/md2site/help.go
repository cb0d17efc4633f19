package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build the site into the output directory")
	fmt.Fprintln(w, "  serve       Build and serve the site over HTTP")
	fmt.Fprintln(w, "  doctor      Check configuration and content")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2site help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: md2site.yaml if present)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
}

func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --content <dir>       Markdown content directory (default: content)")
	fmt.Fprintln(w, "      --static <dir>        Static files directory (default: static)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory, deleted on every build (default: public)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <s>          Markdown engine: native, goldmark")
	fmt.Fprintln(w, "      --template <s>        Template name or .html file")
	fmt.Fprintln(w, "      --style <s>           Style name, .css file, or \"none\"")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory (styles/, templates/)")
	fmt.Fprintln(w, "      --rewrite-links       Rewrite links to .md files as .html")
	fmt.Fprintln(w, "      --gzip                Also write precompressed .html.gz files")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site: recreate the output directory, copy static files,")
	fmt.Fprintln(w, "and render every markdown page in the content directory to HTML.")
	fmt.Fprintln(w)
	printSiteFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2SITE_CONFIG, MD2SITE_CONTENT_DIR, MD2SITE_STATIC_DIR, MD2SITE_OUTPUT_DIR,")
	fmt.Fprintln(w, "  MD2SITE_TEMPLATE, MD2SITE_STYLE, MD2SITE_ASSET_PATH, MD2SITE_ENGINE,")
	fmt.Fprintln(w, "  MD2SITE_WORKERS, MD2SITE_GZIP, MD2SITE_REWRITE_LINKS, MD2SITE_LOG_LEVEL")
	fmt.Fprintln(w, "  Flags override environment, which overrides the config file.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site, then serve the output directory over HTTP until")
	fmt.Fprintln(w, "interrupted. Responses are gzip-compressed for clients that accept it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: localhost:8080)")
	fmt.Fprintln(w, "      --watch               Rebuild when content, static or asset files change")
	fmt.Fprintln(w)
	printSiteFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the configuration, directories, template and style, and render")
	fmt.Fprintln(w, "every page without writing anything. Exits 1 when errors are found.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2site version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2site help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
