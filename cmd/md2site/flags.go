package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds flags that override site configuration.
// Bool overrides only apply when the flag was given.
type siteFlags struct {
	output       string
	content      string
	static       string
	workers      int
	template     string
	style        string
	assetPath    string
	engine       string
	rewriteLinks bool
	gzip         bool

	rewriteLinksSet bool
	gzipSet         bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common commonFlags
	site   siteFlags
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	site   siteFlags
	addr   string
	watch  bool
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
}

// addSiteFlags adds site override flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory (deleted on every build)")
	fs.StringVar(&f.content, "content", "", "markdown content directory")
	fs.StringVar(&f.static, "static", "", "static files directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.template, "template", "", "page template name or file path")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.engine, "engine", "", "markdown engine: native, goldmark")
	fs.BoolVar(&f.rewriteLinks, "rewrite-links", false, "rewrite links to .md files as .html")
	fs.BoolVar(&f.gzip, "gzip", false, "also write .html.gz files")
}

// markChanged records which bool overrides were given explicitly.
func (f *siteFlags) markChanged(fs *flag.FlagSet) {
	f.rewriteLinksSet = fs.Changed("rewrite-links")
	f.gzipSet = fs.Changed("gzip")
}

// newBuildFlagSet registers build flags into f.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	return fs
}

// newServeFlagSet registers serve flags into f.
func newServeFlagSet(f *serveFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	fs.StringVar(&f.addr, "addr", "", "listen address (default from config: localhost:8080)")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when content, static or asset files change")
	return fs
}

// newDoctorFlagSet registers doctor flags into f.
func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	return fs
}

// parseBuildFlags parses build command flags. Positional arguments are
// rejected.
func parseBuildFlags(args []string, env *Environment) (*buildFlags, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printBuildUsage(env.Stderr) }

	if err := parseNoArgs(fs, args); err != nil {
		return nil, err
	}
	f.site.markChanged(fs)
	return f, nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, env *Environment) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newServeFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printServeUsage(env.Stderr) }

	if err := parseNoArgs(fs, args); err != nil {
		return nil, err
	}
	f.site.markChanged(fs)
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, env *Environment) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newDoctorFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }

	if err := parseNoArgs(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseNoArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s takes no arguments, got %q", ErrUsage, fs.Name(), fs.Arg(0))
	}
	return nil
}
