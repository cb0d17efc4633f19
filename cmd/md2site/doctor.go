package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string         `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo     `json:"config"`
	Content  dirInfo        `json:"content"`
	Static   dirInfo        `json:"static"`
	Output   dirInfo        `json:"output"`
	Render   renderInfo     `json:"render"`
	System   systemInfo     `json:"system"`
	Pages    []pageProblem  `json:"page_problems,omitempty"`
	Settings *config.Config `json:"settings,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
}

// configInfo records where the configuration came from.
type configInfo struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
}

// dirInfo holds directory detection results.
type dirInfo struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Pages  int    `json:"pages,omitempty"`
}

// renderInfo holds the generator check results.
type renderInfo struct {
	Engine   string `json:"engine"`
	Template string `json:"template"`
	Style    string `json:"style"`
	Ready    bool   `json:"ready"`
}

// systemInfo holds platform details.
type systemInfo struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	CPUs     int    `json:"cpus"`
	PoolSize int    `json:"pool_size"`
}

// pageProblem is a page that would fail to build.
type pageProblem struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(ctx, flags.common, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, common commonFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		System: systemInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
			CPUs: runtime.NumCPU(),
		},
	}

	cfg, ok := checkConfig(result, common, env)
	if ok {
		result.System.PoolSize = md2site.ResolvePoolSize(cfg.Build.Workers)
		checkDirectories(result, cfg)
		checkRender(ctx, result, cfg)
	}

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkConfig loads the effective configuration.
func checkConfig(result *doctorResult, common commonFlags, env *Environment) (*config.Config, bool) {
	cfg, source, err := loadSiteConfig(common, nil, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil, false
	}
	configureLogging(common, cfg, env.Logger)

	result.Config = configInfo{Source: source, Valid: true}
	result.Settings = cfg
	if source == sourceDefaults {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No %s.yaml found, using defaults", defaultConfigName))
	}
	return cfg, true
}

// checkDirectories verifies the content, static and output locations.
func checkDirectories(result *doctorResult, cfg *config.Config) {
	result.Content = dirInfo{Path: cfg.Content.Dir, Exists: fileutil.DirExists(cfg.Content.Dir)}
	if !result.Content.Exists {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Content directory not found: %s", cfg.Content.Dir))
	} else {
		pages, err := fileutil.FindMarkdown(cfg.Content.Dir)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot scan content: %v", err))
		case len(pages) == 0:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("No markdown pages in %s", cfg.Content.Dir))
		}
		result.Content.Pages = len(pages)
	}

	result.Static = dirInfo{Path: cfg.Static.Dir, Exists: fileutil.DirExists(cfg.Static.Dir)}

	result.Output = dirInfo{Path: cfg.Output.Dir, Exists: fileutil.DirExists(cfg.Output.Dir)}
	if !result.Output.Exists {
		if _, err := os.Stat(cfg.Output.Dir); err == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Output path exists and is not a directory: %s", cfg.Output.Dir))
		}
	}
}

// checkRender builds a generator and renders every page without writing
// anything.
func checkRender(ctx context.Context, result *doctorResult, cfg *config.Config) {
	result.Render = renderInfo{
		Engine:   cfg.Render.Engine,
		Template: cfg.Template.Name,
		Style:    cfg.Style.Name,
	}

	gen, err := md2site.NewGenerator(generatorOptions(cfg)...)
	if err != nil {
		result.Errors = append(result.Errors, err.Error()+assetHint(err))
		return
	}
	result.Render.Ready = true

	if !result.Content.Exists {
		return
	}
	sources, err := fileutil.FindMarkdown(cfg.Content.Dir)
	if err != nil {
		return
	}
	for _, src := range sources {
		data, err := os.ReadFile(src) // #nosec G304 -- discovered path
		if err == nil {
			_, err = gen.Generate(ctx, md2site.Input{Markdown: string(data)})
		}
		if err != nil {
			result.Pages = append(result.Pages, pageProblem{Path: src, Error: err.Error()})
		}
	}
	if n := len(result.Pages); n > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%d page(s) would fail to build", n))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2site doctor")
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Configuration")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
		if r.Settings != nil {
			if out, err := yamlutil.Marshal(r.Settings); err == nil {
				fmt.Fprintln(w)
				for line := range strings.SplitSeq(strings.TrimRight(string(out), "\n"), "\n") {
					fmt.Fprintf(w, "    %s\n", line)
				}
			}
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	if r.Config.Valid {
		// Directories section
		fmt.Fprintln(w, "Directories")
		if r.Content.Exists {
			fmt.Fprintf(w, "  [OK] Content: %s (%d page(s))\n", r.Content.Path, r.Content.Pages)
		} else {
			fmt.Fprintf(w, "  [ERROR] Content: %s not found\n", r.Content.Path)
		}
		if r.Static.Exists {
			fmt.Fprintf(w, "  [OK] Static: %s\n", r.Static.Path)
		} else {
			fmt.Fprintf(w, "  [OK] Static: %s (none, skipped)\n", r.Static.Path)
		}
		fmt.Fprintf(w, "  [OK] Output: %s (recreated on build)\n", r.Output.Path)
		fmt.Fprintln(w)

		// Render section
		fmt.Fprintln(w, "Render")
		if r.Render.Ready {
			fmt.Fprintf(w, "  [OK] Engine: %s\n", r.Render.Engine)
			fmt.Fprintf(w, "  [OK] Template: %s\n", r.Render.Template)
			style := r.Render.Style
			if style == "" {
				style = md2site.NoStyle
			}
			fmt.Fprintf(w, "  [OK] Style: %s\n", style)
		} else {
			fmt.Fprintln(w, "  [ERROR] Generator could not be created")
		}
		for _, p := range r.Pages {
			fmt.Fprintf(w, "  [ERROR] %s: %s\n", p.Path, p.Error)
		}
		fmt.Fprintln(w)
	}

	// System section
	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.System.OS, r.System.Arch)
	fmt.Fprintf(w, "  [OK] CPUs: %d\n", r.System.CPUs)
	if r.System.PoolSize > 0 {
		fmt.Fprintf(w, "  [OK] Workers: %d\n", r.System.PoolSize)
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
