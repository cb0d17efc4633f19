package main

// Notes:
// - GenerateCompletion: we test that shell scripts are generated with expected
//   content markers. We do not run the scripts in the target shells.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion_SupportedShells - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_md2site_completions",
				"complete -F _md2site_completions md2site",
				"compgen",
				"build serve doctor completion version help",
				"--output|-o)",
				`compgen -W "native goldmark"`,
				"--watch",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef md2site",
				"_md2site",
				"_arguments",
				"_describe",
				"'build:Build the site into the output directory'",
				"--engine[markdown engine\\: native, goldmark]:engine:(native goldmark)",
				"_files -g '*.(yaml|yml)'",
				"'2:argument:(bash zsh fish)'",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c md2site",
				"__fish_md2site_needs_command",
				"__fish_md2site_using_command",
				"-a serve",
				"-l output -s o",
				"-l json",
				"-x -a 'native goldmark'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() unexpected error: %v", err)
			}
			out := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("powershell"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("GenerateCompletion() error = %v, want %v", err, ErrUnsupportedShell)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output for unsupported shell: %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Command registry
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	byName := map[string]commandDef{}
	for _, c := range cmds {
		byName[c.Name] = c
	}

	for _, name := range []string{"build", "serve", "doctor", "completion", "version", "help"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing command %q", name)
		}
	}

	flagTypes := map[string]flagType{}
	for _, f := range byName["serve"].Flags {
		flagTypes[f.Long] = f.Type
	}
	tests := []struct {
		flag string
		want flagType
	}{
		{"engine", flagEnum},
		{"config", flagFile},
		{"style", flagFile},
		{"output", flagDir},
		{"content", flagDir},
		{"workers", flagInt},
		{"watch", flagBool},
		{"addr", flagString},
	}
	for _, tt := range tests {
		got, ok := flagTypes[tt.flag]
		if !ok {
			t.Errorf("serve is missing --%s", tt.flag)
			continue
		}
		if got != tt.want {
			t.Errorf("--%s type = %d, want %d", tt.flag, got, tt.want)
		}
	}

	for _, f := range byName["doctor"].Flags {
		if f.Long == "output" {
			t.Error("doctor should not accept --output")
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantStdout string
	}{
		{"no shell prints usage", nil, nil, "Usage: md2site completion <shell>"},
		{"bash", []string{"bash"}, nil, "complete -F"},
		{"unknown shell", []string{"tcsh"}, ErrUnsupportedShell, ""},
		{"too many args", []string{"bash", "zsh"}, ErrUsage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			err := runCompletion(tt.args, env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runCompletion() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", env.stdout.String(), tt.wantStdout)
			}
		})
	}
}
