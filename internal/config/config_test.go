// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CapSuffix != "Cap" {
		t.Errorf("CapSuffix = %q, want Cap", cfg.CapSuffix)
	}
	if cfg.ParamName != "cap" {
		t.Errorf("ParamName = %q, want cap", cfg.ParamName)
	}
	if cfg.ManifestPath != "hazmat.lock.toml" {
		t.Errorf("ManifestPath = %q, want hazmat.lock.toml", cfg.ManifestPath)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "lowercase cap suffix",
			mutate:  func(c *Config) { c.CapSuffix = "cap" },
			wantErr: true,
		},
		{
			name:    "cap suffix with punctuation",
			mutate:  func(c *Config) { c.CapSuffix = "Cap-Token" },
			wantErr: true,
		},
		{
			name:    "uppercase param name",
			mutate:  func(c *Config) { c.ParamName = "Cap" },
			wantErr: true,
		},
		{
			name:    "empty param name",
			mutate:  func(c *Config) { c.ParamName = "" },
			wantErr: true,
		},
		{
			name:    "bad color scheme",
			mutate:  func(c *Config) { c.UI.ColorScheme = "sepia" },
			wantErr: true,
		},
		{
			name:   "alternate valid values",
			mutate: func(c *Config) { c.CapSuffix = "Token"; c.ParamName = "tok"; c.UI.ColorScheme = ColorSchemeDark },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProviderLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	content := `cap_suffix: "Token"
param_name: "tok"
exclude: ["*_gen.go"]

ui: {
	verbose: true
}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CapSuffix != "Token" {
		t.Errorf("CapSuffix = %q, want Token", cfg.CapSuffix)
	}
	if cfg.ParamName != "tok" {
		t.Errorf("ParamName = %q, want tok", cfg.ParamName)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*_gen.go" {
		t.Errorf("Exclude = %v, want [*_gen.go]", cfg.Exclude)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
	// Untouched fields keep defaults.
	if cfg.ManifestPath != "hazmat.lock.toml" {
		t.Errorf("ManifestPath = %q, want default", cfg.ManifestPath)
	}
}

func TestProviderLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "absent.cue"),
	})
	if err == nil {
		t.Fatal("Load() with missing explicit file succeeded, want error")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want config file not found", err)
	}
}

func TestProviderLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(`ui: {color_scheme: "sepia"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err == nil {
		t.Fatal("Load() with schema violation succeeded, want error")
	}
}

func TestProviderLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(`cap_sufix: "Cap"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err == nil {
		t.Fatal("Load() with unknown field succeeded, want error")
	}
}

func TestProviderLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CapSuffix != "Cap" || cfg.ParamName != "cap" {
		t.Errorf("Load() without file = %+v, want defaults", cfg)
	}
}

func TestProviderLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() with canceled context succeeded, want error")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	orig := DefaultConfig()
	orig.Exclude = []string{"*_gen.go", "vendor/*"}
	orig.UI.Verbose = true

	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(GenerateCUE(orig)), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	if cfg.CapSuffix != orig.CapSuffix || cfg.ParamName != orig.ParamName || !cfg.UI.Verbose {
		t.Errorf("round trip = %+v, want %+v", cfg, orig)
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("Exclude = %v, want 2 patterns", cfg.Exclude)
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/custom/dir")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, want /custom/dir", dir)
	}
}
