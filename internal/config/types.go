// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"unicode"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCapSuffix is returned when the capability suffix cannot form
	// exported Go identifiers.
	ErrInvalidCapSuffix = errors.New("invalid capability suffix")
	// ErrInvalidParamName is returned when the capability parameter name is
	// not a valid Go identifier.
	ErrInvalidParamName = errors.New("invalid parameter name")
)

type (
	// ColorScheme selects terminal rendering for styled output.
	ColorScheme string

	// UIConfig holds terminal-facing settings.
	UIConfig struct {
		// ColorScheme is auto, dark, or light.
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		// Verbose enables per-file rewrite tracing.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the resolved hazmat configuration.
	Config struct {
		// CapSuffix is appended to interface names to form capability
		// type names (default "Cap").
		CapSuffix string `mapstructure:"cap_suffix"`
		// ParamName names the capability parameter in named parameter
		// lists (default "cap").
		ParamName string `mapstructure:"param_name"`
		// ManifestPath locates the guarded-interface lock file.
		ManifestPath string `mapstructure:"manifest_path"`
		// Exclude lists glob patterns of files the rewriter skips.
		Exclude []string `mapstructure:"exclude"`
		// UI holds terminal-facing settings.
		UI UIConfig `mapstructure:"ui"`
	}
)

// IsValid reports whether the color scheme is one of the known values.
func (c ColorScheme) IsValid() bool {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true
	}
	return false
}

// Validate checks constraints the CUE schema cannot express: identifier
// validity of the naming knobs.
func (c *Config) Validate() error {
	if !isIdentifier(c.CapSuffix) || !unicode.IsUpper(firstRune(c.CapSuffix)) {
		return fmt.Errorf("%w: %q must be a Go identifier starting with an uppercase letter", ErrInvalidCapSuffix, c.CapSuffix)
	}
	if !isIdentifier(c.ParamName) || unicode.IsUpper(firstRune(c.ParamName)) {
		return fmt.Errorf("%w: %q must be a lowercase Go identifier", ErrInvalidParamName, c.ParamName)
	}
	if !c.UI.ColorScheme.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, c.UI.ColorScheme)
	}
	return nil
}

// isIdentifier reports whether s is a valid Go identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
