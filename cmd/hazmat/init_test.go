// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazmat-go/hazmat/internal/config"
	"github.com/hazmat-go/hazmat/internal/testutil"
)

func TestRunInit(t *testing.T) {
	// Not parallel: subtests mutate the working directory and initForce.

	t.Run("creates starter config", func(t *testing.T) {
		t.Cleanup(testutil.MustChdir(t, t.TempDir()))

		if err := runInit(initCmd, nil); err != nil {
			t.Fatalf("runInit() error = %v", err)
		}

		content := testutil.MustReadFile(t, config.LocalConfigFileName)
		if !strings.Contains(content, "cap_suffix") {
			t.Errorf("generated config missing cap_suffix:\n%s", content)
		}
		if !strings.Contains(content, "param_name") {
			t.Errorf("generated config missing param_name:\n%s", content)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Cleanup(testutil.MustChdir(t, t.TempDir()))
		testutil.MustWriteFile(t, config.LocalConfigFileName, "cap_suffix: \"Token\"\n")

		err := runInit(initCmd, nil)
		if err == nil {
			t.Fatal("runInit() on existing file succeeded, want error")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("runInit() error = %v, want already exists", err)
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Cleanup(testutil.MustChdir(t, t.TempDir()))
		testutil.MustWriteFile(t, config.LocalConfigFileName, "stale")

		initForce = true
		t.Cleanup(func() { initForce = false })

		if err := runInit(initCmd, nil); err != nil {
			t.Fatalf("runInit() error = %v", err)
		}
		if content := testutil.MustReadFile(t, config.LocalConfigFileName); content == "stale" {
			t.Error("force run left the old file in place")
		}
	})

	t.Run("global writes the user-level config", func(t *testing.T) {
		t.Cleanup(testutil.MustChdir(t, t.TempDir()))

		cfgDir := filepath.Join(t.TempDir(), "hazmat")
		config.SetConfigDirOverride(cfgDir)
		t.Cleanup(config.Reset)

		initGlobal = true
		t.Cleanup(func() { initGlobal = false })

		if err := runInit(initCmd, nil); err != nil {
			t.Fatalf("runInit() error = %v", err)
		}

		path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		content := testutil.MustReadFile(t, path)
		if !strings.Contains(content, "cap_suffix") {
			t.Errorf("generated user config missing cap_suffix:\n%s", content)
		}
		if _, err := os.Stat(config.LocalConfigFileName); !os.IsNotExist(err) {
			t.Errorf("global init touched the working directory: %v", err)
		}
	})

	t.Run("global rejects a filename argument", func(t *testing.T) {
		initGlobal = true
		t.Cleanup(func() { initGlobal = false })

		if err := runInit(initCmd, []string{"custom.cue"}); err == nil {
			t.Fatal("runInit(--global, custom.cue) succeeded, want error")
		}
	})

	t.Run("custom filename argument", func(t *testing.T) {
		t.Cleanup(testutil.MustChdir(t, t.TempDir()))

		if err := runInit(initCmd, []string{"custom.cue"}); err != nil {
			t.Fatalf("runInit() error = %v", err)
		}
		if _, err := os.Stat("custom.cue"); err != nil {
			t.Errorf("custom.cue not created: %v", err)
		}
	})
}
