package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/hoaregistry/internal/config"
)

// TestBuildDetailsFrom tests merging module build info into build details.
// ldflags variables are empty in test binaries.
func TestBuildDetailsFrom(t *testing.T) {
	t.Parallel()

	t.Run("vcs settings", func(t *testing.T) {
		t.Parallel()

		settings := []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		}
		info := &debug.BuildInfo{
			GoVersion: "go1.25.1",
			Main:      debug.Module{Version: "v1.2.3"},
			Settings:  settings,
		}
		got := buildDetailsFrom(info)
		got.Platform = ""

		want := buildDetails{
			Version:   "v1.2.3",
			Commit:    "0123456",
			Modified:  true,
			Date:      "2026-01-02T03:04:05Z",
			GoVersion: "go1.25.1",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("build details mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no build info", func(t *testing.T) {
		t.Parallel()

		got := buildDetailsFrom(nil)
		if got.Version != "(devel)" {
			t.Errorf("expected version %q, got %q", "(devel)", got.Version)
		}
		if got.Commit != "unknown" || got.Date != "unknown" {
			t.Errorf("expected unknown commit and date, got %q and %q", got.Commit, got.Date)
		}
		if got.GoVersion == "" || got.Platform == "" {
			t.Errorf("expected toolchain and platform from the runtime, got %+v", got)
		}
	})
}

// TestGetVersion tests that a version is always reported.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if v := getVersion(); v == "" {
		t.Error("getVersion() returned empty string")
	}
}

// TestNewVersionCmd tests the full and short version output.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	t.Run("full", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"hoaregistry ", "commit:", "built:", "go:", "registry: " + config.DefaultEndpoint} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got %q", want, output)
			}
		}
	})

	t.Run("short", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--short"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := strings.TrimSpace(buf.String())
		if got != getVersion() {
			t.Errorf("expected %q, got %q", getVersion(), got)
		}
		if strings.Contains(buf.String(), "commit:") {
			t.Errorf("expected only the version, got %q", buf.String())
		}
	})
}
