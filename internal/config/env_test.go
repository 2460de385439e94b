package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("MD_PORT", "2323")
	t.Setenv("MD_BAD_INT", "abc")
	t.Setenv("MD_WAIT", "750ms")
	t.Setenv("MD_AUDIO", "false")

	if got := GetEnv("MD_PORT", "2222"); got != "2323" {
		t.Errorf("GetEnv = %q, want 2323", got)
	}
	if got := GetEnv("MD_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv unset = %q", got)
	}
	if got := GetEnvInt("MD_PORT", 1); got != 2323 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("MD_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvInt malformed = %d, want fallback 7", got)
	}
	if got := GetEnvDuration("MD_WAIT", time.Second); got != 750*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvBool("MD_AUDIO", true); got {
		t.Error("GetEnvBool = true, want false")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
}

func TestLoadDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("MD_FROM_FILE=file\nMD_PRESET=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MD_PRESET", "env")
	t.Setenv("MD_FROM_FILE", "")
	os.Unsetenv("MD_FROM_FILE")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("MD_FROM_FILE") })

	if got := os.Getenv("MD_FROM_FILE"); got != "file" {
		t.Errorf("MD_FROM_FILE = %q, want file", got)
	}
	if got := os.Getenv("MD_PRESET"); got != "env" {
		t.Errorf("MD_PRESET = %q, want env", got)
	}
}
