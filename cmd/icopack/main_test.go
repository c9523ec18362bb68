package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestIcopackExitCodes runs main in a child process so exit codes and the
// stdout/stderr split can be observed.
func TestIcopackExitCodes(t *testing.T) {
	if os.Getenv("ICOPACK_MAIN_SUBPROCESS") == "1" {
		os.Args = []string{"icopack"}
		main()
		return
	}

	t.Run("success", func(t *testing.T) {
		root := t.TempDir()
		iconsDir := filepath.Join(root, "electron", "assets", "icons")
		if err := os.MkdirAll(iconsDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeSource(t, filepath.Join(iconsDir, "512x512.png"))

		stdout, stderr, code := runMain(t, root)
		if code != 0 {
			t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr)
		}
		want := "Success: Generated " + filepath.Join(root, "electron", "assets", "icon.ico")
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q on stdout, got %q", want, stdout)
		}
		if _, err := os.Stat(filepath.Join(root, "electron", "assets", "icon.ico")); err != nil {
			t.Fatalf("expected icon to exist: %v", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		root := t.TempDir()
		_, stderr, code := runMain(t, root)
		if code == 0 {
			t.Fatal("expected non-zero exit")
		}
		if !strings.Contains(stderr, "source image not found") {
			t.Fatalf("expected missing-source message, got %q", stderr)
		}
	})

	t.Run("text source", func(t *testing.T) {
		root := t.TempDir()
		iconsDir := filepath.Join(root, "electron", "assets", "icons")
		if err := os.MkdirAll(iconsDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(iconsDir, "512x512.png"), []byte("plain text"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, stderr, code := runMain(t, root)
		if code == 0 {
			t.Fatal("expected non-zero exit")
		}
		if !strings.Contains(stderr, "could not be decoded") {
			t.Fatalf("expected decode message, got %q", stderr)
		}
		if _, err := os.Stat(filepath.Join(root, "electron", "assets", "icon.ico")); !os.IsNotExist(err) {
			t.Fatalf("expected no icon, stat returned %v", err)
		}
	})
}

func runMain(t *testing.T, root string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestIcopackExitCodes$")
	cmd.Env = append(os.Environ(),
		"ICOPACK_MAIN_SUBPROCESS=1",
		"ICOPACK_ROOT="+root,
		"ICOPACK_OTEL_ENDPOINT=",
	)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	return stdout.String(), stderr.String(), exitErr.ExitCode()
}

func writeSource(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x / 2), G: uint8(y / 2), B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode source: %v", err)
	}
}
