// Package icopack builds the desktop application's multi-size .ico from its
// 512px PNG source.
package icopack

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/icopack/internal/icon"
	platformcmd "github.com/louisbranch/icopack/internal/platform/cmd"
	apperrors "github.com/louisbranch/icopack/internal/platform/errors"
)

// Project layout relative to the root. The marker directory identifies the root.
const (
	assetsDir     = "electron/assets"
	defaultSource = "electron/assets/icons/512x512.png"
	defaultOutput = "electron/assets/icon.ico"
)

// Config holds configuration for icon packing. Paths are not exposed as
// flags; the environment overrides exist for relocated build pipelines.
type Config struct {
	Root    string `env:"ROOT"`
	Source  string `env:"SOURCE"`
	Output  string `env:"OUTPUT"`
	Sizes   []int  `env:"SIZES" envSeparator:","`
	Filter  string `env:"FILTER" envDefault:"catmullrom"`
	Verbose bool   `env:"VERBOSE"`
}

// ParseConfig loads ICOPACK_* environment defaults and then parses flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Filter, "filter", cfg.Filter, fmt.Sprintf("resampling filter %v", icon.Filters()))
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log each resampled size to stderr")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options resolves cfg into packing options. Relative paths are resolved
// against the project root, which defaults to the nearest directory at or
// above wd that contains electron/assets.
func (c Config) Options(wd string) (icon.Options, error) {
	root := strings.TrimSpace(c.Root)
	if root == "" {
		root = findProjectRoot(wd)
	}
	root = filepath.Clean(root)

	filter, err := icon.ParseFilter(c.Filter)
	if err != nil {
		return icon.Options{}, err
	}
	sizes := icon.DefaultSizes()
	if len(c.Sizes) > 0 {
		sizes = icon.SquareSizes(c.Sizes)
	}
	return icon.Options{
		Source: resolvePath(root, c.Source, defaultSource),
		Output: resolvePath(root, c.Output, defaultOutput),
		Sizes:  sizes,
		Filter: filter,
	}, nil
}

// Run packs the icon and reports the output path on out.
func Run(ctx context.Context, cfg Config, out io.Writer, logw io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	opts, err := cfg.Options(wd)
	if err != nil {
		return err
	}
	if cfg.Verbose && logw != nil {
		opts.Logger = log.New(logw, "icopack: ", 0)
	}
	if err := icon.Pack(ctx, opts); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Success: Generated %s\n", opts.Output)
	return err
}

// FailureMessage renders err for a human reading stderr.
func FailureMessage(err error) string {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return "Error: " + domainErr.UserMessage()
	}
	return "Error: " + err.Error()
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return apperrors.GetCode(err).ExitCode()
}

func resolvePath(root, configured, fallback string) string {
	p := strings.TrimSpace(configured)
	if p == "" {
		p = filepath.FromSlash(fallback)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// findProjectRoot walks upward from start to the first directory holding the
// assets tree, falling back to start so a missing tree surfaces as a missing
// source image.
func findProjectRoot(start string) string {
	dir := filepath.Clean(start)
	for {
		if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(assetsDir))); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(start)
		}
		dir = parent
	}
}
