// Package main provides a one-shot utility that packs the application's
// multi-resolution .ico from its PNG source.
package main

import (
	"context"
	"flag"
	"os"

	platformcmd "github.com/louisbranch/icopack/internal/platform/cmd"
	"github.com/louisbranch/icopack/internal/platform/config"
	"github.com/louisbranch/icopack/internal/tools/icopack"
)

func main() {
	cfg, err := icopack.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	err = platformcmd.RunWithTelemetry(context.Background(), platformcmd.ServiceIcoPack, func(ctx context.Context) error {
		return icopack.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.ExitCodef(icopack.ExitCode(err), "%s", icopack.FailureMessage(err))
	}
}
