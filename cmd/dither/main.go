// Command dither reduces an image to a small palette with one of the
// img2dither algorithms.
//
//	dither -a atkinson -p gameboy photo.jpg out.png
//	dither -sheet -p pico8 photo.jpg sheet.png
//	dither -list
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/wbrown/img2dither/internal/config"
	"github.com/wbrown/img2dither/internal/logging"
)

func main() {
	dotenvErr := config.LoadDotEnv()
	logging.Setup(os.Stderr, logging.ParseLevel(config.Get("LOG_LEVEL", "info")))
	if dotenvErr != nil {
		logging.WarnWithComponent(logging.ComponentConfig, "Failed to load .env", "error", dotenvErr)
	}

	o, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		logging.ErrorWithComponent(logging.ComponentCLI, "Failed", "error", err)
		os.Exit(1)
	}
}
