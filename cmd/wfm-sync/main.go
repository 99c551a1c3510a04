package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"wfm-sync/internal/app"
	"wfm-sync/internal/models"
	"wfm-sync/pkg/config"
	"wfm-sync/pkg/logger"
)

const version = "1.0.0"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: wfm-sync [flags] [command]

Commands:
  sync       update listings from trades in EE.log (default)
  listings   show your sell listings
  history    show recent sync results

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file (.json or .toml)")
	debug := flag.Bool("debug", false, "enable debug logging")
	watch := flag.Bool("watch", false, "keep running and sync whenever EE.log changes")
	flag.Usage = usage
	flag.Parse()

	// Setup logging level
	logLevel := zerolog.InfoLevel
	logOpts := []logger.Option{}
	if *debug {
		logLevel = zerolog.DebugLevel
		logOpts = append(logOpts, logger.WithConsole())
	}
	logOpts = append(logOpts, logger.WithLevel(logLevel))

	log, err := logger.NewLogger(logOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting wfm-sync",
		"version", version,
		"pid", os.Getpid(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"debug", *debug)

	cfg, err := config.FindConfig(*configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", err, "provided_path", *configPath)
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *watch, flag.Args()); err != nil {
		log.Error("Command failed", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		log.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, watch bool, args []string) error {
	command := "sync"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	wfm, err := app.NewWfmSync(cfg, log, os.Stdout)
	if err != nil {
		return err
	}
	defer wfm.Close()

	switch command {
	case "sync":
		fs := flag.NewFlagSet("sync", flag.ContinueOnError)
		watchCmd := fs.Bool("watch", watch, "keep running and sync whenever EE.log changes")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *watchCmd {
			return wfm.Watch(ctx)
		}
		return wfm.Sync(ctx)

	case "listings":
		fs := flag.NewFlagSet("listings", flag.ContinueOnError)
		sortKey := fs.String("sort", models.SortByUpdated, "sort by item, price, quantity, rank, visibility or updated")
		order := fs.String("order", "", "asc or desc (default depends on -sort)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return wfm.Listings(ctx, *sortKey, *order)

	case "history":
		fs := flag.NewFlagSet("history", flag.ContinueOnError)
		limit := fs.Int("n", 20, "number of entries to show")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return wfm.History(*limit)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
