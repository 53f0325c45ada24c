// ifcbinfo prints a YAML summary of IFCB bins: identifier, schema, record
// and image counts, stitched pairs and optionally image shapes and headers.
//
// Bins are named by their base name relative to the store root:
//
//	ifcbinfo --root /data/ifcb D20160102T030405_IFCB101 IFCB5_2010_100_120000
//
// With --list, every bin under the given prefix is inspected:
//
//	ifcbinfo --store s3 --bucket archive --root mvco/ --list 2016/
//
// Store, cache and limits may also come from a YAML file (--config). Flags
// given on the command line override the file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hupe1980/ifcb"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags holds values that are not part of Config.
type cliFlags struct {
	configPath string
	list       bool
	headers    bool
	shapes     bool
	read       bool
	threshold  int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, flags, bins, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := ifcb.NewTextLogger(level)
	metrics := &ifcb.BasicMetricsCollector{}

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	if flags.list {
		var listed []string
		for _, prefix := range bins {
			names, err := listBins(ctx, src.lister, prefix)
			if err != nil {
				return fmt.Errorf("list %q: %w", prefix, err)
			}
			listed = append(listed, names...)
		}
		bins = listed
	}

	binOpts := []ifcb.Option{
		ifcb.WithLogger(logger),
		ifcb.WithMetricsCollector(metrics),
		ifcb.WithImagesOpen(),
	}
	if flags.threshold > 0 {
		binOpts = append(binOpts, ifcb.WithStitchThreshold(flags.threshold))
	}
	switch cfg.Stitching {
	case "on":
		binOpts = append(binOpts, ifcb.WithStitching(true))
	case "off":
		binOpts = append(binOpts, ifcb.WithStitching(false))
	}
	o := inspectOptions{
		headers: flags.headers,
		shapes:  flags.shapes,
		read:    flags.read,
		binOpts: binOpts,
	}

	reports := make([]binReport, len(bins))
	var g errgroup.Group
	for i, base := range bins {
		if err := src.rc.AcquireWorker(ctx); err != nil {
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			defer src.rc.ReleaseWorker()
			reports[i] = inspect(ctx, ifcb.NewFileset(src.store, base), o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	stats := metrics.GetStats()
	logger.InfoContext(ctx, "done",
		"bins", len(bins),
		"open_errors", stats.OpenErrors,
		"images_read", stats.ReadCount,
		"stitched_pairs", stats.StitchPairs,
	)
	if src.cache != nil {
		cs := src.cache.Stats()
		logger.DebugContext(ctx, "block cache",
			"hits", cs.Hits,
			"misses", cs.Misses,
			"hit_ratio", cs.HitRatio(),
			"bytes", cs.Bytes,
		)
	}

	if n := countFailed(reports); n > 0 {
		return fmt.Errorf("%d of %d bins failed", n, len(reports))
	}
	return nil
}

func countFailed(reports []binReport) int {
	n := 0
	for _, r := range reports {
		if r.Error != "" {
			n++
		}
	}
	return n
}

// parseArgs merges defaults, the optional config file and flags, in that
// order of increasing precedence.
func parseArgs(args []string, stderr io.Writer) (Config, cliFlags, []string, error) {
	var (
		flags cliFlags
		fc    Config
	)
	fs := pflag.NewFlagSet("ifcbinfo", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	fs.StringVar(&fc.Store.Kind, "store", "", "store kind: local, s3 or minio")
	fs.StringVar(&fc.Store.Root, "root", "", "directory or key prefix holding the filesets")
	fs.StringVar(&fc.Store.Bucket, "bucket", "", "bucket for s3 and minio")
	fs.StringVar(&fc.Store.Endpoint, "endpoint", "", "minio endpoint (host:port)")
	fs.BoolVar(&fc.Store.Secure, "secure", true, "use HTTPS for minio")
	fs.Int64Var(&fc.Cache.SizeBytes, "cache-size", 0, "block cache size in bytes for remote stores")
	fs.Int64Var(&fc.Limits.MemoryBytes, "memory-limit", 0, "memory limit in bytes for cached blocks")
	fs.Int64Var(&fc.Limits.IOBytesPerSecond, "io-rate", 0, "remote read limit in bytes per second")
	fs.Int64VarP(&fc.Limits.Workers, "workers", "j", 0, "bins inspected concurrently")
	fs.BoolVar(&fc.Decompress, "decompress", false, "read .zst and .lz4 compressed files")
	fs.StringVar(&fc.Stitching, "stitching", "", "auto, on or off")
	fs.StringVar(&fc.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.IntVar(&flags.threshold, "threshold", 0, "stitch overlap threshold in pixels")
	fs.BoolVarP(&flags.list, "list", "l", false, "treat arguments as prefixes and inspect every bin under them")
	fs.BoolVar(&flags.headers, "headers", false, "include .hdr values")
	fs.BoolVar(&flags.shapes, "shapes", false, "include the shape of every final image")
	fs.BoolVar(&flags.read, "read", false, "read every final image")

	if err := fs.Parse(args); err != nil {
		return Config{}, cliFlags{}, nil, err
	}

	cfg := DefaultConfig()
	if flags.configPath != "" {
		var err error
		if cfg, err = LoadConfig(flags.configPath); err != nil {
			return Config{}, cliFlags{}, nil, err
		}
	}
	override(fs, &cfg, fc)

	if err := cfg.Validate(); err != nil {
		return Config{}, cliFlags{}, nil, err
	}

	bins := fs.Args()
	if len(bins) == 0 {
		if !flags.list {
			return Config{}, cliFlags{}, nil, errors.New("no bins given")
		}
		bins = []string{""}
	}
	return cfg, flags, bins, nil
}

// override copies the values of flags that were set on the command line.
func override(fs *pflag.FlagSet, cfg *Config, fc Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store.Kind = fc.Store.Kind
		case "root":
			cfg.Store.Root = fc.Store.Root
		case "bucket":
			cfg.Store.Bucket = fc.Store.Bucket
		case "endpoint":
			cfg.Store.Endpoint = fc.Store.Endpoint
		case "secure":
			cfg.Store.Secure = fc.Store.Secure
		case "cache-size":
			cfg.Cache.SizeBytes = fc.Cache.SizeBytes
		case "memory-limit":
			cfg.Limits.MemoryBytes = fc.Limits.MemoryBytes
		case "io-rate":
			cfg.Limits.IOBytesPerSecond = fc.Limits.IOBytesPerSecond
		case "workers":
			cfg.Limits.Workers = fc.Limits.Workers
		case "decompress":
			cfg.Decompress = fc.Decompress
		case "stitching":
			cfg.Stitching = fc.Stitching
		case "log-level":
			cfg.LogLevel = fc.LogLevel
		}
	})
}
