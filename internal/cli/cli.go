// Package cli implements the gander command-line interface.
//
// This package provides commands for computing graph statistics,
// layouts, and community partitions, inspecting graph files, and
// serving the same analytics over HTTP. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - stats: Compute node and graph statistics
//   - layout: Compute node positions for drawing
//   - communities: Detect communities with Louvain
//   - graph: Inspect graph files
//   - algorithms: List every available algorithm
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//
// # Configuration
//
// Settings load from gander.toml (working directory, then the user
// config dir) and individual flags override individual settings.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/pkg/buildinfo"
	"github.com/gandergraph/gander/pkg/cache"
	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/engine"
	"github.com/gandergraph/gander/pkg/graph"
)

// appName is the application name used for directories and display.
const appName = "gander"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	// Root persistent flag targets, layered over Config in the
	// root PersistentPreRunE.
	configPath   string
	workers      int
	timeout      time.Duration
	cacheBackend string
}

// New creates a new CLI instance with a default logger and default
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. Configuration resolves in PersistentPreRunE so every
// subcommand sees the merged file-plus-flags view.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "gander",
		Short:        "Gander analyzes graphs",
		Long:         `Gander is a graph analytics toolkit: centrality statistics, drawing layouts, and community detection over JSON graph files, from the command line or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./gander.toml, then the user config dir)")
	root.PersistentFlags().IntVar(&c.workers, "workers", 0, "concurrent task slots (0 = pool default)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "per-task budget (0 = no limit)")
	root.PersistentFlags().StringVar(&c.cacheBackend, "cache", "", "result cache backend: none, memory, file, redis, mongo")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(c.configPath)
		if err != nil {
			return err
		}
		flags := cmd.Root().PersistentFlags()
		c.Config = overrideConfig(cfg, overrides{
			workers:    c.workers,
			workersSet: flags.Changed("workers"),
			timeout:    c.timeout,
			timeoutSet: flags.Changed("timeout"),
			backend:    c.cacheBackend,
			backendSet: flags.Changed("cache"),
		})
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.communitiesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.algorithmsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine builds an engine from the resolved configuration.
func (c *CLI) newEngine(ctx context.Context) (*engine.Engine, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{
		Workers:        c.Config.Engine.Workers,
		DefaultTimeout: c.Config.Engine.Timeout.Duration,
		ResultTTL:      c.Config.Engine.ResultTTL.Duration,
		Cache:          store,
		Logger:         c.Logger,
	}), nil
}

// newCache builds the configured result cache backend. The engine
// closes it together with the pool.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "memory":
		return cache.NewMemoryCache(cfg.Size)
	case "file":
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "mongo":
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the directory for the file cache backend,
// following the platform user cache convention.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// =============================================================================
// Task Execution
// =============================================================================

// runTask submits one request and waits for it, animating a spinner
// that follows reported progress.
func (c *CLI) runTask(ctx context.Context, eng *engine.Engine, req engine.Request, message string) (dispatch.Result, bool, error) {
	spinner := newSpinnerWithContext(ctx, message+"...")
	req.OnProgress = func(v float64) {
		spinner.SetMessage(fmt.Sprintf("%s... %3.0f%%", message, v*100))
	}
	spinner.Start()

	res, cacheHit, err := eng.RunWithCacheInfo(ctx, req)
	if err != nil {
		spinner.StopWithError(message + " failed")
		return dispatch.Result{}, false, err
	}
	spinner.Stop()
	return res, cacheHit, nil
}

// loadGraph reads wire-format graph data from path, or stdin when
// path is empty or "-".
func loadGraph(path string) (graph.Data, error) {
	if path == "" || path == "-" {
		return graph.Read(os.Stdin)
	}
	return graph.ReadFile(path)
}

// writeJSONOutput writes v as indented JSON to path, or stdout when
// path is empty. Stdout output stays bare so it can be piped.
func writeJSONOutput(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseOptionPairs turns repeated key=value flags into loose options.
// Values parse as JSON when they can (numbers, booleans, lists) and
// fall back to plain strings, so --option seed=7 and --option
// root=hub both work.
func parseOptionPairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("option %q is not key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		opts[key] = v
	}
	return opts, nil
}

// parseNodeList splits a comma-separated node subset. Empty input
// means every node.
func parseNodeList(s string) []graph.ID {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	nodes := make([]graph.ID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			nodes = append(nodes, graph.ID(part))
		}
	}
	return nodes
}
