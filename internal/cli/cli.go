// Package cli implements the grove command-line interface.
//
// The CLI loads trees from TOML scenario files, prints and traverses them,
// renders them through Graphviz, and serves them over HTTP for inspection.
// Commands are built with cobra; logging goes through charmbracelet/log and
// travels on the context so every command helper can pick it up.
//
// # Commands
//
// The main commands are:
//   - demo: build a small tree in memory and walk it every way
//   - build: load a scenario file and print each tree as an outline
//   - traverse: print one tree in a chosen traversal order
//   - render: emit DOT, or render SVG/PNG artifacts through the cache
//   - explore: interactive terminal tree navigator
//   - serve: HTTP inspector for scenario trees
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/buildinfo"
	"github.com/grovekit/grove/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "grove"

// Execute runs the grove CLI under ctx and returns an error if any command
// fails. The root command registers every subcommand, wires --verbose into
// the context logger, and reports the ldflags-injected build information
// through --version.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "grove",
		Short:        "Grove builds, walks, and renders in-memory trees",
		Long:         `Grove is a CLI for building trees from TOML scenario files, walking them in eleven traversal orders, and rendering them as DOT, SVG, or PNG. Trees are arena-backed with stable integer handles, so severed branches stay addressable until compaction.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newTraverseCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newExploreCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// =============================================================================
// Cache Construction
// =============================================================================

// Artifact cache backends selectable via --cache-backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// newArtifactCache builds the cache backend for rendered artifacts. The file
// backend degrades to the null cache when no cache directory can be
// resolved; rendering still works, it just recomputes.
func newArtifactCache(ctx context.Context, backend, redisAddr string) (cache.Cache, error) {
	switch backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: redisAddr})
	case backendFile, "":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (must be %q, %q, or %q)", backend, backendFile, backendRedis, backendNone)
	}
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/grove/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
