package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/cache"
	"github.com/grovekit/grove/pkg/observability"
	"github.com/grovekit/grove/pkg/render/treedot"
	"github.com/grovekit/grove/pkg/tree"
)

// Output formats for the render command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// artifactTTL bounds how long rendered artifacts stay cached. Scenario
// edits change the tree hash and miss naturally; the TTL just keeps stale
// shards from piling up forever.
const artifactTTL = 7 * 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: dot, svg, png
	detailed  bool     // annotate nodes with handle and level
	severed   bool     // include severed branches, drawn dashed
	backend   string   // artifact cache backend: file, redis, none
	redisAddr string   // redis address for the redis backend
	noCache   bool     // shortcut for --cache-backend none
}

// newRenderCmd creates the render command. Plain DOT goes to stdout; SVG and
// PNG artifacts are rendered through Graphviz and cached by tree hash and
// render options, so repeated renders of an unchanged scenario are instant.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		backend:   backendFile,
		redisAddr: "localhost:6379",
	}

	cmd := &cobra.Command{
		Use:   "render [scenario.toml] [tree-id]",
		Short: "Render a tree as DOT, SVG, or PNG",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeID := ""
			if len(args) > 1 {
				treeID = args[1]
			}
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], treeID, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "annotate nodes with handle and level")
	cmd.Flags().BoolVar(&opts.severed, "severed", false, "include severed branches, drawn dashed")
	cmd.Flags().StringVar(&opts.backend, "cache-backend", opts.backend, "artifact cache: file (default), redis, none")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "redis address for --cache-backend redis")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["dot"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatDOT}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPNG: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", f)
		}
	}
	return nil
}

func runRender(ctx context.Context, path, treeID string, opts *renderOpts) error {
	sc, err := readScenario(path)
	if err != nil {
		return err
	}
	if sc.Dialect == dialectWeighted {
		return renderTree(ctx, sc, path, treeID, tree.ParseWeighted, opts)
	}
	return renderTree(ctx, sc, path, treeID, tree.ParseRaw, opts)
}

func renderTree[C tree.Content](ctx context.Context, sc *scenarioFile, path, treeID string, parse tree.ParseFunc[C], opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	loaded, err := buildForest(sc, parse)
	if err != nil {
		return err
	}
	id, t, err := pickTree(loaded, treeID)
	if err != nil {
		return err
	}

	dot := treedot.ToDOT(t, treedot.Options{Detailed: opts.detailed, Severed: opts.severed})
	logger.Debugf("Generated DOT: %d bytes", len(dot))

	// Plain DOT with no output path goes straight to stdout.
	if len(opts.formats) == 1 && opts.formats[0] == formatDOT && opts.output == "" {
		fmt.Print(dot)
		return nil
	}

	backend := opts.backend
	if opts.noCache {
		backend = backendNone
	}
	store, err := newArtifactCache(ctx, backend, opts.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	treeHash := cache.Hash([]byte(dot))
	anyCached := false

	for _, format := range opts.formats {
		data, cached, err := renderArtifact(ctx, store, keyer, treeHash, dot, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		anyCached = anyCached || cached

		out := artifactPath(opts.output, path, string(id), format, len(opts.formats) > 1)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		printFile(out)
	}

	status := statusFresh
	if anyCached {
		status = statusCached
	}
	printStats(t.NodeCount(), treeDepth(t), status)
	return nil
}

// renderArtifact returns the bytes for one format, preferring the cache.
// Cache write failures degrade to a debug log; the artifact is already in
// hand at that point.
func renderArtifact(ctx context.Context, store cache.Cache, keyer cache.Keyer, treeHash, dot, format string, opts *renderOpts) (data []byte, cached bool, err error) {
	if format == formatDOT {
		return []byte(dot), false, nil
	}

	key := keyer.ArtifactKey(treeHash, cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: opts.detailed,
		Severed:  opts.severed,
	})
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		observability.Cache().OnHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnMiss(ctx, "artifact")

	spin := startSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
	switch format {
	case formatSVG:
		data, err = treedot.RenderSVG(dot)
	case formatPNG:
		data, err = treedot.RenderPNG(dot)
	}
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Rendering %s failed", format))
		return nil, false, err
	}
	spin.Stop()

	if err := store.Set(ctx, key, data, artifactTTL); err != nil {
		loggerFromContext(ctx).Debugf("cache set failed: %v", err)
	} else {
		observability.Cache().OnSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// artifactPath derives the output file for one format. An explicit --output
// wins for a single format; with several formats it acts as the base path.
// Without --output the base is "<scenario>_<tree-id>".
func artifactPath(output, scenarioPath, treeID, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(scenarioPath, filepath.Ext(scenarioPath)) + "_" + treeID
	} else if ext := filepath.Ext(base); validFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + format
}
