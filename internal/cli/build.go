package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/render/outline"
	"github.com/grovekit/grove/pkg/tree"
)

// newBuildCmd creates the build command, which loads a scenario file and
// prints every tree in it as an outline with its stats.
func newBuildCmd() *cobra.Command {
	var handles bool

	cmd := &cobra.Command{
		Use:   "build [scenario.toml]",
		Short: "Load a scenario file and print its trees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], handles)
		},
	}

	cmd.Flags().BoolVar(&handles, "handles", false, "annotate each node with its handle")

	return cmd
}

func runBuild(cmd *cobra.Command, path string, handles bool) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	sc, err := readScenario(path)
	if err != nil {
		return err
	}

	var count int
	if sc.Dialect == dialectWeighted {
		count, err = buildTrees(sc, tree.ParseWeighted, handles)
	} else {
		count, err = buildTrees(sc, tree.ParseRaw, handles)
	}
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Built %d trees from %s", count, path))
	printNextStep("Render one", fmt.Sprintf("%s render %s", appName, path))
	return nil
}

func buildTrees[C tree.Content](sc *scenarioFile, parse tree.ParseFunc[C], handles bool) (int, error) {
	loaded, err := buildForest(sc, parse)
	if err != nil {
		return 0, err
	}

	for _, id := range loaded.ids {
		t, _ := loaded.forest.GetByKey(id)

		fmt.Println(StyleTitle.Render(string(id)))
		printStats(t.NodeCount(), treeDepth(t), "")
		fmt.Print(outline.Render(t, outline.Options{Handles: handles}))
		printNewline()
	}
	return len(loaded.ids), nil
}
