package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/tree"
)

// newExploreCmd creates the explore command, an interactive navigator over
// one scenario tree.
func newExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [scenario.toml] [tree-id]",
		Short: "Navigate a tree interactively",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeID := ""
			if len(args) > 1 {
				treeID = args[1]
			}
			return runExplore(args[0], treeID)
		},
	}
}

func runExplore(path, treeID string) error {
	sc, err := readScenario(path)
	if err != nil {
		return err
	}
	if sc.Dialect == dialectWeighted {
		return exploreTree(sc, treeID, tree.ParseWeighted)
	}
	return exploreTree(sc, treeID, tree.ParseRaw)
}

func exploreTree[C tree.Content](sc *scenarioFile, treeID string, parse tree.ParseFunc[C]) error {
	loaded, err := buildForest(sc, parse)
	if err != nil {
		return err
	}
	id, t, err := pickTree(loaded, treeID)
	if err != nil {
		return err
	}

	model, err := newExploreModel(string(id), t)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model).Run()
	return err
}
