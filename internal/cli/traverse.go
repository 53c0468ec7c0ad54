package cli

import (
	"fmt"
	"iter"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/tree"
)

// traversalOrders lists the accepted --order names in display order.
var traversalOrders = []string{
	"sequential", "sequential-rev",
	"bfs", "bfs-rev",
	"pre", "pre-rev",
	"post", "post-rev",
	"in", "in-rev",
	"children",
}

// orderSeq maps an order name to the matching traversal of it. The name set
// is the same everywhere a traversal can be chosen: the traverse command,
// the explorer preview, and the HTTP inspector.
func orderSeq[C tree.Content](it tree.Iter[C], order string) (iter.Seq2[tree.Handle, *tree.Node[C]], error) {
	switch order {
	case "sequential":
		return it.Sequential(), nil
	case "sequential-rev":
		return it.SequentialRev(), nil
	case "bfs":
		return it.BFS(), nil
	case "bfs-rev":
		return it.BFSRev(), nil
	case "pre":
		return it.PreOrder(), nil
	case "pre-rev":
		return it.PreOrderRev(), nil
	case "post":
		return it.PostOrder(), nil
	case "post-rev":
		return it.PostOrderRev(), nil
	case "in":
		return it.InOrder(), nil
	case "in-rev":
		return it.InOrderRev(), nil
	case "children":
		return it.Children(), nil
	default:
		return nil, fmt.Errorf("unknown order: %s (must be one of %s)", order, strings.Join(traversalOrders, ", "))
	}
}

// traverseOpts holds the command-line flags for the traverse command.
type traverseOpts struct {
	order   string // traversal strategy name
	from    int    // start handle, -1 for the strategy default
	handles bool   // prefix each value with its handle
}

// newTraverseCmd creates the traverse command, which prints the visit
// sequence of one tree in a chosen order. Output goes to stdout one value
// per line so it pipes cleanly.
func newTraverseCmd() *cobra.Command {
	opts := traverseOpts{
		order: "pre",
		from:  int(tree.NoHandle),
	}

	cmd := &cobra.Command{
		Use:   "traverse [scenario.toml] [tree-id]",
		Short: "Print a tree in a chosen traversal order",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeID := ""
			if len(args) > 1 {
				treeID = args[1]
			}
			return runTraverse(args[0], treeID, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.order, "order", opts.order, "traversal order: "+strings.Join(traversalOrders, ", "))
	cmd.Flags().IntVar(&opts.from, "from", opts.from, "start handle (default: the order's natural start)")
	cmd.Flags().BoolVar(&opts.handles, "handles", false, "prefix each value with its handle")

	return cmd
}

func runTraverse(path, treeID string, opts *traverseOpts) error {
	sc, err := readScenario(path)
	if err != nil {
		return err
	}
	if sc.Dialect == dialectWeighted {
		return traverseTrees(sc, treeID, tree.ParseWeighted, opts)
	}
	return traverseTrees(sc, treeID, tree.ParseRaw, opts)
}

func traverseTrees[C tree.Content](sc *scenarioFile, treeID string, parse tree.ParseFunc[C], opts *traverseOpts) error {
	loaded, err := buildForest(sc, parse)
	if err != nil {
		return err
	}
	_, t, err := pickTree(loaded, treeID)
	if err != nil {
		return err
	}

	seq, err := orderSeq(t.IterAt(tree.Handle(opts.from)), opts.order)
	if err != nil {
		return err
	}

	for h, n := range seq {
		if opts.handles {
			fmt.Printf("%d\t%s\n", h, n.Content().Value())
		} else {
			fmt.Println(n.Content().Value())
		}
	}
	return nil
}
