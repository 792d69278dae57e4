package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/graph"
	"github.com/junioryono/godigen/internal/loader"
)

// NewGraphCommand creates the graph command
func NewGraphCommand() *cobra.Command {
	var (
		component string
		dot       bool
	)

	cmd := &cobra.Command{
		Use:   "graph <graph.yaml>",
		Short: "Show the binding dependencies of a component",
		Long: `Load a binding graph document and print the dependencies between the
bindings of one component, leaves first. Use --component to select a
subcomponent by its qualified type name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			selected := root
			if component != "" {
				selected = findComponent(root, godigen.NewTypeName(component))
				if selected == nil {
					return fmt.Errorf("component %s not found in %s", component, args[0])
				}
			}

			deps, err := graph.FromBindings(selected.Bindings)
			if err != nil {
				return err
			}
			v := graph.NewVisualizer(deps)
			if dot {
				return v.WriteDOT(cmd.OutOrStdout())
			}
			return v.WriteText(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&component, "component", "c", "", "Qualified type of the component to show")
	cmd.Flags().BoolVar(&dot, "dot", false, "Output Graphviz DOT instead of text")

	return cmd
}

func findComponent(root *godigen.BindingGraph, t godigen.TypeName) *godigen.BindingGraph {
	var found *godigen.BindingGraph
	root.Walk(func(g *godigen.BindingGraph) {
		if found == nil && strings.EqualFold(g.Component.TypeName.String(), t.String()) {
			found = g
		}
	})
	return found
}
