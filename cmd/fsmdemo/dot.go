package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/staticfsm/internal/blinker"
	"github.com/comalice/staticfsm/internal/production"
)

func newDotCmd(cfg *appConfig) *cobra.Command {
	var current string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the blinker state graph in Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			if current != "" {
				if _, ok := blinker.Definition.Lookup(current); !ok {
					return fmt.Errorf("unknown state %q", current)
				}
			}
			v := &production.DefaultVisualizer{}
			_, err := fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(production.GraphOf(blinker.Definition), current))
			return err
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "state to highlight")
	return cmd
}
