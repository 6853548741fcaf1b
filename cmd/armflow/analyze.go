package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tinbound/armflow/config"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <session.toml>",
	Short: "Run the code-flow analyzer from the session's entry points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if len(ws.EntryPoints) == 0 {
			return fmt.Errorf("session has no entry_points configured")
		}

		a, _, err := runAnalysis(ws)
		if err != nil {
			return err
		}

		funcs := make([]uint32, 0, len(a.State.Funcs))
		for fva := range a.State.Funcs {
			funcs = append(funcs, fva)
		}
		sort.Slice(funcs, func(i, j int) bool { return funcs[i] < funcs[j] })

		fmt.Printf("%d function(s), %d instruction(s) decoded\n", len(funcs), len(a.State.OpDone))
		for _, fva := range funcs {
			callees := a.State.FCalls[fva]
			fmt.Printf("  %#08x  calls=%d\n", fva, len(callees))
			for _, c := range callees {
				fmt.Printf("    -> %#08x\n", c)
			}
		}
		return nil
	},
}
