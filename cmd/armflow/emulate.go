package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinbound/armflow/config"
	"github.com/tinbound/armflow/emu"
	"github.com/tinbound/armflow/regs"
)

var emulateMaxSteps int

type printingHost struct{}

func (printingHost) OnSWI(vector uint32) {
	fmt.Printf("  swi #%d\n", vector)
}

func (printingHost) OnUndefined(va uint32, word uint32) {
	fmt.Printf("  undefined instruction %08x at %#08x\n", word, va)
}

var emulateCmd = &cobra.Command{
	Use:   "emulate <session.toml>",
	Short: "Step the ARM emulator from the session's first entry point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if len(ws.EntryPoints) == 0 {
			return fmt.Errorf("session has no entry_points configured")
		}

		img, err := ws.BuildImage()
		if err != nil {
			return fmt.Errorf("build image: %w", err)
		}

		e := emu.New(img)
		e.Coprocs = ws.BuildCoprocRegistry()
		e.Host = printingHost{}
		e.Regs.Set(regs.R15, ws.EntryPoints[0])

		steps := 0
		for ; steps < emulateMaxSteps; steps++ {
			if err := e.Step(); err != nil {
				fmt.Printf("stopped after %d step(s): %v\n", steps, err)
				break
			}
		}

		dumpRegisters(e)
		return nil
	},
}

func init() {
	emulateCmd.Flags().IntVarP(&emulateMaxSteps, "max-steps", "n", 1000, "maximum instructions to execute")
}

func dumpRegisters(e *emu.Emulator) {
	for i := 0; i < 13; i++ {
		fmt.Printf("r%-2d=%08x  ", i, e.Regs.Get(i))
		if i%4 == 3 {
			fmt.Println()
		}
	}
	fmt.Println()
	fmt.Printf("sp =%08x  lr =%08x  pc =%08x\n",
		e.Regs.Get(regs.R13), e.Regs.Get(regs.R14), e.Regs.Get(regs.R15))
	f := e.Flags()
	fmt.Printf("flags: N=%v Z=%v C=%v V=%v\n", f.N, f.Z, f.C, f.V)
}
