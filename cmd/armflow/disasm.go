package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/config"
)

var disasmCount int

var disasmCmd = &cobra.Command{
	Use:   "disasm <session.toml> <start-va>",
	Short: "Decode and print a run of instructions starting at a VA",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := config.Load(args[0])
		if err != nil {
			return err
		}
		va, err := parseVA(args[1])
		if err != nil {
			return err
		}
		img, err := ws.BuildImage()
		if err != nil {
			return fmt.Errorf("build image: %w", err)
		}

		for i := 0; i < disasmCount; i++ {
			word, ok := img.ReadU32(va)
			if !ok {
				return fmt.Errorf("unmapped at %#08x", va)
			}
			op, err := arm.Decode(va, word)
			if err != nil {
				fmt.Printf("%#08x: %08x  <%v>\n", va, word, err)
				va += 4
				continue
			}
			fmt.Printf("%#08x: %08x  %s\n", va, word, formatMnemonic(op))
			va += op.Size
		}
		return nil
	},
}

func init() {
	disasmCmd.Flags().IntVarP(&disasmCount, "count", "n", 16, "number of instructions to decode")
}

func parseVA(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid VA %q: %w", s, err)
	}
	return uint32(v), nil
}

func formatMnemonic(op *arm.Opcode) string {
	s := op.Mnemonic
	if op.Cond != arm.CondAL && op.Cond != arm.CondNV {
		s += conditionSuffix(op.Cond)
	}
	if op.IFlags.Has(arm.IFlagS) {
		s += "s"
	}
	return fmt.Sprintf("%-8s ; %d operand(s)", s, len(op.Operands))
}

var condSuffixes = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "", "",
}

func conditionSuffix(c arm.Cond) string {
	return condSuffixes[c]
}
