//go:build !js

package main

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
	"hackasm/pkg/utils"
)

var dumpColor bool

var dumpCmd = &cobra.Command{
	Use:   "dump FILE.asm",
	Short: "Show how a program was classified and resolved",
	Long: `Dump assembles FILE.asm and prints the classified instruction stream,
the final symbol table and a listing of every emitted instruction next to
the source line it came from.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dumpFile(cmd.OutOrStdout(), args[0], dumpColor)
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpColor, "color", false, "colorize the pretty-printed structures")
	rootCmd.AddCommand(dumpCmd)
}

func dumpFile(w io.Writer, path string, color bool) error {
	source, err := utils.ReadSource(path)
	if err != nil {
		return err
	}

	a := asm.NewAssembler()
	code, sourceMap, err := a.Assemble(source)
	if err != nil {
		return errors.Wrap(err, path)
	}

	printer := pp.New()
	printer.SetColoringEnabled(color)
	printer.SetOutput(w)

	fmt.Fprintln(w, "; instructions")
	printer.Println(a.Instructions())
	fmt.Fprintln(w, "; symbols")
	printer.Println(a.Symbols().Entries())

	fmt.Fprintln(w, "; listing")
	for i, bits := range code {
		fmt.Fprintf(w, "%5d  %s  ; line %d\n", i, bits, sourceMap[uint16(i)])
	}
	return nil
}
