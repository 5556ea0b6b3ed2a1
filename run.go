//go:build !js

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/utils"
)

type runOptions struct {
	cycles   uint64
	set      []string
	png      string
	scale    int
	snapshot string
	resume   string
	ram      []string
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run [FILE.asm | FILE.hack]",
	Short: "Run a program on the Hack emulator",
	Long: `Run loads a program into ROM, assembling it first when it is a .asm
file, and executes it until it halts or the cycle budget runs out. A Hack
program halts by jumping to itself (@END / 0;JMP) or by running off the end
of ROM.

With --resume the machine, program included, is restored from a snapshot
written by --snapshot and FILE may be omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runProgram(cmd.OutOrStdout(), path, runOpts)
	},
}

func init() {
	f := runCmd.Flags()
	f.Uint64Var(&runOpts.cycles, "cycles", 10_000_000, "maximum instructions to execute (0 for no limit)")
	f.StringArrayVar(&runOpts.set, "set", nil, "initialise a RAM cell before running, as NAME=VALUE (e.g. R0=5)")
	f.StringVar(&runOpts.png, "png", "", "write the screen to this PNG file after running")
	f.IntVar(&runOpts.scale, "scale", 1, "pixel scale factor for --png")
	f.StringVar(&runOpts.snapshot, "snapshot", "", "write the machine state to this zip file after running")
	f.StringVar(&runOpts.resume, "resume", "", "restore the machine state from this zip file before running")
	f.StringSliceVar(&runOpts.ram, "ram", nil, "RAM cells to print after running (addresses or symbols)")
	rootCmd.AddCommand(runCmd)
}

func runProgram(w io.Writer, path string, opts runOptions) error {
	vm := cpu.NewCPU()
	var symbols *asm.SymbolTable

	switch {
	case opts.resume != "":
		if path != "" {
			return errors.New("use either FILE or --resume, not both")
		}
		if err := vm.RestoreFromFile(opts.resume); err != nil {
			return errors.Wrapf(err, "restoring %s", opts.resume)
		}
		glog.V(1).Infof("restored %s at PC=%d after %d cycles", opts.resume, vm.PC, vm.Cycles)
	case path != "":
		var err error
		symbols, err = loadProgram(vm, path)
		if err != nil {
			return err
		}
	default:
		return errors.New("nothing to run: provide FILE or --resume")
	}

	for _, assignment := range opts.set {
		addr, value, err := parseAssignment(assignment, symbols)
		if err != nil {
			return err
		}
		vm.WriteMem(addr, value)
	}

	halted := vm.Run(opts.cycles)
	if !halted {
		glog.Warningf("stopped after %d cycles without halting", vm.Cycles)
	}

	fmt.Fprintf(w, "A=%d D=%d PC=%d halted=%t cycles=%d\n", vm.A, vm.D, vm.PC, vm.Halted, vm.Cycles)
	for _, name := range opts.ram {
		addr, err := resolveAddress(name, symbols)
		if err != nil {
			return err
		}
		v := vm.ReadMem(addr)
		fmt.Fprintf(w, "RAM[%d] %s = %d (0x%04X)\n", addr, name, int16(v), v)
	}

	if opts.png != "" {
		if err := vm.SaveScreenshot(opts.png, opts.scale); err != nil {
			return errors.Wrapf(err, "writing %s", opts.png)
		}
		glog.Infof("screen -> %s", opts.png)
	}
	if opts.snapshot != "" {
		if err := vm.HibernateToFile(opts.snapshot); err != nil {
			return errors.Wrapf(err, "writing %s", opts.snapshot)
		}
		glog.Infof("snapshot -> %s", opts.snapshot)
	}
	return nil
}

// loadProgram fills ROM from a .asm or .hack file. For assembly sources it
// also returns the symbol table so RAM cells can be named by variable.
func loadProgram(vm *cpu.CPU, path string) (*asm.SymbolTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm":
		source, err := utils.ReadSource(path)
		if err != nil {
			return nil, err
		}
		a := asm.NewAssembler()
		code, _, err := a.Assemble(source)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		if err := vm.LoadProgram(code); err != nil {
			return nil, errors.Wrap(err, path)
		}
		glog.V(1).Infof("%s: assembled %d instructions", path, len(code))
		return a.Symbols(), nil
	case ".hack":
		lines, err := utils.ReadLines(path)
		if err != nil {
			return nil, err
		}
		if err := vm.LoadProgram(lines); err != nil {
			return nil, errors.Wrap(err, path)
		}
		glog.V(1).Infof("%s: loaded %d instructions", path, vm.ProgramSize)
		return nil, nil
	}
	return nil, errors.Errorf("%s: unknown program type, want .asm or .hack", path)
}

// resolveAddress turns a number, a built-in symbol or a symbol of the
// assembled program into a RAM address.
func resolveAddress(name string, symbols *asm.SymbolTable) (uint16, error) {
	if n, err := strconv.ParseUint(name, 0, 16); err == nil {
		return uint16(n), nil
	}
	if symbols == nil {
		symbols = asm.NewSymbolTable()
	}
	addr, resolved, ok := symbols.Lookup(name)
	if !ok || !resolved {
		return 0, errors.Errorf("unknown RAM address %q", name)
	}
	return addr, nil
}

// parseAssignment parses NAME=VALUE. VALUE may be negative, in which case it
// is stored in two's complement.
func parseAssignment(s string, symbols *asm.SymbolTable) (uint16, uint16, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, errors.Errorf("invalid --set %q: want NAME=VALUE", s)
	}
	addr, err := resolveAddress(strings.TrimSpace(name), symbols)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), 0, 32)
	if err != nil || v < -32768 || v > 65535 {
		return 0, 0, errors.Errorf("invalid --set %q: value must fit in 16 bits", s)
	}
	return addr, uint16(v), nil
}
