//go:build !js

package main

import (
	"runtime"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hackasm/pkg/asm"
	"hackasm/pkg/utils"
)

var assembleOpts struct {
	output string
	jobs   int
}

var assembleCmd = &cobra.Command{
	Use:   "assemble FILE.asm...",
	Short: "Translate Hack assembly into .hack machine code",
	Long: `Assemble translates each FILE.asm into FILE.hack. Every file is an
independent program with its own symbol table; files are assembled
concurrently. A failing file is reported with its line and column and does
not stop the others, but the command exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if assembleOpts.output != "" && len(args) > 1 {
			return errors.New("-o can only be used with a single input file")
		}
		return assembleFiles(args, assembleOpts.output, assembleOpts.jobs)
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOpts.output, "output", "o", "", "output file path (default: input with .hack extension)")
	assembleCmd.Flags().IntVarP(&assembleOpts.jobs, "jobs", "j", runtime.NumCPU(), "maximum number of files assembled at once")
	rootCmd.AddCommand(assembleCmd)
}

func assembleFiles(paths []string, output string, jobs int) error {
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	var failed atomic.Int32
	for _, path := range paths {
		path := path // per-iteration copy; go.mod targets go 1.21 loop semantics
		out := output
		if out == "" {
			out = utils.OutputPath(path, ".hack")
		}
		g.Go(func() error {
			n, err := assembleFile(path, out)
			if err != nil {
				glog.Errorf("%v", err)
				failed.Add(1)
				return nil
			}
			glog.Infof("assembled %d instructions -> %s", n, out)
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return errors.Errorf("%d of %d files failed to assemble", n, len(paths))
	}
	return nil
}

// assembleFile assembles one source file into out and returns the number of
// instructions written.
func assembleFile(path, out string) (int, error) {
	source, err := utils.ReadSource(path)
	if err != nil {
		return 0, err
	}

	code, _, err := asm.Assemble(source)
	if err != nil {
		return 0, errors.Wrap(err, path)
	}
	glog.V(1).Infof("%s: %d instructions", path, len(code))

	if err := utils.WriteLines(out, code); err != nil {
		return 0, err
	}
	return len(code), nil
}
