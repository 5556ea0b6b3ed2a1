//go:build !js

// Command hackasm assembles Hack programs and runs them on an emulated Hack
// computer.
package main

import (
	goflag "flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hackasm",
	Short: "Assembler and emulator for the Hack computer",
	Long: `Hackasm translates Hack assembly (.asm) into Hack machine code (.hack),
one 16-character binary line per instruction, and runs either form on an
emulated Hack computer with 32K words of ROM and RAM.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog refuses to log before the Go flag set has been parsed. pflag
		// already filled in the values.
		_ = goflag.CommandLine.Parse(nil)
	},
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
}

func main() {
	// Tools log to stderr unless asked otherwise.
	_ = goflag.Set("logtostderr", "true")

	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}
