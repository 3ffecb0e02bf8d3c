// evmlens correlates compiled EVM bytecode with the source it came from:
// every byte of the output is attributed either to a source range or to an
// explicit gap, and push-instruction operands are told apart from opcodes.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagCompiler string
	flagEVM      string
	flagContext  int
	flagMode     string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "evmlens",
	Short: "evmlens - bytecode to source correlation for EVM contracts",
	Long: `evmlens compiles a contract through an external compilation service and
shows its bytecode segmented against the original source: which bytes came
from which source range, which bytes the compiler left unmapped, and which
bytes are instructions versus push operands.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagCompiler, "compiler", "", "compilation service URL")
	rootCmd.PersistentFlags().StringVar(&flagEVM, "evm-version", "", "EVM version passed to the compiler")
	rootCmd.PersistentFlags().IntVar(&flagContext, "context", -1, "source context lines")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "creation", "bytecode view: creation or runtime")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// effectiveConfig merges the config file with set flags.
func effectiveConfig() (Config, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagCompiler != "" {
		cfg.Compiler.URL = flagCompiler
	}
	if flagEVM != "" {
		cfg.Compiler.EVMVersion = flagEVM
	}
	if flagContext >= 0 {
		cfg.Context = flagContext
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
