package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("evmlens %s", version)
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" && len(setting.Value) >= 8 {
					fmt.Printf(" (%s)", setting.Value[:8])
				}
			}
		}
		fmt.Println()
	},
}
