package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stategraphd",
	Short: "stategraphd streams a fixed agent workflow over Server-Sent Events",
	Long: `stategraphd runs a small fixed workflow graph per request and streams
its progress to the caller as an event stream, one frame per completed node.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}
