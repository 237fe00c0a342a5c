package cmd

import (
	"fmt"
	"os"

	"github.com/SherlockGy/linekv/cmd/kv"
	"github.com/SherlockGy/linekv/cmd/serve"
	"github.com/SherlockGy/linekv/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.4.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "linekv",
		Short: "concurrent line-protocol key-value server",
		Long: fmt.Sprintf(`linekv (v%s)

An in-memory key-value server speaking a minimal line-oriented text
protocol over TCP, with a bounded worker pool and pluggable store
synchronization strategies.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of linekv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("linekv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "proto"
	RootCmd.PersistentFlags().String(key, "plain", util.WrapString("protocol variant to speak (plain, typed)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
