package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "armature",
	Short: "Armature runs block programs against a robot arm",
	Long:  `Armature executes snap-together block programs (move, wait, repeat, conditionals, loops) against a physical or simulated robot arm, with safe clamping, cancellation and a runaway guard.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
