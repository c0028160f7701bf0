package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aretw0/armature/pkg/motion"
)

var jointsCmd = &cobra.Command{
	Use:   "joints",
	Short: "List the known joints and their mechanical ranges",
	Run: func(cmd *cobra.Command, args []string) {
		names := motion.JointNames()
		sort.Strings(names)

		fmt.Printf("%-12s %-6s %s\n", "JOINT", "SERVO", "RANGE (deg)")
		for _, name := range names {
			j, _ := motion.Lookup(name)
			fmt.Printf("%-12s %-6d [%.0f, %.0f]\n", name, j.ServoID, j.Min, j.Max)
		}
	},
}

func init() {
	rootCmd.AddCommand(jointsCmd)
}
