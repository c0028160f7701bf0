package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/armature/internal/validator"
	"github.com/aretw0/armature/pkg/adapters/file"
)

var validateCmd = &cobra.Command{
	Use:   "validate <program.yaml>",
	Short: "Check a program file for structural problems",
	Long:  `Validates a block program without running it: parent references, acyclicity, nesting depth and branch slots.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		maxDepth, _ := cmd.Flags().GetInt("max-depth")

		program, err := file.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := validator.Validate(program, validator.Options{MaxDepth: maxDepth}); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Program %q is valid (%d blocks)\n", program.ID, len(program.Blocks))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Int("max-depth", validator.DefaultMaxDepth, "Maximum nesting depth")
}
