package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/armature"
	"github.com/aretw0/armature/internal/logging"
	"github.com/aretw0/armature/internal/presentation/tui"
	"github.com/aretw0/armature/pkg/adapters/file"
	"github.com/aretw0/armature/pkg/adapters/sim"
	"github.com/aretw0/armature/pkg/controller"
	"github.com/aretw0/armature/pkg/domain"
)

// runCmd executes one program file against the simulated effector. Real
// hardware hosts embed the library and supply their own effector; the CLI
// ships simulation only.
var runCmd = &cobra.Command{
	Use:   "run <program.yaml>",
	Short: "Run a block program against the simulated arm",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		pacing, _ := cmd.Flags().GetDuration("pacing")
		verbose, _ := cmd.Flags().GetBool("trace-moves")

		logger := logging.New(logging.ParseLevel(level))

		program, err := file.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		eff := sim.New()
		engine := armature.New(
			armature.WithLogger(logger),
			armature.WithPacing(pacing),
		)
		ctrl := controller.New(engine, eff, controller.WithLogger(logger))

		runID, result, err := ctrl.Start(program)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("run accepted", "run_id", runID, "program_id", program.ID)

		runErr := <-result
		if verbose {
			for _, call := range eff.Calls() {
				if len(call.Targets) > 0 {
					fmt.Printf("  %s servo=%d value=%.1f\n", call.Name, call.Targets[0].ServoID, call.Targets[0].Value)
				} else {
					fmt.Printf("  %s\n", call.Name)
				}
			}
		}

		fmt.Println(tui.RenderOutcome(domain.OutcomeFor(runErr)))
		if domain.OutcomeFor(runErr) == domain.OutcomeFailed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("pacing", 250*time.Millisecond, "Delay between blocks")
	runCmd.Flags().Bool("trace-moves", false, "Print every simulated effector call after the run")
}
