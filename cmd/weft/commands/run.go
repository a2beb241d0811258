package commands

import (
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"go.weft.build/weft/internal/app"
)

// parseParallelism implements spec.md §6's runner-options contract for
// `parallelism`: a positive integer, the literal "max", or unset/empty
// (which maps to 0, letting the scheduler pick runtime.NumCPU() itself).
func parseParallelism(raw string) (int, error) {
	switch raw {
	case "":
		return 0, nil
	case "max":
		return runtime.NumCPU(), nil
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, zerr.With(zerr.New("invalid --parallel value"), "value", raw)
		}
		return n, nil
	}
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script across the selected projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetStringSlice("to")
			from, _ := cmd.Flags().GetStringSlice("from")
			parallelFlag, _ := cmd.Flags().GetString("parallel")
			parallel, err := parseParallelism(parallelFlag)
			if err != nil {
				return err
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			changedOnly, _ := cmd.Flags().GetBool("changed-only")
			allowWarnings, _ := cmd.Flags().GetBool("allow-warnings")
			force, _ := cmd.Flags().GetBool("force")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			ignoreOrder, _ := cmd.Flags().GetBool("ignore-dependency-order")
			failFast, _ := cmd.Flags().GetBool("fail-fast")

			return c.app.Run(cmd.Context(), app.RunOptions{
				Script:                 args[0],
				To:                     to,
				From:                   from,
				Parallelism:            parallel,
				Quiet:                  quiet,
				ChangedProjectsOnly:    changedOnly,
				AllowWarningsInSuccess: allowWarnings,
				Force:                  force,
				NoCache:                noCache,
				IgnoreDependencyOrder:  ignoreOrder,
				FailFast:               failFast,
			})
		},
	}

	cmd.Flags().StringSlice("to", nil, "Run only the transitive upstream closure of these projects")
	cmd.Flags().StringSlice("from", nil, "Run only the transitive downstream closure of these projects")
	cmd.Flags().StringP("parallel", "p", "", "Maximum number of tasks executing at once: a positive integer, \"max\" for all hardware threads, or unset for the same default")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress live stdout (stderr is still shown)")
	cmd.Flags().Bool("changed-only", false, "Restrict the incremental skip to a task's own changes")
	cmd.Flags().Bool("allow-warnings", false, "Keep the run's exit code zero despite tasks that succeeded with warnings")
	cmd.Flags().BoolP("force", "f", false, "Bypass the incremental skip (a cache restore is still attempted)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the content-addressed cache entirely")
	cmd.Flags().Bool("ignore-dependency-order", false, "Ignore dependency edges and run every selected task concurrently")
	cmd.Flags().Bool("fail-fast", false, "Stop scheduling new tasks as soon as one fails")

	return cmd
}
