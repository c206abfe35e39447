package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sprintdeck/sprintdeck/internal/hierarchy"
	"github.com/sprintdeck/sprintdeck/internal/metrics"
)

var reportTeamFile string

var reportCmd = &cobra.Command{
	Use:   "report [export-file]",
	Short: "Print the derived sprint metrics for an export",
	Long: `Rebuilds the work hierarchy, aggregates subtask effort into stories and
prints capacity load, progress, per-developer load and the epic breakdown.
Without --team the roster is derived from ticket assignees at default capacity.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickets, err := loadTickets(args[0])
		if err != nil {
			return err
		}
		devs, err := loadDevs(reportTeamFile, tickets)
		if err != nil {
			return err
		}

		res := hierarchy.Build(tickets)
		m := metrics.Compute(res.UserStories, devs)

		fmt.Printf("Stories: %d (from %d tickets, %d epics)\n", len(res.UserStories), len(tickets), len(res.Hierarchy))
		fmt.Printf("Capacity: %.0fh  Work: %.0fh (%.0fh spent + %.0fh remaining)\n", m.TotalCapacity, m.TotalWork, m.TotalTimeSpent, m.TotalAssigned)
		fmt.Printf("Load: %d%%  Progress: %d%%  At risk: %d  Low priority: %d\n", m.LoadPercentage, m.SprintProgress, len(m.AtRiskStories), m.LowPriorityCount)

		fmt.Println("\nTeam:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCAPACITY\tSPENT\tREMAINING\tLOAD")
		for _, d := range m.DevLoads {
			marker := ""
			if d.LoadPercent > 100 {
				marker = " (!)"
			}
			fmt.Fprintf(w, "%s\t%.0fh\t%.1fh\t%.1fh\t%d%%%s\n", d.Name, d.Capacity, d.Spent, d.Remaining, d.LoadPercent, marker)
		}
		w.Flush()

		fmt.Println("\nEpics:")
		for _, e := range m.EpicBreakdown {
			fmt.Printf("  %-30s %6.1fh  %d stories\n", e.Name, e.Hours, e.Stories)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportTeamFile, "team", "t", "", "YAML roster file (developers: [{name, capacity}])")
}
