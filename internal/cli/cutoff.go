package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sprintdeck/sprintdeck/internal/hierarchy"
	"github.com/sprintdeck/sprintdeck/internal/metrics"
)

var cutoffTeamFile string

var cutoffCmd = &cobra.Command{
	Use:   "cutoff [export-file]",
	Short: "Show the sprint cut-off line",
	Long: `Sorts user stories by priority and type, accumulates hours against team
capacity and marks every story past the cut-off line as at risk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickets, err := loadTickets(args[0])
		if err != nil {
			return err
		}
		devs, err := loadDevs(cutoffTeamFile, tickets)
		if err != nil {
			return err
		}

		res := hierarchy.Build(tickets)
		m := metrics.Compute(res.UserStories, devs)

		atRisk := make(map[string]bool, len(m.AtRiskStories))
		for _, s := range m.AtRiskStories {
			atRisk[s.ID] = true
		}

		fmt.Printf("Capacity: %.0fh\n\n", m.TotalCapacity)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tPRIORITY\tTYPE\tHOURS\tCUMULATIVE\tSTATUS")
		cumulative := 0.0
		for _, s := range m.SortedStories {
			hours := s.TimeSpentHours + s.EstimateHours
			cumulative += hours
			status := "fits"
			if atRisk[s.ID] {
				status = "AT RISK"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\t%s\n", s.ID, s.Priority, s.Type, hours, cumulative, status)
		}
		w.Flush()
		fmt.Printf("\n%d of %d stories past the cut-off\n", len(m.AtRiskStories), len(m.SortedStories))
		return nil
	},
}

func init() {
	cutoffCmd.Flags().StringVarP(&cutoffTeamFile, "team", "t", "", "YAML roster file (developers: [{name, capacity}])")
}
