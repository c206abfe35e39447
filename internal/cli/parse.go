package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sprintdeck/sprintdeck/internal/hierarchy"
)

var parseCmd = &cobra.Command{
	Use:   "parse [export-file]",
	Short: "Parse a ticket export and list the flat tickets",
	Long:  `Parses a Jira-style XML or delimited-text export and prints every ticket with its derived hierarchy level.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickets, err := loadTickets(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tLEVEL\tTYPE\tPRIORITY\tASSIGNEE\tEST(H)\tSPENT(H)\tEPIC")
		for _, t := range tickets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\t%.1f\t%s\n",
				t.ID, hierarchy.Level(t), t.Type, t.Priority, t.Assignee, t.EstimateHours, t.TimeSpentHours, t.Epic)
		}
		w.Flush()
		fmt.Printf("\n%d tickets parsed\n", len(tickets))
		return nil
	},
}
