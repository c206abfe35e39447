package cli

import (
	"fmt"
	"os"

	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/parser"
	"github.com/sprintdeck/sprintdeck/internal/team"
)

// loadTickets reads and parses an export file (format auto-detected).
func loadTickets(path string) ([]domain.Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	tickets, err := parser.Parse(string(data))
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("no tickets found in %s", path)
	}
	return tickets, nil
}

// loadDevs builds the roster: the team file when given, the ticket assignees
// (at default capacity) otherwise.
func loadDevs(teamFile string, tickets []domain.Ticket) ([]domain.Developer, error) {
	if teamFile == "" {
		return parser.ExtractAssignees(tickets), nil
	}
	return team.Load(teamFile)
}
