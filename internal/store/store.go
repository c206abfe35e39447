/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/hierarchy"
	"github.com/sprintdeck/sprintdeck/internal/metrics"
	"github.com/sprintdeck/sprintdeck/internal/parser"
)

// Snapshot is one immutable sprint state. Commands build a new snapshot;
// readers get a value copy and can never observe a half-applied command.
type Snapshot struct {
	Tickets     []domain.Ticket          `json:"tickets"`
	UserStories []domain.UserStory       `json:"userStories"`
	Hierarchy   []domain.EpicGroup       `json:"hierarchy"`
	Devs        []domain.Developer       `json:"devs"`
	Previous    []domain.Ticket          `json:"-"`
	Summary     domain.ExecutiveSummary  `json:"executiveSummary"`
	Loaded      bool                     `json:"isLoaded"`
}

// Store is the single authoritative holder of sprint state. All commands are
// synchronous single-step applications; derived metrics are recomputed fresh
// on every read, never cached.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Store { return &Store{log: log} }

// TicketPatch carries the fields an update command may change. Nil means
// "leave as is". Changing Priority goes through raw-string normalization the
// same way imports do.
type TicketPatch struct {
	Summary        *string  `json:"summary"`
	Type           *string  `json:"type"`
	Priority       *string  `json:"priority"`
	Status         *string  `json:"status"`
	Assignee       *string  `json:"assignee"`
	Description    *string  `json:"description"`
	EstimateHours  *float64 `json:"estimateHours"`
	TimeSpentHours *float64 `json:"timeSpentHours"`
	Epic           *string  `json:"epic"`
}

// ImportTickets replaces the ticket set wholesale, rebuilds the hierarchy and
// re-derives the roster. Capacity overrides survive for assignees that are
// rediscovered; manually added developers survive even when unassigned.
func (s *Store) ImportTickets(tickets []domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := hierarchy.Build(tickets)

	existing := make(map[string]domain.Developer, len(s.snap.Devs))
	for _, d := range s.snap.Devs {
		existing[d.Name] = d
	}
	extracted := parser.ExtractAssignees(tickets)
	devs := make([]domain.Developer, 0, len(extracted))
	discovered := make(map[string]bool, len(extracted))
	for _, d := range extracted {
		discovered[d.Name] = true
		if prev, ok := existing[d.Name]; ok {
			d.Capacity = prev.Capacity
		}
		devs = append(devs, d)
	}
	for _, d := range s.snap.Devs {
		if d.Manual && !discovered[d.Name] {
			devs = append(devs, d)
		}
	}

	next := s.snap
	next.Tickets = res.Tickets
	next.UserStories = res.UserStories
	next.Hierarchy = res.Hierarchy
	next.Devs = devs
	next.Loaded = true
	s.snap = next
	s.log.Info().Int("tickets", len(tickets)).Int("stories", len(res.UserStories)).Int("devs", len(devs)).Msg("tickets imported")
}

// ImportPrevious stores last sprint's tickets as an inert side channel. They
// feed no metric and no chart.
func (s *Store) ImportPrevious(tickets []domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	next.Previous = tickets
	s.snap = next
	s.log.Info().Int("tickets", len(tickets)).Msg("previous sprint stored")
}

// AddDev appends a manual developer. Exact-name duplicates are a no-op.
func (s *Store) AddDev(name string, capacity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.snap.Devs {
		if d.Name == name {
			return
		}
	}
	if capacity <= 0 {
		capacity = domain.DefaultCapacity
	}
	next := s.snap
	next.Devs = append(append([]domain.Developer{}, s.snap.Devs...), domain.Developer{Name: name, Capacity: capacity, Manual: true})
	s.snap = next
}

// UpdateDevCapacity replaces the capacity of a named developer; absent names
// are a no-op.
func (s *Store) UpdateDevCapacity(name string, capacity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	devs := make([]domain.Developer, len(s.snap.Devs))
	copy(devs, s.snap.Devs)
	for i := range devs {
		if devs[i].Name == name {
			devs[i].Capacity = capacity
		}
	}
	next := s.snap
	next.Devs = devs
	s.snap = next
}

// RemoveDev drops a developer from the roster. Tickets are untouched; their
// orphaned assignments simply stop contributing to load.
func (s *Store) RemoveDev(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	devs := make([]domain.Developer, 0, len(s.snap.Devs))
	for _, d := range s.snap.Devs {
		if d.Name != name {
			devs = append(devs, d)
		}
	}
	next := s.snap
	next.Devs = devs
	s.snap = next
}

// UpdateTicket patches the flat ticket with the given id and reruns the full
// hierarchy build, so aggregation reflects the edit even when a subtask
// changed. Returns false when no ticket matches.
func (s *Store) UpdateTicket(id string, p TicketPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets := make([]domain.Ticket, len(s.snap.Tickets))
	copy(tickets, s.snap.Tickets)
	found := false
	for i := range tickets {
		if tickets[i].ID != id {
			continue
		}
		found = true
		applyPatch(&tickets[i], p)
	}
	if !found {
		return false
	}
	res := hierarchy.Build(tickets)
	next := s.snap
	next.Tickets = res.Tickets
	next.UserStories = res.UserStories
	next.Hierarchy = res.Hierarchy
	s.snap = next
	return true
}

// UpdateTicketAssignee is the single-field form used by the ticket table.
func (s *Store) UpdateTicketAssignee(id, assignee string) bool {
	return s.UpdateTicket(id, TicketPatch{Assignee: &assignee})
}

func applyPatch(t *domain.Ticket, p TicketPatch) {
	if p.Summary != nil { t.Summary = *p.Summary }
	if p.Type != nil { t.Type = *p.Type }
	if p.Priority != nil {
		t.PriorityRaw = *p.Priority
		t.Priority = parser.NormalizePriority(*p.Priority)
	}
	if p.Status != nil { t.Status = *p.Status }
	if p.Assignee != nil { t.Assignee = *p.Assignee }
	if p.Description != nil { t.Description = *p.Description }
	if p.EstimateHours != nil { t.EstimateHours = *p.EstimateHours }
	if p.TimeSpentHours != nil { t.TimeSpentHours = *p.TimeSpentHours }
	if p.Epic != nil { t.Epic = *p.Epic }
}

// SetSummary replaces the executive-summary fields wholesale.
func (s *Store) SetSummary(sum domain.ExecutiveSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	next.Summary = sum
	s.snap = next
}

// Reset returns to the empty initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{}
}

// Snapshot returns the current state value. Slices are shared with the
// snapshot but commands never mutate them in place.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Metrics derives the full metric set from the current snapshot.
func (s *Store) Metrics() metrics.Metrics {
	snap := s.Snapshot()
	return metrics.Compute(snap.UserStories, snap.Devs)
}

// RenderSummary builds the plain-text executive report: the planner-entered
// fields followed by the derived load, progress and risk lines.
func (s *Store) RenderSummary() string {
	snap := s.Snapshot()
	m := metrics.Compute(snap.UserStories, snap.Devs)

	var lines []string
	sum := snap.Summary
	lines = append(lines,
		"Sprint Goal: "+sum.SprintGoal,
		fmt.Sprintf("Sprint Dates: %s to %s", sum.SprintStartDate, sum.SprintEndDate),
		"Confidence Level: "+sum.ConfidenceLevel,
		"Delivery Forecast: "+sum.DeliveryForecast,
		"Key Risks: "+sum.KeyRisks,
		"",
		fmt.Sprintf("Total Sprint Load: %d%% (%.0fh / %.0fh)", m.LoadPercentage, m.TotalWork, m.TotalCapacity),
	)
	if m.TotalTimeSpent > 0 {
		lines = append(lines, fmt.Sprintf("Time Tracking: %.0fh spent, %.0fh remaining (%d%% complete)", m.TotalTimeSpent, m.TotalAssigned, m.SprintProgress))
	}
	if m.LoadPercentage > 100 {
		lines = append(lines, fmt.Sprintf("The sprint is over-committed by %.0f hours.", m.TotalWork-m.TotalCapacity))
	}
	if m.OverloadedCount > 0 {
		var names []string
		for _, d := range m.DevLoads {
			if d.LoadPercent > 100 {
				names = append(names, d.Name)
			}
		}
		lines = append(lines, fmt.Sprintf("%d developer(s) over capacity: %s.", m.OverloadedCount, strings.Join(names, ", ")))
	}
	if n := len(m.AtRiskStories); n > 0 {
		lines = append(lines, fmt.Sprintf("%d ticket(s) are at risk of not finishing this sprint.", n))
		if m.LowPriorityCount > 0 {
			lines = append(lines, fmt.Sprintf("Consider deferring up to %d low-priority ticket(s).", m.LowPriorityCount))
		}
	}
	return strings.Join(lines, "\n")
}
