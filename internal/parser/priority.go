/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
	"strings"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// NormalizePriority folds the many priority spellings seen in exports into
// the four planning buckets. Medium/normal land in High on purpose: they are
// committed work, not a maybe. Unrecognized values also default to High
// rather than an "unknown" bucket.
func NormalizePriority(raw string) domain.Priority {
	p := strings.ToLower(raw)
	switch {
	case strings.Contains(p, "highest"), strings.Contains(p, "critical"), strings.Contains(p, "blocker"):
		return domain.PriorityHighest
	case strings.Contains(p, "high"), strings.Contains(p, "major"):
		return domain.PriorityHigh
	case strings.Contains(p, "medium"), strings.Contains(p, "normal"):
		return domain.PriorityHigh
	case strings.Contains(p, "lowest"), strings.Contains(p, "trivial"):
		return domain.PriorityLowest
	case strings.Contains(p, "low"), strings.Contains(p, "minor"):
		return domain.PriorityLow
	}
	return domain.PriorityHigh
}

var customerMarkers = []string{"customer", "client", "request", "support", "external"}

// detectCustomerRequest joins labels, summary, type and epic into one string
// and looks for customer-facing markers.
func detectCustomerRequest(labels []string, summary, typ, epic string) bool {
	parts := append(append([]string{}, labels...), summary, typ, epic)
	text := strings.ToLower(strings.Join(parts, " "))
	for _, m := range customerMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ExtractAssignees returns the unique real assignees across tickets, in first
// appearance order, each with the default capacity. "Unassigned" is skipped.
func ExtractAssignees(tickets []domain.Ticket) []domain.Developer {
	seen := map[string]bool{}
	var devs []domain.Developer
	for _, t := range tickets {
		if t.Assignee == "" || t.Assignee == "Unassigned" || seen[t.Assignee] {
			continue
		}
		seen[t.Assignee] = true
		devs = append(devs, domain.Developer{Name: t.Assignee, Capacity: domain.DefaultCapacity})
	}
	return devs
}
