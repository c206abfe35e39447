/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// ParseText parses delimited plain text, one ticket per non-blank line.
// Fields split on tab first, falling back to comma when fewer than 3 tab
// fields result. Lines with fewer than 2 fields are skipped; an input where
// nothing parses returns an empty list, never an error.
func ParseText(raw string) []domain.Ticket {
	var tickets []domain.Ticket
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			parts = strings.Split(line, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
		}

		switch {
		case len(parts) >= 4:
			// key, summary, priority, assignee[, hours[, epic]]
			hours := 0.0
			if len(parts) > 4 {
				if v, err := strconv.ParseFloat(parts[4], 64); err == nil {
					hours = v
				}
			}
			epic := ""
			if len(parts) > 5 {
				epic = parts[5]
			}
			assignee := parts[3]
			if assignee == "" {
				assignee = "Unassigned"
			}
			priRaw := parts[2]
			if priRaw == "" {
				priRaw = "Medium"
			}
			tickets = append(tickets, textTicket(parts[0], parts[1], priRaw, assignee, hours, epic, len(tickets)))
		case len(parts) >= 2:
			// key, summary[, priority]
			priRaw := "Medium"
			if len(parts) > 2 && parts[2] != "" {
				priRaw = parts[2]
			}
			tickets = append(tickets, textTicket(parts[0], parts[1], priRaw, "Unassigned", 0, "", len(tickets)))
		}
	}
	if tickets == nil {
		return []domain.Ticket{}
	}
	return tickets
}

func textTicket(key, summary, priRaw, assignee string, hours float64, epic string, ordinal int) domain.Ticket {
	id := key
	if id == "" {
		id = fmt.Sprintf("TICKET-%d", ordinal+1)
	}
	return domain.Ticket{
		ID:            id,
		Key:           key,
		Summary:       summary,
		Type:          "Task",
		Priority:      NormalizePriority(priRaw),
		PriorityRaw:   priRaw,
		Status:        "Open",
		Assignee:      assignee,
		EstimateHours: hours,
		Epic:          epic,
	}
}

// Parse auto-detects the input format: documents starting with '<' go through
// the XML path, anything else is treated as delimited text.
func Parse(raw string) ([]domain.Ticket, error) {
	if strings.HasPrefix(strings.TrimSpace(raw), "<") {
		return ParseXML(raw)
	}
	return ParseText(raw), nil
}
