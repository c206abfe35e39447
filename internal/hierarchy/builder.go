/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package hierarchy

import (
	"regexp"
	"strings"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// issueKeyRe matches conventional tracker keys like PROJ-123.
var issueKeyRe = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// Result is the output of one rebuild: the flat input echoed back, the
// aggregated story list, and the epic-grouped tree. It is a pure function of
// the input list; rebuilding from the same tickets is idempotent.
type Result struct {
	Tickets     []domain.Ticket
	UserStories []domain.UserStory
	Hierarchy   []domain.EpicGroup
}

// Level classifies a ticket. The order of the checks is load-bearing:
// epic markers beat subtask markers beat story markers, and the final arm
// deliberately defaults ambiguous tickets to story so they stay visible in
// planning rather than vanishing from every chart.
func Level(t domain.Ticket) domain.Level {
	typ := strings.ToLower(t.Type)
	keyed := issueKeyRe.MatchString(t.Key)
	switch {
	case strings.Contains(typ, "epic"), !keyed && t.Epic != "":
		return domain.LevelEpic
	case t.ParentKey != "" && (strings.Contains(typ, "sub-task") || strings.Contains(typ, "subtask")):
		return domain.LevelSubtask
	case keyed && (strings.Contains(typ, "story") || len(t.SubtaskKeys) > 0):
		return domain.LevelStory
	case t.ParentKey != "":
		return domain.LevelSubtask
	}
	return domain.LevelStory
}

// Build classifies every ticket, links subtasks to their parent stories and
// aggregates effort upward. References to keys not present in the dataset are
// dropped silently; the hierarchy degrades to partial information instead of
// failing the rebuild.
func Build(tickets []domain.Ticket) Result {
	byKey := make(map[string]domain.Ticket, len(tickets))
	for _, t := range tickets {
		if t.Key != "" {
			byKey[t.Key] = t
		}
	}

	// Children can be declared by the parent (subtaskKeys) or claim the
	// parent themselves (parentKey); exports disagree on which side carries
	// the link, so both directions are honored. Declared order first, then
	// input order for child-side-only links.
	childKeys := make(map[string][]string, len(tickets))
	claimed := make(map[string]map[string]bool)
	addChild := func(parent, child string) {
		if parent == "" || child == "" || child == parent {
			return
		}
		if _, ok := byKey[child]; !ok {
			return
		}
		if claimed[parent] == nil {
			claimed[parent] = make(map[string]bool)
		}
		if claimed[parent][child] {
			return
		}
		claimed[parent][child] = true
		childKeys[parent] = append(childKeys[parent], child)
	}
	for _, t := range tickets {
		if t.Key == "" {
			continue
		}
		for _, sk := range t.SubtaskKeys {
			addChild(t.Key, sk)
		}
	}
	for _, t := range tickets {
		if t.ParentKey != "" && t.Key != "" {
			addChild(t.ParentKey, t.Key)
		}
	}

	var stories []domain.UserStory
	for _, t := range tickets {
		if Level(t) != domain.LevelStory {
			continue
		}
		story := domain.UserStory{
			Ticket:                 t,
			OriginalEstimateHours:  t.EstimateHours,
			OriginalTimeSpentHours: t.TimeSpentHours,
		}
		for _, ck := range childKeys[t.Key] {
			story.Subtasks = append(story.Subtasks, byKey[ck])
		}
		if len(story.Subtasks) > 0 {
			story.HasSubtasks = true
			var est, spent float64
			for _, st := range story.Subtasks {
				est += st.EstimateHours
				spent += st.TimeSpentHours
			}
			// Subtask sums are the authoritative story cost; the story's own
			// raw values stay available for display only.
			story.EstimateHours = est
			story.TimeSpentHours = spent
		}
		stories = append(stories, story)
	}

	var groups []domain.EpicGroup
	index := map[string]int{}
	for _, s := range stories {
		name := s.Epic
		if name == "" {
			name = domain.NoEpic
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, domain.EpicGroup{Name: name})
		}
		groups[i].Stories = append(groups[i].Stories, s)
	}

	return Result{Tickets: tickets, UserStories: stories, Hierarchy: groups}
}
