/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// Quadrant buckets a story on the risk/value scatter.
type Quadrant string

const (
	QuadrantQuickWin  Quadrant = "quickWin"
	QuadrantStrategic Quadrant = "strategic"
	QuadrantFiller    Quadrant = "filler"
	QuadrantRisk      Quadrant = "risk"
)

// quadrantHoursSplit is the effort boundary between quick and heavy work.
const quadrantHoursSplit = 6

// EpicSlice is one wedge of the epic breakdown.
type EpicSlice struct {
	Name    string  `json:"name"`
	Hours   float64 `json:"hours"`
	Stories int     `json:"stories"`
}

// Metrics is the full derived sprint view. Every field is recomputed from
// (userStories, devs) on each call; the engine holds no state.
type Metrics struct {
	TotalCapacity    float64            `json:"totalCapacity"`
	TotalAssigned    float64            `json:"totalAssigned"`
	TotalTimeSpent   float64            `json:"totalTimeSpent"`
	TotalWork        float64            `json:"totalWork"`
	LoadPercentage   int                `json:"loadPercentage"`
	SprintProgress   int                `json:"sprintProgress"`
	DevLoads         []domain.DevLoad   `json:"devLoads"`
	OverloadedCount  int                `json:"overloadedCount"`
	SortedStories    []domain.UserStory `json:"sortedStories"`
	AtRiskStories    []domain.UserStory `json:"atRiskStories"`
	LowPriorityCount int                `json:"lowPriorityCount"`
	EpicBreakdown    []EpicSlice        `json:"epicBreakdown"`
}

// Compute derives all sprint metrics from the aggregated stories and roster.
func Compute(stories []domain.UserStory, devs []domain.Developer) Metrics {
	m := Metrics{}
	for _, d := range devs {
		m.TotalCapacity += d.Capacity
	}
	for _, s := range stories {
		m.TotalAssigned += s.EstimateHours
		m.TotalTimeSpent += s.TimeSpentHours
		if s.Priority == domain.PriorityLow || s.Priority == domain.PriorityLowest {
			m.LowPriorityCount++
		}
	}
	m.TotalWork = m.TotalTimeSpent + m.TotalAssigned
	m.LoadPercentage = percent(m.TotalWork, m.TotalCapacity)
	m.SprintProgress = percent(m.TotalTimeSpent, m.TotalWork)

	m.DevLoads = devLoads(stories, devs)
	for _, d := range m.DevLoads {
		if d.LoadPercent > 100 {
			m.OverloadedCount++
		}
	}

	m.SortedStories = sortByUrgency(stories)
	m.AtRiskStories = atRisk(m.SortedStories, m.TotalCapacity)
	m.EpicBreakdown = epicBreakdown(stories)
	return m
}

// percent is round(num/den*100) with a zero-denominator guard.
func percent(num, den float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(num / den * 100))
}

// devLoads attributes effort to developers. For a story with subtasks each
// subtask's effort goes to that subtask's own assignee, so one story can load
// several developers; a plain story loads its own assignee. Names not in the
// roster are skipped entirely.
func devLoads(stories []domain.UserStory, devs []domain.Developer) []domain.DevLoad {
	spent := make(map[string]float64, len(devs))
	remaining := make(map[string]float64, len(devs))
	known := make(map[string]bool, len(devs))
	for _, d := range devs {
		known[d.Name] = true
	}
	add := func(name string, est, sp float64) {
		if !known[name] {
			return
		}
		remaining[name] += est
		spent[name] += sp
	}
	for _, s := range stories {
		if s.HasSubtasks {
			for _, st := range s.Subtasks {
				add(st.Assignee, st.EstimateHours, st.TimeSpentHours)
			}
			continue
		}
		add(s.Assignee, s.EstimateHours, s.TimeSpentHours)
	}

	loads := make([]domain.DevLoad, 0, len(devs))
	for _, d := range devs {
		assigned := spent[d.Name] + remaining[d.Name]
		loads = append(loads, domain.DevLoad{
			Developer:   d,
			Assigned:    assigned,
			Spent:       spent[d.Name],
			Remaining:   remaining[d.Name],
			LoadPercent: percent(assigned, d.Capacity),
		})
	}
	return loads
}

// typeRank orders ticket types for the cutoff sort. Sub-task is checked
// before task because one contains the other.
func typeRank(typ string) int {
	t := strings.ToLower(typ)
	switch {
	case strings.Contains(t, "bug"), strings.Contains(t, "blocker"):
		return 0
	case strings.Contains(t, "sub-task"), strings.Contains(t, "subtask"):
		return 3
	case strings.Contains(t, "story"):
		return 1
	case strings.Contains(t, "spike"), strings.Contains(t, "research"):
		return 4
	case strings.Contains(t, "task"):
		return 2
	}
	return 2
}

// sortByUrgency orders stories by priority rank, then type rank. The sort is
// stable so equal stories keep their input order across rebuilds.
func sortByUrgency(stories []domain.UserStory) []domain.UserStory {
	out := make([]domain.UserStory, len(stories))
	copy(out, stories)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if pi != pj {
			return pi < pj
		}
		return typeRank(out[i].Type) < typeRank(out[j].Type)
	})
	return out
}

// atRisk walks the urgency-sorted stories accumulating total work and flags
// everything from the first story that pushes the running sum past capacity.
// The at-risk set is exactly that suffix, boundary story included.
func atRisk(sorted []domain.UserStory, capacity float64) []domain.UserStory {
	var cumulative float64
	var out []domain.UserStory
	for _, s := range sorted {
		cumulative += s.TimeSpentHours + s.EstimateHours
		if cumulative > capacity {
			out = append(out, s)
		}
	}
	return out
}

// StoryQuadrant places a story on the risk/value scatter using its original
// estimate (falling back to the aggregated one) and priority value.
func StoryQuadrant(s domain.UserStory) Quadrant {
	hours := s.OriginalEstimateHours
	if hours == 0 {
		hours = s.EstimateHours
	}
	value := s.Priority.Value()
	switch {
	case hours <= quadrantHoursSplit && value >= 3:
		return QuadrantQuickWin
	case hours > quadrantHoursSplit && value >= 3:
		return QuadrantStrategic
	case hours <= quadrantHoursSplit:
		return QuadrantFiller
	}
	return QuadrantRisk
}

func epicBreakdown(stories []domain.UserStory) []EpicSlice {
	var slices []EpicSlice
	index := map[string]int{}
	for _, s := range stories {
		name := s.Epic
		if name == "" {
			name = domain.NoEpic
		}
		i, ok := index[name]
		if !ok {
			i = len(slices)
			index[name] = i
			slices = append(slices, EpicSlice{Name: name})
		}
		slices[i].Hours += s.TimeSpentHours + s.EstimateHours
		slices[i].Stories++
	}
	return slices
}
