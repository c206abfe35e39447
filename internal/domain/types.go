package domain

// Priority is the normalized planning priority. Raw export strings are kept
// alongside it on the ticket.
type Priority string

const (
	PriorityHighest Priority = "Highest"
	PriorityHigh    Priority = "High"
	PriorityLow     Priority = "Low"
	PriorityLowest  Priority = "Lowest"
)

/// Rank orders priorities for the cutoff sort: most urgent first, unknown last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHighest:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 2
	case PriorityLowest:
		return 3
	}
	return 4
}

// Label is the planning bucket shown next to a priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHighest:
		return "Do Now"
	case PriorityHigh:
		return "This Sprint"
	case PriorityLow:
		return "Nice to Have"
	case PriorityLowest:
		return "Backlog/Ignore"
	}
	return string(p)
}

// Color is the chart color associated with a priority.
func (p Priority) Color() string {
	switch p {
	case PriorityHighest:
		return "#ef4444"
	case PriorityHigh:
		return "#f59e0b"
	case PriorityLow:
		return "#3b82f6"
	case PriorityLowest:
		return "#94a3b8"
	}
	return "#64748b"
}

// Value maps a priority to a 1..4 scale for the risk/value scatter (0 unknown).
func (p Priority) Value() int {
	switch p {
	case PriorityHighest:
		return 4
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 2
	case PriorityLowest:
		return 1
	}
	return 0
}

// Level classifies a ticket's place in the Epic > Story > Subtask hierarchy.
// It is derived, never parsed.
type Level string

const (
	LevelEpic    Level = "epic"
	LevelStory   Level = "story"
	LevelSubtask Level = "subtask"
)

// Ticket is one flat record as produced by the parser. Estimates are hours;
// zero means "unknown", the parser never invents a default.
type Ticket struct {
	ID                string   `json:"id"`
	Key               string   `json:"key"`
	Summary           string   `json:"summary"`
	Type              string   `json:"type"`
	Priority          Priority `json:"priority"`
	PriorityRaw       string   `json:"priorityRaw"`
	Status            string   `json:"status"`
	Assignee          string   `json:"assignee"`
	Reporter          string   `json:"reporter"`
	Created           string   `json:"created"`
	Updated           string   `json:"updated"`
	Description       string   `json:"description"`
	EstimateHours     float64  `json:"estimateHours"`
	TimeSpentHours    float64  `json:"timeSpentHours"`
	Epic              string   `json:"epic"`
	ParentKey         string   `json:"parentKey"`
	SubtaskKeys       []string `json:"subtaskKeys"`
	Labels            []string `json:"labels"`
	IsCustomerRequest bool     `json:"isCustomerRequest"`
}

// UserStory is a story-level ticket after aggregation. When subtasks resolved,
// EstimateHours/TimeSpentHours hold the subtask sums and the story's own raw
// values live in OriginalEstimateHours/OriginalTimeSpentHours.
type UserStory struct {
	Ticket
	Subtasks               []Ticket `json:"subtasks,omitempty"`
	HasSubtasks            bool     `json:"hasSubtasks"`
	OriginalEstimateHours  float64  `json:"originalEstimateHours"`
	OriginalTimeSpentHours float64  `json:"originalTimeSpentHours"`
}

// EpicGroup is one node of the hierarchy tree.
type EpicGroup struct {
	Name    string      `json:"name"`
	Stories []UserStory `json:"stories"`
}

// NoEpic is the synthesized bucket for stories without an epic name.
const NoEpic = "No Epic"

// Developer is one roster entry. Capacity is hours per sprint.
type Developer struct {
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
	Manual   bool    `json:"manual,omitempty"`
}

// DefaultCapacity is assigned to developers discovered from ticket assignees.
const DefaultCapacity = 40

// DevLoad is the derived per-developer workload.
type DevLoad struct {
	Developer
	Assigned    float64 `json:"assigned"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	LoadPercent int     `json:"loadPercent"`
}

// ExecutiveSummary holds the planner-entered narrative fields. The core
// passes them through untouched apart from rendering the text report.
type ExecutiveSummary struct {
	SprintGoal       string `json:"sprintGoal"`
	SprintStartDate  string `json:"sprintStartDate"`
	SprintEndDate    string `json:"sprintEndDate"`
	ConfidenceLevel  string `json:"confidenceLevel"`
	KeyRisks         string `json:"keyRisks"`
	DeliveryForecast string `json:"deliveryForecast"`
}
