package hierarchy

import (
	"reflect"
	"testing"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

func TestLevel_PrecedenceOrder(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Ticket
		want domain.Level
	}{
		{"epic by type", domain.Ticket{Key: "P-1", Type: "Epic"}, domain.LevelEpic},
		{"epic by unkeyed with epic name", domain.Ticket{Key: "something", Epic: "Payments"}, domain.LevelEpic},
		{"subtask by type and parent", domain.Ticket{Key: "P-2", Type: "Sub-task", ParentKey: "P-1"}, domain.LevelSubtask},
		{"subtask type without parent is not a subtask", domain.Ticket{Key: "P-3", Type: "Sub-task"}, domain.LevelStory},
		{"story by type", domain.Ticket{Key: "P-4", Type: "Story"}, domain.LevelStory},
		{"story by declared subtasks", domain.Ticket{Key: "P-5", Type: "Task", SubtaskKeys: []string{"P-6"}}, domain.LevelStory},
		{"fallback subtask via parent", domain.Ticket{Key: "weird", ParentKey: "P-1"}, domain.LevelSubtask},
		{"ambiguous defaults to story", domain.Ticket{Key: "weird"}, domain.LevelStory},
	}
	for _, c := range cases {
		if got := Level(c.in); got != c.want {
			t.Fatalf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func storyFixture() []domain.Ticket {
	return []domain.Ticket{
		{ID: "P-1", Key: "P-1", Type: "Story", Summary: "Parent", Assignee: "Alice",
			EstimateHours: 10, TimeSpentHours: 4, Epic: "Payments", SubtaskKeys: []string{"P-2", "P-3", "GHOST-9"}},
		{ID: "P-2", Key: "P-2", Type: "Sub-task", ParentKey: "P-1", Assignee: "Bob", EstimateHours: 3, TimeSpentHours: 1},
		{ID: "P-3", Key: "P-3", Type: "Sub-task", ParentKey: "P-1", Assignee: "Carol", EstimateHours: 2},
		{ID: "P-4", Key: "P-4", Type: "Story", Summary: "Loner", Assignee: "Alice", EstimateHours: 5},
	}
}

func TestBuild_AggregatesSubtaskEffortIntoStory(t *testing.T) {
	res := Build(storyFixture())
	if len(res.UserStories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(res.UserStories))
	}
	parent := res.UserStories[0]
	if !parent.HasSubtasks || len(parent.Subtasks) != 2 {
		t.Fatalf("subtasks: %+v", parent.Subtasks)
	}
	if parent.EstimateHours != 5 || parent.TimeSpentHours != 1 {
		t.Fatalf("aggregated totals: est=%v spent=%v", parent.EstimateHours, parent.TimeSpentHours)
	}
	if parent.OriginalEstimateHours != 10 || parent.OriginalTimeSpentHours != 4 {
		t.Fatalf("originals lost: %v/%v", parent.OriginalEstimateHours, parent.OriginalTimeSpentHours)
	}

	loner := res.UserStories[1]
	if loner.HasSubtasks || loner.EstimateHours != 5 {
		t.Fatalf("story without subtasks keeps raw values: %+v", loner)
	}
}

func TestBuild_GroupsByEpicWithNoEpicBucket(t *testing.T) {
	res := Build(storyFixture())
	if len(res.Hierarchy) != 2 {
		t.Fatalf("expected 2 epic groups, got %d", len(res.Hierarchy))
	}
	if res.Hierarchy[0].Name != "Payments" || len(res.Hierarchy[0].Stories) != 1 {
		t.Fatalf("first group: %+v", res.Hierarchy[0])
	}
	if res.Hierarchy[1].Name != domain.NoEpic {
		t.Fatalf("missing No Epic bucket: %q", res.Hierarchy[1].Name)
	}
}

func TestBuild_IdempotentRebuild(t *testing.T) {
	tickets := storyFixture()
	first := Build(tickets)
	second := Build(tickets)
	if !reflect.DeepEqual(first.UserStories, second.UserStories) {
		t.Fatalf("user stories differ between rebuilds")
	}
	if !reflect.DeepEqual(first.Hierarchy, second.Hierarchy) {
		t.Fatalf("hierarchy differs between rebuilds")
	}
	// The input tickets themselves must not grow links across rebuilds.
	if len(tickets[0].SubtaskKeys) != 3 {
		t.Fatalf("input mutated: %v", tickets[0].SubtaskKeys)
	}
}

func TestBuild_ChildSideOnlyLinkStillAttaches(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "P-1", Key: "P-1", Type: "Story", EstimateHours: 9},
		{ID: "P-2", Key: "P-2", Type: "Sub-task", ParentKey: "P-1", EstimateHours: 4},
	}
	res := Build(tickets)
	if len(res.UserStories) != 1 {
		t.Fatalf("expected 1 story, got %d", len(res.UserStories))
	}
	s := res.UserStories[0]
	if !s.HasSubtasks || s.EstimateHours != 4 || s.OriginalEstimateHours != 9 {
		t.Fatalf("child-side link not honored: %+v", s)
	}
}

func TestBuild_ContradictoryLinksResolveOneDirectional(t *testing.T) {
	// B declares A as its subtask while A claims B as its parent: circular
	// on paper. The permissive resolution keeps both tickets and dedupes the
	// parent/child pair without crashing or double counting.
	tickets := []domain.Ticket{
		{ID: "A-1", Key: "A-1", Type: "Task", ParentKey: "B-1", EstimateHours: 2},
		{ID: "B-1", Key: "B-1", Type: "Task", SubtaskKeys: []string{"A-1"}, EstimateHours: 7},
	}
	res := Build(tickets)
	var b *domain.UserStory
	for i := range res.UserStories {
		if res.UserStories[i].Key == "B-1" {
			b = &res.UserStories[i]
		}
	}
	if b == nil {
		t.Fatalf("B-1 missing from stories: %+v", res.UserStories)
	}
	if len(b.Subtasks) != 1 || b.Subtasks[0].Key != "A-1" {
		t.Fatalf("expected exactly one A-1 child, got %+v", b.Subtasks)
	}
	if b.EstimateHours != 2 {
		t.Fatalf("aggregation over contradictory input: %v", b.EstimateHours)
	}
}

func TestBuild_UnknownReferencesDroppedSilently(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "P-1", Key: "P-1", Type: "Story", SubtaskKeys: []string{"NOPE-1", "NOPE-2"}, EstimateHours: 6},
	}
	res := Build(tickets)
	s := res.UserStories[0]
	if s.HasSubtasks || len(s.Subtasks) != 0 {
		t.Fatalf("unresolved refs should drop: %+v", s)
	}
	if s.EstimateHours != 6 {
		t.Fatalf("story should keep raw estimate: %v", s.EstimateHours)
	}
}
