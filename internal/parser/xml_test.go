package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="0.92">
  <channel>
    <item>
      <key>PROJ-1</key>
      <summary>Checkout flow rework</summary>
      <type>Story</type>
      <priority>Major</priority>
      <status>In Progress</status>
      <assignee>Alice</assignee>
      <reporter>Carol</reporter>
      <timeestimate seconds="10800">3 hours</timeestimate>
      <timespent seconds="3600">1 hour</timespent>
      <subtask>PROJ-2</subtask>
      <label>checkout</label>
      <customfield id="customfield_10100">
        <customfieldname>Epic Link</customfieldname>
        <customfieldvalues><customfieldvalue>Payments</customfieldvalue></customfieldvalues>
      </customfield>
    </item>
    <item>
      <key>PROJ-2</key>
      <summary>Wire new payment form</summary>
      <type>Sub-task</type>
      <priority>Medium</priority>
      <assignee>Bob</assignee>
      <parent>PROJ-1</parent>
      <timeestimate>7200</timeestimate>
    </item>
  </channel>
</rss>`

func TestParseXML_ExtractsFieldsAndTimeTracking(t *testing.T) {
	tickets, err := ParseXML(sampleXML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}

	story := tickets[0]
	if story.Key != "PROJ-1" || story.ID != "PROJ-1" {
		t.Fatalf("bad key/id: %q/%q", story.Key, story.ID)
	}
	if story.Priority != domain.PriorityHigh || story.PriorityRaw != "Major" {
		t.Fatalf("priority not normalized: %q raw %q", story.Priority, story.PriorityRaw)
	}
	if story.EstimateHours != 3 {
		t.Fatalf("expected 3h from seconds attribute, got %v", story.EstimateHours)
	}
	if story.TimeSpentHours != 1 {
		t.Fatalf("expected 1h spent, got %v", story.TimeSpentHours)
	}
	if story.Epic != "Payments" {
		t.Fatalf("epic custom field not read: %q", story.Epic)
	}
	if len(story.SubtaskKeys) != 1 || story.SubtaskKeys[0] != "PROJ-2" {
		t.Fatalf("subtask keys: %v", story.SubtaskKeys)
	}
	if len(story.Labels) != 1 || story.Labels[0] != "checkout" {
		t.Fatalf("labels: %v", story.Labels)
	}

	sub := tickets[1]
	if sub.ParentKey != "PROJ-1" {
		t.Fatalf("parent key not read: %q", sub.ParentKey)
	}
	if sub.EstimateHours != 2 {
		t.Fatalf("expected 2h from numeric text content, got %v", sub.EstimateHours)
	}
	// Epic falls back to the parent key when no epic custom field exists.
	if sub.Epic != "PROJ-1" {
		t.Fatalf("epic fallback: %q", sub.Epic)
	}
}

func TestParseXML_NoPhantomEstimate(t *testing.T) {
	xml := `<rss><channel><item><key>X-1</key><summary>No estimate here</summary></item></channel></rss>`
	tickets, err := ParseXML(xml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tickets[0].EstimateHours != 0 {
		t.Fatalf("estimate invented: %v", tickets[0].EstimateHours)
	}
	if tickets[0].Assignee != "Unassigned" {
		t.Fatalf("assignee default: %q", tickets[0].Assignee)
	}
}

func TestParseXML_StoryPointsFallback(t *testing.T) {
	xml := `<rss><channel><item>
      <key>X-1</key><summary>Pointed story</summary>
      <customfield><customfieldname>Story Points</customfieldname>
        <customfieldvalues>
          <customfieldvalue>3</customfieldvalue>
          <customfieldvalue>5</customfieldvalue>
        </customfieldvalues>
      </customfield>
    </item></channel></rss>`
	tickets, err := ParseXML(xml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Last non-empty value wins, taken as hours directly.
	if tickets[0].EstimateHours != 5 {
		t.Fatalf("expected 5, got %v", tickets[0].EstimateHours)
	}
}

func TestParseXML_StoryPointsIgnoredWhenTimeEstimatePresent(t *testing.T) {
	xml := `<rss><channel><item>
      <key>X-1</key><summary>s</summary>
      <timeestimate seconds="7200"/>
      <customfield><customfieldname>Story points</customfieldname>
        <customfieldvalues><customfieldvalue>13</customfieldvalue></customfieldvalues>
      </customfield>
    </item></channel></rss>`
	tickets, err := ParseXML(xml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tickets[0].EstimateHours != 2 {
		t.Fatalf("time estimate should win over story points: %v", tickets[0].EstimateHours)
	}
}

func TestParseXML_MalformedDocument(t *testing.T) {
	_, err := ParseXML("<rss><channel><item><key>X-1</key>")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if len(pe.Msg) > 200 {
		t.Fatalf("message not truncated: %d chars", len(pe.Msg))
	}
	if !strings.HasPrefix(err.Error(), "invalid XML: ") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestParseXML_EmptyDocumentIsNotAnError(t *testing.T) {
	tickets, err := ParseXML("<rss><channel></channel></rss>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 0 {
		t.Fatalf("expected no tickets, got %d", len(tickets))
	}
}

func TestParseXML_CustomerRequestDetection(t *testing.T) {
	xml := `<rss><channel>
      <item><key>A-1</key><summary>Fix login</summary></item>
      <item><key>A-2</key><summary>Onboard new client portal</summary></item>
      <item><key>A-3</key><summary>Cleanup</summary><label>support</label></item>
    </channel></rss>`
	tickets, err := ParseXML(xml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tickets[0].IsCustomerRequest {
		t.Fatalf("A-1 should not be a customer request")
	}
	if !tickets[1].IsCustomerRequest || !tickets[2].IsCustomerRequest {
		t.Fatalf("customer markers missed: %v %v", tickets[1].IsCustomerRequest, tickets[2].IsCustomerRequest)
	}
}
