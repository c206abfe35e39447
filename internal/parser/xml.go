/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// ParseError reports a malformed XML document. The decoder's message is kept
// (truncated) so the caller can surface it verbatim.
type ParseError struct{ Msg string }

func (e *ParseError) Error() string { return "invalid XML: " + e.Msg }

const parseErrMax = 200

// node is a generic parsed XML element. Jira exports vary too much across
// server versions to map onto fixed structs, so fields are looked up by tag
// name the way the export's own tooling does.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

// find returns the first descendant with the given name, document order.
func (n *node) find(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if m := c.find(name); m != nil {
			return m
		}
	}
	return nil
}

// findAll collects every descendant with the given name, document order.
func (n *node) findAll(name string, out []*node) []*node {
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
		out = c.findAll(name, out)
	}
	return out
}

func (n *node) childText(name string) string {
	if c := n.find(name); c != nil {
		return strings.TrimSpace(c.text)
	}
	return ""
}

// fieldRule pairs a predicate over a custom field's display name with the
// extraction applied to its values. Rules run in order, first match wins.
type fieldRule struct {
	match func(name string) bool
	apply func(t *domain.Ticket, values []string)
}

var customFieldRules = []fieldRule{
	{
		match: func(name string) bool { return strings.Contains(name, "story points") },
		apply: func(t *domain.Ticket, values []string) {
			if t.EstimateHours != 0 {
				return
			}
			// Story points are treated as hours directly; last non-empty
			// numeric value wins.
			for _, v := range values {
				if num, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && num > 0 {
					t.EstimateHours = num
				}
			}
		},
	},
	{
		match: func(name string) bool { return strings.Contains(name, "epic") },
		apply: func(t *domain.Ticket, values []string) {
			for _, v := range values {
				if s := strings.TrimSpace(v); s != "" {
					t.Epic = s
				}
			}
		},
	},
}

// ParseXML parses a Jira-style RSS/XML export into flat tickets. A document
// that fails to decode yields a *ParseError; a well-formed document with no
// <item> elements yields an empty list and no error.
func ParseXML(raw string) ([]domain.Ticket, error) {
	root, err := decodeTree(raw)
	if err != nil {
		msg := err.Error()
		if len(msg) > parseErrMax {
			msg = msg[:parseErrMax]
		}
		return nil, &ParseError{Msg: msg}
	}

	items := root.findAll("item", nil)
	tickets := make([]domain.Ticket, 0, len(items))
	for _, item := range items {
		t := domain.Ticket{
			Key:         item.childText("key"),
			Summary:     item.childText("summary"),
			Type:        item.childText("type"),
			PriorityRaw: item.childText("priority"),
			Status:      item.childText("status"),
			Assignee:    item.childText("assignee"),
			Reporter:    item.childText("reporter"),
			Created:     item.childText("created"),
			Updated:     item.childText("updated"),
			Description: item.childText("description"),
			ParentKey:   item.childText("parent"),
		}
		t.Priority = NormalizePriority(t.PriorityRaw)
		if t.Assignee == "" {
			t.Assignee = "Unassigned"
		}

		t.EstimateHours = hoursFromSeconds(item.find("timeestimate"))
		t.TimeSpentHours = hoursFromSeconds(item.find("timespent"))

		for _, st := range item.findAll("subtask", nil) {
			if key := strings.TrimSpace(st.text); key != "" {
				t.SubtaskKeys = append(t.SubtaskKeys, key)
			}
		}
		for _, l := range item.findAll("label", nil) {
			if v := strings.TrimSpace(l.text); v != "" {
				t.Labels = append(t.Labels, v)
			}
		}

		for _, cf := range item.findAll("customfield", nil) {
			name := strings.ToLower(cf.childText("customfieldname"))
			if name == "" {
				continue
			}
			var values []string
			for _, cv := range cf.findAll("customfieldvalue", nil) {
				values = append(values, cv.text)
			}
			for _, rule := range customFieldRules {
				if rule.match(name) {
					rule.apply(&t, values)
					break
				}
			}
		}
		if t.Epic == "" {
			t.Epic = t.ParentKey
		}

		t.ID = t.Key
		if t.ID == "" {
			t.ID = fmt.Sprintf("TICKET-%d", len(tickets)+1)
		}
		t.IsCustomerRequest = detectCustomerRequest(t.Labels, t.Summary, t.Type, t.Epic)
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// hoursFromSeconds reads a Jira time element: a "seconds" attribute when
// present, the numeric text content otherwise. Result is hours.
func hoursFromSeconds(el *node) float64 {
	if el == nil {
		return 0
	}
	raw := el.attrs["seconds"]
	if raw == "" {
		raw = strings.TrimSpace(el.text)
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return secs / 3600
}

func decodeTree(raw string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	root := &node{name: ""}
	stack := []*node{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.attrs[a.Name.Local] = a.Value
				}
			}
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top := stack[len(stack)-1]
			top.text += string(t)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("unexpected EOF inside <%s>", stack[len(stack)-1].name)
	}
	return root, nil
}
