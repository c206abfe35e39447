package team

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

// Roster is the on-disk team file consumed by the CLI.
type Roster struct {
	Developers []Member `yaml:"developers"`
}

type Member struct {
	Name     string  `yaml:"name"`
	Capacity float64 `yaml:"capacity,omitempty"`
}

// Load reads a roster file. Members without a capacity get the default.
func Load(path string) ([]domain.Developer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
	}
	devs := make([]domain.Developer, 0, len(r.Developers))
	for _, m := range r.Developers {
		if m.Name == "" {
			continue
		}
		cap := m.Capacity
		if cap <= 0 {
			cap = domain.DefaultCapacity
		}
		devs = append(devs, domain.Developer{Name: m.Name, Capacity: cap, Manual: true})
	}
	return devs, nil
}

// Save writes the roster back out, e.g. after capacity edits.
func Save(path string, devs []domain.Developer) error {
	r := Roster{Developers: make([]Member, 0, len(devs))}
	for _, d := range devs {
		r.Developers = append(r.Developers, Member{Name: d.Name, Capacity: d.Capacity})
	}
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster file to %s: %w", path, err)
	}
	return nil
}
