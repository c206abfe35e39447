package team

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sprintdeck/sprintdeck/internal/domain"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	data := "developers:\n  - name: Alice\n    capacity: 20\n  - name: Bob\n  - name: \"\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	devs, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(devs) != 2 {
		t.Fatalf("devs: %+v", devs)
	}
	if devs[0].Name != "Alice" || devs[0].Capacity != 20 || !devs[0].Manual {
		t.Fatalf("alice: %+v", devs[0])
	}
	if devs[1].Name != "Bob" || devs[1].Capacity != domain.DefaultCapacity {
		t.Fatalf("bob default capacity: %+v", devs[1])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	if err := os.WriteFile(path, []byte("developers: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	in := []domain.Developer{
		{Name: "Alice", Capacity: 20},
		{Name: "Bob", Capacity: 40},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("devs: %+v", out)
	}
	for i := range in {
		if out[i].Name != in[i].Name || out[i].Capacity != in[i].Capacity {
			t.Fatalf("round trip mismatch at %d: %+v vs %+v", i, in[i], out[i])
		}
	}
}
