package palette

import (
	"slices"
	"testing"

	"film-map-cli/model"
)

func TestAssign_DrawsFromActivePalette(t *testing.T) {
	a := NewAssigner(42)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		c := a.Assign()
		if !slices.Contains(ActiveColours, c) {
			t.Fatalf("expected active colour, got %q", c)
		}
		seen[c] = true
	}
	if len(seen) != len(ActiveColours) {
		t.Fatalf("expected every palette entry to be drawn, got %d of %d", len(seen), len(ActiveColours))
	}
}

func TestAssign_SameSeedSameSequence(t *testing.T) {
	a := NewAssigner(7)
	b := NewAssigner(7)
	for i := 0; i < 20; i++ {
		if got, want := a.Assign(), b.Assign(); got != want {
			t.Fatalf("draw %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestRegionColour(t *testing.T) {
	film := model.Film{RegionCode: "CA-ON", AssignedColour: "#E00000"}
	if got := RegionColour(film, true); got != "#E00000" {
		t.Fatalf("expected film colour, got %q", got)
	}
	if got := RegionColour(model.Film{}, false); got != InactiveColour {
		t.Fatalf("expected inactive colour, got %q", got)
	}
}

func TestRegionColourTable_CoversEveryRegion(t *testing.T) {
	films := map[string]model.Film{
		"CA-ON": {RegionCode: "CA-ON", AssignedColour: "#FF0000"},
		"CA-QC": {RegionCode: "CA-QC", AssignedColour: "#C20000"},
	}
	lookup := func(id string) (model.Film, bool) {
		f, ok := films[id]
		return f, ok
	}
	ids := []string{"CA-ON", "CA-QC", "CA-NU", "CA-YT"}

	table := RegionColourTable(ids, lookup)
	if len(table) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(table))
	}
	for _, id := range ids {
		want := InactiveColour
		if f, ok := films[id]; ok {
			want = f.AssignedColour
		}
		if table[id] != want {
			t.Fatalf("region %s: expected %q, got %q", id, want, table[id])
		}
	}
}
