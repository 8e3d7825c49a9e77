package palette

import (
	"math/rand"
	"time"

	"film-map-cli/model"
)

const (
	// MapBackground is the colour behind the region tiles.
	MapBackground = "#F0F0F0"
	// InactiveColour marks regions without a film.
	InactiveColour = "#D0D0D0"
)

// ActiveColours is the fixed palette films draw their colour from.
var ActiveColours = []string{
	"#FF0000",
	"#F00000",
	"#E00000",
	"#D10000",
	"#C20000",
}

// Assigner hands out colours from ActiveColours uniformly at random.
// Colours may repeat across films.
type Assigner struct {
	rng     *rand.Rand
	colours []string
}

// NewAssigner creates an assigner. A zero seed seeds from the clock.
func NewAssigner(seed int64) *Assigner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Assigner{
		rng:     rand.New(rand.NewSource(seed)),
		colours: ActiveColours,
	}
}

// Assign picks the colour for one film.
func (a *Assigner) Assign() string {
	return a.colours[a.rng.Intn(len(a.colours))]
}

// RegionColour returns the film's colour, or InactiveColour when there is no film.
func RegionColour(film model.Film, ok bool) string {
	if !ok || film.AssignedColour == "" {
		return InactiveColour
	}
	return film.AssignedColour
}

// RegionColourTable builds the colour of every known region.
func RegionColourTable(regionIDs []string, lookup func(string) (model.Film, bool)) map[string]string {
	colours := make(map[string]string, len(regionIDs))
	for _, id := range regionIDs {
		colours[id] = RegionColour(lookup(id))
	}
	return colours
}
