package game

import "fmt"

// Color names a disease. Every city belongs to exactly one color.
type Color string

// DiseaseStatus is the cure progress of a disease.
type DiseaseStatus int

const (
	DiseaseActive DiseaseStatus = iota
	DiseaseCured
	DiseaseEradicated
)

func (s DiseaseStatus) String() string {
	switch s {
	case DiseaseActive:
		return "active"
	case DiseaseCured:
		return "cured"
	case DiseaseEradicated:
		return "eradicated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Disease is the cube supply and status of one color.
type Disease struct {
	Color   Color
	Cubes   int
	CubeNum int
	Status  DiseaseStatus
}

// DiseaseTrack holds every disease in setup order.
type DiseaseTrack struct {
	colors   []Color
	diseases map[Color]*Disease
}

// NewDiseaseTrack creates one full, active disease per color.
func NewDiseaseTrack(colors []Color, cubeNum int) *DiseaseTrack {
	t := &DiseaseTrack{diseases: make(map[Color]*Disease, len(colors))}
	for _, c := range colors {
		if _, ok := t.diseases[c]; ok {
			continue
		}
		t.colors = append(t.colors, c)
		t.diseases[c] = &Disease{Color: c, Cubes: cubeNum, CubeNum: cubeNum}
	}
	return t
}

// Colors returns the disease colors in setup order.
func (t *DiseaseTrack) Colors() []Color {
	cpy := make([]Color, len(t.colors))
	copy(cpy, t.colors)
	return cpy
}

// Get returns the disease for a color.
func (t *DiseaseTrack) Get(c Color) (*Disease, bool) {
	d, ok := t.diseases[c]
	return d, ok
}

// Has reports whether the color is in play.
func (t *DiseaseTrack) Has(c Color) bool {
	_, ok := t.diseases[c]
	return ok
}

// Status returns the status of a color. Unknown colors report active.
func (t *DiseaseTrack) Status(c Color) DiseaseStatus {
	if d, ok := t.diseases[c]; ok {
		return d.Status
	}
	return DiseaseActive
}

// IsActive reports whether a color still needs a cure.
func (t *DiseaseTrack) IsActive(c Color) bool {
	return t.Status(c) == DiseaseActive
}

// Cubes returns the cubes left in the supply for a color.
func (t *DiseaseTrack) Cubes(c Color) int {
	if d, ok := t.diseases[c]; ok {
		return d.Cubes
	}
	return 0
}

// Remove takes n cubes from the supply. Eradicated colors refuse even a zero
// request; a supply that cannot cover n loses the game.
func (t *DiseaseTrack) Remove(c Color, n int) error {
	d, ok := t.diseases[c]
	if !ok {
		return invalidf("unknown color %q", c)
	}
	if d.Status == DiseaseEradicated {
		return violationf(ErrEradicated, "%s", c)
	}
	if d.Cubes < n {
		return lose("%s disease cubes exhausted", c)
	}
	d.Cubes -= n
	return nil
}

// Add returns n cubes to the supply. A cured disease whose supply becomes
// full is eradicated; the return value reports that transition.
func (t *DiseaseTrack) Add(c Color, n int) (eradicated bool) {
	d, ok := t.diseases[c]
	if !ok {
		return false
	}
	d.Cubes += n
	if d.Status == DiseaseCured && d.Cubes >= d.CubeNum {
		d.Status = DiseaseEradicated
		return true
	}
	return false
}

// SetCured cures a color, or eradicates it when no cubes are on the board.
// Curing the last active color wins the game.
func (t *DiseaseTrack) SetCured(c Color) error {
	d, ok := t.diseases[c]
	if !ok {
		return invalidf("unknown color %q", c)
	}
	if d.Status != DiseaseActive {
		return violationf(ErrNotActive, "%s is already %s", c, d.Status)
	}
	if d.Cubes >= d.CubeNum {
		d.Status = DiseaseEradicated
	} else {
		d.Status = DiseaseCured
	}

	for _, other := range t.diseases {
		if other.Status == DiseaseActive {
			return nil
		}
	}
	return win("all diseases cured")
}
