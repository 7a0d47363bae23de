package game

import (
	"fmt"
	"sort"

	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/zyedidia/generic/mapset"
)

// City is a node of the board graph. Neighbors are references into the
// owning Board, so cycles need no special handling.
type City struct {
	Name       string
	Color      Color
	Population int
	CubeMax    int
	Station    bool

	cubes     map[Color]int
	neighbors []*City
	occupants mapset.Set[string]
}

// Cubes returns the cubes of a color in the city.
func (c *City) Cubes(color Color) int {
	return c.cubes[color]
}

// TotalCubes returns the cubes of every color in the city.
func (c *City) TotalCubes() int {
	total := 0
	for _, n := range c.cubes {
		total += n
	}
	return total
}

// Neighbors returns the adjacent cities in map order.
func (c *City) Neighbors() []*City {
	cpy := make([]*City, len(c.neighbors))
	copy(cpy, c.neighbors)
	return cpy
}

// IsNeighbor reports whether the named city is adjacent.
func (c *City) IsNeighbor(name string) bool {
	for _, n := range c.neighbors {
		if n.Name == name {
			return true
		}
	}
	return false
}

// Occupants returns the names of the pawns in the city, sorted.
func (c *City) Occupants() []string {
	names := make([]string, 0, c.occupants.Size())
	c.occupants.Each(func(name string) {
		names = append(names, name)
	})
	sort.Strings(names)
	return names
}

// Board is the arena owning every city.
type Board struct {
	cities map[string]*City
	order  []string
}

// NewBoard builds the city graph from a static map. Adjacency is made
// symmetric: an edge listed on either city links both.
func NewBoard(m maps.Map, cubeMax int) (*Board, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m = m.Symmetric()

	b := &Board{cities: make(map[string]*City, len(m.Cities))}
	for _, attrs := range m.Cities {
		b.cities[attrs.Name] = &City{
			Name:       attrs.Name,
			Color:      Color(attrs.Color),
			Population: attrs.Population,
			CubeMax:    cubeMax,
			cubes:      make(map[Color]int),
			occupants:  mapset.New[string](),
		}
		b.order = append(b.order, attrs.Name)
	}

	for _, attrs := range m.Cities {
		city := b.cities[attrs.Name]
		for _, name := range attrs.Neighbors {
			neighbor, ok := b.cities[name]
			if !ok {
				return nil, fmt.Errorf("city %s has unknown neighbor %s", attrs.Name, name)
			}
			city.neighbors = append(city.neighbors, neighbor)
		}
	}
	return b, nil
}

// City looks up a city by name.
func (b *Board) City(name string) (*City, bool) {
	c, ok := b.cities[name]
	return c, ok
}

// Cities returns every city in map order.
func (b *Board) Cities() []*City {
	out := make([]*City, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.cities[name])
	}
	return out
}

// Len returns the number of cities.
func (b *Board) Len() int {
	return len(b.order)
}

// CubesOnBoard returns the cubes of a color across every city.
func (b *Board) CubesOnBoard(color Color) int {
	total := 0
	for _, c := range b.cities {
		total += c.cubes[color]
	}
	return total
}

// Stations returns the number of placed research stations.
func (b *Board) Stations() int {
	total := 0
	for _, c := range b.cities {
		if c.Station {
			total++
		}
	}
	return total
}
