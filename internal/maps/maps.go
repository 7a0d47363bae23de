// Package maps loads the static city tables a game is built from.
package maps

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultName is the name of the embedded world map.
const DefaultName = "default"

//go:embed default.yaml
var defaultYAML []byte

// ErrUnknownMap is returned when a provider has no map with the requested name.
var ErrUnknownMap = errors.New("unknown map")

// CityAttrs is the static description of one city.
type CityAttrs struct {
	Name       string   `yaml:"name"`
	Color      string   `yaml:"color"`
	Population int      `yaml:"population"`
	Neighbors  []string `yaml:"neighbors"`
}

// Map is a named city table with its starting city.
type Map struct {
	Name      string      `yaml:"name"`
	StartCity string      `yaml:"start_city"`
	Cities    []CityAttrs `yaml:"cities"`
}

// Parse decodes and validates a YAML map document.
func Parse(data []byte) (Map, error) {
	var m Map
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Map{}, fmt.Errorf("failed to decode map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Map{}, err
	}
	return m, nil
}

// Default returns the embedded 48-city world map.
func Default() Map {
	m, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default map is invalid: %v", err))
	}
	return m.Symmetric()
}

// City looks up a city by name.
func (m Map) City(name string) (CityAttrs, bool) {
	for _, c := range m.Cities {
		if c.Name == name {
			return c, true
		}
	}
	return CityAttrs{}, false
}

// Colors returns the distinct city colors in table order.
func (m Map) Colors() []string {
	seen := make(map[string]bool)
	var colors []string
	for _, c := range m.Cities {
		if !seen[c.Color] {
			seen[c.Color] = true
			colors = append(colors, c.Color)
		}
	}
	return colors
}

// Validate checks that the table forms a usable graph.
func (m Map) Validate() error {
	if m.Name == "" {
		return errors.New("map name is required")
	}
	if len(m.Cities) == 0 {
		return fmt.Errorf("map %s has no cities", m.Name)
	}

	names := make(map[string]bool, len(m.Cities))
	for _, c := range m.Cities {
		if c.Name == "" {
			return fmt.Errorf("map %s has a city without a name", m.Name)
		}
		if c.Color == "" {
			return fmt.Errorf("city %s has no color", c.Name)
		}
		if c.Population < 0 {
			return fmt.Errorf("city %s has negative population", c.Name)
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate city %s", c.Name)
		}
		names[c.Name] = true
	}

	for _, c := range m.Cities {
		for _, n := range c.Neighbors {
			if n == c.Name {
				return fmt.Errorf("city %s lists itself as a neighbor", c.Name)
			}
			if !names[n] {
				return fmt.Errorf("city %s has unknown neighbor %s", c.Name, n)
			}
		}
	}

	if m.StartCity != "" && !names[m.StartCity] {
		return fmt.Errorf("start city %s is not on map %s", m.StartCity, m.Name)
	}
	return nil
}

// Asymmetric lists the directed edges that have no reverse edge, sorted.
func (m Map) Asymmetric() []string {
	adj := make(map[string]map[string]bool, len(m.Cities))
	for _, c := range m.Cities {
		adj[c.Name] = make(map[string]bool, len(c.Neighbors))
		for _, n := range c.Neighbors {
			adj[c.Name][n] = true
		}
	}

	var edges []string
	for from, tos := range adj {
		for to := range tos {
			if !adj[to][from] {
				edges = append(edges, from+"->"+to)
			}
		}
	}
	sort.Strings(edges)
	return edges
}

// Symmetric returns a copy of the map in which every edge runs both ways.
// Missing reverse edges are appended in city order; unknown names are kept
// for Validate to report.
func (m Map) Symmetric() Map {
	out := m
	out.Cities = make([]CityAttrs, len(m.Cities))
	index := make(map[string]int, len(m.Cities))
	for i, c := range m.Cities {
		c.Neighbors = slices.Clone(c.Neighbors)
		out.Cities[i] = c
		index[c.Name] = i
	}

	for _, c := range m.Cities {
		for _, name := range c.Neighbors {
			j, ok := index[name]
			if !ok || slices.Contains(out.Cities[j].Neighbors, c.Name) {
				continue
			}
			out.Cities[j].Neighbors = append(out.Cities[j].Neighbors, c.Name)
		}
	}
	return out
}
