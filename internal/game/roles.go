package game

import (
	"fmt"
	"strings"
)

// Role is the closed set of player roles.
type Role int

const (
	RoleContingencyPlanner Role = iota
	RoleDispatcher
	RoleMedic
	RoleOperationsExpert
	RoleQuarantineSpecialist
	RoleResearcher
	RoleScientist
)

var roleNames = map[Role]string{
	RoleContingencyPlanner:   "contingency_planner",
	RoleDispatcher:           "dispatcher",
	RoleMedic:                "medic",
	RoleOperationsExpert:     "operations_expert",
	RoleQuarantineSpecialist: "quarantine_specialist",
	RoleResearcher:           "researcher",
	RoleScientist:            "scientist",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	return []Role{
		RoleContingencyPlanner,
		RoleDispatcher,
		RoleMedic,
		RoleOperationsExpert,
		RoleQuarantineSpecialist,
		RoleResearcher,
		RoleScientist,
	}
}

// ParseRole accepts a role name with underscores, spaces or hyphens.
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for role, name := range roleNames {
		if name == key {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// capabilities is one row of the role strategy table. Zero values mean the
// base rule applies.
type capabilities struct {
	cureNum        int
	stationDiscard bool
	movesOthers    bool
	shareAny       bool
	treatAll       bool
	immunity       func(s *State, p *Player, city *City, color Color) bool
	onEnter        func(s *State, p *Player, city *City)
	commands       []command
}

var baseCapabilities = capabilities{
	cureNum:        5,
	stationDiscard: true,
}

var roleTable map[Role]capabilities

func init() {
	roleTable = map[Role]capabilities{
		RoleContingencyPlanner: with(func(c *capabilities) {
			c.commands = []command{contingencyCommand}
		}),
		RoleDispatcher: with(func(c *capabilities) {
			c.movesOthers = true
			c.commands = []command{airliftCommand}
		}),
		RoleMedic: with(func(c *capabilities) {
			c.treatAll = true
			c.immunity = medicImmunity
			c.onEnter = medicEnter
		}),
		RoleOperationsExpert: with(func(c *capabilities) {
			c.stationDiscard = false
			c.commands = []command{opexShuttleCommand}
		}),
		RoleQuarantineSpecialist: with(func(c *capabilities) {
			c.immunity = quarantineImmunity
		}),
		RoleResearcher: with(func(c *capabilities) {
			c.shareAny = true
		}),
		RoleScientist: with(func(c *capabilities) {
			c.cureNum = 4
		}),
	}
}

func with(override func(*capabilities)) capabilities {
	c := baseCapabilities
	override(&c)
	return c
}

func capabilitiesFor(r Role) capabilities {
	if c, ok := roleTable[r]; ok {
		return c
	}
	return baseCapabilities
}

// medicImmunity protects the medic's city from cured colors.
func medicImmunity(s *State, p *Player, city *City, color Color) bool {
	return city == p.city && !s.Diseases.IsActive(color)
}

// medicEnter clears every cured color from the city the medic enters.
func medicEnter(s *State, p *Player, city *City) {
	for _, color := range s.Diseases.Colors() {
		if s.Diseases.IsActive(color) {
			continue
		}
		s.returnCubes(city, color, city.cubes[color])
	}
}

// quarantineImmunity protects the specialist's city and its neighbors.
func quarantineImmunity(s *State, p *Player, city *City, color Color) bool {
	return city == p.city || p.city.IsNeighbor(city.Name)
}
