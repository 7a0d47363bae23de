package game

// View is a read-only copy of the game for renderers and spectators.
type View struct {
	GameID            string        `json:"game_id"`
	Turn              int           `json:"turn"`
	Phase             string        `json:"phase"`
	CurrentPlayer     string        `json:"current_player"`
	ActionsLeft       int           `json:"actions_left"`
	DrawsLeft         int           `json:"draws_left"`
	InfectsLeft       int           `json:"infects_left"`
	InfectionRate     int           `json:"infection_rate"`
	InfectionTrack    []int         `json:"infection_track"`
	InfectionPosition int           `json:"infection_position"`
	Outbreaks         int           `json:"outbreaks"`
	OutbreakMax       int           `json:"outbreak_max"`
	StationsLeft      int           `json:"stations_left"`
	PlayerDeckSize    int           `json:"player_deck_size"`
	Diseases          []DiseaseView `json:"diseases"`
	Players           []PlayerView  `json:"players"`
	Cities            []CityView    `json:"cities"`
	InfectionDiscard  []string      `json:"infection_discard"`
	PlayerDiscard     []string      `json:"player_discard"`
}

type DiseaseView struct {
	Color   string `json:"color"`
	Status  string `json:"status"`
	Cubes   int    `json:"cubes"`
	CubeNum int    `json:"cube_num"`
}

type PlayerView struct {
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	City        string     `json:"city"`
	Hand        []CardView `json:"hand"`
	Contingency string     `json:"contingency,omitempty"`
}

type CardView struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Color      string `json:"color,omitempty"`
	Population int    `json:"population,omitempty"`
}

type CityView struct {
	Name      string         `json:"name"`
	Color     string         `json:"color"`
	Cubes     map[string]int `json:"cubes"`
	Station   bool           `json:"station"`
	Occupants []string       `json:"occupants"`
	Neighbors []string       `json:"neighbors"`
}

// View captures the current state.
func (s *State) View() View {
	v := View{
		GameID:            s.ID,
		Turn:              s.TurnCount,
		Phase:             s.Phase.String(),
		DrawsLeft:         s.DrawCount,
		InfectsLeft:       s.InfectCount,
		InfectionRate:     s.Infection.Rate(),
		InfectionTrack:    append([]int(nil), s.Infection.Track...),
		InfectionPosition: s.Infection.Position,
		Outbreaks:         s.Outbreaks.Count,
		OutbreakMax:       s.Outbreaks.Max,
		StationsLeft:      s.StationCount,
		PlayerDeckSize:    s.PlayerDeck.Remaining(),
		InfectionDiscard:  cardNames(s.InfectionDeck.DiscardPile()),
		PlayerDiscard:     cardNames(s.PlayerDeck.DiscardPile()),
	}
	if p := s.CurrentPlayer(); p != nil {
		v.CurrentPlayer = p.Name
		v.ActionsLeft = p.ActionCount
	}

	for _, color := range s.Diseases.Colors() {
		d, _ := s.Diseases.Get(color)
		v.Diseases = append(v.Diseases, DiseaseView{
			Color:   string(color),
			Status:  d.Status.String(),
			Cubes:   d.Cubes,
			CubeNum: d.CubeNum,
		})
	}

	for _, p := range s.Players() {
		pv := PlayerView{Name: p.Name, Role: p.Role.String()}
		if p.city != nil {
			pv.City = p.city.Name
		}
		for _, c := range p.Hand() {
			pv.Hand = append(pv.Hand, cardView(c))
		}
		if p.contingency != nil {
			pv.Contingency = p.contingency.Name
		}
		v.Players = append(v.Players, pv)
	}

	for _, c := range s.Board.Cities() {
		v.Cities = append(v.Cities, s.cityView(c))
	}
	return v
}

// CityView captures one city.
func (s *State) CityView(name string) (CityView, bool) {
	c, ok := s.Board.City(name)
	if !ok {
		return CityView{}, false
	}
	return s.cityView(c), true
}

func (s *State) cityView(c *City) CityView {
	cv := CityView{
		Name:      c.Name,
		Color:     string(c.Color),
		Cubes:     make(map[string]int),
		Station:   c.Station,
		Occupants: c.Occupants(),
	}
	for _, color := range s.Diseases.Colors() {
		if n := c.cubes[color]; n > 0 {
			cv.Cubes[string(color)] = n
		}
	}
	for _, n := range c.neighbors {
		cv.Neighbors = append(cv.Neighbors, n.Name)
	}
	return cv
}

func cardView(c *Card) CardView {
	return CardView{
		Name:       c.Name,
		Kind:       c.Kind.String(),
		Color:      string(c.Color),
		Population: c.Population,
	}
}
