package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcsingleton/Pydemic/internal/game"
)

var diseaseColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("#5B8DEF"),
	"black":  lipgloss.Color("#999999"),
	"red":    lipgloss.Color("#FF6B6B"),
	"yellow": lipgloss.Color("#F7B801"),
}

// Renderer prints engine views as styled text.
type Renderer struct {
	out     io.Writer
	lg      *lipgloss.Renderer
	header  lipgloss.Style
	label   lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	station lipgloss.Style
}

// NewRenderer writes to w. Styles degrade to plain text when w is not a terminal.
func NewRenderer(w io.Writer) *Renderer {
	lg := lipgloss.NewRenderer(w)
	return &Renderer{
		out:     w,
		lg:      lg,
		header:  lg.NewStyle().Bold(true).Underline(true),
		label:   lg.NewStyle().Foreground(lipgloss.Color("#A0AEC0")),
		ok:      lg.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		failed:  lg.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		station: lg.NewStyle().Foreground(lipgloss.Color("#F7B801")),
	}
}

func (r *Renderer) colored(color, text string) string {
	c, ok := diseaseColors[color]
	if !ok {
		return text
	}
	return r.lg.NewStyle().Foreground(c).Render(text)
}

func (r *Renderer) Status(v game.View) {
	var b strings.Builder

	fmt.Fprintln(&b, r.header.Render(fmt.Sprintf("Turn %d, %s phase, %s to play", v.Turn+1, v.Phase, v.CurrentPlayer)))
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d\n",
		r.label.Render("actions"), v.ActionsLeft,
		r.label.Render("draws"), v.DrawsLeft,
		r.label.Render("infections"), v.InfectsLeft,
	)
	fmt.Fprintf(&b, "%s %d/%d  %s %d (%d/%d)  %s %d  %s %d\n",
		r.label.Render("outbreaks"), v.Outbreaks, v.OutbreakMax,
		r.label.Render("infection rate"), v.InfectionRate, v.InfectionPosition+1, len(v.InfectionTrack),
		r.label.Render("stations left"), v.StationsLeft,
		r.label.Render("player deck"), v.PlayerDeckSize,
	)

	for _, d := range v.Diseases {
		fmt.Fprintf(&b, "  %s %s, %d/%d cubes in supply\n", r.colored(d.Color, d.Color), d.Status, d.Cubes, d.CubeNum)
	}

	fmt.Fprintln(&b, r.header.Render("Players"))
	for _, p := range v.Players {
		hand := make([]string, len(p.Hand))
		for i, c := range p.Hand {
			hand[i] = r.colored(c.Color, c.Name)
		}
		line := fmt.Sprintf("  %s (%s) in %s: %s", p.Name, p.Role, p.City, strings.Join(hand, " "))
		if p.Contingency != "" {
			line += fmt.Sprintf(" [%s]", p.Contingency)
		}
		fmt.Fprintln(&b, line)
	}

	fmt.Fprintln(&b, r.header.Render("Cities"))
	for _, c := range v.Cities {
		if len(c.Cubes) == 0 && !c.Station && len(c.Occupants) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", r.cityLine(c))
	}

	if len(v.InfectionDiscard) > 0 {
		fmt.Fprintf(&b, "%s %s\n", r.label.Render("infection discard"), strings.Join(v.InfectionDiscard, " "))
	}
	if len(v.PlayerDiscard) > 0 {
		fmt.Fprintf(&b, "%s %s\n", r.label.Render("player discard"), strings.Join(v.PlayerDiscard, " "))
	}
	fmt.Fprint(r.out, b.String())
}

func (r *Renderer) cityLine(c game.CityView) string {
	parts := []string{r.colored(c.Color, c.Name)}
	if c.Station {
		parts = append(parts, r.station.Render("station"))
	}
	colors := make([]string, 0, len(c.Cubes))
	for color := range c.Cubes {
		colors = append(colors, color)
	}
	sort.Strings(colors)
	for _, color := range colors {
		parts = append(parts, r.colored(color, fmt.Sprintf("%s:%d", color, c.Cubes[color])))
	}
	if len(c.Occupants) > 0 {
		parts = append(parts, "("+strings.Join(c.Occupants, ", ")+")")
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) Neighbors(c game.CityView) {
	fmt.Fprintln(r.out, r.cityLine(c))
	fmt.Fprintf(r.out, "  %s %s\n", r.label.Render("neighbors"), strings.Join(c.Neighbors, " "))
}

func (r *Renderer) Result(command string, err error) {
	if err != nil {
		fmt.Fprintln(r.out, r.failed.Render(fmt.Sprintf("%s failed: %v", command, err)))
		return
	}
	fmt.Fprintln(r.out, r.ok.Render(fmt.Sprintf("%s done", command)))
}

func (r *Renderer) GameOver(outcome game.Outcome, reason string) {
	style := r.failed
	if outcome == game.OutcomeWon {
		style = r.ok
	}
	fmt.Fprintln(r.out, style.Render(fmt.Sprintf("Game %s: %s", outcome, reason)))
}

func (r *Renderer) History(entries []*game.JournalEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, r.label.Render("journal is empty"))
		return
	}
	for _, entry := range entries {
		sum := entry.Checksum
		if len(sum) > 12 {
			sum = sum[:12]
		}
		fmt.Fprintf(r.out, "%s %d  %s  %s %s\n",
			r.label.Render("turn"), entry.Turn+1,
			entry.Phase,
			r.label.Render("checksum"), sum,
		)
	}
}
