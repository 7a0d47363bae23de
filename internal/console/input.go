// Package console binds the engine to a terminal: a line-oriented
// InputProvider and a lipgloss Renderer.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcsingleton/Pydemic/internal/game"
)

// Input reads one response per line. End of input is returned as io.EOF,
// which ends the game loop.
type Input struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  lipgloss.Style
	option  lipgloss.Style
}

// NewInput reads from r and writes prompts to w.
func NewInput(r io.Reader, w io.Writer) *Input {
	lg := lipgloss.NewRenderer(w)
	return &Input{
		scanner: bufio.NewScanner(r),
		out:     w,
		prompt:  lg.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		option:  lg.NewStyle().Foreground(lipgloss.Color("#A0AEC0")),
	}
}

func (in *Input) readLine(prompt string) (string, error) {
	fmt.Fprintf(in.out, "%s> ", in.prompt.Render(prompt))
	if !in.scanner.Scan() {
		if err := in.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return in.scanner.Text(), nil
}

func (in *Input) Tokens(prompt string) ([]string, error) {
	line, err := in.readLine(prompt)
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

func (in *Input) Confirm(prompt string) (bool, error) {
	line, err := in.readLine(prompt + " [y/n]")
	if err != nil {
		return false, err
	}
	return game.ParseConfirm(line)
}

func (in *Input) Permutation(prompt string, cards []*game.Card) (string, error) {
	for i, c := range cards {
		fmt.Fprintln(in.out, in.option.Render(fmt.Sprintf("  %d: %s", i, c.Name)))
	}
	line, err := in.readLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (in *Input) SelectCards(prompt string, options []*game.Card, count int) ([]string, error) {
	names := make([]string, len(options))
	for i, c := range options {
		names[i] = c.Name
	}
	fmt.Fprintln(in.out, in.option.Render("  "+strings.Join(names, " ")))
	line, err := in.readLine(fmt.Sprintf("%s (%d names)", prompt, count))
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}
