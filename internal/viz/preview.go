package viz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mandelgen/internal/render"
)

// statusLines is the number of terminal rows reserved below the image.
const statusLines = 2

type renderedMsg struct {
	generation int
	result     *render.Result
	err        error
}

// Preview is a bubbletea model that shows a terminal-sized render.
type Preview struct {
	gen           *render.Generator
	seed          int64
	width, height int
	canvas        string
	result        *render.Result
	err           error
	rendering     bool
	// generation counts issued renders; only the latest one is shown.
	generation int
	nextSeed   func() int64
}

// NewPreview builds a preview around gen, starting from seed.
func NewPreview(gen *render.Generator, seed int64) Preview {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return Preview{
		gen:      gen,
		seed:     seed,
		width:    80,
		height:   24,
		nextSeed: src.Int63,
	}
}

func (m Preview) Init() tea.Cmd {
	return m.renderCmd()
}

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r", " ":
			if m.rendering {
				return m, nil
			}
			m.seed = m.nextSeed()
			return m.startRender()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.startRender()
	case renderedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.rendering = false
		m.result, m.err = msg.result, msg.err
		if msg.err == nil {
			m.canvas = BlockCanvas(msg.result.Image)
		}
	}
	return m, nil
}

func (m Preview) View() string {
	var sb strings.Builder

	switch {
	case m.err != nil:
		sb.WriteString(StatusError.Render("render failed: " + m.err.Error()))
	case m.canvas == "":
		sb.WriteString(StatusRunning.Render("rendering..."))
	default:
		sb.WriteString(m.canvas)
	}
	sb.WriteByte('\n')

	if r := m.result; r != nil {
		sb.WriteString(strings.Join([]string{
			Metric("seed", r.Seed),
			Metric("zoom", fmt.Sprintf("%.1f", r.Zoom)),
			Metric("origin", fmt.Sprintf("%.5f%+.5fi", r.Origin.Re, r.Origin.Im)),
			Metric("mode", r.Stats.Mode),
			Metric("time", r.Elapsed.Round(time.Millisecond)),
		}, "  "))
	}
	sb.WriteByte('\n')
	sb.WriteString(KeyHint.Render("r: new seed  q: quit"))
	return sb.String()
}

func (m Preview) startRender() (Preview, tea.Cmd) {
	m.generation++
	m.rendering = true
	return m, m.renderCmd()
}

func (m Preview) renderCmd() tea.Cmd {
	gen, seed, generation := m.gen, m.seed, m.generation
	w, h := m.width, (m.height-statusLines-1)*2
	if h < 2 {
		h = 2
	}
	if w < 1 {
		w = 1
	}
	return func() tea.Msg {
		res, err := gen.Generate(context.Background(), w, h, seed)
		return renderedMsg{generation: generation, result: res, err: err}
	}
}

// RunPreview starts the interactive terminal preview.
func RunPreview(gen *render.Generator, seed int64) error {
	p := tea.NewProgram(NewPreview(gen, seed), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
