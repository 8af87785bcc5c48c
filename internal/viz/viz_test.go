package viz

import (
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/san-kum/mandelgen/internal/compute"
	"github.com/san-kum/mandelgen/internal/config"
	"github.com/san-kum/mandelgen/internal/render"
)

func TestBlockCanvas_RowCount(t *testing.T) {
	tests := []struct {
		h, rows int
	}{
		{1, 1}, {2, 1}, {3, 2}, {8, 4},
	}

	for _, tt := range tests {
		img := image.NewRGBA(image.Rect(0, 0, 5, tt.h))
		out := BlockCanvas(img)
		if got := strings.Count(out, "\n") + 1; got != tt.rows {
			t.Errorf("height %d: %d rows, want %d", tt.h, got, tt.rows)
		}
		if got := strings.Count(out, upperHalfBlock); got != 5*tt.rows {
			t.Errorf("height %d: %d cells, want %d", tt.h, got, 5*tt.rows)
		}
	}
}

func TestPaletteStrip(t *testing.T) {
	colors := make([]color.RGBA, 100)
	if PaletteStrip(colors, 0) != "" || PaletteStrip(nil, 10) != "" {
		t.Error("expected empty strip")
	}
	if got := len([]rune(stripANSI(PaletteStrip(colors, 10)))); got != 10 {
		t.Errorf("strip width %d, want 10", got)
	}
	if got := len([]rune(stripANSI(PaletteStrip(colors[:4], 10)))); got != 4 {
		t.Errorf("strip width %d, want 4", got)
	}
}

func stripANSI(s string) string {
	var sb strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func testGenerator() *render.Generator {
	cfg := config.DefaultConfig()
	cfg.Fidelity = 30
	cfg.RenderScale = 1
	return render.NewGenerator(cfg, compute.NewCPUBackendWithWorkers(2), log.New(io.Discard))
}

func TestPreview_RenderCycle(t *testing.T) {
	m := NewPreview(testGenerator(), 11)

	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if cmd == nil {
		t.Fatal("expected render command on resize")
	}
	m = updated.(Preview)

	msg := cmd()
	rendered, ok := msg.(renderedMsg)
	if !ok {
		t.Fatalf("expected renderedMsg, got %T", msg)
	}
	if rendered.err != nil {
		t.Fatalf("render failed: %v", rendered.err)
	}
	if b := rendered.result.Image.Bounds(); b.Dx() != 40 || b.Dy() != (20-statusLines-1)*2 {
		t.Errorf("unexpected image size %v", b)
	}

	updated, _ = m.Update(rendered)
	m = updated.(Preview)
	view := m.View()
	if !strings.Contains(view, "seed") || !strings.Contains(view, "q: quit") {
		t.Errorf("view missing status: %q", view)
	}
}

func TestPreview_Keys(t *testing.T) {
	m := NewPreview(testGenerator(), 1)
	m.nextSeed = func() int64 { return 77 }

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = updated.(Preview)
	if m.seed != 77 || cmd == nil || !m.rendering {
		t.Errorf("reroll: seed %d, rendering %v, cmd nil %v", m.seed, m.rendering, cmd == nil)
	}

	// a second reroll while rendering is ignored
	m.nextSeed = func() int64 { return 78 }
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if updated.(Preview).seed != 77 {
		t.Error("reroll during render should be ignored")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPreview_DropsStaleRender(t *testing.T) {
	m := NewPreview(testGenerator(), 5)

	updated, first := m.Update(tea.WindowSizeMsg{Width: 30, Height: 12})
	m = updated.(Preview)
	// a second resize arrives while the first render is still running
	updated, second := m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	m = updated.(Preview)
	if first == nil || second == nil {
		t.Fatal("expected a render command per resize")
	}

	latest := second().(renderedMsg)
	stale := first().(renderedMsg)

	updated, _ = m.Update(latest)
	m = updated.(Preview)
	updated, _ = m.Update(stale)
	m = updated.(Preview)

	if m.result != latest.result {
		t.Error("stale render replaced the latest one")
	}
	if b := m.result.Image.Bounds(); b.Dx() != 20 {
		t.Errorf("shown render width %d, want 20", b.Dx())
	}
	if m.rendering {
		t.Error("preview still marked rendering after latest result")
	}

	// the latest result is also kept when the stale one lands first
	m = NewPreview(testGenerator(), 5)
	updated, first = m.Update(tea.WindowSizeMsg{Width: 30, Height: 12})
	m = updated.(Preview)
	updated, second = m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	m = updated.(Preview)

	updated, _ = m.Update(first())
	m = updated.(Preview)
	if !m.rendering || m.result != nil {
		t.Error("stale render should be ignored while the latest is pending")
	}
	updated, _ = m.Update(second())
	m = updated.(Preview)
	if m.result == nil || m.result.Image.Bounds().Dx() != 20 {
		t.Error("latest render not shown")
	}
}
