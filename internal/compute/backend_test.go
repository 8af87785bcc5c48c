package compute

import (
	"errors"
	"testing"

	"github.com/san-kum/mandelgen/internal/fractal"
)

func TestGridFromSteps(t *testing.T) {
	grid, err := gridFromSteps([]int{0, 3, 3, 5, 5, 5}, 3, 2, 5)
	if err != nil {
		t.Fatalf("gridFromSteps: %v", err)
	}
	if grid.Width != 3 || grid.Height != 2 || grid.At(2, 1) != 5 {
		t.Errorf("unexpected grid: %+v", grid)
	}
	if mode, count := grid.Hist.Mode(); mode != 5 || count != 3 {
		t.Errorf("mode %d/%d, want 5/3", mode, count)
	}
	if grid.Hist.Total() != 6 {
		t.Errorf("histogram total %d, want 6", grid.Hist.Total())
	}
}

func TestGridFromSteps_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		steps []int
	}{
		{"negative", []int{0, -1, 2, 2}},
		{"past fidelity", []int{0, 1, 2, 1 << 30}},
		{"short buffer", []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gridFromSteps(tt.steps, 2, 2, 10)
			if !errors.Is(err, fractal.ErrBackendFailed) {
				t.Errorf("err = %v, want ErrBackendFailed", err)
			}
		})
	}
}
