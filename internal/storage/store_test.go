package storage

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/mandelgen/internal/fractal"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := &RenderMetadata{
		Seed:     42,
		Fidelity: 120,
		Zoom:     17.5,
		Origin:   fractal.Complex{Re: -0.75, Im: 0.12},
	}
	path, err := st.Save("", meta, testImage(8, 4))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if meta.ID == "" {
		t.Fatal("expected generated id")
	}
	if filepath.Base(path) != meta.ID+".png" {
		t.Errorf("unexpected image path %s", path)
	}

	loaded, err := st.Load(meta.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Zoom != 17.5 || loaded.Origin != meta.Origin {
		t.Errorf("unexpected metadata: %+v", loaded)
	}

	img, err := st.LoadImage(meta.ID)
	if err != nil {
		t.Fatalf("load image failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("unexpected image size %v", img.Bounds())
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if r>>8 != 3 || g>>8 != 2 || b>>8 != 7 {
		t.Errorf("pixel (3, 2) = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Now()
	for i := 0; i < 3; i++ {
		meta := &RenderMetadata{Seed: int64(i), Timestamp: base.Add(time.Duration(i) * time.Second)}
		if _, err := st.Save("", meta, testImage(2, 2)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Seed != 2 || runs[2].Seed != 0 {
		t.Errorf("runs not sorted newest first: %d, %d, %d", runs[0].Seed, runs[1].Seed, runs[2].Seed)
	}
}

func TestStoreCleanExcept(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	var keep string
	for i := 0; i < 3; i++ {
		meta := &RenderMetadata{Seed: int64(i)}
		if _, err := st.Save("", meta, testImage(2, 2)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		keep = meta.ID
	}
	// unrelated files survive
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	removed, err := st.CleanExcept(keep)
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	runs, _ := st.List()
	if len(runs) != 1 || runs[0].ID != keep {
		t.Errorf("expected only %s to remain, got %+v", keep, runs)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}

func TestStoreNamedSave(t *testing.T) {
	st := New(t.TempDir())
	meta := &RenderMetadata{Seed: 9}

	path, err := st.Save("mandelbrot", meta, testImage(2, 2))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "mandelbrot.png" {
		t.Errorf("unexpected path %s", path)
	}
	if _, err := st.Load("mandelbrot"); err != nil {
		t.Errorf("load by name failed: %v", err)
	}
}

func TestStoreCleanMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	if n, err := st.CleanExcept("x"); err != nil || n != 0 {
		t.Errorf("CleanExcept on missing dir = %d, %v", n, err)
	}
}
