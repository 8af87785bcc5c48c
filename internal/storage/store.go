package storage

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/san-kum/mandelgen/internal/fractal"
	"github.com/san-kum/mandelgen/internal/palette"
)

const (
	imageExt = ".png"
	metaExt  = ".json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RenderMetadata struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Seed         int64           `json:"seed"`
	Fidelity     int             `json:"fidelity"`
	Zoom         float64         `json:"zoom"`
	Origin       fractal.Complex `json:"origin"`
	Bounds       fractal.Bounds  `json:"bounds"`
	Palette      palette.Params  `json:"palette"`
	PaletteLen   int             `json:"palette_len"`
	Backend      string          `json:"backend"`
	RenderWidth  int             `json:"render_width"`
	RenderHeight int             `json:"render_height"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Mode         int             `json:"mode"`
	MinSteps     int             `json:"min_steps"`
	ElapsedMs    int64           `json:"elapsed_ms"`
}

// NewID returns a sortable run id: the unix millisecond timestamp followed by
// a short random suffix.
func NewID(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Save writes img as <name>.png and meta as <name>.json. An empty name uses
// meta.ID, which is generated when blank.
func (s *Store) Save(name string, meta *RenderMetadata, img image.Image) (string, error) {
	if meta.ID == "" {
		meta.ID = NewID(time.Now())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if name == "" {
		name = meta.ID
	}

	if err := s.Init(); err != nil {
		return "", err
	}

	imgPath := filepath.Join(s.baseDir, name+imageExt)
	if err := imaging.Save(img, imgPath); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	metaFile, err := os.Create(filepath.Join(s.baseDir, name+metaExt))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	return imgPath, nil
}

// List returns saved renders, newest first.
func (s *Store) List() ([]RenderMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RenderMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RenderMetadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != metaExt {
			continue
		}

		meta, err := s.Load(strings.TrimSuffix(entry.Name(), metaExt))
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(name string) (*RenderMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, name+metaExt))
	if err != nil {
		return nil, err
	}

	var meta RenderMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadImage(name string) (image.Image, error) {
	return imaging.Open(filepath.Join(s.baseDir, name+imageExt))
}

// CleanExcept deletes every saved render except keep, returning how many
// images were removed.
func (s *Store) CleanExcept(keep string) (int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != imageExt && ext != metaExt) {
			continue
		}
		if strings.TrimSuffix(name, ext) == keep {
			continue
		}
		if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		if ext == imageExt {
			removed++
		}
	}
	return removed, nil
}
