package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed bundled
var bundledFS embed.FS

const palettesDir = "palettes"

// Loader reads levels and palettes from the embedded bundle and, when Dir
// is set, from a user directory laid out the same way:
//
//	<dir>/*.yaml           level files
//	<dir>/palettes/*.yaml  palette files
//
// User files win over bundled files with the same level ID or palette name.
type Loader struct {
	Dir    string
	logger *log.Logger
}

// NewLoader creates a loader. A nil logger selects log.Default().
func NewLoader(dir string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Dir: dir, logger: logger}
}

type source struct {
	fsys    fs.FS
	root    string // Prefix for FilePath
	bundled bool
}

func (l *Loader) sources() []source {
	bundled, err := fs.Sub(bundledFS, "bundled")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	out := []source{{fsys: bundled, root: "bundled", bundled: true}}
	if l.Dir != "" {
		if info, err := os.Stat(l.Dir); err == nil && info.IsDir() {
			out = append(out, source{fsys: os.DirFS(l.Dir), root: l.Dir})
		}
	}
	return out
}

// Palettes loads every palette, keyed by name.
func (l *Loader) Palettes() (map[string]Palette, error) {
	palettes := make(map[string]Palette)
	for _, src := range l.sources() {
		entries, err := fs.ReadDir(src.fsys, palettesDir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("levels: reading palettes in %s: %w", src.root, err)
		}
		for _, e := range entries {
			if e.IsDir() || !isSupportedExtension(path.Ext(e.Name())) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
			data, err := fs.ReadFile(src.fsys, path.Join(palettesDir, e.Name()))
			if err != nil {
				l.logger.Warn("skipping palette", "file", e.Name(), "err", err)
				continue
			}
			p, err := ParsePalette(data, name)
			if err != nil {
				l.logger.Warn("skipping palette", "file", e.Name(), "err", err)
				continue
			}
			palettes[p.Name] = p
		}
	}
	return palettes, nil
}

// Palette returns a palette by name. An empty name selects DefaultPalette.
func (l *Loader) Palette(name string) (Palette, error) {
	if name == "" {
		name = DefaultPalette
	}
	palettes, err := l.Palettes()
	if err != nil {
		return Palette{}, err
	}
	p, ok := palettes[name]
	if !ok {
		return Palette{}, fmt.Errorf("%w: %s", ErrUnknownPalette, name)
	}
	return p, nil
}

// LoadAll loads every valid level, sorted by ID for deterministic ordering.
// Invalid files are skipped with a warning.
func (l *Loader) LoadAll() ([]Level, error) {
	palettes, err := l.Palettes()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Level)
	for _, src := range l.sources() {
		err := fs.WalkDir(src.fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != "." && d.Name() == palettesDir {
					return fs.SkipDir
				}
				return nil
			}
			if !isSupportedExtension(path.Ext(p)) {
				return nil
			}

			data, err := fs.ReadFile(src.fsys, p)
			if err != nil {
				l.logger.Warn("skipping level", "file", p, "err", err)
				return nil
			}
			lvl, err := resolve(data, palettes)
			if err != nil {
				// Skip invalid files
				l.logger.Warn("skipping level", "file", p, "err", err)
				return nil
			}
			lvl.FilePath = filepath.Join(src.root, filepath.FromSlash(p))
			lvl.Bundled = src.bundled
			if prev, ok := byID[lvl.ID]; ok {
				l.logger.Debug("level overridden", "id", lvl.ID, "old", prev.FilePath, "new", lvl.FilePath)
			}
			byID[lvl.ID] = lvl
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("levels: walking %s: %w", src.root, err)
		}
	}

	levels := make([]Level, 0, len(byID))
	for _, lvl := range byID {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads a single level file from disk.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading file %s: %w", p, err)
	}
	palettes, err := l.Palettes()
	if err != nil {
		return Level{}, err
	}
	lvl, err := resolve(data, palettes)
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing file %s: %w", p, err)
	}
	lvl.FilePath = p
	return lvl, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func resolve(data []byte, palettes map[string]Palette) (Level, error) {
	lvl, err := ParseLevel(data)
	if err != nil {
		return Level{}, err
	}
	p, ok := palettes[lvl.PaletteName]
	if !ok {
		return Level{}, fmt.Errorf("%w: %s", ErrUnknownPalette, lvl.PaletteName)
	}
	if err := lvl.Validate(p); err != nil {
		return Level{}, err
	}
	lvl.Palette = p
	return lvl, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
