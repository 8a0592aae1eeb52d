// Package storage saves and loads worlds as gzip-compressed gob files.
package storage

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"worldengine/internal/core"
)

// Ext is the file extension used for saved worlds.
const Ext = ".world"

const formatVersion = 1

type snapshot struct {
	Version    int
	Name       string
	Seed       int64
	Width      int
	Height     int
	NumPlates  int
	OceanLevel float64
	Thresholds core.Thresholds

	Elevation []float64
	Plates    []int
	Ocean     []bool
	Biome     []core.Biome
	Layers    map[core.Layer][]float64
}

// WithExt appends Ext to path unless it already ends with it.
func WithExt(path string) string {
	if strings.EqualFold(filepath.Ext(path), Ext) {
		return path
	}
	return path + Ext
}

// Save writes w to path, replacing any existing file.
func Save(w *core.World, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := Encode(f, w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Open reads a world previously written by Save.
func Open(path string) (*core.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes w to out. The rasters are copied under the world's read lock
// and encoded after it is released.
func Encode(out io.Writer, w *core.World) error {
	snap := capture(w)
	zw := gzip.NewWriter(out)
	if err := gob.NewEncoder(zw).Encode(snap); err != nil {
		return fmt.Errorf("encode world: %w", err)
	}
	return zw.Close()
}

// Decode reads a world written by Encode.
func Decode(in io.Reader) (*core.World, error) {
	zr, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("%w: not a world file: %v", core.ErrInvalidArgument, err)
	}
	defer zr.Close()
	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode world: %v", core.ErrInvalidArgument, err)
	}
	if snap.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported world format %d", core.ErrInvalidArgument, snap.Version)
	}
	return restore(snap)
}

// capture copies w so a simulation may run while the copy is encoded.
func capture(w *core.World) snapshot {
	w.RLock()
	defer w.RUnlock()
	snap := snapshot{
		Version:    formatVersion,
		Name:       w.Name,
		Seed:       w.Seed,
		Width:      w.Width,
		Height:     w.Height,
		NumPlates:  w.NumPlates,
		OceanLevel: w.OceanLevel,
		Thresholds: w.Thresholds,
		Layers:     make(map[core.Layer][]float64),
	}
	if w.Elevation != nil {
		snap.Elevation = slices.Clone(w.Elevation.Cells())
	}
	if w.Plates != nil {
		snap.Plates = slices.Clone(w.Plates.Cells())
	}
	if w.Ocean != nil {
		snap.Ocean = slices.Clone(w.Ocean.Cells())
	}
	if w.Biome != nil {
		snap.Biome = slices.Clone(w.Biome.Cells())
	}
	for _, l := range core.Layers() {
		if w.HasLayer(l) {
			snap.Layers[l] = slices.Clone(w.Layer(l).Cells())
		}
	}
	return snap
}

func restore(s snapshot) (*core.World, error) {
	w := core.NewWorld(s.Name, s.Seed, s.Width, s.Height, s.NumPlates, s.OceanLevel)
	w.Thresholds = s.Thresholds
	if s.Elevation != nil {
		g, err := core.FromFlat(s.Elevation, s.Width, s.Height)
		if err != nil {
			return nil, fmt.Errorf("elevation: %w", err)
		}
		_ = w.SetElevation(g)
	}
	if s.Plates != nil {
		g, err := core.FromFlat(s.Plates, s.Width, s.Height)
		if err != nil {
			return nil, fmt.Errorf("plates: %w", err)
		}
		_ = w.SetPlates(g)
	}
	if s.Ocean != nil {
		g, err := core.FromFlat(s.Ocean, s.Width, s.Height)
		if err != nil {
			return nil, fmt.Errorf("ocean: %w", err)
		}
		_ = w.SetOcean(g)
	}
	if s.Biome != nil {
		g, err := core.FromFlat(s.Biome, s.Width, s.Height)
		if err != nil {
			return nil, fmt.Errorf("biome: %w", err)
		}
		_ = w.SetBiome(g)
	}
	for name, cells := range s.Layers {
		g, err := core.FromFlat(cells, s.Width, s.Height)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", name, err)
		}
		if err := w.SetLayer(name, g); err != nil {
			return nil, err
		}
	}
	return w, nil
}
