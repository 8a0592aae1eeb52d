// Package config loads the optional settings file and binds the command-line
// flags shared by the front ends.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"worldengine/internal/generation"
)

// DefaultPath is the settings file looked up in the working directory.
const DefaultPath = "worldengine.json"

// Settings is the content of the settings file. Zero values keep the
// built-in defaults.
type Settings struct {
	Engine EngineSettings `json:"engine"`
	Server ServerSettings `json:"server"`
	Viewer ViewerSettings `json:"viewer"`
}

// EngineSettings overrides the physical parameters of the tectonics engine.
type EngineSettings struct {
	SeaLevel       float64 `json:"seaLevel"`
	ErosionPeriod  int     `json:"erosionPeriod"`
	FoldingRatio   float64 `json:"foldingRatio"`
	AggrOverlapAbs int     `json:"aggrOverlapAbs"`
	AggrOverlapRel float64 `json:"aggrOverlapRel"`
	CycleCount     int     `json:"cycleCount"`
}

type ServerSettings struct {
	Addr             string `json:"addr"`
	StatusIntervalMs int    `json:"statusIntervalMs"`
}

type ViewerSettings struct {
	Scale int `json:"scale"`
	TPS   int `json:"tps"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Engine: EngineSettings{
			SeaLevel:       generation.DefaultSeaLevel,
			ErosionPeriod:  generation.DefaultErosionPeriod,
			FoldingRatio:   generation.DefaultFoldingRatio,
			AggrOverlapAbs: generation.DefaultAggrOverlapAbs,
			AggrOverlapRel: generation.DefaultAggrOverlapRel,
			CycleCount:     generation.DefaultCycleCount,
		},
		Server: ServerSettings{Addr: ":8080", StatusIntervalMs: 1000},
		Viewer: ViewerSettings{Scale: 1, TPS: 30},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Defaults()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", path, err)
	}
	return s, s.Validate()
}

// Validate rejects settings the engine cannot run with.
func (s Settings) Validate() error {
	e := s.Engine
	switch {
	case e.SeaLevel <= 0 || e.SeaLevel >= 1:
		return fmt.Errorf("engine.seaLevel %v outside (0,1)", e.SeaLevel)
	case e.ErosionPeriod <= 0:
		return fmt.Errorf("engine.erosionPeriod must be positive")
	case e.CycleCount <= 0:
		return fmt.Errorf("engine.cycleCount must be positive")
	case s.Viewer.Scale <= 0 || s.Viewer.TPS <= 0:
		return fmt.Errorf("viewer.scale and viewer.tps must be positive")
	}
	return nil
}

// StatusInterval is the throttle period for progress lines.
func (s ServerSettings) StatusInterval() time.Duration {
	return time.Duration(s.StatusIntervalMs) * time.Millisecond
}

// Factory wraps base so every engine it creates uses these settings.
func (e EngineSettings) Factory(base generation.EngineFactory) generation.EngineFactory {
	return func(p generation.EngineParams) (generation.Engine, error) {
		p.SeaLevel = e.SeaLevel
		p.ErosionPeriod = e.ErosionPeriod
		p.FoldingRatio = e.FoldingRatio
		p.AggrOverlapAbs = e.AggrOverlapAbs
		p.AggrOverlapRel = e.AggrOverlapRel
		p.CycleCount = e.CycleCount
		return base(p)
	}
}
