//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"worldengine/internal/app"
	"worldengine/internal/config"
	"worldengine/internal/session"
	_ "worldengine/internal/sims"
	"worldengine/internal/storage"
	"worldengine/internal/tectonics"
	"worldengine/internal/worldbuild"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	settings, err := config.Load(cfg.Settings)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Apply(settings)

	logger := log.New(os.Stderr, "worldview: ", log.LstdFlags)
	sess := session.New(settings.Engine.Factory(tectonics.Factory), worldbuild.Library{})
	if cfg.Open != "" {
		w, err := storage.Open(cfg.Open)
		if err != nil {
			log.Fatalf("open %s: %v", cfg.Open, err)
		}
		_ = sess.SetWorld(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	game := app.New(ctx, sess, cfg, logger)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("worldengine")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
