// Command worldengine generates worlds, runs simulations on them, renders
// their views and serves them over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"worldengine/internal/config"
	"worldengine/internal/session"
	_ "worldengine/internal/sims"
	"worldengine/internal/tectonics"
	"worldengine/internal/worldbuild"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"generate", "generate a new world and save it", runGenerate},
	{"simulate", "run simulations on a saved world", runSimulate},
	{"render", "write views of a saved world as images", runRender},
	{"info", "describe a saved world", runInfo},
	{"serve", "serve worlds and task progress over HTTP", runServe},
}

// env is shared by every command.
type env struct {
	settings config.Settings
	session  *session.Session
	logger   *log.Logger
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: worldengine [-settings file] <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.usage)
	}
}

func main() {
	settingsPath := flag.String("settings", config.DefaultPath, "settings file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := log.New(os.Stderr, "worldengine: ", log.LstdFlags)
	e := &env{
		settings: settings,
		session:  session.New(settings.Engine.Factory(tectonics.Factory), worldbuild.Library{}),
		logger:   logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(ctx, e, args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				os.Exit(2)
			}
			log.Fatalf("%s: %v", name, err)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}
