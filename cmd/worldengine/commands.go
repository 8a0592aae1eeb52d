package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"worldengine/internal/config"
	"worldengine/internal/core"
	"worldengine/internal/export"
	"worldengine/internal/render"
	"worldengine/internal/server"
	"worldengine/internal/session"
	"worldengine/internal/simulation"
	"worldengine/internal/storage"
	"worldengine/internal/task"
	"worldengine/internal/tui"
)

const eventBuffer = 64

// output holds the flags shared by commands that write views.
type output struct {
	views  listFlag
	format string
	dir    string
	jobs   int
}

func (o *output) bind(fs *flag.FlagSet) {
	fs.Var(&o.views, "view", "view to write, repeatable or comma separated (\"all\" for every applicable one)")
	fs.StringVar(&o.format, "format", string(export.PNG), "image format: png or tiff")
	fs.StringVar(&o.dir, "dir", ".", "directory the images are written to")
	fs.IntVar(&o.jobs, "j", 0, "views rendered at once (0: all)")
}

func (o *output) write(ctx context.Context, e *env, w *core.World) error {
	if len(o.views) == 0 {
		return nil
	}
	f, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	r := render.NewRenderer()
	var modes []render.Mode
	if slices.Contains(o.views, "all") {
		modes = r.Modes(w)
	} else {
		for _, v := range o.views {
			m, err := render.ParseMode(v)
			if err != nil {
				return err
			}
			modes = append(modes, m)
		}
	}
	paths, err := export.Write(ctx, r, w, modes, export.Options{Dir: o.dir, Format: f, Parallel: o.jobs})
	for _, p := range paths {
		e.logger.Printf("wrote %s", p)
	}
	return err
}

// follow runs a task started by start. On a terminal the progress view is
// shown; otherwise progress goes to the log.
func follow(e *env, title string, plain bool, start func(task.Sink) (*task.Handle, error)) error {
	if plain || !isatty.IsTerminal(os.Stderr.Fd()) {
		h, err := start(task.NewLogSink(e.logger, e.settings.Server.StatusInterval()))
		if err != nil {
			return err
		}
		return h.Wait()
	}
	ch := task.NewChannel(eventBuffer)
	h, err := start(ch)
	if err != nil {
		return err
	}
	return tui.Follow(title, ch, h, tea.WithOutput(os.Stderr))
}

func runGenerate(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	gen := config.NewGenerate()
	gen.Bind(fs)
	out := fs.String("o", "", "world file (default <name>.world)")
	plain := fs.Bool("plain", false, "log progress instead of showing the progress view")
	var images output
	images.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := gen.Params(core.RandomSeeds(), e.session.Limits)
	err := follow(e, "Generating "+p.Name, *plain, func(sink task.Sink) (*task.Handle, error) {
		return e.session.Generate(ctx, p, sink)
	})
	if err != nil {
		return err
	}
	w := e.session.World()
	path := *out
	if path == "" {
		path = w.Name
	}
	if err := storage.Save(w, storage.WithExt(path)); err != nil {
		return err
	}
	e.logger.Printf("saved %s (seed %d)", storage.WithExt(path), w.Seed)
	return images.write(ctx, e, w)
}

func runSimulate(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	in := fs.String("in", "", "world file to read")
	out := fs.String("o", "", "world file to write (default: overwrite -in)")
	plain := fs.Bool("plain", false, "log progress instead of showing the progress view")
	var sims listFlag
	fs.Var(&sims, "sim", "simulation to run, repeatable or comma separated, in order (\"all\" runs every one that applies)")
	var images output
	images.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(sims) == 0 {
		return fmt.Errorf("%w: no -sim given", core.ErrInvalidArgument)
	}
	w, err := openWorld(e, *in)
	if err != nil {
		return err
	}

	all := slices.Contains(sims, "all")
	var kinds []simulation.Kind
	if all {
		kinds = simulation.Kinds()
	} else {
		for _, s := range sims {
			k, err := simulation.ParseKind(s)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}
	}
	for _, k := range kinds {
		err := follow(e, string(k), *plain, func(sink task.Sink) (*task.Handle, error) {
			return e.session.Simulate(ctx, k, sink)
		})
		if all && errors.Is(err, core.ErrInvalidArgument) {
			e.logger.Printf("skipping %s: %v", k, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}

	path := *out
	if path == "" {
		path = *in
	}
	if err := storage.Save(w, path); err != nil {
		return err
	}
	e.logger.Printf("saved %s", path)
	return images.write(ctx, e, w)
}

func runRender(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("in", "", "world file to read")
	var images output
	images.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := openWorld(e, *in)
	if err != nil {
		return err
	}
	if len(images.views) == 0 {
		images.views = listFlag{"all"}
	}
	return images.write(ctx, e, w)
}

func runInfo(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	in := fs.String("in", "", "world file to read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := openWorld(e, *in)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(session.Summarize(w, render.NewRenderer()))
}

func runServe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", e.settings.Server.Addr, "listen address")
	in := fs.String("open", "", "world file to serve at startup")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in != "" {
		if _, err := openWorld(e, *in); err != nil {
			return err
		}
	}
	srv := server.New(ctx, e.session, e.logger)
	srv.StatusPeriod = e.settings.Server.StatusInterval()
	return srv.ListenAndServe(ctx, *addr)
}

// openWorld loads a world file into the session.
func openWorld(e *env, path string) (*core.World, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no world file given (-in)", core.ErrInvalidArgument)
	}
	w, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := e.session.SetWorld(w); err != nil {
		return nil, err
	}
	return w, nil
}
