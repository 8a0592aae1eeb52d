// Package server exposes a session over HTTP: generation and simulations are
// started with POST requests, views are served as PNG, and task progress is
// streamed to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"worldengine/internal/core"
	"worldengine/internal/render"
	"worldengine/internal/session"
	"worldengine/internal/simulation"
	"worldengine/internal/task"
)

// Server serves one session.
type Server struct {
	Session  *session.Session
	Renderer *render.Renderer
	Hub      *Hub
	Logger   *log.Logger
	// Seeds picks the seed of a generate request that does not name one.
	Seeds core.Seeds
	// StatusPeriod throttles progress lines in the server log.
	StatusPeriod time.Duration

	ctx context.Context
}

// New returns a server for sess. Tasks it starts are canceled when ctx is.
func New(ctx context.Context, sess *session.Session, logger *log.Logger) *Server {
	return &Server{
		Session:      sess,
		Renderer:     render.NewRenderer(),
		Hub:          NewHub(logger),
		Logger:       logger,
		Seeds:        core.RandomSeeds(),
		StatusPeriod: time.Second,
		ctx:          ctx,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /simulate/{kind}", s.handleSimulate)
	mux.HandleFunc("POST /cancel", s.handleCancel)
	mux.HandleFunc("GET /view/{file}", s.handleView)
	mux.HandleFunc("GET /world", s.handleWorld)
	mux.Handle("GET /ws", s.Hub)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Printf("listening on %s", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.Session.Cancel()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

type generateRequest struct {
	Seed   *int64 `json:"seed"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Plates int    `json:"plates"`
}

type taskResponse struct {
	Task string `json:"task"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err))
		return
	}
	seed := s.Seeds.Seed(int64(s.Session.Limits.Seed.Max))
	if req.Seed != nil {
		seed = *req.Seed
	}
	p := core.DefaultGenerationParams(seed)
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Width > 0 {
		p.Width = req.Width
	}
	if req.Height > 0 {
		p.Height = req.Height
	}
	if req.Plates > 0 {
		p.NumPlates = req.Plates
	}
	label := "generate " + p.Name
	if _, err := s.Session.Generate(s.ctx, p, s.sinkFor(label)); err != nil {
		s.fail(w, err)
		return
	}
	s.Logger.Printf("generating %s (seed %d, %dx%d, %d plates)", p.Name, p.Seed, p.Width, p.Height, p.NumPlates)
	writeJSON(w, http.StatusAccepted, taskResponse{Task: label})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	kind, err := simulation.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if _, err := s.Session.Simulate(s.ctx, kind, s.sinkFor(string(kind))); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, taskResponse{Task: string(kind)})
}

func (s *Server) handleCancel(w http.ResponseWriter, _ *http.Request) {
	h, label := s.Session.Running()
	if h == nil {
		http.Error(w, "no task is running", http.StatusNotFound)
		return
	}
	h.Cancel()
	writeJSON(w, http.StatusAccepted, taskResponse{Task: label})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		http.Error(w, "views are served as .png", http.StatusNotFound)
		return
	}
	mode, err := render.ParseMode(name)
	if err != nil {
		s.fail(w, err)
		return
	}
	world := s.Session.World()
	if world == nil {
		http.Error(w, "no world loaded", http.StatusNotFound)
		return
	}
	img, err := s.Renderer.Image(world, mode)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		s.Logger.Printf("encode %s: %v", mode, err)
	}
}

type worldResponse struct {
	World   *session.Summary `json:"world"`
	Running string           `json:"running,omitempty"`
}

func (s *Server) handleWorld(w http.ResponseWriter, _ *http.Request) {
	var resp worldResponse
	if world := s.Session.World(); world != nil {
		sum := session.Summarize(world, s.Renderer)
		resp.World = &sum
	}
	_, resp.Running = s.Session.Running()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) sinkFor(label string) task.Sink {
	logger := log.New(s.Logger.Writer(), s.Logger.Prefix()+label+": ", s.Logger.Flags())
	return task.Multi{task.NewLogSink(logger, s.StatusPeriod), &sink{hub: s.Hub, label: label}}
}

// fail maps an error to its HTTP status.
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBusy):
		code = http.StatusConflict
	case errors.Is(err, core.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, core.ErrDomain):
		code = http.StatusUnprocessableEntity
	}
	if code == http.StatusInternalServerError {
		s.Logger.Printf("request failed: %v", err)
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
