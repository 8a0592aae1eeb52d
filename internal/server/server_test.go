package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"worldengine/internal/core"
	"worldengine/internal/generation"
	"worldengine/internal/session"
	_ "worldengine/internal/sims"
)

type stepEngine struct {
	w, h  int
	steps int
	gate  chan struct{}
}

func (e *stepEngine) Finished() bool { return e.steps >= 3 }

func (e *stepEngine) Step() error {
	if e.gate != nil {
		<-e.gate
	}
	e.steps++
	return nil
}

func (e *stepEngine) Heightmap() []float64 {
	out := make([]float64, e.w*e.h)
	for i := range out {
		out[i] = float64(i%e.w) * 0.5
	}
	return out
}

func (e *stepEngine) PlatesMap() []int {
	out := make([]int, e.w*e.h)
	for i := range out {
		out[i] = (i % e.w) / 2
	}
	return out
}

type edgeOcean struct{}

func (edgeOcean) CenterLand(*core.World) error                 { return nil }
func (edgeOcean) AddNoiseToElevation(*core.World, int64) error { return nil }
func (edgeOcean) PlaceOceansAtMapBorders(*core.World) error    { return nil }
func (edgeOcean) InitializeOceanAndThresholds(w *core.World) error {
	ocean := core.NewGrid[bool](w.Width, w.Height)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			ocean.Set(x, y, w.Elevation.At(x, y) <= 1)
		}
	}
	return w.SetOcean(ocean)
}

func newTestServer(t *testing.T, gate chan struct{}) (*Server, *httptest.Server) {
	t.Helper()
	sess := session.New(func(p generation.EngineParams) (generation.Engine, error) {
		return &stepEngine{w: p.Width, h: p.Height, gate: gate}, nil
	}, edgeOcean{})
	sess.Limits.Size = core.Range{Min: 1, Max: 64}
	logger := log.New(io.Discard, "", 0)
	srv := New(context.Background(), sess, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp
}

func TestGenerateStreamsProgressOverWebsocket(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	var hello Message
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != "hello" {
		t.Fatalf("hello = %+v, %v", hello, err)
	}

	resp := post(t, ts.URL+"/generate", `{"seed": 7, "name": "ws", "width": 8, "height": 6, "plates": 4}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("generate status %d", resp.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	lastSeq := 0
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatal(err)
		}
		if m.Seq != lastSeq+1 {
			t.Fatalf("seq %d after %d", m.Seq, lastSeq)
		}
		lastSeq = m.Seq
		if m.Type == "finish" {
			if m.State != "succeeded" {
				t.Fatalf("finish %+v", m)
			}
			break
		}
	}

	res, err := http.Get(ts.URL + "/world")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var got worldResponse
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.World == nil || got.World.Name != "ws" || got.World.Width != 8 {
		t.Fatalf("world summary %+v", got.World)
	}
}

func TestViewServesPNG(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	res, err := http.Get(ts.URL + "/view/land.png")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("view without world: %d", res.StatusCode)
	}

	w := core.NewWorld("v", 1, 5, 3, 2, 1)
	elev := core.NewGrid[float64](5, 3)
	for i := range elev.Cells() {
		elev.Cells()[i] = float64(i)
	}
	_ = w.SetElevation(elev)
	_ = srv.Session.SetWorld(w)

	res, err = http.Get(ts.URL + "/view/bw.png")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("image bounds %v", b)
	}

	for path, want := range map[string]int{
		"/view/contours.png": http.StatusBadRequest,
		"/view/plates.png":   http.StatusUnprocessableEntity,
		"/view/bw.jpg":       http.StatusNotFound,
	} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != want {
			t.Errorf("%s: status %d, want %d", path, res.StatusCode, want)
		}
	}
}

func TestBusySessionAnswersConflict(t *testing.T) {
	gate := make(chan struct{})
	srv, ts := newTestServer(t, gate)
	if resp := post(t, ts.URL+"/generate", `{"width": 4, "height": 4, "plates": 2}`); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("first generate: %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/generate", ""); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second generate: %d, want 409", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/simulate/precipitation", ""); resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusConflict {
		t.Fatalf("simulate while generating: %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/cancel", ""); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("cancel: %d", resp.StatusCode)
	}
	close(gate)
	h, _ := srv.Session.Running()
	if h != nil {
		<-h.Done()
	}
	if resp := post(t, ts.URL+"/simulate/volcanism", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown simulation: %d", resp.StatusCode)
	}
}
