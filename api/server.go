package api

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/matt-g-everett/ledtimeline/stream"
)

// StateSource supplies the latest timeline snapshot.
type StateSource interface {
	State() stream.State
}

// Api exposes playback state and scrubbing over HTTP.
type Api struct {
	controller *stream.Controller
	source     StateSource
	now        func() time.Time
	mux        *http.ServeMux
}

// NewApi creates an instance of an Api.
func NewApi(controller *stream.Controller, source StateSource) *Api {
	a := new(Api)
	a.controller = controller
	a.source = source
	a.now = time.Now
	a.mux = http.NewServeMux()
	a.mux.HandleFunc("/state", a.handleState)
	a.mux.HandleFunc("/seek", a.post(a.handleSeek))
	a.mux.HandleFunc("/pause", a.post(func(w http.ResponseWriter, r *http.Request) {
		a.controller.Pause(a.now())
		w.WriteHeader(http.StatusNoContent)
	}))
	a.mux.HandleFunc("/play", a.post(func(w http.ResponseWriter, r *http.Request) {
		a.controller.Play(a.now())
		w.WriteHeader(http.StatusNoContent)
	}))
	return a
}

// ServeHTTP implements http.Handler.
func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *Api) post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (a *Api) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.source.State()); err != nil {
		log.Printf("encode state: %v", err)
	}
}

func (a *Api) handleSeek(w http.ResponseWriter, r *http.Request) {
	progress, err := strconv.ParseFloat(r.URL.Query().Get("progress"), 64)
	if err != nil || math.IsNaN(progress) || math.IsInf(progress, 0) {
		http.Error(w, "progress must be a number", http.StatusBadRequest)
		return
	}
	a.controller.Seek(progress, a.now())
	w.WriteHeader(http.StatusNoContent)
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Listening on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
