// Package server exposes the streaming workflow over HTTP as a Server-Sent
// Events endpoint.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dvalle/stategraph/stream"
)

// Streamer is the bridge surface the transport needs.
type Streamer interface {
	Stream(ctx context.Context, prompt string) <-chan stream.Frame
}

// NewHandler builds the HTTP routing surface:
//
//	GET /stream?prompt=<text>  SSE frame stream for one workflow run
//	GET /healthz               liveness probe
//	GET /metrics               Prometheus metrics (when metrics != nil)
func NewHandler(bridge Streamer, metrics prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/stream", streamHandler(bridge))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))
	}

	return r
}

// streamHandler drains one bridge run and writes each frame to the wire.
//
// Failures inside a run never surface as HTTP status codes: headers are
// already sent when they happen, so errors travel in-band as frames and
// the response stays 200.
func streamHandler(bridge Streamer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		setStreamHeaders(w)

		prompt := r.URL.Query().Get("prompt")
		if prompt == "" {
			// Short-circuit: a single error frame, no run is started.
			writeFrame(w, emptyPromptMessage)
			flusher.Flush()
			return
		}

		for frame := range bridge.Stream(r.Context(), prompt) {
			writeFrame(w, frame.Message)
			flusher.Flush()
		}
	}
}
