package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyPrompt is the request defect of a missing or empty prompt. The
// endpoint reports it as a single in-band frame without starting a run.
var ErrEmptyPrompt = errors.New("no prompt was provided")

// emptyPromptMessage is the frame text for ErrEmptyPrompt.
var emptyPromptMessage = "ERROR: " + ErrEmptyPrompt.Error() + "."

// setStreamHeaders writes the SSE and CORS headers. Cross-origin access is
// wide open: the stream is a one-way, unauthenticated surface.
func setStreamHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "*")
	h.Set("Access-Control-Allow-Headers", "*")
}

// writeFrame writes one SSE frame: "data: <message>\n\n".
//
// A message containing a newline would terminate the frame early, so line
// breaks are flattened to spaces before framing. The configured message
// tables are single-line; this only matters for error text from deeper
// layers.
func writeFrame(w http.ResponseWriter, message string) {
	message = strings.ReplaceAll(message, "\r", "")
	message = strings.ReplaceAll(message, "\n", " ")
	fmt.Fprintf(w, "data: %s\n\n", message)
}
