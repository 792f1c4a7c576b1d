package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"jarvis/internal/domain"
	"jarvis/internal/handler/stream"
	"jarvis/internal/httputil"
	"jarvis/internal/service/relay"
)

// RelayHandler exposes the conversational AI relay over HTTP.
type RelayHandler struct {
	service *relay.Service
	logger  *slog.Logger
}

// NewRelayHandler creates a relay handler.
func NewRelayHandler(service *relay.Service, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service: service,
		logger:  logger,
	}
}

// Ask handles POST /api/jarvis. On success the response is a streaming
// text/plain body whose concatenation is the full assistant answer; this
// endpoint never responds in the single-JSON mode. Failures before the
// first fragment are a JSON {"error": ...} body with the classified
// status; after the first fragment the stream simply terminates and the
// partial output stands.
func (h *RelayHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var body askRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		h.respondClassified(w, fmt.Errorf("%w: %v", domain.ErrValidation, err), body.Language)
		return
	}

	req, err := toRelayRequest(&body)
	if err != nil {
		h.respondClassified(w, err, body.Language)
		return
	}

	events, relayErr := h.service.Ask(r.Context(), req)
	if relayErr != nil {
		httputil.RespondError(w, relayErr.StatusCode(), relayErr.Message)
		return
	}

	var sw *stream.Writer
	emitted := 0

	for ev := range events {
		if ev.Err != nil {
			relayErr := h.service.Classify(ev.Err, body.Language)
			if emitted == 0 {
				// Error payload in place of the first fragment.
				httputil.RespondError(w, relayErr.StatusCode(), relayErr.Message)
			} else {
				// Partial output already stands; just terminate. No
				// rollback: delivery here is at-most-once.
				h.logger.Warn("stream terminated after partial output",
					"kind", relayErr.Kind,
					"fragments", emitted,
					"error", ev.Err,
				)
			}
			return
		}

		if emitted == 0 {
			writer, err := stream.NewWriter(w)
			if err != nil {
				h.logger.Error("streaming unsupported by transport", "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
				return
			}
			sw = writer
			sw.Begin()
		}

		if err := sw.WriteFragment(ev.Text); err != nil {
			// Client gone; the request context cancellation unwinds the
			// provider goroutine.
			h.logger.Debug("client disconnected mid-stream",
				"fragments", emitted,
				"error", err,
			)
			return
		}
		emitted++
	}

	if emitted == 0 {
		// Channel closed without any event at all. Treat as an empty
		// upstream response rather than hanging up with no body.
		relayErr := h.service.Classify(domain.ErrEmptyResponse, body.Language)
		httputil.RespondError(w, relayErr.StatusCode(), relayErr.Message)
	}
}

// Translate handles POST /api/translate: unary generation, single JSON
// response.
func (h *RelayHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		h.respondClassified(w, fmt.Errorf("%w: %v", domain.ErrValidation, err), body.Language)
		return
	}

	text, relayErr := h.service.Translate(r.Context(), body.Text, body.Language)
	if relayErr != nil {
		httputil.RespondError(w, relayErr.StatusCode(), relayErr.Message)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, translateResponse{Text: text})
}

func (h *RelayHandler) respondClassified(w http.ResponseWriter, err error, language string) {
	relayErr := h.service.Classify(err, language)
	httputil.RespondError(w, relayErr.StatusCode(), relayErr.Message)
}
