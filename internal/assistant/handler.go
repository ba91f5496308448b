package assistant

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"vinpoint/pkg/handlers"
	"vinpoint/pkg/routes"
)

// Handler provides HTTP endpoints for assistant operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "assistant"),
	}
}

// Routes returns the route group definition for assistant endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/assistant",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/ask", Handler: h.Ask},
		},
	}
}

// Ask answers a question about a valuation from the JSON body.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var q Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	answer, err := h.sys.Ask(r.Context(), q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, answer)
}
