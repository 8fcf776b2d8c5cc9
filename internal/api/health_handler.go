package api

import (
	"fmt"
	"net/http"

	"github.com/abutolibrashidov/vocabbot/internal/bot"
)

// HealthHandler answers liveness checks on the root path.
type HealthHandler struct{}

// NewHealthHandler creates the liveness handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s is running.", bot.BotName)
}
