package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/actuallystonmai/moodtune-service/internal/service"
)

// SessionHeader lets clients pick a session key; the client address is
// used when it is absent.
const SessionHeader = "X-Session-ID"

type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

func sessionKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(SessionHeader)); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
