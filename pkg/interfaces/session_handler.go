package interfaces

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/yair/showfinder/pkg/domain"
)

type SessionHandler struct {
	gate *AccessGate
	log  *slog.Logger
}

func NewSessionHandler(gate *AccessGate, log *slog.Logger) *SessionHandler {
	return &SessionHandler{
		gate: gate,
		log:  log,
	}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/session", h.Login).Methods("POST")
	router.HandleFunc("/api/session", h.Logout).Methods("DELETE")
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Warning   string    `json:"warning,omitempty"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, expires, err := h.gate.Login(req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			h.log.Info("login rejected", slog.String("remote_addr", r.RemoteAddr))
			respondWithError(w, http.StatusUnauthorized, "invalid password")
			return
		}
		h.log.Error("login failed", slog.String("err", err.Error()))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	resp := loginResponse{Token: token, ExpiresAt: expires}
	if h.gate.Open() {
		resp.Warning = "no server password is configured; set APP_PASSWORD before deploying"
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
