package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/yair/showfinder/pkg/domain"
)

type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithSearchError maps a search error onto a status code and a
// message the user can act on.
func respondWithSearchError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	code := http.StatusInternalServerError
	message := "internal server error"

	switch kind {
	case domain.KindMissingAPIKey:
		code = http.StatusBadRequest
		message = "ticketmaster API key is not configured; send it in the X-Ticketmaster-Key header"
	case domain.KindValidation:
		code = http.StatusBadRequest
		message = err.Error()
	case domain.KindAuth, domain.KindUpstream:
		code = http.StatusBadGateway
		message = err.Error()
	case domain.KindTransport:
		code = http.StatusServiceUnavailable
		message = err.Error()
	default:
		kind = ""
	}

	respondWithJSON(w, code, errorResponse{Error: message, Kind: kind})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
