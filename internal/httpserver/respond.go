package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/challenge"
	"github.com/robalobadob/wordle-shqip/internal/game"
)

// apiError is the body of every non-2xx response.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"` // Albanian, for display
}

// writeJSON encodes v with the given status. Content-Type is already set by
// the jsonContentType middleware.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, apiError{Error: code, Message: msg})
}

// writeDomainError maps engine and codec errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidShape):
		writeError(w, http.StatusUnprocessableEntity, "invalid_shape", msgInvalidShape)
	case errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusUnprocessableEntity, "not_in_word_list", msgNotInWordList)
	case errors.Is(err, challenge.ErrInvalidWord):
		writeError(w, http.StatusUnprocessableEntity, "invalid_word", msgInvalidShape)
	case errors.Is(err, challenge.ErrMissingName):
		writeError(w, http.StatusUnprocessableEntity, "missing_name", msgMissingName)
	case errors.Is(err, challenge.ErrNotFound):
		writeError(w, http.StatusNotFound, "challenge_not_found", msgChallengeNotFound)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error", msgServerError)
	}
}

// User-facing strings.
const (
	msgInvalidShape      = "Fjalë e pavlefshme. Shkruani një fjalë shqipe me 5 shkronja."
	msgNotInWordList     = "Fjala nuk është në fjalor."
	msgMissingName       = "Emri mungon. Ju lutemi shkruani emrin tuaj."
	msgChallengeNotFound = "Loja nuk u gjet."
	msgFutureDate        = "Kjo sfidë ditore nuk është ende e disponueshme."
	msgBadDate           = "Data e pavlefshme."
	msgServerError       = "Diçka shkoi keq. Provoni përsëri."
	msgWon               = "Urime! 🎉"
	msgLost              = "Më keq sot! 😅"
)
