package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/token"
)

// SendJSON writes payload as a JSON body with the given status.
func SendJSON(w http.ResponseWriter, status int, payload []byte) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

// sendJSONOrLog encodes v before touching w, so an encoding failure can still
// be answered with 500.
func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to encode response")
		return
	}
	if _, err := SendJSON(w, status, payload); err != nil {
		log.WithError(err).Warn("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusFor maps host, engine and protocol errors to response codes.
func statusFor(err error) int {
	var cmdErr *commands.Error
	switch {
	case errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrNoGame):
		return http.StatusNotFound
	case errors.Is(err, game.ErrStaleGame):
		return http.StatusConflict
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, game.ErrBoardTooLarge),
		errors.Is(err, commands.ErrOutOfRange),
		errors.As(err, &cmdErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendError writes err with the status it maps to. Server errors are logged
// and their text is not sent to the client.
func sendError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("unable to handle request")
		w.WriteHeader(status)
		return
	}
	sendJSONOrLog(w, log, status, wrapError(err))
}

func badRequest(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	sendJSONOrLog(w, log, http.StatusBadRequest, wrapError(err))
}
