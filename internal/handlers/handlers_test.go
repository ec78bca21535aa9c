package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
)

func TestSendJSONOrLog(t *testing.T) {
	log, hook := test.NewNullLogger()

	rec := httptest.NewRecorder()
	sendJSONOrLog(rec, log, http.StatusConflict, wrapError(game.ErrStaleGame))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "game is no longer current"}`, rec.Body.String())
	assert.Empty(t, hook.AllEntries())

	rec = httptest.NewRecorder()
	sendJSONOrLog(rec, log, http.StatusOK, make(chan int))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Len(t, hook.AllEntries(), 1)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{game.ErrNoGame, http.StatusNotFound},
		{game.ErrStaleGame, http.StatusConflict},
		{game.ErrBoardTooLarge, http.StatusBadRequest},
		{mines.ErrInvalidConfiguration, http.StatusBadRequest},
		{commands.ErrOutOfRange, http.StatusBadRequest},
		{&commands.Error{Line: 1, Err: commands.ErrArgCount}, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, test := range tests {
		assert.Equal(t, test.status, statusFor(test.err), test.err.Error())
	}
}
