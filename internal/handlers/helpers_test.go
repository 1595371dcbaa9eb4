package handlers

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"SwapMarket/server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.ErrInvalidArgument, 400},
		{fmt.Errorf("%w: message content must not be empty", models.ErrInvalidArgument), 400},
		{models.ErrUnauthorized, 401},
		{models.ErrPermissionDenied, 403},
		{fmt.Errorf("%w: thread 7", models.ErrNotFound), 404},
		{models.ErrConflict, 409},
		{errors.New("pool closed"), 500},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respondError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}

	// Internal errors never leak their text to the client.
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	assert.Equal(t, "Internal server error\n", rec.Body.String())
}

func TestThreadIDParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/threads/abc/messages", nil)
	_, err := threadIDParam(r)
	assert.Error(t, err)
}
