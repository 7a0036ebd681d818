package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fightbook/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"user not found", models.ErrUserNotFound, http.StatusNotFound},
		{"combat not found", models.ErrCombatNotFound, http.StatusNotFound},
		{"duplicate user", models.ErrDuplicateUser, http.StatusConflict},
		{"invalid transition", models.ErrInvalidTransition, http.StatusConflict},
		{"not eligible", models.ErrCombatNotEligible, http.StatusConflict},
		{"combat unavailable", models.ErrCombatUnavailable, http.StatusConflict},
		{"invalid amount", models.ErrInvalidAmount, http.StatusBadRequest},
		{"self wager", models.ErrSelfWager, http.StatusBadRequest},
		{"invalid participant", models.ErrInvalidParticipant, http.StatusBadRequest},
		{"invalid participants", models.ErrInvalidParticipants, http.StatusBadRequest},
		{"invalid winner", models.ErrInvalidWinner, http.StatusBadRequest},
		{"insufficient funds", models.ErrInsufficientFunds, http.StatusBadRequest},
		{"access denied", models.ErrAccessDenied, http.StatusForbidden},
		{"invalid credentials", models.ErrInvalidCredentials, http.StatusUnauthorized},
		{"contention timeout", models.ErrContentionTimeout, http.StatusServiceUnavailable},
		{"unknown error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondError_WrappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Services wrap domain errors with context; the mapping still applies
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("failed to place wager: %w", models.ErrInsufficientFunds))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
