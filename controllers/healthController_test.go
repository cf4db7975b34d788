package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()
		mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))

		c, w := SetupTestContext()
		Ping(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pong")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()
		mock.ExpectExec("SELECT 1").WillReturnError(errors.New("connection refused"))

		c, w := SetupTestContext()
		Ping(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestTestPrayerEmail(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		c, w := SetupTestContext()
		SetJSONBody(c, map[string]interface{}{"email": "not-an-email"})

		TestPrayerEmail(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("email service not configured", func(t *testing.T) {
		c, w := SetupTestContext()
		SetJSONBody(c, map[string]interface{}{"email": "admin@example.com"})

		TestPrayerEmail(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "RESEND_API_KEY")
	})
}
