package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"  Jane Doe  ":                                 "Jane Doe",
		"<script>alert(1)</script>Great shop":          "Great shop",
		"<b>Loved</b> it":                              "Loved it",
		"O'Brien & Sons":                               "O'Brien & Sons",
		"a < b":                                        "a < b",
		"&lt;script&gt;alert(1)&lt;/script&gt;":        "",
		"&lt;b&gt;Loved&lt;/b&gt; it":                  "Loved it",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;hi": "hi",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeText(in), in)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.CreateToken(id, "owner@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "owner@example.com", claims.Email)

	_, err = NewTokenManager("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.CreateToken(uuid.New(), "a@b.co")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "hunter22"))
	assert.Error(t, ComparePasswords(hash, "hunter23"))
}

func TestValidateStruct(t *testing.T) {
	type colors struct {
		Primary string `validate:"required,hexcolor"`
	}
	assert.NoError(t, ValidateStruct(colors{Primary: "#14b8a6"}))

	err := ValidateStruct(colors{Primary: "teal"})
	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Message, "hex color")
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
	}{
		{NewValidationError("Please select a rating"), http.StatusBadRequest},
		{fmt.Errorf("load: %w", ErrCampaignNotFound), http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrDuplicateSubmission, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(TraceIDKey, "trace-1")

		HandleServiceError(c, tc.err)

		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		var body APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "trace-1", body.TraceID)
	}
}

func TestDayHelpers(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, "Jan 2", DayLabel(ts))
	assert.Equal(t, "2025-01-02", DateStamp(ts))
}
