package models

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdate_Columns(t *testing.T) {
	name := "Ada"
	phone := "+1 555"
	u := ProfileUpdate{
		Name:   &name,
		Phone:  &phone,
		Avatar: &Asset{PublicID: "AVATAR/a.png", URL: "http://cdn/a.png"},
	}

	cols := u.Columns()
	assert.Equal(t, map[string]any{
		"name":             "Ada",
		"contact_phone":    "+1 555",
		"avatar_public_id": "AVATAR/a.png",
		"avatar_url":       "http://cdn/a.png",
	}, cols)
	assert.False(t, u.IsEmpty())
	assert.True(t, ProfileUpdate{}.IsEmpty())
}

func TestSplitTechnologies(t *testing.T) {
	assert.Equal(t, StringList{"Go", "Postgres", "Redis"}, SplitTechnologies(" Go, Postgres,,Redis "))
	assert.Empty(t, SplitTechnologies(""))
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList{"Go", "Fiber"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Go","Fiber"]`, v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
	assert.Error(t, l.Scan(42))
}

func TestSkillEnums(t *testing.T) {
	assert.True(t, IsValidProficiency("Advanced"))
	assert.False(t, IsValidProficiency("Guru"))
	assert.True(t, IsValidSkillCategory("Web Development"))
	assert.False(t, IsValidSkillCategory("Cooking"))
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", NewValidationError("Avatar is required"), 400,
			`{"success":false,"message":"Avatar is required","code":"VALIDATION_ERROR"}`},
		{"internal cause hidden", NewInternalError(errors.New("pq: connection refused")), 500,
			`{"success":false,"message":"Internal server error","code":"INTERNAL_ERROR"}`},
		{"plain error", errors.New("boom"), 500,
			`{"success":false,"message":"Internal server error","code":"INTERNAL_ERROR"}`},
		{"fiber error", fiber.NewError(fiber.StatusNotFound, "Cannot GET /nope"), 404,
			`{"success":false,"message":"Cannot GET /nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return RespondWithError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := NewNotifierError(errors.New("smtp down"))
	assert.True(t, HasCode(err, CodeNotifier))
	assert.False(t, HasCode(err, CodeUpload))
	assert.Equal(t, 502, StatusOf(err))
}
