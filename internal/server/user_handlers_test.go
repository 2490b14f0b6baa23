package server

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"
	"time"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resetLinkPattern = regexp.MustCompile(`/reset-password/([0-9a-f]{64})`)

func (e *testEnv) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&n).Error)
	return n
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registrationFields("ada@example.com"),
		upload{field: "avatar", name: "me.png", data: pngBytes(t)})
	resp, body := env.do(t, req)

	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registration successful!", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "1h", body["expiresIn"])
	assert.Equal(t, "7 days", body["cookieExpiresIn"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, body["token"], cookie.Value)

	assert.Equal(t, int64(1), env.countUsers(t))
	assert.Equal(t, 1, env.uploadedFiles(t))
}

func TestRegister_MissingAvatar(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registrationFields("ada@example.com"))
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, models.CodeValidation, body["code"])
	assert.Equal(t, int64(0), env.countUsers(t))
	assert.Nil(t, sessionCookie(resp))
}

func TestRegister_OversizeAvatar(t *testing.T) {
	env := newTestEnv(t)

	big := append(pngBytes(t), bytes.Repeat([]byte{0}, 1024*1024+1)...)
	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registrationFields("ada@example.com"),
		upload{field: "avatar", name: "big.png", data: big})
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])
	assert.Equal(t, "Please upload an image less than 1MB", body["message"])
	assert.Equal(t, int64(0), env.countUsers(t))
	assert.Equal(t, 0, env.uploadedFiles(t))
}

func TestRegister_NotAnImage(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registrationFields("ada@example.com"),
		upload{field: "avatar", name: "me.png", data: []byte("#!/bin/sh\necho hi\n")})
	resp, _ := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, env.uploadedFiles(t))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@example.com")

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registrationFields("ADA@example.com"),
		upload{field: "avatar", name: "me.png", data: pngBytes(t)})
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.CodeConflict, body["code"])
	assert.Equal(t, 1, env.uploadedFiles(t))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@example.com")

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{"Correct credentials", "ada@example.com", testPassword, http.StatusOK},
		{"Wrong password", "ada@example.com", "Wrong1234", http.StatusUnauthorized},
		{"Unknown email", "nobody@example.com", testPassword, http.StatusUnauthorized},
	}

	var failures []map[string]any
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: tt.email, Password: tt.password})
			resp, body := env.do(t, req)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "Login successful", body["message"])
				assert.NotNil(t, sessionCookie(resp))
			} else {
				failures = append(failures, body)
			}
		})
	}

	require.Len(t, failures, 2)
	assert.Equal(t, failures[0], failures[1], "wrong password and unknown email must be indistinguishable")
}

func TestProfile_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/users/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.CodeUnauthorized, body["code"])

	req := jsonRequest(t, http.MethodGet, "/api/v1/users/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, _ = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "ada@example.com")

	req := jsonRequest(t, http.MethodGet, "/api/v1/users/profile", nil)
	req.AddCookie(cookie)
	resp, body := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ada Lovelace", user["name"])
	assert.NotContains(t, user, "password")

	req = multipartRequest(t, http.MethodPost, "/api/v1/users/update-profile",
		map[string]string{"bio": "Countess"},
		upload{field: "avatar", name: "new.png", data: pngBytes(t)})
	req.AddCookie(cookie)
	resp, body = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	user = body["user"].(map[string]any)
	assert.Equal(t, "Countess", user["bio"])
	assert.Equal(t, "Ada Lovelace", user["name"], "fields not sent are unchanged")
	assert.Equal(t, 1, env.uploadedFiles(t), "replaced avatar is destroyed")
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "ada@example.com")

	req := jsonRequest(t, http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(cookie)
	resp, _ := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "ada@example.com")

	req := jsonRequest(t, http.MethodPut, "/api/v1/users/change-password",
		ChangePasswordRequest{OldPassword: "Wrong1234", NewPassword: "Newpass123"})
	req.AddCookie(cookie)
	resp, body := env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.CodeInvalidCredentials, body["code"])

	req = jsonRequest(t, http.MethodPut, "/api/v1/users/change-password",
		ChangePasswordRequest{OldPassword: testPassword, NewPassword: "Newpass123"})
	req.AddCookie(cookie)
	resp, _ = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/users/login",
		LoginRequest{Email: "ada@example.com", Password: "Newpass123"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@example.com")

	resp, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/users/forgot-password",
		ForgotPasswordRequest{Email: "ada@example.com"}))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	uniform := body["message"]

	resp, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/users/forgot-password",
		ForgotPasswordRequest{Email: "nobody@example.com"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uniform, body["message"])

	var raw string
	require.Eventually(t, func() bool {
		for _, msg := range env.sender.sent() {
			if m := resetLinkPattern.FindStringSubmatch(msg.Text); m != nil {
				raw = m[1]
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	resetURL := "/api/v1/users/reset-password/" + raw
	resp, body = env.do(t, jsonRequest(t, http.MethodPost, resetURL, ResetPasswordRequest{NewPassword: "Fresh1234"}))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = env.do(t, jsonRequest(t, http.MethodPost, resetURL, ResetPasswordRequest{NewPassword: "Other1234"}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeInvalidToken, body["code"])

	resp, _ = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/users/login",
		LoginRequest{Email: "ada@example.com", Password: "Fresh1234"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/users/login",
		LoginRequest{Email: "ada@example.com", Password: testPassword}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, jsonRequest(t, http.MethodPost,
		"/api/v1/users/reset-password/deadbeef", ResetPasswordRequest{NewPassword: "Fresh1234"}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeInvalidToken, body["code"])
}

func TestUpdateProfile_EmptyAvatarPartKeepsAvatar(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "ada@example.com")

	req := jsonRequest(t, http.MethodGet, "/api/v1/users/profile", nil)
	req.AddCookie(cookie)
	_, body := env.do(t, req)
	before := body["user"].(map[string]any)["avatar"]

	req = multipartRequest(t, http.MethodPost, "/api/v1/users/update-profile",
		map[string]string{"bio": "Countess"},
		upload{field: "avatar", name: "empty.png", data: []byte{}})
	req.AddCookie(cookie)
	resp, body := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Countess", user["bio"])
	assert.Equal(t, before, user["avatar"])
	assert.Equal(t, 1, env.uploadedFiles(t), "stored avatar is not destroyed")
}

func TestMissingFieldsUseServiceMessages(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "ada@example.com")

	resp, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/users/forgot-password", ForgotPasswordRequest{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide an email", body["message"])

	req := jsonRequest(t, http.MethodPut, "/api/v1/users/change-password", ChangePasswordRequest{OldPassword: testPassword})
	req.AddCookie(cookie)
	resp, body = env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide old and new password", body["message"])
}
