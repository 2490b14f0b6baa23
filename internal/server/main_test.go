package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"portfolio/internal/blob"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/middleware"
	"portfolio/internal/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Secret123"

type captureSender struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (s *captureSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *captureSender) sent() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.msgs...)
}

type testEnv struct {
	srv    *Server
	app    *fiber.App
	db     *gorm.DB
	store  *blob.LocalStore
	sender *captureSender
}

func testConfig() *config.Config {
	return &config.Config{
		Env:             "test",
		Port:            "4000",
		FrontendURL:     "http://localhost:5173",
		DBDriver:        "sqlite",
		JWTSecret:       "test-secret-that-is-at-least-32-chars",
		JWTExpire:       "1h",
		JWTCookieExpire: 7,
		MaxFileUpload:   1024 * 1024,
		ResetTokenTTL:   5 * time.Minute,
		BlobDriver:      "local",
		MailFrom:        "no-reply@portfolio.test",
		NotifyWorkers:   1,
		NotifyQueueSize: 10,
		RateLimitMax:    1000,
		RateLimitWindow: time.Minute,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cache.SetClient(nil)
	middleware.ConfigureLogger("test", io.Discard)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))

	store, err := blob.NewLocalStore(t.TempDir(), "http://localhost:4000/uploads")
	require.NoError(t, err)

	sender := &captureSender{}
	srv, err := NewServerWithDeps(testConfig(), Deps{
		DB:         db,
		Store:      store,
		UploadRoot: store.Root(),
		Sender:     sender,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.dispatcher.Close(ctx)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{srv: srv, app: srv.App(), db: db, store: store, sender: sender}
}

// do runs req without the default app.Test timeout; bcrypt is slow.
func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

func (e *testEnv) uploadedFiles(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(e.store.Root(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

type upload struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func registrationFields(email string) map[string]string {
	return map[string]string{
		"name":     "Ada Lovelace",
		"email":    email,
		"password": testPassword,
		"bio":      "Analyst",
		"github":   "https://github.com/ada",
	}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

// register creates the owner account and returns its session cookie.
func (e *testEnv) register(t *testing.T, email string) *http.Cookie {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registrationFields(email),
		upload{field: "avatar", name: "me.png", data: pngBytes(t)})
	resp, body := e.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	return cookie
}

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
