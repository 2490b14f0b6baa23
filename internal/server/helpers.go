package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"portfolio/internal/blob"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a route parameter as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + param)
	}
	return uint(id), nil
}

// pageRequest reads page and limit from the path when present, otherwise
// from the query string. Unparsable values select the defaults.
func pageRequest(c *fiber.Ctx) service.PageRequest {
	read := func(name string) int {
		raw := c.Params(name)
		if raw == "" {
			raw = c.Query(name)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0
		}
		return n
	}
	return service.PageRequest{Page: read("page"), Limit: read("limit")}
}

// parseBody decodes the request body into out. A request without a body
// leaves out untouched.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// formFile returns the named upload of a multipart request, or nil when
// the request carries none or the part is empty. At most max+1 bytes are read so oversize
// files are still detected.
func formFile(c *fiber.Ctx, name string, max int64) (*blob.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request: no files.
		return nil, nil
	}
	headers := form.File[name]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	return readFileHeader(headers[0], max)
}

func readFileHeader(fh *multipart.FileHeader, max int64) (*blob.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, models.NewValidationError(fmt.Sprintf("Could not read %s", fh.Filename))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, models.NewValidationError(fmt.Sprintf("Could not read %s", fh.Filename))
	}
	return &blob.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// formValue returns a pointer to a submitted form field, or nil when the
// field was not sent at all.
func formValue(c *fiber.Ctx, name string) *string {
	form, err := c.MultipartForm()
	if err != nil {
		if v := c.FormValue(name); v != "" {
			return &v
		}
		return nil
	}
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// setSessionCookie stores the session token in the HTTP-only cookie.
func (s *Server) setSessionCookie(c *fiber.Ctx, session *service.Session) {
	c.Cookie(s.sessionCookie(session.Token, time.Now().Add(s.config.CookieLifetime())))
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(s.sessionCookie("", time.Now().Add(-time.Hour)))
}

func (s *Server) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	// The frontend is served from another origin in production.
	if s.config.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}
	return cookie
}

// SessionResponse is the body returned by register and login.
type SessionResponse struct {
	Success         bool               `json:"success"`
	Message         string             `json:"message"`
	Token           string             `json:"token"`
	User            models.UserSummary `json:"user"`
	ExpiresIn       string             `json:"expiresIn"`
	CookieExpiresIn string             `json:"cookieExpiresIn"`
	Timestamp       string             `json:"timestamp"`
}

func (s *Server) sessionResponse(message string, session *service.Session) SessionResponse {
	return SessionResponse{
		Success:         true,
		Message:         message,
		Token:           session.Token,
		User:            session.User,
		ExpiresIn:       s.config.JWTExpire,
		CookieExpiresIn: fmt.Sprintf("%d days", s.config.JWTCookieExpire),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

// currentUserID returns the id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, models.NewUnauthorizedError("Please login to access this resource")
	}
	return id, nil
}
