package server

import (
	"portfolio/internal/models"
	"portfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of PUT /users/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ForgotPasswordRequest is the body of POST /users/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /users/reset-password/:token.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// Register handles POST /api/v1/users/register
// @Summary Register the portfolio owner
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} server.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	avatar, err := formFile(c, "avatar", s.config.MaxFileUpload)
	if err != nil {
		return err
	}
	resume, err := formFile(c, "resume", s.config.MaxFileUpload)
	if err != nil {
		return err
	}

	session, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Name:      c.FormValue("name"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Bio:       c.FormValue("bio"),
		Linkedin:  c.FormValue("linkedin"),
		Github:    c.FormValue("github"),
		Twitter:   c.FormValue("twitter"),
		Portfolio: c.FormValue("portfolio"),
		Phone:     c.FormValue("phone"),
		Address:   c.FormValue("address"),
		Avatar:    avatar,
		Resume:    resume,
	})
	if err != nil {
		return err
	}

	s.setSessionCookie(c, session)
	return c.Status(fiber.StatusCreated).JSON(s.sessionResponse("Registration successful!", session))
}

// Login handles POST /api/v1/users/login
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param request body server.LoginRequest true "Login credentials"
// @Success 200 {object} server.SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	session, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, session)
	return c.JSON(s.sessionResponse("Login successful", session))
}

// Logout handles POST /api/v1/users/logout. Issued tokens stay valid
// until they expire; only the cookie is cleared.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetProfile handles GET /api/v1/users/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile handles POST /api/v1/users/update-profile. Only submitted
// fields change.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	avatar, err := formFile(c, "avatar", s.config.MaxFileUpload)
	if err != nil {
		return err
	}
	resume, err := formFile(c, "resume", s.config.MaxFileUpload)
	if err != nil {
		return err
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: userID,
		Fields: models.ProfileUpdate{
			Name:      formValue(c, "name"),
			Bio:       formValue(c, "bio"),
			Linkedin:  formValue(c, "linkedin"),
			Github:    formValue(c, "github"),
			Twitter:   formValue(c, "twitter"),
			Portfolio: formValue(c, "portfolio"),
			Phone:     formValue(c, "phone"),
			Address:   formValue(c, "address"),
		},
		Avatar: avatar,
		Resume: resume,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePassword handles PUT /api/v1/users/change-password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	if err := s.authService.ChangePassword(c.UserContext(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated successfully",
	})
}

// ForgotPassword handles POST /api/v1/users/forgot-password. The response
// does not reveal whether the address is registered unless configured to.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	if err := s.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If an account exists for that email, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/v1/users/reset-password/:token
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	if err := s.authService.ResetPassword(c.UserContext(), c.Params("token"), req.NewPassword); err != nil {
		return err
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password reset successfully, please login with your new password",
	})
}
