package server

import (
	"campushire/internal/service"

	"github.com/gofiber/fiber/v2"
)

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type completeSignupRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup handles POST /api/v1/auth/signup
// @Summary Start signup
// @Description Mails a one-time code to an unregistered email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body emailRequest true "Signup request"
// @Success 200 {object} object{message=string,email=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req emailRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	email, err := s.authService.Signup(c.UserContext(), req.Email)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": service.MsgOTPSent, "email": email})
}

// VerifyOTPOnly handles POST /api/v1/auth/verify-otp-only
// @Summary Verify a signup code
// @Description Consumes the code and opens a five minute window to complete the profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body otpRequest true "Code"
// @Success 200 {object} object{message=string,email=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/verify-otp-only [post]
func (s *Server) VerifyOTPOnly(c *fiber.Ctx) error {
	var req otpRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	email, err := s.authService.VerifyOTPOnly(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "OTP verified successfully. Please complete your profile.",
		"email":   email,
	})
}

// VerifyOTP handles POST /api/v1/auth/verify-otp
// @Summary Complete signup
// @Description Creates the account after a verified code or inside the grace window
// @Tags auth
// @Accept json
// @Produce json
// @Param request body completeSignupRequest true "Account details"
// @Success 200 {object} service.TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/verify-otp [post]
func (s *Server) VerifyOTP(c *fiber.Ctx) error {
	var req completeSignupRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	resp, err := s.authService.CompleteSignup(c.UserContext(), service.CompleteSignupInput(req))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(resp)
}

// Login handles POST /api/v1/auth/login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} service.TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	resp, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(resp)
}

// ResendOTP handles POST /api/v1/auth/resend-otp
// @Summary Resend the signup code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body emailRequest true "Email"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/resend-otp [post]
func (s *Server) ResendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.authService.ResendOTP(c.UserContext(), req.Email); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": service.MsgOTPSent})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
// @Summary Request a password reset code
// @Description The response is the same whether or not the account exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body emailRequest true "Email"
// @Success 200 {object} object{message=string}
// @Router /auth/forgot-password [post]
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": service.MsgResetRequested})
}

// ResetPassword handles POST /api/v1/auth/reset-password
// @Summary Reset a password with an emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body resetPasswordRequest true "Reset request"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/reset-password [post]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.authService.ResetPassword(c.UserContext(), service.ResetPasswordInput(req)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully. You can now login with your new password."})
}
