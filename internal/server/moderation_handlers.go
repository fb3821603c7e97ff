package server

import (
	"campushire/internal/repository"
	"campushire/internal/service"

	"github.com/gofiber/fiber/v2"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type experienceDecisionRequest struct {
	ExperienceID uint   `json:"experience_id"`
	Action       string `json:"action"`
	Reason       string `json:"reason"`
}

type userDecisionRequest struct {
	UserID uint   `json:"user_id"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// AdminLogin handles POST /api/v1/admin/login
// @Summary Admin login
// @Description Checks the shared admin password and returns an admin session token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body adminLoginRequest true "Credentials"
// @Success 200 {object} service.AdminLoginResult
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/login [post]
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.moderationService.AdminLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(res)
}

// GetPendingExperiences handles GET /api/v1/admin/experiences/pending
// @Summary Experiences awaiting moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Experience
// @Router /admin/experiences/pending [get]
func (s *Server) GetPendingExperiences(c *fiber.Ctx) error {
	exps, err := s.moderationService.ListPending(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exps)
}

// GetAllExperiences handles GET /api/v1/admin/experiences/all
// @Summary All experiences
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param approved_only query bool false "Only approved experiences"
// @Success 200 {array} models.Experience
// @Router /admin/experiences/all [get]
func (s *Server) GetAllExperiences(c *fiber.Ctx) error {
	exps, err := s.moderationService.ListAll(c.UserContext(), queryBool(c, "approved_only", false))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exps)
}

// ModerateExperience handles POST /api/v1/admin/experiences/approve
// @Summary Approve or reject an experience
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body experienceDecisionRequest true "Decision"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/experiences/approve [post]
func (s *Server) ModerateExperience(c *fiber.Ctx) error {
	var req experienceDecisionRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	msg, err := s.moderationService.ModerateExperience(c.UserContext(), currentAdminID(c), service.ModerationInput{
		EntityID: req.ExperienceID,
		Action:   req.Action,
		Reason:   req.Reason,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

// GetAuditLogs handles GET /api/v1/admin/audit-logs
// @Summary Moderation audit trail, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {array} models.AuditLog
// @Router /admin/audit-logs [get]
func (s *Server) GetAuditLogs(c *fiber.Ctx) error {
	logs, err := s.moderationService.AuditLogs(c.UserContext(), c.QueryInt("limit", repository.DefaultAuditLimit))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(logs)
}

// GetUsersWithEligibility handles GET /api/v1/admin/users
// @Summary Active users with eligibility scores
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.UserEligibility
// @Router /admin/users [get]
func (s *Server) GetUsersWithEligibility(c *fiber.Ctx) error {
	users, err := s.moderationService.ListUsersWithEligibility(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserWithEligibility handles GET /api/v1/admin/users/:id
// @Summary One user with eligibility score
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} service.UserEligibility
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [get]
func (s *Server) GetUserWithEligibility(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.moderationService.UserWithEligibility(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(detail)
}

// ModerateUser handles POST /api/v1/admin/users/approve
// @Summary Approve or reject a user profile
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body userDecisionRequest true "Decision"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/approve [post]
func (s *Server) ModerateUser(c *fiber.Ctx) error {
	var req userDecisionRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	msg, err := s.moderationService.ModerateUser(c.UserContext(), currentAdminID(c), service.ModerationInput{
		EntityID: req.UserID,
		Action:   req.Action,
		Reason:   req.Reason,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}
