package server

import (
	"campushire/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	FullName    *string `json:"full_name"`
	LinkedinID  *string `json:"linkedin_id"`
	GithubID    *string `json:"github_id"`
	CollegeName *string `json:"college_name"`
	Branch      *string `json:"branch"`
}

// GetMyProfile handles GET /api/v1/users/me
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// UpdateMyProfile handles PUT /api/v1/users/me
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      currentUser(c).ID,
		FullName:    req.FullName,
		LinkedinID:  req.LinkedinID,
		GithubID:    req.GithubID,
		CollegeName: req.CollegeName,
		Branch:      req.Branch,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// GetProfileCompletion handles GET /api/v1/users/profile-completion
// @Summary Profile completion status
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileCompletion
// @Router /users/profile-completion [get]
func (s *Server) GetProfileCompletion(c *fiber.Ctx) error {
	return c.JSON(service.Completion(currentUser(c)))
}
