package server

import (
	"strings"

	"campushire/internal/models"
	"campushire/internal/repository"
	"campushire/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateExperience handles POST /api/v1/experiences
// @Summary Submit an interview experience
// @Description New experiences wait for moderation before they are published
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ExperienceInput true "Experience"
// @Success 200 {object} models.Experience
// @Failure 400 {object} models.ErrorResponse
// @Router /experiences [post]
func (s *Server) CreateExperience(c *fiber.Ctx) error {
	var req service.ExperienceInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	exp, err := s.experienceService.Create(c.UserContext(), currentUser(c).ID, req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exp)
}

// ListExperiences handles GET /api/v1/experiences
// @Summary Browse experiences
// @Tags experiences
// @Produce json
// @Param company_name query string false "Company name contains"
// @Param role query string false "Role contains"
// @Param published_only query bool false "Only published experiences (default true)"
// @Success 200 {array} models.Experience
// @Router /experiences [get]
func (s *Server) ListExperiences(c *fiber.Ctx) error {
	exps, err := s.experienceService.List(c.UserContext(), repository.ExperienceFilter{
		CompanyName:   strings.TrimSpace(c.Query("company_name")),
		Role:          strings.TrimSpace(c.Query("role")),
		PublishedOnly: queryBool(c, "published_only", true),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exps)
}

// GetMyExperiences handles GET /api/v1/experiences/my-experiences
// @Summary Experiences submitted by the current user
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Experience
// @Router /experiences/my-experiences [get]
func (s *Server) GetMyExperiences(c *fiber.Ctx) error {
	exps, err := s.experienceService.ListMine(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exps)
}

// GetExperience handles GET /api/v1/experiences/:id
// @Summary Get one experience
// @Tags experiences
// @Produce json
// @Param id path int true "Experience ID"
// @Success 200 {object} models.Experience
// @Failure 404 {object} models.ErrorResponse
// @Router /experiences/{id} [get]
func (s *Server) GetExperience(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	exp, err := s.experienceService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exp)
}

// UpdateExperience handles PUT /api/v1/experiences/:id
// @Summary Edit an unapproved experience
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Experience ID"
// @Param request body service.ExperienceUpdateInput true "Fields to change"
// @Success 200 {object} models.Experience
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /experiences/{id} [put]
func (s *Server) UpdateExperience(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.ExperienceUpdateInput
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	exp, err := s.experienceService.Update(c.UserContext(), currentUser(c).ID, id, req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(exp)
}

// BookmarkExperience handles POST /api/v1/experiences/:id/bookmark
// @Summary Bookmark an experience
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Param id path int true "Experience ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /experiences/{id}/bookmark [post]
func (s *Server) BookmarkExperience(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.experienceService.Bookmark(c.UserContext(), currentUser(c).ID, id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Experience bookmarked successfully"})
}

// RemoveBookmark handles DELETE /api/v1/experiences/:id/bookmark
// @Summary Remove a bookmark
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Param id path int true "Experience ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /experiences/{id}/bookmark [delete]
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.experienceService.RemoveBookmark(c.UserContext(), currentUser(c).ID, id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bookmark removed successfully"})
}

// GetBookmarks handles GET /api/v1/experiences/bookmarks/all
// @Summary Bookmarked experiences
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Experience
// @Router /experiences/bookmarks/all [get]
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	exps, err := s.experienceService.Bookmarks(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return s.respondError(c, err)
	}
	if exps == nil {
		exps = []models.Experience{}
	}
	return c.JSON(exps)
}
