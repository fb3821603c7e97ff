package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetCompanyStats handles GET /api/v1/analytics/company-stats
// @Summary Statistics over published experiences, optionally for one company
// @Tags analytics
// @Produce json
// @Param company_name query string false "Company name contains"
// @Success 200 {object} service.CompanyStats
// @Router /analytics/company-stats [get]
func (s *Server) GetCompanyStats(c *fiber.Ctx) error {
	stats, err := s.statsService.CompanyStats(c.UserContext(), strings.TrimSpace(c.Query("company_name")))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(stats)
}

// GetRoleStats handles GET /api/v1/analytics/role-stats
// @Summary Statistics for one role
// @Tags analytics
// @Produce json
// @Param role query string true "Role contains"
// @Success 200 {object} service.RoleStats
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics/role-stats [get]
func (s *Server) GetRoleStats(c *fiber.Ctx) error {
	stats, err := s.statsService.RoleStats(c.UserContext(), c.Query("role"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(stats)
}

// GetTrends handles GET /api/v1/analytics/trends
// @Summary Resource, rejection and difficulty trends
// @Tags analytics
// @Produce json
// @Success 200 {object} service.Trends
// @Router /analytics/trends [get]
func (s *Server) GetTrends(c *fiber.Ctx) error {
	trends, err := s.statsService.Trends(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(trends)
}

// GetCollegeStats handles GET /api/v1/analytics/college-stats
// @Summary Per-college rollup of published experiences
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]service.CollegeSummary
// @Router /analytics/college-stats [get]
func (s *Server) GetCollegeStats(c *fiber.Ctx) error {
	stats, err := s.statsService.CollegeStats(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(stats)
}
