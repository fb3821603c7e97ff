package server

import (
	"campushire/internal/featureflags"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/v1/admin/feature-flags. It reports the
// configured values and the effective state of the known flags.
// @Summary Feature flag state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{raw=map[string]string,effective=map[string]bool}
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	raw := map[string]string{}
	if s.featureFlags != nil {
		raw = s.featureFlags.Raw()
	}
	return c.JSON(fiber.Map{
		"raw": raw,
		"effective": map[string]bool{
			featureflags.AIGeneration: s.featureFlags.EnabledOrDefault(featureflags.AIGeneration, 0),
			featureflags.Chatbot:      s.featureFlags.EnabledOrDefault(featureflags.Chatbot, 0),
		},
	})
}
