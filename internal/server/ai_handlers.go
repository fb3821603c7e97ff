package server

import (
	"net/url"
	"strings"

	"campushire/internal/featureflags"
	"campushire/internal/models"

	"github.com/gofiber/fiber/v2"
)

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// GetCompanySuggestions handles GET /api/v1/companies/:company_name/suggestions
// @Summary Preparation suggestions for a company
// @Tags companies
// @Produce json
// @Param company_name path string true "Company name"
// @Success 200 {object} service.CompanySuggestions
// @Router /companies/{company_name}/suggestions [get]
func (s *Server) GetCompanySuggestions(c *fiber.Ctx) error {
	company, err := url.PathUnescape(c.Params("company_name"))
	if err != nil || strings.TrimSpace(company) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid company name"))
	}
	out, err := s.suggestionService.ForCompany(c.UserContext(), strings.TrimSpace(company))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(out)
}

// Chat handles POST /api/v1/chatbot/chat
// @Summary Ask the placement assistant
// @Tags chatbot
// @Accept json
// @Produce json
// @Param request body chatRequest true "Message"
// @Success 200 {object} service.ChatReply
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /chatbot/chat [post]
func (s *Server) Chat(c *fiber.Ctx) error {
	if !s.featureFlags.EnabledOrDefault(featureflags.Chatbot, 0) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Chatbot is disabled"})
	}
	var req chatRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	reply, err := s.chatbotService.Chat(c.UserContext(), req.Message, req.ConversationID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(reply)
}
