package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"campushire/internal/models"
)

// ChatSystemPrompt frames every chatbot completion.
const ChatSystemPrompt = `You are CampusHire AI, an expert assistant specialized in campus interview preparation.
Your role is to help students prepare for campus placements by:
1. Providing interview preparation tips and strategies
2. Answering questions about common interview patterns
3. Suggesting resources for DSA, technical skills, and HR preparation
4. Offering company-specific guidance based on placement experiences
5. Helping with resume tips and mock interview preparation

Keep responses concise, practical, and focused on campus interview preparation.
Do not answer questions unrelated to campus interviews or placements.`

// maxGuideExperiences caps how many experiences feed a guide prompt.
const maxGuideExperiences = 5

// ChatPrompt builds the completion prompt for one user message.
func ChatPrompt(message string) string {
	return ChatSystemPrompt + "\n\nUser Question: " + message + "\n\nAssistant:"
}

// GuidePrompt builds the preparation-guide prompt for a company and role
// from up to five experiences.
func GuidePrompt(company, role string, exps []models.Experience) string {
	var ctx strings.Builder
	fmt.Fprintf(&ctx, "Company: %s, Role: %s\n\n", company, role)
	for i, exp := range exps {
		if i == maxGuideExperiences {
			break
		}
		ctx.WriteString("Experience:\n")
		fmt.Fprintf(&ctx, "- Result: %s\n", exp.FinalResult)
		if len(exp.QuestionsAsked) > 0 {
			if raw, err := json.Marshal(exp.QuestionsAsked); err == nil {
				fmt.Fprintf(&ctx, "- Questions: %s\n", raw)
			}
		}
		if exp.PreparationStrategy != "" {
			fmt.Fprintf(&ctx, "- Strategy: %s\n", exp.PreparationStrategy)
		}
		ctx.WriteString("\n")
	}

	return fmt.Sprintf(`Based on the following interview experiences for %s (%s),
create a comprehensive preparation guide including:
1. Must-have skills and topics
2. Common interview questions
3. Preparation strategy
4. Resources to follow
5. Tips for success

Experiences:
%s
Preparation Guide:`, company, role, ctx.String())
}
