package ai

import (
	"fmt"
	"strings"

	"campushire/internal/models"
)

var campusKeywords = []string{
	"interview", "placement", "campus", "company", "round", "question",
	"preparation", "resume", "coding", "dsa", "technical", "hr", "managerial",
	"offer", "package", "rejection", "selected", "experience", "skill",
	"leetcode", "hackerrank", "codeforces", "project", "internship",
}

// OffTopicReply answers messages that fail the campus keyword gate.
const OffTopicReply = "I'm CampusHire AI, specialized in helping with campus interview preparation. " +
	"Please ask me questions about interviews, placements, preparation strategies, or company-specific guidance."

// IsCampusRelated reports whether message mentions any campus-placement
// keyword. Matching is substring-based and case-insensitive.
func IsCampusRelated(message string) bool {
	return containsAny(strings.ToLower(message), campusKeywords...)
}

// ChatFallback picks a canned answer by topic.
func ChatFallback(message string) string {
	m := strings.ToLower(message)
	switch {
	case containsAny(m, "dsa", "data structure", "algorithm", "coding"):
		return `For DSA preparation, I recommend:
1. Start with basics: Arrays, Strings, Linked Lists, Stacks, Queues
2. Practice on platforms like LeetCode, HackerRank, Codeforces
3. Focus on problem-solving patterns: Two Pointers, Sliding Window, Dynamic Programming
4. Solve company-specific problems from previous experiences
5. Time yourself while solving problems to improve speed`
	case containsAny(m, "resume", "cv", "curriculum"):
		return `For resume tips:
1. Keep it concise (1-2 pages)
2. Highlight relevant projects and internships
3. Include technical skills and programming languages
4. Add achievements and certifications
5. Tailor resume for each company
6. Use action verbs and quantify achievements
7. Ensure no grammatical errors`
	case containsAny(m, "hr", "human resource", "behavioral"):
		return `For HR round preparation:
1. Prepare answers for common questions: Tell me about yourself, Why this company?
2. Research the company's values and culture
3. Prepare questions to ask the interviewer
4. Practice STAR method for behavioral questions
5. Be confident and maintain eye contact
6. Show enthusiasm and genuine interest`
	case containsAny(m, "technical", "round", "interview"):
		return `For technical interviews:
1. Revise core CS fundamentals: OS, DBMS, Networks, OOP
2. Practice coding problems daily
3. Explain your thought process clearly
4. Ask clarifying questions before solving
5. Write clean, optimized code
6. Test your solution with examples
7. Discuss time and space complexity`
	default:
		return `I'm here to help with campus interview preparation! You can ask me about:
- DSA and coding preparation strategies
- Technical interview tips
- HR round guidance
- Resume building advice
- Company-specific preparation
- Common interview questions
- Mock interview practice

What would you like to know?`
	}
}

// FallbackGuide renders a static preparation guide with the observed
// selection rate.
func FallbackGuide(company, role string, exps []models.Experience) string {
	selected := 0
	for _, e := range exps {
		if e.FinalResult == models.ResultSelected {
			selected++
		}
	}
	rate := 0.0
	if len(exps) > 0 {
		rate = float64(selected) / float64(len(exps)) * 100
	}

	return fmt.Sprintf(`# Preparation Guide for %s - %s

## Overview
Based on %d interview experiences, the selection rate is %.1f%%.

## Key Preparation Areas:
1. **Technical Skills**: Focus on core CS fundamentals
2. **DSA Practice**: Solve company-specific problems
3. **System Design**: For senior roles
4. **HR Preparation**: Research company values

## Common Topics:
- Data Structures and Algorithms
- Problem-solving skills
- Technical knowledge relevant to role

## Tips:
- Practice coding problems daily
- Prepare for multiple rounds
- Research the company thoroughly
- Be confident and clear in communication
`, company, role, len(exps), rate)
}

// FallbackTips is served when guide generation is switched off.
func FallbackTips(company string) []string {
	return []string{
		fmt.Sprintf("Research %s's interview process and expectations", company),
		"Practice Data Structures and Algorithms problems",
		"Prepare for technical coding rounds",
		"Review system design concepts (for senior roles)",
		"Practice behavioral questions and STAR method",
		"Build projects relevant to the role",
		"Prepare questions to ask the interviewer",
	}
}

// DefaultTips pads guides that yielded fewer than five tips.
func DefaultTips(company string) []string {
	return []string{
		fmt.Sprintf("Focus on %s's core technologies and values", company),
		"Practice coding problems daily on platforms like LeetCode",
		"Prepare for multiple interview rounds",
		"Research the company's recent projects and initiatives",
		"Practice explaining your thought process clearly",
	}
}

// ExtractTips returns bullet lines ("-", "•", "*") of guide whose text is
// longer than ten characters, in order.
func ExtractTips(guide string) []string {
	var tips []string
	for _, line := range strings.Split(guide, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "*") {
			continue
		}
		tip := strings.TrimSpace(strings.TrimLeft(line, "-•*"))
		if len([]rune(tip)) > 10 {
			tips = append(tips, tip)
		}
	}
	return tips
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
