package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Final interview outcomes.
const (
	ResultSelected = "Selected"
	ResultRejected = "Rejected"
)

// InterviewRound is one round of an interview process.
type InterviewRound struct {
	RoundName  string   `json:"round_name"`
	RoundType  string   `json:"round_type"`
	Questions  []string `json:"questions"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// QuestionCategory groups the questions asked under one category name.
type QuestionCategory struct {
	Category  string
	Questions []string
}

// QuestionsByCategory maps category names to ordered question lists. On the
// wire it is a JSON object; category order is preserved in both directions.
type QuestionsByCategory []QuestionCategory

// MarshalJSON encodes the categories as a JSON object in their stored order.
func (q QuestionsByCategory) MarshalJSON() ([]byte, error) {
	if q == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range q {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Category)
		if err != nil {
			return nil, err
		}
		questions := c.Questions
		if questions == nil {
			questions = []string{}
		}
		val, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (q *QuestionsByCategory) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*q = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("questions_asked: expected object")
	}
	out := QuestionsByCategory{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("questions_asked: expected string key")
		}
		var questions []string
		if err := dec.Decode(&questions); err != nil {
			return fmt.Errorf("questions_asked[%s]: %w", key, err)
		}
		out = append(out, QuestionCategory{Category: key, Questions: questions})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*q = out
	return nil
}

// All flattens every question across categories in order.
func (q QuestionsByCategory) All() []string {
	var out []string
	for _, c := range q {
		out = append(out, c.Questions...)
	}
	return out
}

// Experience is an interview experience submitted by a user. Owners may edit
// it only while IsApproved is false; approval state changes go through
// moderation.
type Experience struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	UserID              uint                `gorm:"not null;index" json:"user_id"`
	CompanyName         string              `gorm:"size:255;not null;index" json:"company_name"`
	Role                string              `gorm:"size:255;not null" json:"role"`
	PackageOffered      *float64            `json:"package_offered"`
	InterviewRounds     []InterviewRound    `gorm:"serializer:json" json:"interview_rounds"`
	QuestionsAsked      QuestionsByCategory `gorm:"serializer:json" json:"questions_asked"`
	PreparationStrategy string              `gorm:"type:text" json:"preparation_strategy"`
	ResourcesFollowed   []string            `gorm:"serializer:json" json:"resources_followed"`
	RejectionReasons    string              `gorm:"type:text" json:"rejection_reasons"`
	FinalResult         string              `gorm:"size:50;not null" json:"final_result"`
	IsAnonymous         bool                `gorm:"default:false" json:"is_anonymous"`
	IsApproved          bool                `gorm:"default:false;index" json:"is_approved"`
	IsPublished         bool                `gorm:"default:false;index" json:"is_published"`
	// UserName is filled at read time unless the experience is anonymous.
	UserName  string    `gorm:"-" json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidResult reports whether r is an accepted final result.
func IsValidResult(r string) bool {
	return r == ResultSelected || r == ResultRejected
}
