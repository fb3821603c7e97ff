package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campushire/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCause(t *testing.T) {
	assert.Equal(t, "", SanitizeCause(nil))
	assert.Equal(t, "535 auth failed", SanitizeCause(errors.New("535 auth failed ✗")))
	assert.Equal(t, "dial tcp: timeout", SanitizeCause(errors.New("dial tcp:\ttimeout")))
}

func TestSMTPSender_NotConfigured(t *testing.T) {
	s := NewSMTPSender(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587})
	err := s.Send(context.Background(), "student@college.edu", "subject", "body")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPSender_BuildMessage(t *testing.T) {
	s := NewSMTPSender(&config.Config{
		SMTPUser:      "mailer@campushire.ai",
		SMTPPassword:  "pw",
		EmailFromName: "CampusHire AI",
	})
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	msg := string(s.buildMessage("student@college.edu", "CampusHire AI - Your OTP is 123456", "Hello,\nline two"))

	assert.Contains(t, msg, "From: CampusHire AI <mailer@campushire.ai>\r\n")
	assert.Contains(t, msg, "To: student@college.edu\r\n")
	assert.Contains(t, msg, "Subject: CampusHire AI - Your OTP is 123456\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nHello,\r\nline two"))
}
