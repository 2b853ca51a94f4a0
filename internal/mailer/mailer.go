// Package mailer sends transactional mail (OTP codes, lead assignment
// notices) over SMTP. When SMTP is not configured the service falls back to
// a logging no-op so local development works without a relay.
package mailer

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"go-crm-api/internal/model"
)

type Mailer interface {
	SendOTP(to, code string, ttl time.Duration) error
	SendLeadAssigned(to string, lead *model.Lead) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewFromEnv builds a mailer from SMTP_HOST/SMTP_PORT/SMTP_USER/
// SMTP_PASSWORD/SMTP_FROM. An empty SMTP_HOST yields the no-op mailer.
func NewFromEnv(log *logrus.Logger) Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		return &noopMailer{log: log}
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@localhost"
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

func (m *smtpMailer) SendOTP(to, code string, ttl time.Duration) error {
	body := fmt.Sprintf(
		"Your password reset code is %s.\n\nIt expires in %d seconds. If you did not request a reset, ignore this mail.",
		code, int(ttl.Seconds()),
	)
	return m.send(to, "Password reset code", body)
}

func (m *smtpMailer) SendLeadAssigned(to string, lead *model.Lead) error {
	body := fmt.Sprintf(
		"A lead has been assigned to you.\n\nName: %s\nCompany: %s\nEmail: %s\nPhone: %s\nStatus: %s",
		lead.FullName, lead.Company, lead.Email, lead.Phone, lead.Status,
	)
	return m.send(to, "New lead assigned: "+lead.FullName, body)
}

type noopMailer struct {
	log *logrus.Logger
}

func (m *noopMailer) SendOTP(to, code string, ttl time.Duration) error {
	m.log.WithFields(logrus.Fields{"to": to, "ttl": ttl.String()}).Info("OTP mail suppressed (no SMTP configured)")
	return nil
}

func (m *noopMailer) SendLeadAssigned(to string, lead *model.Lead) error {
	m.log.WithFields(logrus.Fields{"to": to, "lead_id": lead.ID}).Info("lead-assigned mail suppressed (no SMTP configured)")
	return nil
}
