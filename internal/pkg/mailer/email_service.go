package mailer

import (
	"fmt"
	"html"

	"doccoder-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDocumentReady(toEmail, fileName, operation string) error
	SendDocumentFailed(toEmail, fileName, operation string) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) message(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) send(toEmail string, m *gomail.Message) error {
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send mail", map[string]interface{}{"to": toEmail, "error": err.Error()})
		return err
	}
	s.logger.Info("MAILER", "Mail sent", map[string]interface{}{"to": toEmail})
	return nil
}

func (s *emailService) SendDocumentReady(toEmail, fileName, operation string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your document is ready</h2>
			<p>The <strong>%s</strong> operation on <strong>%s</strong> finished successfully.</p>
			<p>Open Doccoder to download or review the result.</p>
		</div>
	`, html.EscapeString(operation), html.EscapeString(fileName))

	return s.send(toEmail, s.message(toEmail, "Document processed: "+fileName, body))
}

func (s *emailService) SendDocumentFailed(toEmail, fileName, operation string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>We could not process your document</h2>
			<p>The <strong>%s</strong> operation on <strong>%s</strong> did not complete.</p>
			<p>Please try again or upload a different file.</p>
		</div>
	`, html.EscapeString(operation), html.EscapeString(fileName))

	return s.send(toEmail, s.message(toEmail, "Document processing failed: "+fileName, body))
}
