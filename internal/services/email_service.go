package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"etugal/internal/models"
)

type EmailService interface {
	SendWelcomeEmail(email, fullName string) error
	SendVerificationEmail(email string, status models.VerificationStatus, remarks string) error
	SendSuspensionEmail(email, reason string) error
	SendTerminationEmail(email, reason string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q email: %w", subject, err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, fullName string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to E-Tugal, %s!</h2>
		<p>Thank you for registering with us. We're excited to have you on board.</p>
		<p>Your account has been successfully created.</p>
		<p>Best regards,<br>The E-Tugal Team</p>
	`, fullName)
	return s.send(email, "Welcome to E-Tugal!", body)
}

func (s *emailService) SendVerificationEmail(email string, status models.VerificationStatus, remarks string) error {
	var body string
	switch status {
	case models.VerificationVerified:
		body = `<p>Your worker application account was approved by our team. ` +
			`Kindly ignore this message if you did not initiate this request.</p>`
	case models.VerificationRejected:
		body = fmt.Sprintf(`<p>Your worker application account was rejected by our team.</p><p>%s</p>`, remarks)
	default:
		body = fmt.Sprintf(`<p>Your worker application is now in status: %s.</p>`, status)
	}
	return s.send(email, "Registration", body)
}

func (s *emailService) SendSuspensionEmail(email, reason string) error {
	body := fmt.Sprintf(`
		<h3>Account suspended</h3>
		<p>Your account has been suspended. Reason: %s</p>
		<p>If you believe this is a mistake, please contact support.</p>
	`, reason)
	return s.send(email, "Account suspended", body)
}

func (s *emailService) SendTerminationEmail(email, reason string) error {
	body := fmt.Sprintf(`
		<h3>Account terminated</h3>
		<p>Your account has been terminated. Reason: %s</p>
		<p>This action is permanent.</p>
	`, reason)
	return s.send(email, "Account terminated", body)
}
