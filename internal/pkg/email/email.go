package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ApplicationSummary carries the submission details rendered into the
// confirmation email.
type ApplicationSummary struct {
	FullName         string
	Email            string
	Mobile           string
	University       string
	Faculty          string
	Department       string
	AcademicYear     string
	CommitteeChoices []string
	SubmittedAt      time.Time
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendApplicationConfirmation(summary ApplicationSummary) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromName     string
	FromEmail    string
	UseTLS       bool
	ContactEmail string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendApplicationConfirmation sends the applicant a submission receipt
// with an application summary and the next steps of the review process.
func (s *EmailServiceImpl) SendApplicationConfirmation(summary ApplicationSummary) error {
	// If username or password is empty, log the email (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", summary.Email).
			Str("toName", summary.FullName).
			Msg("SMTP credentials not configured - confirmation email not sent.")
		return nil
	}

	subject := "Application Submitted - SPE Suez Student Chapter"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #2563eb;">Application Submitted!</h2>
				<p>Hello %s,</p>
				<p>Thank you for your interest in joining SPE Suez Student Chapter! Your application has been successfully submitted and is now under review.</p>

				<h3 style="color: #333;">Application Summary</h3>
				<table style="border-collapse: collapse;">
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Full Name:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Email:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Mobile:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">University:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Faculty:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Department:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Academic Year:</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Committee(s):</td><td>%s</td></tr>
					<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Submitted:</td><td>%s</td></tr>
				</table>

				<h3 style="color: #333;">What Happens Next?</h3>
				<ul>
					<li>Our HR team will carefully review your application</li>
					<li>You will receive an email notification about your application status</li>
					<li>The review process typically takes 1-2 weeks</li>
					<li>If selected, you'll be contacted for the next steps</li>
				</ul>

				<p>Need help or have questions? Contact our HR team: <a href="mailto:%s">%s</a></p>

				<p>Best regards,<br>SPE Suez Student Chapter<br>Society of Petroleum Engineers - Suez University</p>
			</div>
		</body>
		</html>
	`,
		summary.FullName,
		summary.FullName, summary.Email, summary.Mobile,
		summary.University, summary.Faculty, summary.Department,
		summary.AcademicYear,
		strings.Join(summary.CommitteeChoices, ", "),
		summary.SubmittedAt.Format("2006-01-02 15:04"),
		s.config.ContactEmail, s.config.ContactEmail,
	)

	return s.sendHTMLEmail(summary.Email, subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent successfully")
		return nil
	}

	err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message))
	if err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent successfully")
	return nil
}
