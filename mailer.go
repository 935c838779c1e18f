package accounts

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers lifecycle emails over plain SMTP. The origin passed to
// each send is the requesting site's base URL, so links land on whatever
// front end initiated the flow.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   Logger
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(host string, port int, username, password, from string, logger Logger) *SMTPMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, user *User, origin string) error {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", strings.TrimRight(origin, "/"), user.VerificationToken)
	body := fmt.Sprintf(`<h1>Hola %s,</h1>
<p>Tu cuenta ha sido creada. Haz click en el siguiente enlace para verificar tu correo y elegir una contraseña:</p>
<p><a href="%s">Verificar cuenta</a></p>`, user.FirstName, link)

	return m.send(ctx, user.Email, "Verifica tu cuenta", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, user *User, origin string) error {
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", strings.TrimRight(origin, "/"), user.ResetToken)
	body := fmt.Sprintf(`<h1>Hola %s,</h1>
<p>Recibimos una solicitud para restablecer tu contraseña. El enlace expira en 24 horas:</p>
<p><a href="%s">Restablecer contraseña</a></p>
<p>Si no solicitaste este cambio puedes ignorar este correo.</p>`, user.FirstName, link)

	return m.send(ctx, user.Email, "Restablece tu contraseña", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return err
	}

	m.logger.Debug("mail delivered", "to", to, "subject", subject)
	return nil
}

// LogMailer writes the links to the log instead of sending mail. Useful in
// development and tests.
type LogMailer struct {
	logger Logger
}

var _ Mailer = (*LogMailer)(nil)

func NewLogMailer(logger Logger) *LogMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, user *User, origin string) error {
	m.logger.Info("verification email",
		"to", user.Email,
		"link", fmt.Sprintf("%s/auth/verify-email?token=%s", strings.TrimRight(origin, "/"), user.VerificationToken),
	)
	return nil
}

func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, user *User, origin string) error {
	m.logger.Info("password reset email",
		"to", user.Email,
		"link", fmt.Sprintf("%s/auth/reset-password?token=%s", strings.TrimRight(origin, "/"), user.ResetToken),
	)
	return nil
}
