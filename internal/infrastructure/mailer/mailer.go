// Package mailer envía los e-mails transaccionales (redefinición de contraseña).
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	textTemplate "text/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/pkg/config"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

var (
	_ auth.ResetMailer = (*SMTPMailer)(nil)
	_ auth.ResetMailer = (*LogMailer)(nil)
)

const resetSubject = "TopMEI Hub: redefinição de senha"

var resetHTML = template.Must(template.New("reset_html").Parse(`<p>Olá, {{.Name}}.</p>
<p>Recebemos um pedido para redefinir a senha da sua conta no TopMEI Hub.</p>
<p><a href="{{.Link}}">Clique aqui para criar uma nova senha</a>.</p>
<p>Se você não fez este pedido, ignore este e-mail. O link expira em breve.</p>`))

var resetText = textTemplate.Must(textTemplate.New("reset_text").Parse(`Olá, {{.Name}}.

Recebemos um pedido para redefinir a senha da sua conta no TopMEI Hub.
Acesse o link abaixo para criar uma nova senha:

{{.Link}}

Se você não fez este pedido, ignore este e-mail. O link expira em breve.
`))

type resetData struct {
	Name string
	Link string
}

// sender lo cumple *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envío vía SMTP con gomail.
type SMTPMailer struct {
	from   string
	sender sender
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer a partir de la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	return newSMTPMailer(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), log)
}

func newSMTPMailer(from string, s sender, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{from: from, sender: s, log: log.Component("mailer")}
}

// SendPasswordReset envía el link de redefinición en texto y HTML.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	text, html, err := renderReset(name, link)
	if err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", to, name)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Debug().Str("to", to).Msg("e-mail de redefinição enviado")
	return nil
}

// LogMailer sin SMTP configurado: registra el link en el log (desarrollo).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mailer")}
}

// SendPasswordReset sólo registra destinatario y link.
func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	m.log.Warn().Str("to", to).Str("link", link).Msg("SMTP não configurado, e-mail de redefinição apenas registrado")
	return nil
}

// New elige SMTP o log según la configuración.
func New(cfg config.SMTPConfig, log *logger.Logger) auth.ResetMailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg, log)
	}
	return NewLogMailer(log)
}

func renderReset(name, link string) (string, string, error) {
	data := resetData{Name: name, Link: link}
	var text, html bytes.Buffer
	if err := resetText.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("render reset text: %w", err)
	}
	if err := resetHTML.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("render reset html: %w", err)
	}
	return text.String(), html.String(), nil
}
