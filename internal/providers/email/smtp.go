// Package email delivers notification mails over SMTP using embedded
// HTML templates.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	appconfig "github.com/nadeos/bmd-exporter/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Provider sends templated notification mails.
type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
	SendTemplate(ctx context.Context, to []string, templateName string, data map[string]any) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg       Config
	templates *template.Template
}

func NewSMTP(appCfg appconfig.Config) (*SMTPProvider, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &SMTPProvider{
		cfg: Config{
			Host:     appCfg.SMTPHost,
			Port:     appCfg.SMTPPort,
			Username: appCfg.SMTPUsername,
			Password: appCfg.SMTPPassword,
			From:     appCfg.SMTPFrom,
		},
		templates: templates,
	}, nil
}

func (p *SMTPProvider) Send(_ context.Context, to []string, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", to[0], subject, mime, htmlBody))

	return smtp.SendMail(addr, auth, p.cfg.From, to, msg)
}

func (p *SMTPProvider) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]any) error {
	var body bytes.Buffer
	if err := p.templates.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return fmt.Errorf("execute mail template %q: %w", templateName, err)
	}

	subject := "Benachrichtigung"
	if s, ok := data["subject"].(string); ok {
		subject = s
	}

	return p.Send(ctx, to, subject, body.String())
}
