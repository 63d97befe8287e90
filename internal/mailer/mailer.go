package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/vterekhov/procurement-backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// Mailer renders html/plain templates from the template dir and sends
// them over SMTP. Template name maps to <name>.html and <name>.txt.
type Mailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, tmplName string, data map[string]any) error {
	htmlBody, err := m.render(tmplName+".html", data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	plainBody, err := m.render(tmplName+".txt", data)
	if err != nil {
		return fmt.Errorf("render plain: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	d.SSL = m.cfg.SMTPPort == 465
	return d.DialAndSend(msg)
}

func (m *Mailer) render(name string, data map[string]any) (string, error) {
	path := filepath.Join(m.cfg.TemplateDir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
