// Package notify delivers download links to customers by email.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	logo "github.com/logogen/logogen-backend/internal/logo/domain"
)

type Mailer interface {
	SendDownloadLinks(ctx context.Context, to string, d logo.LogoData, links map[logo.FileType]string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Support  string
	// LinkTTL is the validity period promised in the email.
	LinkTTL time.Duration
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendDownloadLinks(ctx context.Context, to string, d logo.LogoData, links map[logo.FileType]string) error {
	msg, err := m.message(to, d, links)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send download email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(to string, d logo.LogoData, links map[logo.FileType]string) (*mail.Msg, error) {
	body, err := renderBody(d, links, m.cfg.LinkTTL, m.cfg.Support)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(Subject(d.BusinessName))
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

func Subject(businessName string) string {
	return "Your Logo Files for " + businessName
}

// LogMailer stands in when SMTP is not configured: it logs the links and reports success.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendDownloadLinks(ctx context.Context, to string, d logo.LogoData, links map[logo.FileType]string) error {
	m.logger.InfoContext(ctx, "email delivery disabled, skipping download email",
		"to", to, "business_name", d.BusinessName, "files", len(links))
	return nil
}

var bodyTemplate = template.Must(template.New("email").Parse(`<h2>Your Logo is Ready!</h2>
<p>Thank you for using LogoGen. Your professional logo files for {{.BusinessName}} are ready for download.</p>

<h3>Download Links:</h3>
<ul>
{{- range .Links}}
  <li><a href="{{.URL}}">{{.Label}}</a></li>
{{- end}}
</ul>

<p>These links will be valid for {{.ValidDays}} days. Commercial license is included with your purchase.</p>
{{- if .Support}}

<p>If you have any questions, please contact us at {{.Support}}</p>
{{- end}}

<p>Best regards,<br>The LogoGen Team</p>
`))

type emailLink struct {
	Label string
	URL   string
}

var linkOrder = []struct {
	ft    logo.FileType
	label string
}{
	{logo.FilePNG, "Download PNG (High Resolution)"},
	{logo.FileJPG, "Download JPG (High Resolution)"},
	{logo.FileSVG, "Download SVG (Vector)"},
}

func renderBody(d logo.LogoData, links map[logo.FileType]string, ttl time.Duration, support string) (string, error) {
	view := struct {
		BusinessName string
		Links        []emailLink
		ValidDays    int
		Support      string
	}{
		BusinessName: d.BusinessName,
		ValidDays:    int(ttl.Hours() / 24),
		Support:      support,
	}
	if view.ValidDays <= 0 {
		view.ValidDays = 30
	}
	for _, l := range linkOrder {
		if url, ok := links[l.ft]; ok && url != "" {
			view.Links = append(view.Links, emailLink{Label: l.label, URL: url})
		}
	}

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
