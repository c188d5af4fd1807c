package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"holou/internal/config"
	"holou/internal/models/db_models"
	"holou/pkg/logger"
)

type MailServiceInterface interface {
	SendWishlistConfirmation(to, firstName string) error
	SendPartnerNotification(to string, p *db_models.PartnerInterest) error
}

// MailConfig is the SMTP transport plus branding used in every mail.
type MailConfig struct {
	SMTP       config.SMTPSettings
	RequireTLS bool

	AppName    string
	AppBaseURL string
}

type smtpMailService struct {
	cfg     MailConfig
	htmlTpl *template.Template
	textTpl *texttemplate.Template
	dial    func(addr string) (net.Conn, error)
}

// NewMailService returns an SMTP sender, or a no-op sender that only logs
// when SMTP is not configured.
func NewMailService(cfg MailConfig, log *logger.Logger) MailServiceInterface {
	if !cfg.SMTP.Enabled() {
		log.Info("smtp not configured, outgoing mail disabled")
		return &noopMailService{log: log}
	}
	return newSMTPMailService(cfg)
}

func newSMTPMailService(cfg MailConfig) *smtpMailService {
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("mailHTML").Parse(baseHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("mailText").Parse(plainTextTemplate)),
		dial: func(addr string) (net.Conn, error) {
			return (&net.Dialer{Timeout: 10 * time.Second}).Dial("tcp", addr)
		},
	}
}

func (s *smtpMailService) SendWishlistConfirmation(to, firstName string) error {
	greeting := "Hi there,"
	if name := strings.TrimSpace(firstName); name != "" {
		greeting = fmt.Sprintf("Hi %s,", name)
	}
	return s.sendEmail(to, "You're on the "+s.cfg.AppName+" wishlist", EmailData{
		Greeting:  greeting,
		Intro:     "Thanks for joining the wishlist. We'll let you know as soon as new features are ready for you.",
		ButtonURL: strings.TrimRight(s.cfg.AppBaseURL, "/") + "/",
		ButtonTxt: "Visit " + s.cfg.AppName,
	})
}

func (s *smtpMailService) SendPartnerNotification(to string, p *db_models.PartnerInterest) error {
	lines := []string{
		"Email: " + p.Email,
		"Company: " + orDash(p.CompanyName),
		"Name: " + orDash(p.Name),
		"Message: " + orDash(p.Message),
	}
	return s.sendEmail(to, "New partner interest: "+orDash(p.CompanyName), EmailData{
		Greeting: "Hello team,",
		Intro:    "A new partnership request was submitted.",
		Lines:    lines,
	})
}

type EmailData struct {
	Title     string
	Greeting  string
	Intro     string
	Lines     []string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f1f5f9; color: #0f172a; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 40px 16px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 16px; overflow: hidden; box-shadow: 0 20px 60px rgba(0, 0, 0, 0.08); }
    .header { padding: 28px 32px 20px; border-bottom: 1px solid rgba(0, 0, 0, 0.06); }
    .brand { font-weight: 700; font-size: 22px; color: #7c3aed; text-transform: uppercase; letter-spacing: 0.5px; }
    .hero { padding: 32px; }
    h1 { margin: 0 0 16px; font-size: 24px; }
    p { margin: 0 0 16px; line-height: 1.7; color: #475569; }
    ul { padding-left: 18px; color: #334155; }
    .btn { display: inline-block; padding: 14px 28px; background: #7c3aed; color: #ffffff !important; text-decoration: none; border-radius: 12px; font-weight: 600; }
    .footer { padding: 20px 32px; color: #64748b; font-size: 13px; text-align: center; background: #f8fafc; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header"><div class="brand">{{.AppName}}</div></div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        <p>{{.Greeting}}</p>
        <p>{{.Intro}}</p>
        {{if .Lines}}<ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .ButtonURL}}<p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>{{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Greeting}}

{{.Intro}}
{{range .Lines}}
- {{.}}{{end}}
{{if .ButtonURL}}
Open this link:
{{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) sendEmail(to, subject string, data EmailData) error {
	data.Title = subject
	data.AppName = s.cfg.AppName
	data.Year = time.Now().Year()

	html, text, err := s.renderEmail(data)
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	smtpCfg := s.cfg.SMTP
	addr := net.JoinHostPort(smtpCfg.Host, fmt.Sprint(smtpCfg.Port))
	tlsCfg := &tls.Config{ServerName: smtpCfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if smtpCfg.UseSSL {
		// SMTPS, usually port 465
		conn, err = tls.Dial("tcp", addr, tlsCfg)
	} else {
		conn, err = s.dial(addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, smtpCfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !smtpCfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if smtpCfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(smtpCfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(s.buildMessage(to, subject, htmlBody, textBody)); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.SMTP.FromName)
	if name == "" {
		return s.cfg.SMTP.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.SMTP.From)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type noopMailService struct {
	log *logger.Logger
}

func (n *noopMailService) SendWishlistConfirmation(to, _ string) error {
	n.log.Debug("mail disabled, wishlist confirmation skipped", "to", to)
	return nil
}

func (n *noopMailService) SendPartnerNotification(to string, _ *db_models.PartnerInterest) error {
	n.log.Debug("mail disabled, partner notification skipped", "to", to)
	return nil
}
