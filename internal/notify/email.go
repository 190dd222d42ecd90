package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Mailer sends the signup confirmation link over SMTP.
type Mailer struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	appURL string

	InsecureSkipVerify bool
}

func NewMailer(host string, port int, user, pass, from, appURL string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, appURL: appURL}
}

func (m *Mailer) SendVerification(ctx context.Context, to, name, token string) error {
	link := ConfirmLink(m.appURL, token)
	body := fmt.Sprintf(
		`<h2>Welcome, %s</h2><p>Confirm your e-mail to start booking:</p><p><a href="%s">%s</a></p>`,
		html.EscapeString(name), html.EscapeString(link), html.EscapeString(link),
	)
	msg := buildMessage(m.from, to, "Confirm your e-mail", body)
	if err := m.send(ctx, to, msg); err != nil {
		return fmt.Errorf("send verification to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, to string, msg []byte) error {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(m.host, strconv.Itoa(m.port)))
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Quit(); err != nil {
			slog.Debug("smtp quit", "err", err)
		}
	}()

	if ok, _ := c.Extension("STARTTLS"); ok {
		cfg := &tls.Config{
			ServerName:         m.host,
			InsecureSkipVerify: m.InsecureSkipVerify,
		}
		if err := c.StartTLS(cfg); err != nil {
			return err
		}
	}

	if m.user != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.user, m.pass, m.host)); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(envelopeAddress(m.from)); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

// LogNotifier stands in for the mailer when SMTP is not configured: the
// confirmation link goes to the log.
type LogNotifier struct {
	appURL string
}

func NewLogNotifier(appURL string) *LogNotifier {
	return &LogNotifier{appURL: appURL}
}

func (n *LogNotifier) SendVerification(ctx context.Context, to, _ string, token string) error {
	slog.InfoContext(ctx, "verification link", "to", to, "link", ConfirmLink(n.appURL, token))
	return nil
}

func ConfirmLink(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/signup/confirm?token=" + url.QueryEscape(token)
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}

// envelopeAddress strips a display name: "Shop <a@b>" -> "a@b".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}
