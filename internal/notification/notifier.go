package notification

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/oggyb/swipe-match/internal/config"
	"github.com/oggyb/swipe-match/internal/db"
)

// Notifier delivers notifications to people.
type Notifier interface {
	// NotifyMatch tells both users they matched.
	NotifyMatch(ctx context.Context, a, b *db.User) error
	// NotifyLikeThreshold alerts the admin that user has likeCount >= threshold likes.
	NotifyLikeThreshold(ctx context.Context, user *db.User, likeCount, threshold int64) error
}

// NewNotifier picks the notifier configured by MAIL_DRIVER.
func NewNotifier(cfg *config.Config, log *slog.Logger) (Notifier, error) {
	switch strings.ToLower(cfg.Mail.Driver) {
	case "", "log":
		return NewLogNotifier(log, cfg.Mail.AdminEmail), nil
	case "smtp":
		return NewSMTPNotifier(cfg.Mail), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Mail.Driver)
	}
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	log        *slog.Logger
	adminEmail string
}

func NewLogNotifier(log *slog.Logger, adminEmail string) *LogNotifier {
	return &LogNotifier{log: log, adminEmail: adminEmail}
}

func (n *LogNotifier) NotifyMatch(_ context.Context, a, b *db.User) error {
	n.log.Info("match notification",
		slog.Uint64("user_id", a.ID),
		slog.Uint64("other_user_id", b.ID),
	)
	return nil
}

func (n *LogNotifier) NotifyLikeThreshold(_ context.Context, user *db.User, likeCount, threshold int64) error {
	n.log.Info("like threshold notification",
		slog.String("to", n.adminEmail),
		slog.String("subject", thresholdSubject(user, likeCount)),
		slog.Uint64("user_id", user.ID),
		slog.Int64("like_count", likeCount),
		slog.Int64("threshold", threshold),
	)
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text mails through an SMTP relay.
type SMTPNotifier struct {
	addr       string
	auth       smtp.Auth
	from       string
	adminEmail string
	send       sendMailFunc
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		addr:       net.JoinHostPort(cfg.Host, cfg.Port),
		auth:       auth,
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
		send:       smtp.SendMail,
	}
}

func (n *SMTPNotifier) NotifyMatch(_ context.Context, a, b *db.User) error {
	for _, pair := range [][2]*db.User{{a, b}, {b, a}} {
		to, other := pair[0], pair[1]
		body := fmt.Sprintf("Hi %s,\n\nYou and %s liked each other. Say hello!\n", to.Name, other.Name)
		if err := n.mail(to.Email, "It's a match!", body); err != nil {
			return fmt.Errorf("match mail to user %d: %w", to.ID, err)
		}
	}
	return nil
}

func (n *SMTPNotifier) NotifyLikeThreshold(_ context.Context, user *db.User, likeCount, threshold int64) error {
	body := fmt.Sprintf(
		"User %s (id %d, %s) has received %d likes, at or above the threshold of %d.\n",
		user.Name, user.ID, user.Email, likeCount, threshold,
	)
	return n.mail(n.adminEmail, thresholdSubject(user, likeCount), body)
}

func (n *SMTPNotifier) mail(to, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(n.from))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return n.send(n.addr, n.auth, n.from, []string{to}, []byte(b.String()))
}

func thresholdSubject(user *db.User, likeCount int64) string {
	return fmt.Sprintf("Alert: User %s has reached %d likes", user.Name, likeCount)
}

// headerValue folds line breaks into spaces so a value can never start a new header.
func headerValue(v string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v)
}
