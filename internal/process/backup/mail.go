package backup

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// MailConfig is the SMTP relay used for backup notifications.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// Enabled reports whether notifications can be sent at all.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.Sender != ""
}

// sendNotification mails the user that a backup was created. Plain text, one
// recipient.
func sendNotification(cfg MailConfig, recipient, username, backupFile string) error {
	now := time.Now()

	var body strings.Builder

	body.WriteString(fmt.Sprintf("From: %s\r\n", cfg.Sender))
	body.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	body.WriteString(fmt.Sprintf("Subject: Backup Created - %s\r\n", now.Format("2006-01-02 15:04")))
	body.WriteString("\r\n")
	body.WriteString(fmt.Sprintf("Hello %s,\n\n", username))
	body.WriteString("A new backup has been created successfully.\n\n")
	body.WriteString("Backup Details:\n")
	body.WriteString(fmt.Sprintf("- Time: %s\n", now.Format("2006-01-02 15:04:05")))
	body.WriteString(fmt.Sprintf("- File: %s\n\n", backupFile))
	body.WriteString("You can download this backup from your settings page.\n")

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.Sender, []string{recipient}, []byte(body.String())); err != nil {
		return fmt.Errorf("send backup mail: %w", err)
	}

	return nil
}
