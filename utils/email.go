package utils

import (
	"SendBay/model"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
)

// ShareMailItem is one share link rendered into an outgoing mail.
type ShareMailItem struct {
	FileName  string
	URL       string
	ExpiresAt *time.Time
}

// SendShareMail sends share links to a recipient using the SMTP settings
// stored in the settings row.
func SendShareMail(settings *model.AppSettings, to string, items []ShareMailItem) error {
	if !settings.SMTPConfigured() {
		return errors.New("smtp not configured")
	}
	if len(items) == 0 {
		return errors.New("no share links to send")
	}

	appName := settings.AppName
	if appName == "" {
		appName = "SendBay"
	}

	subject := fmt.Sprintf("[%s] %d files shared with you", appName, len(items))
	if len(items) == 1 {
		subject = fmt.Sprintf("[%s] Shared file: %s", appName, items[0].FileName)
	}

	var htmlRows strings.Builder
	var textLines strings.Builder
	for _, item := range items {
		expiry := "No expiration"
		if item.ExpiresAt != nil {
			expiry = "Expires " + item.ExpiresAt.Format("2006-01-02 15:04 MST")
		}
		fmt.Fprintf(&htmlRows,
			`<tr><td style="padding:10px 12px;border-bottom:1px solid #e3e3e3">`+
				`<a href="%s" style="font-weight:600">%s</a><br>`+
				`<span style="font-size:12px;color:#666;font-family:monospace">%s</span><br>`+
				`<span style="font-size:11px;color:#888">%s</span></td></tr>`,
			item.URL, item.FileName, item.URL, expiry)
		fmt.Fprintf(&textLines, "- %s\n  %s\n  %s\n", item.FileName, item.URL, expiry)
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%q <%s>", appName, settings.SMTPFrom)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(fmt.Sprintf("Hello,\n\nThe following files were shared with you:\n\n%s\nSent via %s.\n", textLines.String(), appName))
	e.HTML = []byte(fmt.Sprintf(`
		<div style="font-family:system-ui,sans-serif;max-width:520px;margin:0 auto;padding:24px">
			<h2 style="margin:0 0 6px">%s</h2>
			<p style="color:#666;font-size:13px;margin:0 0 20px">The following files were shared with you.</p>
			<table style="width:100%%;border-collapse:collapse">%s</table>
			<p style="font-size:11px;color:#999;margin-top:24px">Sent via %s</p>
		</div>`, appName, htmlRows.String(), appName))

	addr := fmt.Sprintf("%s:%d", settings.SMTPHost, settings.SMTPPort)
	var auth smtp.Auth
	if settings.SMTPUser != "" {
		auth = smtp.PlainAuth("", settings.SMTPUser, settings.SMTPPass, settings.SMTPHost)
	}
	tlsConfig := &tls.Config{ServerName: settings.SMTPHost}

	if settings.SMTPSecure || settings.SMTPPort == 465 {
		if settings.SMTPPort == 465 {
			return e.SendWithTLS(addr, auth, tlsConfig)
		}
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}
