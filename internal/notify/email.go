package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/tamsys/backend/internal/config"
)

// EmailNotifier sends expiry alerts by SMTP to the tenant's contact address
type EmailNotifier struct {
	cfg config.SMTPConfig
}

// NewEmailNotifier creates an SMTP-backed notifier
func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Notify sends the alert email
func (n *EmailNotifier) Notify(ctx context.Context, alert ExpiryAlert) error {
	if n.cfg.Host == "" || alert.TenantEmail == "" {
		// Mail not configured or tenant has no contact address; nothing to do
		return nil
	}

	subject := fmt.Sprintf("Certificate expiring in %d days - action required", alert.DaysLeft)
	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<body>
		<h2>Certificate expiry alert</h2>
		<p>A certification requires your attention:</p>
		<ul>
			<li>Product: %s</li>
			<li>Certification: %s</li>
			<li>Country: %s</li>
			<li>Expiry date: %s</li>
			<li>Days remaining: %d</li>
		</ul>
		<p>Please renew this certification before expiry to avoid shipment delays.</p>
	</body>
	</html>
	`, alert.ProductName, alert.CertificationName, alert.CountryName,
		alert.ExpiryDate.Format("2006-01-02"), alert.DaysLeft)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		n.cfg.FromEmail, alert.TenantEmail, subject, body))

	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	return smtp.SendMail(addr, auth, n.cfg.FromEmail, []string{alert.TenantEmail}, msg)
}
