// Package notify provides the alert sinks used by the expiry sweeper.
// Delivery is fire-and-forget: a sink failure is logged by the caller and
// never fails the lifecycle transition that triggered the alert.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// ExpiryAlert is the payload emitted when a certification approaches expiry
type ExpiryAlert struct {
	RecordID          uuid.UUID `json:"record_id"`
	TenantID          uuid.UUID `json:"tenant_id"`
	TenantEmail       string    `json:"tenant_email,omitempty"`
	ProductName       string    `json:"product_name"`
	CountryName       string    `json:"country_name"`
	CertificationName string    `json:"certification_name"`
	ExpiryDate        time.Time `json:"expiry_date"`
	DaysLeft          int       `json:"days_left"`
	Severity          string    `json:"severity"`
}

// Notifier delivers expiry alerts to some sink
type Notifier interface {
	Notify(ctx context.Context, alert ExpiryAlert) error
}

// LogNotifier writes alerts to the process log. Used as the default sink
// and in development.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the alert
func (n *LogNotifier) Notify(ctx context.Context, alert ExpiryAlert) error {
	log.Printf("ALERT [%s]: certification %s for %s in %s expires in %d days (record %s)",
		alert.Severity, alert.CertificationName, alert.ProductName, alert.CountryName,
		alert.DaysLeft, alert.RecordID)
	return nil
}

// MultiNotifier fans an alert out to several sinks. Every sink is tried;
// the first error is returned after all attempts.
type MultiNotifier struct {
	sinks []Notifier
}

// NewMultiNotifier creates a fan-out notifier
func NewMultiNotifier(sinks ...Notifier) *MultiNotifier {
	return &MultiNotifier{sinks: sinks}
}

// Notify delivers the alert to all sinks
func (n *MultiNotifier) Notify(ctx context.Context, alert ExpiryAlert) error {
	var firstErr error
	for _, sink := range n.sinks {
		if err := sink.Notify(ctx, alert); err != nil {
			log.Printf("notification sink failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
