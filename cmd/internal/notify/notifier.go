// Package notify defines the outbound notification collaborator. Actual
// SMS/email delivery is handled by an external provider; this package only
// describes the contract the scheduler calls.
package notify

import "github.com/labstack/gommon/log"

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Notifier interface {
	SendSMS(phone, message string) error
	SendEmail(email Email) error
}

// LogNotifier writes every notification to the application log instead of
// delivering it. It is the default wiring until a provider is configured.
type LogNotifier struct{}

func (LogNotifier) SendSMS(phone, message string) error {
	log.Infof("sms to %s: %s", phone, message)
	return nil
}

func (LogNotifier) SendEmail(email Email) error {
	log.Infof("email to %s: %s", email.To, email.Subject)
	return nil
}
