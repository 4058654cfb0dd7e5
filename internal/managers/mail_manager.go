// Package managers handles the sending of confirmation emails using the
// Mailgun service and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"

	"contact-hub/internal/config"
)

// MailMgr is an interface that outlines the contract for email management.
// Delivery is fire-and-forget from the caller's perspective: signup must not
// fail because a mail could not be sent.
type MailMgr interface {
	SendConfirmationMail(email, username, confirmationLink string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes      *hermes.Hermes
	Mailgun     *mailgun.MailgunImpl
	from        string
	environment string
}

// SendConfirmationMail sends the email-confirmation link to a freshly signed-up user.
func (mm *MailManager) SendConfirmationMail(email, username, confirmationLink string) error {
	if mm.environment != "production" {
		log.Info("Skipping confirmation mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"Welcome to Contact Hub! We're very excited to have you on board.",
				"To start managing your contacts, please confirm your email address.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to confirm your email address:",
					Button: hermes.Button{
						Text: "Confirm email",
						Link: confirmationLink,
					},
				},
			},
			Outros: []string{
				"If you did not sign up, no further action is required on your part.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(5*time.Second))
	defer cancel()

	message := mm.Mailgun.NewMessage(mm.from, "Confirm your email address", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending confirmation mail: " + err.Error())
		return err
	}
	log.Debug("Confirmation mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// Outside of production the manager logs and skips actual delivery.
func NewMailManager(cfg *config.Config) MailMgr {
	log.Info("Initializing mail manager")

	if cfg.Environment != "production" {
		log.Info("Running in development mode, email will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "Contact Hub",
				Link:        cfg.PublicBaseURL,
				Copyright:   fmt.Sprintf("© %d Contact Hub", time.Now().Year()),
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun:     mailgunInstance,
		from:        cfg.MailSender,
		environment: cfg.Environment,
	}
	log.Info("Initialized mail manager")
	return mm
}
