package mailer

import (
	"embed"
	"fmt"
	"net/url"
	"strings"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/osteele/liquid"
)

//go:embed templates/*.liquid
var templateFiles embed.FS

const (
	confirmationSubject  = "Thanks for subscribing to LGSTech!"
	confirmationFromName = "LGSTech.ai"
	contactFromName      = "LGSTech Contact"
)

// Templates renders the confirmation and contact emails.
type Templates struct {
	clientURL    string
	confirmation *liquid.Template
	contact      *liquid.Template
}

// NewTemplates parses the embedded templates. clientURL is the public site
// used for the unsubscribe link.
func NewTemplates(clientURL string) (*Templates, error) {
	engine := liquid.NewEngine()
	engine.RegisterFilter("nl2br", func(s string) string {
		return strings.ReplaceAll(s, "\n", "<br>")
	})

	confirmation, err := parseTemplate(engine, "confirmation.liquid")
	if err != nil {
		return nil, err
	}
	contact, err := parseTemplate(engine, "contact.liquid")
	if err != nil {
		return nil, err
	}

	return &Templates{
		clientURL:    strings.TrimRight(clientURL, "/"),
		confirmation: confirmation,
		contact:      contact,
	}, nil
}

func parseTemplate(engine *liquid.Engine, name string) (*liquid.Template, error) {
	src, err := templateFiles.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	tpl, serr := engine.ParseString(string(src))
	if serr != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, serr)
	}
	return tpl, nil
}

// UnsubscribeURL is the link placed in confirmation emails.
func (t *Templates) UnsubscribeURL(email string) string {
	return t.clientURL + "/unsubscribe?email=" + url.QueryEscape(email)
}

// Confirmation builds the thank-you email sent after a subscription.
func (t *Templates) Confirmation(email string) (Message, error) {
	body, err := t.confirmation.RenderString(liquid.Bindings{
		"email":           email,
		"unsubscribe_url": t.UnsubscribeURL(email),
	})
	if err != nil {
		return Message{}, fmt.Errorf("rendering confirmation: %w", err)
	}

	return Message{
		To:       email,
		FromName: confirmationFromName,
		Subject:  confirmationSubject,
		HTML:     body,
	}, nil
}

// Contact builds the email forwarding a contact-form submission to recipient.
// Replies go to the submitter.
func (t *Templates) Contact(msg domain.ContactMessage, recipient string) (Message, error) {
	body, err := t.contact.RenderString(liquid.Bindings{
		"name":    msg.Name,
		"email":   msg.Email,
		"message": msg.Message,
	})
	if err != nil {
		return Message{}, fmt.Errorf("rendering contact message: %w", err)
	}

	return Message{
		To:       recipient,
		ReplyTo:  msg.Email,
		FromName: contactFromName,
		Subject:  "New Contact Message from " + strings.Join(strings.Fields(msg.Name), " "),
		HTML:     body,
	}, nil
}
