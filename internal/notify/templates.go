package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// Template names.
const (
	TemplateWelcome         = "welcome"
	TemplatePasswordReset   = "password_reset"
	TemplatePasswordChanged = "password_changed"
)

type emailTemplate struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func mustTemplate(name, subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New(name).Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name).Parse(html)),
	}
}

var templates = map[string]emailTemplate{
	TemplateWelcome: mustTemplate(TemplateWelcome,
		"Welcome to your portfolio",
		`Hi {{.Name}},

Your portfolio account has been created. You can now sign in and manage your skills, projects and messages.
`,
		`<p>Hi {{.Name}},</p>
<p>Your portfolio account has been created. You can now sign in and manage your skills, projects and messages.</p>
`),
	TemplatePasswordReset: mustTemplate(TemplatePasswordReset,
		"Password reset request",
		`Hi {{.Name}},

Use the link below to choose a new password. It expires in {{.ExpiresIn}}.

{{.ResetURL}}

If you did not request a reset you can ignore this email.
`,
		`<p>Hi {{.Name}},</p>
<p>Use the link below to choose a new password. It expires in {{.ExpiresIn}}.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>If you did not request a reset you can ignore this email.</p>
`),
	TemplatePasswordChanged: mustTemplate(TemplatePasswordChanged,
		"Your password was changed",
		`Hi {{.Name}},

The password of your portfolio account was just changed. If this was not you, request a password reset immediately.
`,
		`<p>Hi {{.Name}},</p>
<p>The password of your portfolio account was just changed. If this was not you, request a password reset immediately.</p>
`),
}

type templateData struct {
	Name      string
	ResetURL  string
	ExpiresIn string
}

// Composer renders templated messages from a fixed sender address.
type Composer struct {
	from        string
	frontendURL string
}

// NewComposer returns a Composer. frontendURL is the base of reset links.
func NewComposer(from, frontendURL string) *Composer {
	return &Composer{from: from, frontendURL: frontendURL}
}

// Welcome is sent after registration.
func (c *Composer) Welcome(to, name string) (Message, error) {
	return c.render(TemplateWelcome, to, templateData{Name: name})
}

// PasswordReset carries the raw reset token inside a frontend link.
func (c *Composer) PasswordReset(to, name, rawToken string, ttl time.Duration) (Message, error) {
	return c.render(TemplatePasswordReset, to, templateData{
		Name:      name,
		ResetURL:  c.ResetURL(rawToken),
		ExpiresIn: ttl.String(),
	})
}

// PasswordChanged confirms a completed password change or reset.
func (c *Composer) PasswordChanged(to, name string) (Message, error) {
	return c.render(TemplatePasswordChanged, to, templateData{Name: name})
}

// ResetURL is the frontend page that accepts rawToken.
func (c *Composer) ResetURL(rawToken string) string {
	return c.frontendURL + "/reset-password/" + rawToken
}

func (c *Composer) render(name, to string, data templateData) (Message, error) {
	tmpl, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template %q", name)
	}

	var text, html bytes.Buffer
	if err := tmpl.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := tmpl.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}

	return Message{
		From:     c.from,
		To:       to,
		Subject:  tmpl.subject,
		Text:     text.String(),
		HTML:     html.String(),
		Template: name,
	}, nil
}
