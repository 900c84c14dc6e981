package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Mailer delivers one invitation.
type Mailer interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer renders the invitation template and sends it with gomail.
type SMTPMailer struct {
	cfg     SMTPConfig
	baseURL string
	dialer  *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		baseURL: baseURL,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

const invitationSubject = "You are invited to join an organization"

var invitationTemplate = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<title>Invitation to {{.Organization}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f7f9fc;">
	<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #ffffff;">
		<tr>
			<td style="padding: 30px; color: #333333; font-size: 16px; line-height: 1.6;">
				<p>Hello!</p>
				<p><strong>{{.Inviter}}</strong> invited you to join <strong>{{.Organization}}</strong>.</p>
				<p><a href="{{.URL}}" target="_blank" style="color: #5271ff;">Accept the invitation</a></p>
				<p style="font-size: 12px; color: #666666;">If the link does not work, copy it into your browser: {{.URL}}</p>
			</td>
		</tr>
	</table>
</body>
</html>`))

// RenderInvitation returns the HTML body of an invitation email.
func RenderInvitation(inv Invitation, baseURL string) (string, error) {
	var buf bytes.Buffer
	err := invitationTemplate.Execute(&buf, struct {
		Organization string
		Inviter      string
		URL          string
	}{
		Organization: inv.OrganizationName,
		Inviter:      inv.InviterEmail,
		URL:          inv.JoinURL(baseURL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render invitation: %w", err)
	}
	return buf.String(), nil
}

func (m *SMTPMailer) message(inv Invitation) (*gomail.Message, error) {
	body, err := RenderInvitation(inv, m.baseURL)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", inv.InviteeEmail)
	if inv.InviterEmail != "" {
		msg.SetHeader("Reply-To", inv.InviterEmail)
	}
	msg.SetHeader("Subject", invitationSubject)
	msg.SetBody("text/html", body)
	return msg, nil
}

func (m *SMTPMailer) SendInvitation(ctx context.Context, inv Invitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.message(inv)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send invitation to %s: %w", inv.InviteeEmail, err)
	}
	return nil
}
