// Package email sends invitation mail over SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type Service struct {
	config *Config
	tmpl   *template.Template
}

func NewService(config *Config) *Service {
	return &Service{
		config: config,
		tmpl:   template.Must(template.New("invitation").Parse(invitationTemplate)),
	}
}

type invitationData struct {
	WorkspaceName string
	InvitedBy     string
	InviteURL     string
}

// SendInvitation delivers a join invitation for a workspace. The call blocks
// until the SMTP dialog completes; callers decide whether a failure is fatal
// for their flow.
func (s *Service) SendInvitation(to, workspaceName, invitedBy, inviteURL string) error {
	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, invitationData{
		WorkspaceName: workspaceName,
		InvitedBy:     invitedBy,
		InviteURL:     inviteURL,
	}); err != nil {
		return fmt.Errorf("failed to render invitation email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.config.From, s.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("You're invited to join %s", workspaceName))
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(s.config.Host, s.config.Port, s.config.User, s.config.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("📧 [Email] Failed to send invitation to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const invitationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #10b981; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .btn { display: inline-block; background: #10b981; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Workspace Invitation</h2>
    </div>
    <div class="content">
        <p>{{.InvitedBy}} invited you to join <strong>{{.WorkspaceName}}</strong>.</p>
        <p>Click below to accept the invitation and get started.</p>
        <a class="btn" href="{{.InviteURL}}">Join {{.WorkspaceName}}</a>
        <p style="margin-top: 16px; font-size: 13px; color: #6b7280;">
            If the button does not work, copy this link into your browser:<br>{{.InviteURL}}
        </p>
    </div>
    <div class="footer">
        <p>You received this email because someone invited you to a workspace. If this wasn't meant for you, ignore this message.</p>
    </div>
</div>
</body>
</html>
`
