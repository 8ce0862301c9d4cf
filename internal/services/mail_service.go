// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	textTemplate "text/template"
	"time"

	"trustly/internal/models/db_models"
)

type IMailService interface {
	SendCampaignInvitation(ctx context.Context, invitation InvitationEmail) error
	SendNewTestimonialNotification(ctx context.Context, notification TestimonialNotificationEmail) error
	SendTestEmail(ctx context.Context, to, businessName string) error
}

// InvitationEmail is the personalised request sent to one campaign recipient.
type InvitationEmail struct {
	To           string
	CustomerName string
	BusinessName string
	BrandColor   string
	Link         string
}

type TestimonialNotificationEmail struct {
	To              string
	BusinessName    string
	BrandColor      string
	TestimonialName string
	Rating          int
	Text            string
}

type mailService struct {
	transport  MailTransport
	appBaseURL string
	htmlTpl    *template.Template
	textTpl    *textTemplate.Template
	now        func() time.Time
}

func NewMailService(transport MailTransport, appBaseURL string) IMailService {
	return &mailService{
		transport:  transport,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		htmlTpl:    template.Must(template.New("emailHTML").Parse(baseHTMLTemplate)),
		textTpl:    textTemplate.Must(textTemplate.New("emailText").Parse(plainTextTemplate)),
		now:        time.Now,
	}
}

// ------------------- Public API -------------------

func (s *mailService) SendCampaignInvitation(ctx context.Context, inv InvitationEmail) error {
	subject := "We'd love your feedback! 🌟"
	html, text, err := s.renderEmail(EmailData{
		Title:      subject,
		Heading:    fmt.Sprintf("Hi %s! 👋", inv.CustomerName),
		BrandName:  inv.BusinessName,
		BrandColor: inv.BrandColor,
		Paragraphs: []string{
			fmt.Sprintf("Thank you for being a valued customer of %s!", inv.BusinessName),
			"We'd really appreciate it if you could take 2 minutes to share your experience with us. Your feedback helps us improve and helps other customers make informed decisions.",
		},
		ButtonURL: inv.Link,
		ButtonTxt: "Share Your Feedback",
		Note:      "This should only take about 2 minutes. We really value your input!",
		Footer: []string{
			fmt.Sprintf("This email was sent by %s", inv.BusinessName),
			"If you have any questions, please feel free to reach out.",
		},
	})
	if err != nil {
		return err
	}
	return s.transport.Send(ctx, OutgoingMail{
		FromName: inv.BusinessName,
		To:       inv.To,
		Subject:  subject,
		HTML:     html,
		Text:     text,
	})
}

func (s *mailService) SendNewTestimonialNotification(ctx context.Context, n TestimonialNotificationEmail) error {
	subject := fmt.Sprintf("New Testimonial from %s", n.TestimonialName)
	paragraphs := []string{
		fmt.Sprintf("%s left a %d-star testimonial for %s.", n.TestimonialName, n.Rating, n.BusinessName),
	}
	if n.Text != "" {
		paragraphs = append(paragraphs, fmt.Sprintf("“%s”", n.Text))
	}
	paragraphs = append(paragraphs, "It is waiting for your review.")

	html, text, err := s.renderEmail(EmailData{
		Title:      subject,
		Heading:    subject,
		BrandName:  n.BusinessName,
		BrandColor: n.BrandColor,
		Paragraphs: paragraphs,
		ButtonURL:  s.appBaseURL + "/dashboard",
		ButtonTxt:  "Review in Dashboard",
		Footer:     []string{"You are receiving this because new testimonial notifications are turned on."},
	})
	if err != nil {
		return err
	}
	return s.transport.Send(ctx, OutgoingMail{
		FromName: "Trustly",
		To:       n.To,
		Subject:  subject,
		HTML:     html,
		Text:     text,
	})
}

func (s *mailService) SendTestEmail(ctx context.Context, to, businessName string) error {
	subject := "Trustly test email"
	html, text, err := s.renderEmail(EmailData{
		Title:     subject,
		Heading:   "Your notifications are working ✅",
		BrandName: businessName,
		Paragraphs: []string{
			fmt.Sprintf("Testimonial notifications for %s will be delivered to this address.", businessName),
		},
		Footer: []string{"You can change these preferences at any time in Email Settings."},
	})
	if err != nil {
		return err
	}
	return s.transport.Send(ctx, OutgoingMail{
		FromName: "Trustly",
		To:       to,
		Subject:  subject,
		HTML:     html,
		Text:     text,
	})
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title      string
	Heading    string
	BrandName  string
	BrandColor string
	Paragraphs []string
	ButtonURL  string
	ButtonTxt  string
	Note       string
	Footer     []string
	Year       int
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const baseHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background: white; padding: 40px 30px;">
    <div style="text-align: center; margin-bottom: 30px;">
      <div style="font-size: 24px; font-weight: bold; color: {{.BrandColor}};">{{.BrandName}}</div>
    </div>
    <div style="margin-bottom: 30px;">
      <h1 style="font-size: 28px; margin: 0 0 20px; color: #1a1a1a;">{{.Heading}}</h1>
      {{range .Paragraphs}}<p>{{.}}</p>
      {{end}}
      {{if .ButtonURL}}
      <p style="text-align: center;">
        <a href="{{.ButtonURL}}" style="display: inline-block; background: {{.BrandColor}}; color: white; padding: 14px 32px; text-decoration: none; border-radius: 8px; font-weight: 600; margin: 20px 0;">{{.ButtonTxt}}</a>
      </p>
      <p style="font-size: 13px; color: #666;">If the button doesn't work, copy and paste this link into your browser:<br><a href="{{.ButtonURL}}" style="color: {{.BrandColor}}; word-break: break-all;">{{.ButtonURL}}</a></p>
      {{end}}
      {{if .Note}}<p style="font-size: 14px; color: #666;">{{.Note}}</p>{{end}}
    </div>
    <div style="text-align: center; color: #666; font-size: 14px; margin-top: 40px; padding-top: 20px; border-top: 1px solid #e0e0e0;">
      {{range .Footer}}<p>{{.}}</p>
      {{end}}
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Heading}}

{{range .Paragraphs}}{{.}}

{{end}}{{if .ButtonURL}}{{.ButtonTxt}}:
{{.ButtonURL}}

{{end}}{{if .Note}}{{.Note}}

{{end}}{{range .Footer}}{{.}}
{{end}}
{{.BrandName}} (c) {{.Year}}
`

func (s *mailService) renderEmail(data EmailData) (html string, text string, err error) {
	if !hexColor.MatchString(data.BrandColor) {
		data.BrandColor = db_models.DefaultBrandColor
	}
	if data.BrandName == "" {
		data.BrandName = "Trustly"
	}
	data.Year = s.now().Year()

	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
