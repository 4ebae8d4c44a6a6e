package email

import (
	"fmt"

	"github.com/lumiloops/portal-api/internal/model"
)

// Template is one entry in the fixed status template table. Body copy
// interpolates the client's name; the button links into the portal.
type Template struct {
	Subject string
	Heading string
	Body    string
}

var statusTemplates = map[model.InquiryStatus]Template{
	model.InquiryStatusViewed: {
		Subject: "Your inquiry has been reviewed",
		Heading: "We've seen your inquiry",
		Body:    "Hi %s, our team has reviewed your inquiry and will be in touch shortly with next steps.",
	},
	model.InquiryStatusInProgress: {
		Subject: "Your project is in progress",
		Heading: "Work has started",
		Body:    "Hi %s, your project is now in progress. We'll keep you posted as things move along.",
	},
	model.InquiryStatusResponded: {
		Subject: "We've responded to your inquiry",
		Heading: "You have a new response",
		Body:    "Hi %s, we've posted a response to your inquiry. Log in to the portal to read it.",
	},
	model.InquiryStatusScheduled: {
		Subject: "Your project has been scheduled",
		Heading: "You're on the calendar",
		Body:    "Hi %s, your project has been scheduled. Check the portal for the details.",
	},
	model.InquiryStatusCompleted: {
		Subject: "Your project is complete",
		Heading: "All done!",
		Body:    "Hi %s, your project is complete. Your deliverables are ready in the portal.",
	},
}

// TemplateFor looks a status up in the template table. The second return is
// false for statuses that never produce an email, e.g. new or rejected.
func TemplateFor(status model.InquiryStatus) (Template, bool) {
	t, ok := statusTemplates[status]
	return t, ok
}

// Render produces the full message for a recipient, or ok=false when the
// status has no template.
func Render(status model.InquiryStatus, clientName, baseURL string) (Message, bool) {
	t, ok := TemplateFor(status)
	if !ok {
		return Message{}, false
	}

	body := fmt.Sprintf(t.Body, clientName)
	return Message{
		Subject:  t.Subject,
		HTMLBody: renderHTML(t.Heading, body, baseURL+"/portal/inquiries"),
		TextBody: body + "\n\n" + baseURL + "/portal/inquiries",
	}, true
}

func renderHTML(heading, body, actionURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
</head>
<body style="margin: 0; padding: 0; background-color: #F8FAFC; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;">
  <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="background-color: #F8FAFC;">
    <tr>
      <td style="padding: 40px 20px;">
        <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="560" style="margin: 0 auto; background-color: #FFFFFF; border-radius: 12px; overflow: hidden;">
          <tr>
            <td style="padding: 32px 40px; background-color: #0D1A2D; text-align: center;">
              <span style="font-size: 20px; font-weight: 700; color: #FFFFFF; letter-spacing: 1px;">LUMI LOOPS</span>
            </td>
          </tr>
          <tr>
            <td style="padding: 40px;">
              <h2 style="margin: 0 0 16px; font-size: 24px; color: #0D1A2D;">%s</h2>
              <p style="margin: 0 0 32px; font-size: 16px; line-height: 1.6; color: #64748B;">%s</p>
              <table role="presentation" cellspacing="0" cellpadding="0" border="0">
                <tr>
                  <td style="border-radius: 8px; background-color: #7C3AED;">
                    <a href="%s" style="display: inline-block; padding: 14px 32px; font-size: 16px; font-weight: 600; color: #FFFFFF; text-decoration: none;">Open the portal</a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 40px; border-top: 1px solid #E2E8F0; text-align: center;">
              <p style="margin: 0; font-size: 13px; color: #94A3B8;">Lumi Loops &middot; video that moves</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, heading, heading, body, actionURL)
}
