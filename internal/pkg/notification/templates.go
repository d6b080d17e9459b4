package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// HireHeadline is the descriptive copy of the hire decision shown to applicants
const HireHeadline = "Shortlisted for in-person interview"

var hireTemplate = template.Must(template.New("hire").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">{{.Headline}}</h2>
		<p>Hello {{.Name}},</p>
		<p>Good news! {{.Company}} has reviewed your application for <strong>{{.JobTitle}}</strong> and would like to invite you to an in-person interview.</p>
		<p>The recruiter has opened a conversation with you so you can coordinate the next steps.</p>
		{{if .ConversationURL}}<div style="text-align: center; margin: 30px 0;">
			<a href="{{.ConversationURL}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Open conversation</a>
		</div>{{end}}
		<p>Best regards,<br>The JobLink Team</p>
	</div>
</body>
</html>`))

var nonHireTemplate = template.Must(template.New("non_hire").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Update on your application</h2>
		<p>Hello {{.Name}},</p>
		<p>Thank you for your interest in <strong>{{.JobTitle}}</strong> at {{.Company}}. After careful consideration the team has decided not to move forward with your application.</p>
		<p>We encourage you to keep applying to other openings on JobLink.</p>
		<p>Best regards,<br>The JobLink Team</p>
	</div>
</body>
</html>`))

type templateData struct {
	Headline        string
	Name            string
	JobTitle        string
	Company         string
	ConversationURL string
}

// Render produces the subject and HTML body for ev.
// baseURL is used to link the applicant to their conversation and may be empty.
func Render(ev Event, baseURL string) (subject, body string, err error) {
	data := templateData{
		Headline: HireHeadline,
		Name:     ev.RecipientName,
		JobTitle: ev.JobTitle,
		Company:  ev.Company,
	}
	if data.Name == "" {
		data.Name = "there"
	}
	if ev.ConversationID != nil && baseURL != "" {
		data.ConversationURL = fmt.Sprintf("%s/conversations/%d", strings.TrimRight(baseURL, "/"), *ev.ConversationID)
	}

	var tmpl *template.Template
	switch ev.Outcome {
	case OutcomeHire:
		tmpl = hireTemplate
		subject = fmt.Sprintf("%s: %s at %s", HireHeadline, ev.JobTitle, ev.Company)
	case OutcomeNonHire:
		tmpl = nonHireTemplate
		subject = fmt.Sprintf("Update on your application: %s at %s", ev.JobTitle, ev.Company)
	default:
		return "", "", fmt.Errorf("unknown notification outcome %q", ev.Outcome)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s template: %w", ev.Outcome, err)
	}
	return subject, buf.String(), nil
}
