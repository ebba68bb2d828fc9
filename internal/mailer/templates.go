package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ReminderData struct {
	AppName     string
	AppURL      string
	FirstName   string
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
}

const reminderPlain = `Hello {{.FirstName}},

This is a reminder that you have an upcoming deadline:

Assignment: {{.Title}}
Description: {{description .Description}}
Due Date: {{.DueDate}}
Priority: {{title .Priority}}
Status: {{title .Status}}

Please make sure to complete this assignment on time!
{{if .AppURL}}
Open your assignments: {{.AppURL}}
{{end}}
Best regards,
The {{.AppName}} Team
`

const reminderHTML = `<html>
<body>
	<h2>Deadline Reminder</h2>
	<p>Hello {{.FirstName}},</p>
	<p>This is a reminder that you have an upcoming deadline:</p>
	<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
		<h3 style="color: #dc3545; margin-top: 0;">{{.Title}}</h3>
		<p><strong>Description:</strong> {{description .Description}}</p>
		<p><strong>Due Date:</strong> {{.DueDate}}</p>
		<p><strong>Priority:</strong> <span style="color: {{priorityColor .Priority}}">{{title .Priority}}</span></p>
		<p><strong>Status:</strong> <span style="color: {{statusColor .Status}}">{{title .Status}}</span></p>
	</div>
	<p>Please make sure to complete this assignment on time!</p>
	{{if .AppURL}}<p><a href="{{.AppURL}}">Open your assignments</a></p>{{end}}
	<p>Best regards,<br>The {{.AppName}} Team</p>
</body>
</html>
`

var titleCaser = cases.Title(language.English)

func describe(s string) string {
	if s == "" {
		return "No description provided"
	}
	return s
}

func titleCase(s string) string {
	return titleCaser.String(s)
}

func priorityColor(p string) string {
	switch p {
	case "high":
		return "#dc3545"
	case "medium":
		return "#ffc107"
	default:
		return "#28a745"
	}
}

func statusColor(s string) string {
	switch s {
	case "completed":
		return "#28a745"
	case "in-progress":
		return "#ffc107"
	default:
		return "#6c757d"
	}
}

var (
	plainTmpl = texttemplate.Must(texttemplate.New("reminder_plain").Funcs(texttemplate.FuncMap{
		"description": describe,
		"title":       titleCase,
	}).Parse(reminderPlain))

	htmlTmpl = htmltemplate.Must(htmltemplate.New("reminder_html").Funcs(htmltemplate.FuncMap{
		"description":   describe,
		"title":         titleCase,
		"priorityColor": priorityColor,
		"statusColor":   statusColor,
	}).Parse(reminderHTML))
)

func ReminderSubject(title string) string {
	return "Deadline Reminder: " + title
}

// RenderReminder builds the deadline reminder addressed to "to".
func RenderReminder(to string, data ReminderData) (*Message, error) {
	var plain, html bytes.Buffer
	if err := plainTmpl.Execute(&plain, data); err != nil {
		return nil, fmt.Errorf("failed to render plain reminder: %w", err)
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render html reminder: %w", err)
	}
	return &Message{
		To:      to,
		Subject: ReminderSubject(data.Title),
		Plain:   plain.String(),
		HTML:    html.String(),
	}, nil
}
