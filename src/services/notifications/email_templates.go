package notifications

import (
	"bytes"
	"embed"
	"html/template"
	"time"
)

var _ embed.FS

type SubmissionEmailData struct {
	FormName     string
	SubmissionID string
	SubmittedBy  string
	SubmittedAt  *time.Time
	AdminLink    string
}

//go:embed email_submission_notification.html
var submissionEmailHTML string

var submissionEmailTmpl = template.Must(
	template.New("submission").
		Funcs(template.FuncMap{
			"formatTime": func(t *time.Time) string {
				if t == nil {
					return "-"
				}
				return t.Format("02/01/2006 15:04")
			},
		}).
		Parse(submissionEmailHTML),
)

func RenderSubmissionEmailHTML(data SubmissionEmailData) (string, error) {
	var buf bytes.Buffer
	if err := submissionEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
