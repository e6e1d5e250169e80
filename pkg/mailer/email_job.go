package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Subject/Text/HTML are set directly, or Template names a set of
// embedded templates rendered with Data by the worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Resolve fills Subject/Text/HTML from Template when one is named.
func (j EmailJob) Resolve(render func(name string, data any) (string, string, string, error)) (EmailJob, error) {
	if j.Template == "" {
		return j, nil
	}
	subject, text, html, err := render(j.Template, j.Data)
	if err != nil {
		return j, err
	}
	if j.Subject == "" {
		j.Subject = subject
	}
	j.Text, j.HTML = text, html
	return j, nil
}
