package mailer

import (
	"bytes"
	"strings"
	"text/template"
)

// DefaultBusinessName is used when an account has no business name.
const DefaultBusinessName = "Our Business"

// ReviewRequest is the data rendered into a review request email.
type ReviewRequest struct {
	BusinessName string
	ContactName  string
	ReviewURL    string
}

const subjectTmpl = `We'd love your feedback - {{.BusinessName}}`

const genericBodyTmpl = `Hi {{.ContactName}},

Thank you for choosing {{.BusinessName}}! We hope you had a great experience.

We'd really appreciate if you could take a moment to leave us a review:
{{.ReviewURL}}

Your feedback helps us improve and helps other customers make informed decisions.

Thank you!
{{.BusinessName}} Team
`

const directoryBodyTmpl = `Hi {{.ContactName}},

Thank you for choosing {{.BusinessName}}! We hope you had a great experience.

Would you mind sharing it on Google? It only takes a minute:
{{.ReviewURL}}

Reviews on Google help other customers find us and help us keep improving.

Thank you!
{{.BusinessName}} Team
`

var (
	subjectT   = template.Must(template.New("subject").Parse(subjectTmpl))
	genericT   = template.Must(template.New("generic").Parse(genericBodyTmpl))
	directoryT = template.Must(template.New("directory").Parse(directoryBodyTmpl))
)

// RenderReviewRequest returns the subject and body for r. The directory
// variant is used when the link points at the business directory listing.
func RenderReviewRequest(r ReviewRequest, directory bool) (subject, body string, err error) {
	if strings.TrimSpace(r.BusinessName) == "" {
		r.BusinessName = DefaultBusinessName
	}
	var sb, bb bytes.Buffer
	if err := subjectT.Execute(&sb, r); err != nil {
		return "", "", err
	}
	t := genericT
	if directory {
		t = directoryT
	}
	if err := t.Execute(&bb, r); err != nil {
		return "", "", err
	}
	return sb.String(), bb.String(), nil
}
