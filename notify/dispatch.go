package notify

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/work-requests/log"
	"github.com/mbolis/work-requests/mailer"
	"github.com/mbolis/work-requests/metrics"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/payload"
)

var layout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
{{- if .Heading}}
<h2>{{.Heading}}</h2>
{{- end}}
<div>{{.Body}}</div>
</body>
</html>
`))

// Rendered is a template resolved against one entry.
type Rendered struct {
	Subject string            `json:"subject"`
	Heading string            `json:"heading"`
	Body    string            `json:"body"`
	HTML    string            `json:"html"`
	To      []model.Recipient `json:"to"`
	Cc      []model.Recipient `json:"cc"`
	Bcc     []model.Recipient `json:"bcc"`
}

type Dispatcher struct {
	Mailer      mailer.Mailer
	Defaults    []model.Recipient
	PrimarySlug string
}

// EffectiveSubject returns the subject stored for a template of form.
// Primary form templates always use the computed subject line.
func EffectiveSubject(form model.Form, primarySlug, subject string) string {
	if form.Slug == primarySlug {
		return SubjectToken
	}
	return subject
}

// Render resolves tpl for entry without sending it. Placeholder values are
// HTML escaped inside the body; the subject and heading use them verbatim.
func (d *Dispatcher) Render(form model.Form, entry model.Entry, tpl model.EmailTemplate) (Rendered, error) {
	pairs := BuildPlaceholderMap(entry, &form)
	escaped := make(payload.Pairs, len(pairs))
	for i, pair := range pairs {
		escaped[i] = payload.Pair{Key: pair.Key, Value: html.EscapeString(pair.Value)}
	}

	r := Rendered{
		Subject: Render(EffectiveSubject(form, d.PrimarySlug, tpl.Subject), pairs),
		Body:    Render(tpl.Body, escaped),
		To:      MergeWithDefaults(tpl.ToRecipients, tpl.UseDefaultRecipients, d.Defaults),
		Cc:      NormalizeRecipients(tpl.CcRecipients),
		Bcc:     NormalizeRecipients(tpl.BccRecipients),
	}
	if tpl.Heading != nil {
		r.Heading = Render(*tpl.Heading, pairs)
	}

	var buf bytes.Buffer
	err := layout.Execute(&buf, struct {
		Heading string
		Body    template.HTML
	}{r.Heading, template.HTML(r.Body)})
	if err != nil {
		return r, err
	}
	r.HTML = buf.String()
	return r, nil
}

// Dispatch sends every active template of trigger event in position order.
// Templates that resolve to no To recipient are skipped. Send failures do
// not stop the remaining templates; they are returned together.
func (d *Dispatcher) Dispatch(ctx context.Context, form model.Form, entry model.Entry, templates []model.EmailTemplate) error {
	active := make([]model.EmailTemplate, 0, len(templates))
	for _, tpl := range templates {
		if tpl.IsActive && tpl.TriggerEvent == model.SubmissionCreated {
			active = append(active, tpl)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Position < active[j].Position })

	var result *multierror.Error
	for _, tpl := range active {
		logger := log.WithFields(log.Fields{
			"form":     form.Slug,
			"entry":    entry.ID,
			"template": tpl.ID,
		})

		r, err := d.Render(form, entry, tpl)
		if err != nil {
			logger.WithError(err).Error("notify.render")
			metrics.NotificationsAttemptedTotal.WithLabelValues(form.Slug, "failed").Inc()
			result = multierror.Append(result, fmt.Errorf("template %d: %w", tpl.ID, err))
			continue
		}
		if len(r.To) == 0 {
			logger.Debug("notify.skip_no_recipients")
			metrics.NotificationsAttemptedTotal.WithLabelValues(form.Slug, "skipped").Inc()
			continue
		}

		start := time.Now()
		err = d.Mailer.Send(ctx, mailer.Message{
			To:      r.To,
			Cc:      r.Cc,
			Bcc:     r.Bcc,
			Subject: r.Subject,
			HTML:    r.HTML,
			Text:    plainText(r),
		})
		metrics.NotificationSendDuration.WithLabelValues(form.Slug).Observe(time.Since(start).Seconds())
		if err != nil {
			logger.WithError(err).Error("notify.send")
			metrics.NotificationsAttemptedTotal.WithLabelValues(form.Slug, "failed").Inc()
			result = multierror.Append(result, fmt.Errorf("template %d: %w", tpl.ID, err))
			continue
		}
		logger.WithField("to", len(r.To)).Info("notify.sent")
		metrics.NotificationsAttemptedTotal.WithLabelValues(form.Slug, "sent").Inc()
	}
	return result.ErrorOrNil()
}

func plainText(r Rendered) string {
	body := html.UnescapeString(stripTags(r.Body))
	if r.Heading == "" {
		return body
	}
	return r.Heading + "\n\n" + body
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, c := range s {
		switch {
		case c == '<':
			inTag = true
		case c == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(c)
		}
	}
	return b.String()
}
