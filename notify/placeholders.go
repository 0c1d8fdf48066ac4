package notify

import (
	"strconv"
	"strings"
	"time"

	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/payload"
)

const (
	TimeFormat = "2006-01-02 15:04:05"

	// SubjectToken is forced as the subject of primary form templates.
	SubjectToken = "{{entry.subject}}"
)

// BuildPlaceholderMap resolves the values available to a template for one
// entry: fixed entry and form keys first, then the flattened payload.
func BuildPlaceholderMap(entry model.Entry, form *model.Form) payload.Pairs {
	fullName := strings.TrimSpace(entry.FirstName + " " + entry.LastName)
	requestTypes := RequestTypes(entry)

	pairs := payload.Pairs{
		{Key: "entry.id", Value: strconv.Itoa(entry.ID)},
		{Key: "entry.reference", Value: entry.Reference},
		{Key: "entry.first_name", Value: entry.FirstName},
		{Key: "entry.last_name", Value: entry.LastName},
		{Key: "entry.full_name", Value: fullName},
		{Key: "entry.email", Value: entry.Email},
		{Key: "entry.cellphone", Value: entry.Cellphone},
		{Key: "entry.congregation", Value: entry.Congregation},
		{Key: "entry.event_name", Value: entry.EventName},
		{Key: "entry.request_types", Value: requestTypes},
		{Key: "entry.subject", Value: subjectLine(entry.EventName, fullName, requestTypes)},
		{Key: "entry.created_at", Value: formatTime(entry.CreatedAt)},
		{Key: "entry.updated_at", Value: formatTime(entry.UpdatedAt)},
	}

	formName, formSlug := "", entry.FormSlug
	if form != nil {
		formName, formSlug = form.Name, form.Slug
	}
	pairs = append(pairs,
		payload.Pair{Key: "form.name", Value: formName},
		payload.Pair{Key: "form.slug", Value: formSlug},
	)

	return append(pairs, payload.Flatten(entry.Payload, "payload")...)
}

// RequestTypes lists the requested services in a fixed order. Forms without
// the request toggles fall back to their holidayType answer.
func RequestTypes(entry model.Entry) string {
	var labels []string
	if entry.Flags.IncludesDatesVenue {
		labels = append(labels, "Event logistics")
	}
	if entry.Flags.IncludesRegistration {
		labels = append(labels, "Registration")
	}
	if entry.Flags.IncludesGraphicsDigital {
		labels = append(labels, "Digital media")
	}
	if entry.Flags.IncludesGraphicsPrint {
		labels = append(labels, "Print media")
	}
	if entry.Flags.IncludesSignage {
		labels = append(labels, "Signage")
	}
	if len(labels) == 0 {
		labels = holidayTypes(entry.Payload)
	}
	return strings.Join(labels, ", ")
}

func holidayTypes(p payload.Value) (labels []string) {
	v, ok := p.Get("holidayType")
	if !ok {
		return nil
	}
	switch v.Kind() {
	case payload.ListKind:
		for _, item := range v.Items() {
			if s := item.String(); s != "" {
				labels = append(labels, s)
			}
		}
	default:
		if s := v.String(); s != "" {
			labels = append(labels, s)
		}
	}
	return
}

func subjectLine(eventName, fullName, requestTypes string) string {
	subject := "Work request"
	who := strings.TrimSpace(eventName)
	if who == "" {
		who = fullName
	}
	if who != "" {
		subject += ": " + who
	}
	if requestTypes != "" {
		subject += " (" + requestTypes + ")"
	}
	return subject
}

// Render substitutes every {{key}} token in pair order. Tokens without a
// pair are left as they are.
func Render(template string, pairs payload.Pairs) string {
	for _, pair := range pairs {
		template = strings.ReplaceAll(template, "{{"+pair.Key+"}}", pair.Value)
	}
	return template
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeFormat)
}
