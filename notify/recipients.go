package notify

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mbolis/work-requests/model"
)

var (
	validate    = validator.New()
	reRecipient = regexp.MustCompile(`^\s*"?([^"<]*?)"?\s*<([^>]+)>\s*$`)
)

// ParseRecipients reads a `;` separated list of `email`, `Name <email>` or
// `"Name" <email>` items. Items without a valid email are dropped.
func ParseRecipients(raw string) []model.Recipient {
	list := []model.Recipient{}
	for _, chunk := range strings.Split(raw, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		r := model.Recipient{Email: chunk}
		if m := reRecipient.FindStringSubmatch(chunk); m != nil {
			r.Email = m[2]
			r.Name = nameOrNil(m[1])
		}
		list = append(list, r)
	}
	return NormalizeRecipients(list)
}

// NormalizeRecipients lowercases and validates emails and removes
// duplicates. A repeated email keeps the position of its first occurrence
// and the record of its last.
func NormalizeRecipients(list []model.Recipient) []model.Recipient {
	out := []model.Recipient{}
	index := map[string]int{}
	for _, r := range list {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		if !ValidEmail(email) {
			continue
		}
		var name *string
		if r.Name != nil {
			name = nameOrNil(*r.Name)
		}

		normalized := model.Recipient{Email: email, Name: name}
		if i, seen := index[email]; seen {
			out[i] = normalized
			continue
		}
		index[email] = len(out)
		out = append(out, normalized)
	}
	return out
}

// MergeWithDefaults resolves the list a template sends to. With
// useDefaults the configured defaults come first, so a template entry for
// the same email replaces the default's display name.
func MergeWithDefaults(templateRecipients []model.Recipient, useDefaults bool, defaults []model.Recipient) []model.Recipient {
	if !useDefaults {
		return NormalizeRecipients(templateRecipients)
	}
	merged := make([]model.Recipient, 0, len(defaults)+len(templateRecipients))
	merged = append(merged, defaults...)
	merged = append(merged, templateRecipients...)
	return NormalizeRecipients(merged)
}

func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return validate.Var(email, "email") == nil
}

func nameOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
