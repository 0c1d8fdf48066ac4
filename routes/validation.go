package routes

import (
	"bytes"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/notify"
	"github.com/pkg/errors"
)

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

var validationMessages = map[string]string{
	"required": "This field is required.",
	"max":      "This value is too long.",
	"slug":     "Use lowercase letters, digits and dashes only.",
}

func init() {
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || nonSlug.FindStringIndex(s) == nil
	})
}

// fieldErrors runs the struct tags of input and returns the failures keyed
// by JSON field name.
func fieldErrors(input any) map[string]string {
	errs := map[string]string{}
	err := validate.Struct(input)

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return errs
	}
	for _, fe := range invalid {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "This value is invalid."
		}
		errs[fe.Field()] = msg
	}
	return errs
}

// recipientInput accepts either the free-text `"Name" <email>; ...` syntax
// or a JSON list of addresses and {email, name} objects.
type recipientInput []model.Recipient

func (in *recipientInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*in = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*in = notify.ParseRecipients(raw)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return errors.Wrap(err, "recipients")
	}
	list := []model.Recipient{}
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var raw string
			if err := json.Unmarshal(item, &raw); err != nil {
				return err
			}
			list = append(list, notify.ParseRecipients(raw)...)
			continue
		}
		var r model.Recipient
		if err := json.Unmarshal(item, &r); err != nil {
			return errors.Wrap(err, "recipient")
		}
		list = append(list, r)
	}
	*in = notify.NormalizeRecipients(list)
	return nil
}

func (in recipientInput) list() model.RecipientList {
	return model.RecipientList(notify.NormalizeRecipients(in))
}
