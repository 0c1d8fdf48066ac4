package model

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/payload"
)

type Form struct {
	ID          int       `json:"id,omitempty"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RequestFlags are the request-type toggles projected from an entry payload.
type RequestFlags struct {
	IncludesDatesVenue      bool `json:"includesDatesVenue"`
	IncludesRegistration    bool `json:"includesRegistration"`
	IncludesGraphicsDigital bool `json:"includesGraphicsDigital"`
	IncludesGraphicsPrint   bool `json:"includesGraphicsPrint"`
	IncludesSignage         bool `json:"includesSignage"`
}

func (f RequestFlags) Any() bool {
	return f.IncludesDatesVenue || f.IncludesRegistration || f.IncludesGraphicsDigital ||
		f.IncludesGraphicsPrint || f.IncludesSignage
}

type Entry struct {
	ID           int           `json:"id"`
	Reference    string        `json:"reference"`
	FormID       int           `json:"formId"`
	FormSlug     string        `json:"formSlug"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Cellphone    string        `json:"cellphone"`
	Congregation string        `json:"congregation"`
	EventName    string        `json:"eventName"`
	Flags        RequestFlags  `json:"booleanFlags"`
	Payload      payload.Value `json:"payload"`
}

type TriggerEvent string

const SubmissionCreated TriggerEvent = "submission_created"

func (e TriggerEvent) Valid() bool {
	return e == SubmissionCreated
}

type EmailTemplate struct {
	ID                   int           `json:"id"`
	FormID               int           `json:"formId"`
	TriggerEvent         TriggerEvent  `json:"triggerEvent"`
	Name                 string        `json:"name"`
	Subject              string        `json:"subject"`
	Heading              *string       `json:"heading"`
	Body                 string        `json:"body"`
	ToRecipients         RecipientList `json:"toRecipients"`
	CcRecipients         RecipientList `json:"ccRecipients"`
	BccRecipients        RecipientList `json:"bccRecipients"`
	UseDefaultRecipients bool          `json:"useDefaultRecipients"`
	IsActive             bool          `json:"isActive"`
	Position             int           `json:"position"`
}

type Recipient struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (r Recipient) DisplayName() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// RecipientList is stored as a JSON array column.
type RecipientList []Recipient

func (l RecipientList) Value() (driver.Value, error) {
	if l == nil {
		l = RecipientList{}
	}
	b, err := json.Marshal([]Recipient(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *RecipientList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = RecipientList{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return errors.New("recipient list: unsupported column type")
	}
	list := RecipientList{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
	}
	*l = list
	return nil
}

type PlaceholderEntry struct {
	Key    string `json:"key"`
	Sample string `json:"sample"`
}

type User struct {
	Username     string
	PasswordHash []byte
}
