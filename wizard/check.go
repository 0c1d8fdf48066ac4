package wizard

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04"
	monthLayout = "2006-01"
)

var (
	validate = validator.New()

	// International format with country code, e.g. +27 82 123 4567.
	rePhone = regexp.MustCompile(`^\+\d{1,3}\s?\d{2,3}\s?\d{3}\s?\d{4}$`)

	// Plain decimal amount with at most two decimals, e.g. 150 or 99.50.
	rePrice = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// Errors maps a field key to the message shown next to it.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

// Merge copies other into e, overwriting shared keys.
func (e Errors) Merge(other Errors) {
	for k, v := range other {
		e[k] = v
	}
}

type checker struct {
	errs  Errors
	today time.Time
}

func newChecker(today time.Time) *checker {
	y, m, d := today.Date()
	return &checker{
		errs:  Errors{},
		today: time.Date(y, m, d, 0, 0, 0, 0, today.Location()),
	}
}

func (c *checker) fail(key, msg string) {
	if _, exists := c.errs[key]; !exists {
		c.errs[key] = msg
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (c *checker) required(key, value, label string) bool {
	if blank(value) {
		c.fail(key, label+" is required.")
		return false
	}
	return true
}

func (c *checker) oneOf(key, value, label string, options ...string) bool {
	if !c.required(key, value, label) {
		return false
	}
	for _, o := range options {
		if value == o {
			return true
		}
	}
	c.fail(key, "Please select a valid "+strings.ToLower(label)+".")
	return false
}

func (c *checker) email(key, value, label string) {
	if !c.required(key, value, label) {
		return
	}
	if validate.Var(strings.TrimSpace(value), "email") != nil {
		c.fail(key, "Please enter a valid email address.")
	}
}

func (c *checker) phone(key, value, label string) {
	if !c.required(key, value, label) {
		return
	}
	if !rePhone.MatchString(strings.TrimSpace(value)) {
		c.fail(key, "Please enter the number with its country code, e.g. +27 82 123 4567.")
	}
}

func (c *checker) date(key, value, label string) (time.Time, bool) {
	if !c.required(key, value, label) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), c.today.Location())
	if err != nil {
		c.fail(key, "Please enter a valid date for "+strings.ToLower(label)+".")
		return time.Time{}, false
	}
	return t, true
}

func (c *checker) futureDate(key, value, label string) (time.Time, bool) {
	t, ok := c.date(key, value, label)
	if ok && t.Before(c.today) {
		c.fail(key, label+" cannot be in the past.")
		return t, false
	}
	return t, ok
}

// dateOnOrAfter checks an end date against an already validated start.
func (c *checker) dateOnOrAfter(key, value, label string, start time.Time, startLabel string) {
	t, ok := c.date(key, value, label)
	if ok && !start.IsZero() && t.Before(start) {
		c.fail(key, label+" must be on or after the "+strings.ToLower(startLabel)+".")
	}
}

func (c *checker) month(key, value, label string) (time.Time, bool) {
	if !c.required(key, value, label) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(monthLayout, strings.TrimSpace(value), c.today.Location())
	if err != nil {
		c.fail(key, "Please enter a valid month for "+strings.ToLower(label)+".")
		return time.Time{}, false
	}
	return t, true
}

func (c *checker) clock(key, value, label string) (time.Time, bool) {
	if !c.required(key, value, label) {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, strings.TrimSpace(value))
	if err != nil {
		c.fail(key, "Please enter a valid time for "+strings.ToLower(label)+".")
		return time.Time{}, false
	}
	return t, true
}

func parseQuantity(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	return n, err == nil && n > 0
}

func (c *checker) quantity(key, value, label string) {
	if blank(value) {
		c.fail(key, "Quantity is required for "+label+".")
		return
	}
	if _, ok := parseQuantity(value); !ok {
		c.fail(key, "Quantity for "+label+" must be a whole number greater than 0.")
	}
}

func (c *checker) price(key, value, label string) {
	if blank(value) {
		c.fail(key, "Price is required for "+label+".")
		return
	}
	value = strings.TrimSpace(value)
	if !rePrice.MatchString(value) {
		c.fail(key, "Price for "+label+" must be an amount greater than 0.")
		return
	}
	if p, _ := strconv.ParseFloat(value, 64); p <= 0 {
		c.fail(key, "Price for "+label+" must be an amount greater than 0.")
	}
}

func (c *checker) ifChecked(checked bool, key, value, label string) {
	if checked {
		c.required(key, value, label)
	}
}

func anyOf(flags ...bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}
