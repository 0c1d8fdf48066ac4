package store

import (
	"context"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/payload"
	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"
)

// DefaultPhoneRegion is used for numbers written without country code.
const DefaultPhoneRegion = "ZA"

// Project fills the list columns and request flags of e from its payload.
func Project(e *model.Entry) {
	text := func(key string) string {
		if v, ok := e.Payload.Get(key); ok {
			return v.String()
		}
		return ""
	}
	flag := func(key string) bool {
		v, ok := e.Payload.Get(key)
		return ok && v.Truthy()
	}

	e.FirstName = text("firstName")
	e.LastName = text("lastName")
	e.Email = strings.ToLower(text("email"))
	e.Cellphone = NormalizePhone(text("cellphone"))
	e.Congregation = text("congregation")
	e.EventName = text("eventName")
	e.Flags = model.RequestFlags{
		IncludesDatesVenue:      flag("includesDatesVenue"),
		IncludesRegistration:    flag("includesRegistration"),
		IncludesGraphicsDigital: flag("includesGraphicsDigital"),
		IncludesGraphicsPrint:   flag("includesGraphicsPrint"),
		IncludesSignage:         flag("includesSignage"),
	}
}

// NormalizePhone formats valid numbers as E.164 and keeps anything else as
// given.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

const entryColumns = `
	e.id, e.reference, e.form_id, f.slug, e.created_at, e.updated_at,
	e.first_name, e.last_name, e.email, e.cellphone, e.congregation, e.event_name,
	e.includes_dates_venue, e.includes_registration, e.includes_graphics_digital,
	e.includes_graphics_print, e.includes_signage, e.payload`

const entryFrom = ` FROM work_request_entry e JOIN work_form f ON f.id = e.form_id`

func scanEntry(row scanner) (e model.Entry, err error) {
	var raw string
	err = row.Scan(
		&e.ID, &e.Reference, &e.FormID, &e.FormSlug, &e.CreatedAt, &e.UpdatedAt,
		&e.FirstName, &e.LastName, &e.Email, &e.Cellphone, &e.Congregation, &e.EventName,
		&e.Flags.IncludesDatesVenue, &e.Flags.IncludesRegistration, &e.Flags.IncludesGraphicsDigital,
		&e.Flags.IncludesGraphicsPrint, &e.Flags.IncludesSignage, &raw,
	)
	if err != nil {
		return
	}
	e.Payload, err = payload.Decode([]byte(raw))
	return
}

func scanEntries(ctx context.Context, q queryer, query string, args ...any) ([]model.Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertEntry stores a new submission for form with a fresh reference.
func (s *Store) InsertEntry(ctx context.Context, form model.Form, body payload.Value) (model.Entry, error) {
	ref, err := uuid.NewV4()
	if err != nil {
		return model.Entry{}, errors.Wrap(err, "entry reference")
	}
	raw, err := body.MarshalJSON()
	if err != nil {
		return model.Entry{}, errors.Wrap(err, "encode payload")
	}

	now := s.now()
	e := model.Entry{
		Reference: ref.String(),
		FormID:    form.ID,
		FormSlug:  form.Slug,
		CreatedAt: now,
		UpdatedAt: now,
		Payload:   body,
	}
	Project(&e)

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO work_request_entry (
			reference, form_id, created_at, updated_at,
			first_name, last_name, email, cellphone, congregation, event_name,
			includes_dates_venue, includes_registration, includes_graphics_digital,
			includes_graphics_print, includes_signage, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		e.Reference, e.FormID, e.CreatedAt, e.UpdatedAt,
		e.FirstName, e.LastName, e.Email, e.Cellphone, e.Congregation, e.EventName,
		e.Flags.IncludesDatesVenue, e.Flags.IncludesRegistration, e.Flags.IncludesGraphicsDigital,
		e.Flags.IncludesGraphicsPrint, e.Flags.IncludesSignage, string(raw),
	).Scan(&e.ID)
	return e, errors.Wrap(err, "insert entry")
}

// ListEntries returns the entries of a form, newest first. A non-empty q
// filters on name, email and event name.
func (s *Store) ListEntries(ctx context.Context, formID int, q string) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + entryFrom + ` WHERE e.form_id = ?`
	args := []any{formID}
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(q)) + "%"
		query += ` AND (
			lower(e.first_name || ' ' || e.last_name) LIKE ? ESCAPE '\'
			OR lower(e.email) LIKE ? ESCAPE '\'
			OR lower(e.event_name) LIKE ? ESCAPE '\')`
		args = append(args, like, like, like)
	}
	query += ` ORDER BY e.created_at DESC, e.id DESC`

	entries, err := scanEntries(ctx, s.db, query, args...)
	return entries, errors.Wrapf(err, "select entries of form %d", formID)
}

// RecentEntries returns at most limit of the newest entries of a form.
func (s *Store) RecentEntries(ctx context.Context, formID, limit int) ([]model.Entry, error) {
	entries, err := scanEntries(ctx, s.db,
		`SELECT `+entryColumns+entryFrom+` WHERE e.form_id = ? ORDER BY e.created_at DESC, e.id DESC LIMIT ?`,
		formID, limit)
	return entries, errors.Wrapf(err, "select recent entries of form %d", formID)
}

func (s *Store) GetEntry(ctx context.Context, id int) (model.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, `SELECT `+entryColumns+entryFrom+` WHERE e.id = ?`, id))
	return e, errors.Wrapf(notFound(err), "select entry %d", id)
}

// UpdateEntry replaces the payload and re-derives the projections.
func (s *Store) UpdateEntry(ctx context.Context, id int, body payload.Value) (model.Entry, error) {
	e, err := s.GetEntry(ctx, id)
	if err != nil {
		return e, err
	}
	raw, err := body.MarshalJSON()
	if err != nil {
		return e, errors.Wrap(err, "encode payload")
	}

	e.Payload = body
	e.UpdatedAt = s.now()
	Project(&e)

	res, err := s.db.ExecContext(ctx, `
		UPDATE work_request_entry SET
			updated_at = ?,
			first_name = ?, last_name = ?, email = ?, cellphone = ?, congregation = ?, event_name = ?,
			includes_dates_venue = ?, includes_registration = ?, includes_graphics_digital = ?,
			includes_graphics_print = ?, includes_signage = ?, payload = ?
		WHERE id = ?`,
		e.UpdatedAt,
		e.FirstName, e.LastName, e.Email, e.Cellphone, e.Congregation, e.EventName,
		e.Flags.IncludesDatesVenue, e.Flags.IncludesRegistration, e.Flags.IncludesGraphicsDigital,
		e.Flags.IncludesGraphicsPrint, e.Flags.IncludesSignage, string(raw),
		id,
	)
	if err != nil {
		return e, errors.Wrapf(err, "update entry %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return e, ErrNotFound
	}
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM work_request_entry WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete entry %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
