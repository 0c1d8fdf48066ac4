package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/mbolis/work-requests/model"
	"github.com/pkg/errors"
)

const templateColumns = `
	id, form_id, trigger_event, name, subject, heading, body,
	to_recipients, cc_recipients, bcc_recipients,
	use_default_recipients, is_active, position`

func scanTemplate(row scanner) (t model.EmailTemplate, err error) {
	var heading sql.NullString
	err = row.Scan(
		&t.ID, &t.FormID, &t.TriggerEvent, &t.Name, &t.Subject, &heading, &t.Body,
		&t.ToRecipients, &t.CcRecipients, &t.BccRecipients,
		&t.UseDefaultRecipients, &t.IsActive, &t.Position,
	)
	if heading.Valid {
		t.Heading = &heading.String
	}
	return
}

func (s *Store) ListTemplates(ctx context.Context, formID int) ([]model.EmailTemplate, error) {
	return s.queryTemplates(ctx, `SELECT `+templateColumns+` FROM email_template WHERE form_id = ? ORDER BY position, id`, formID)
}

// ActiveTemplates returns the templates a trigger event sends, in order.
func (s *Store) ActiveTemplates(ctx context.Context, formID int, event model.TriggerEvent) ([]model.EmailTemplate, error) {
	return s.queryTemplates(ctx, `
		SELECT `+templateColumns+` FROM email_template
		WHERE form_id = ? AND trigger_event = ? AND is_active
		ORDER BY position, id`, formID, event)
}

func (s *Store) queryTemplates(ctx context.Context, query string, args ...any) ([]model.EmailTemplate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select templates")
	}
	defer rows.Close()

	list := []model.EmailTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan template")
		}
		list = append(list, t)
	}
	return list, errors.Wrap(rows.Err(), "select templates")
}

func (s *Store) GetTemplate(ctx context.Context, id int) (model.EmailTemplate, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM email_template WHERE id = ?`, id))
	return t, errors.Wrapf(notFound(err), "select template %d", id)
}

// CreateTemplate appends t after the last template of its form.
func (s *Store) CreateTemplate(ctx context.Context, t model.EmailTemplate) (model.EmailTemplate, error) {
	if t.TriggerEvent == "" {
		t.TriggerEvent = model.SubmissionCreated
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return t, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM email_template WHERE form_id = ?`, t.FormID,
	).Scan(&t.Position)
	if err != nil {
		return t, errors.Wrap(err, "next template position")
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO email_template (
			form_id, trigger_event, name, subject, heading, body,
			to_recipients, cc_recipients, bcc_recipients,
			use_default_recipients, is_active, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		t.FormID, t.TriggerEvent, t.Name, t.Subject, t.Heading, t.Body,
		t.ToRecipients, t.CcRecipients, t.BccRecipients,
		t.UseDefaultRecipients, t.IsActive, t.Position,
	).Scan(&t.ID)
	if err != nil {
		return t, errors.Wrap(err, "insert template")
	}

	return t, errors.Wrap(tx.Commit(), "commit template")
}

// UpdateTemplate rewrites the content of t. Form and position are kept.
func (s *Store) UpdateTemplate(ctx context.Context, t model.EmailTemplate) (model.EmailTemplate, error) {
	if t.TriggerEvent == "" {
		t.TriggerEvent = model.SubmissionCreated
	}
	err := s.db.QueryRowContext(ctx, `
		UPDATE email_template SET
			trigger_event = ?, name = ?, subject = ?, heading = ?, body = ?,
			to_recipients = ?, cc_recipients = ?, bcc_recipients = ?,
			use_default_recipients = ?, is_active = ?
		WHERE id = ?
		RETURNING form_id, position`,
		t.TriggerEvent, t.Name, t.Subject, t.Heading, t.Body,
		t.ToRecipients, t.CcRecipients, t.BccRecipients,
		t.UseDefaultRecipients, t.IsActive,
		t.ID,
	).Scan(&t.FormID, &t.Position)
	return t, errors.Wrapf(notFound(err), "update template %d", t.ID)
}

// DeleteTemplate removes a template and closes the gap it leaves.
func (s *Store) DeleteTemplate(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	var formID, position int
	err = tx.QueryRowContext(ctx,
		`DELETE FROM email_template WHERE id = ? RETURNING form_id, position`, id,
	).Scan(&formID, &position)
	if err != nil {
		return errors.Wrapf(notFound(err), "delete template %d", id)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE email_template SET position = position - 1 WHERE form_id = ? AND position > ?`,
		formID, position)
	if err != nil {
		return errors.Wrap(err, "compact template positions")
	}

	return errors.Wrap(tx.Commit(), "commit template delete")
}

// ReorderTemplates sets position = index for each id. The ids must be
// exactly the current templates of the form, otherwise ErrStaleOrder is
// returned and nothing changes.
func (s *Store) ReorderTemplates(ctx context.Context, formID int, ids []int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM email_template WHERE form_id = ?`, formID)
	if err != nil {
		return errors.Wrap(err, "select template ids")
	}
	var existing []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return errors.Wrap(err, "scan template id")
		}
		existing = append(existing, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "select template ids")
	}

	if !sameIDSet(existing, ids) {
		return ErrStaleOrder
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE email_template SET position = ? WHERE id = ? AND form_id = ?`)
	if err != nil {
		return errors.Wrap(err, "prepare reorder")
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, id, formID); err != nil {
			return errors.Wrapf(err, "reorder template %d", id)
		}
	}

	return errors.Wrap(tx.Commit(), "commit reorder")
}

func sameIDSet(existing, proposed []int) bool {
	if len(existing) != len(proposed) {
		return false
	}
	a := append([]int(nil), existing...)
	b := append([]int(nil), proposed...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] || (i > 0 && b[i] == b[i-1]) {
			return false
		}
	}
	return true
}
