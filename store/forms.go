package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/mbolis/work-requests/model"
	"github.com/pkg/errors"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a form name into its default slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonAlphaNum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "form"
	}
	return slug
}

const formColumns = `id, slug, name, description, is_active, created_at, updated_at`

func scanForm(row scanner) (f model.Form, err error) {
	err = row.Scan(&f.ID, &f.Slug, &f.Name, &f.Description, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return
}

func (s *Store) ListForms(ctx context.Context) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+formColumns+` FROM work_form ORDER BY name, id`)
	if err != nil {
		return nil, errors.Wrap(err, "select forms")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan form")
		}
		forms = append(forms, f)
	}
	return forms, errors.Wrap(rows.Err(), "select forms")
}

func (s *Store) GetForm(ctx context.Context, id int) (model.Form, error) {
	f, err := scanForm(s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM work_form WHERE id = ?`, id))
	return f, errors.Wrapf(notFound(err), "select form %d", id)
}

func (s *Store) GetFormBySlug(ctx context.Context, slug string) (model.Form, error) {
	f, err := scanForm(s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM work_form WHERE slug = ?`, slug))
	return f, errors.Wrapf(notFound(err), "select form %q", slug)
}

// CreateForm inserts f, deriving the slug from the name when it is empty.
func (s *Store) CreateForm(ctx context.Context, f model.Form) (model.Form, error) {
	f.Slug = strings.TrimSpace(f.Slug)
	if f.Slug == "" {
		f.Slug = Slugify(f.Name)
	}
	now := s.now()
	f.CreatedAt, f.UpdatedAt = now, now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO work_form (slug, name, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		f.Slug, f.Name, f.Description, f.IsActive, f.CreatedAt, f.UpdatedAt,
	).Scan(&f.ID)
	if isUniqueViolation(err) {
		return f, ErrDuplicateSlug
	}
	return f, errors.Wrap(err, "insert form")
}

func (s *Store) UpdateForm(ctx context.Context, f model.Form) (model.Form, error) {
	f.Slug = strings.TrimSpace(f.Slug)
	if f.Slug == "" {
		f.Slug = Slugify(f.Name)
	}
	f.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE work_form
		SET slug = ?, name = ?, description = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		f.Slug, f.Name, f.Description, f.IsActive, f.UpdatedAt, f.ID,
	)
	if isUniqueViolation(err) {
		return f, ErrDuplicateSlug
	}
	if err != nil {
		return f, errors.Wrapf(err, "update form %d", f.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return f, ErrNotFound
	}
	return s.GetForm(ctx, f.ID)
}

// DeleteForm removes the form with its entries and templates.
func (s *Store) DeleteForm(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM work_form WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete form %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureForm creates an active form with slug unless one already exists.
func (s *Store) EnsureForm(ctx context.Context, slug, name string) (model.Form, error) {
	f, err := s.GetFormBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return s.CreateForm(ctx, model.Form{Slug: slug, Name: name, IsActive: true})
	}
	return f, err
}
