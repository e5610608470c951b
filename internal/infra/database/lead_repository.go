package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const leadColumns = `id, name, email, phone, original_message, translated_message, language, tag, status, assigned_to, created_at`

type LeadRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewLeadRepository(db *sql.DB, dialect Dialect) *LeadRepository {
	return &LeadRepository{DB: db, Dialect: dialect}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, email_key, phone, original_message, translated_message, language, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		lead.ID,
		lead.Name,
		lead.Email,
		entity.NormalizeEmail(lead.Email),
		lead.Phone,
		lead.OriginalMessage,
		lead.TranslatedMessage,
		string(lead.Language),
		string(lead.Status),
		r.Dialect.timeArg(lead.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select lead: %w", err)
	}
	return lead, nil
}

// List returns one page newest first together with the number of leads that
// match the filter, ignoring the page bounds.
func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, int, error) {
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, entity.NormalizeEmail(filter.Email))
		conds = append(conds, fmt.Sprintf("email_key = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM leads` + where
	if err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(countQuery), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	pageArgs := append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + leadColumns + ` FROM leads` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, total, nil
}

// UpdateStatus writes only the status column and returns the stored lead.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	query := `UPDATE leads SET status = $1 WHERE id = $2 RETURNING ` + leadColumns

	lead, err := scanLead(r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), string(status), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// ApplyEnrichment writes the derived fields once. A lead that already carries a
// tag is left untouched and reported as entity.ErrAlreadyEnriched.
func (r *LeadRepository) ApplyEnrichment(ctx context.Context, id string, e entity.Enrichment) error {
	query := `UPDATE leads SET translated_message = $1, tag = $2, assigned_to = $3 WHERE id = $4 AND tag IS NULL`

	res, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		e.TranslatedMessage,
		string(e.Tag),
		nullString(e.AssignedTo),
		id,
	)
	if err != nil {
		return fmt.Errorf("apply enrichment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply enrichment: %w", err)
	}
	if n == 0 {
		return r.missingOrEnriched(ctx, id)
	}
	return nil
}

func (r *LeadRepository) missingOrEnriched(ctx context.Context, id string) error {
	var one int
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT 1 FROM leads WHERE id = $1`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrLeadNotFound
	}
	if err != nil {
		return fmt.Errorf("apply enrichment: %w", err)
	}
	return entity.ErrAlreadyEnriched
}

// ListUnenriched returns untagged leads created before the cutoff, oldest first.
func (r *LeadRepository) ListUnenriched(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tag IS NULL AND created_at < $1 ORDER BY created_at ASC, id ASC LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), r.Dialect.timeArg(createdBefore), limit)
	if err != nil {
		return nil, fmt.Errorf("list unenriched leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead       entity.Lead
		language   string
		status     string
		tag        sql.NullString
		assignedTo sql.NullString
	)
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.OriginalMessage,
		&lead.TranslatedMessage,
		&language,
		&tag,
		&status,
		&assignedTo,
		dbTime{&lead.CreatedAt},
	)
	if err != nil {
		return nil, err
	}

	lead.Language = entity.Language(language)
	lead.Status = entity.Status(status)
	if tag.Valid {
		t := entity.Tag(tag.String)
		lead.Tag = &t
	}
	if assignedTo.Valid {
		a := assignedTo.String
		lead.AssignedTo = &a
	}
	return &lead, nil
}
