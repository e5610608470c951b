package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type ReplyRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewReplyRepository(db *sql.DB, dialect Dialect) *ReplyRepository {
	return &ReplyRepository{DB: db, Dialect: dialect}
}

// Create appends a reply. A reply for a lead that does not exist is rejected by
// the foreign key and reported as entity.ErrLeadNotFound.
func (r *ReplyRepository) Create(ctx context.Context, reply *entity.Reply) error {
	query := `
		INSERT INTO replies (id, lead_id, agent_email, agent_name, original_message, translated_message, target_language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		reply.ID,
		reply.LeadID,
		reply.AgentEmail,
		reply.AgentName,
		reply.OriginalMessage,
		reply.TranslatedMessage,
		string(reply.TargetLanguage),
		r.Dialect.timeArg(reply.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return entity.ErrLeadNotFound
		}
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

// ListByLead returns the thread oldest first.
func (r *ReplyRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Reply, error) {
	query := `
		SELECT id, lead_id, agent_email, agent_name, original_message, translated_message, target_language, created_at
		FROM replies
		WHERE lead_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), leadID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	replies := []*entity.Reply{}
	for rows.Next() {
		var (
			reply  entity.Reply
			target string
		)
		if err := rows.Scan(
			&reply.ID,
			&reply.LeadID,
			&reply.AgentEmail,
			&reply.AgentName,
			&reply.OriginalMessage,
			&reply.TranslatedMessage,
			&target,
			dbTime{&reply.CreatedAt},
		); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		reply.TargetLanguage = entity.Language(target)
		replies = append(replies, &reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replies: %w", err)
	}
	return replies, nil
}
