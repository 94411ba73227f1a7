package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
)

// PostgresConversationsRepository persists continuation tokens keyed by
// conversation key. It satisfies store.ConversationStore.
//
// Expected table:
//
//	CREATE TABLE <schema>.conversations (
//	    conversation_key   TEXT PRIMARY KEY,
//	    continuation_token TEXT NOT NULL,
//	    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresConversationsRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresConversationsRepository(db *sqlx.DB, schema string) *PostgresConversationsRepository {
	return &PostgresConversationsRepository{db: db, schema: schema}
}

func (r *PostgresConversationsRepository) GetContinuationToken(
	ctx context.Context,
	key string,
) (mo.Option[string], error) {
	query := fmt.Sprintf(`
		SELECT continuation_token
		FROM %s.conversations
		WHERE conversation_key = $1`, r.schema)

	var token string
	if err := r.db.GetContext(ctx, &token, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[string](), nil
		}
		return mo.None[string](), fmt.Errorf("failed to get continuation token: %w", err)
	}

	return mo.Some(token), nil
}

func (r *PostgresConversationsRepository) SetContinuationToken(
	ctx context.Context,
	key, token string,
) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.conversations (conversation_key, continuation_token, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (conversation_key)
		DO UPDATE SET continuation_token = EXCLUDED.continuation_token, updated_at = NOW()`, r.schema)

	if _, err := r.db.ExecContext(ctx, query, key, token); err != nil {
		return fmt.Errorf("failed to set continuation token: %w", err)
	}

	return nil
}
