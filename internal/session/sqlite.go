package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"memchat/internal/chat"
	"memchat/internal/db"
	"memchat/internal/memory"
)

// SQLiteStore persists sessions in the local SQLite database. A corrupt
// stored summary or analysis is logged and replaced with a fresh one rather
// than failing the load, so a damaged row never bricks a session.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*State, error) {
	var (
		summaryJSON  string
		analysisJSON string
		tokenCount   int
		clarCount    int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT summary_json, analysis_json, token_count, clarification_count
		 FROM sessions WHERE id = ?`, id).
		Scan(&summaryJSON, &analysisJSON, &tokenCount, &clarCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}

	st := NewState()
	st.CurrentTokenCount = tokenCount
	st.ClarificationCount = clarCount

	if err := json.Unmarshal([]byte(summaryJSON), st.Summary); err != nil {
		log.Printf("session %s: corrupt summary, starting fresh: %v", id, err)
		st.Summary = memory.NewSessionSummary()
	}
	var analysis memory.QueryAnalysis
	if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
		log.Printf("session %s: corrupt analysis, starting fresh: %v", id, err)
	} else {
		st.Analysis = analysis
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM session_messages
		 WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading messages for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("scanning message for %s: %w", id, err)
		}
		st.Messages = append(st.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading messages for %s: %w", id, err)
	}

	st.Normalize()
	return st, nil
}

// Save writes the session row and its messages in one transaction, so a
// crashed save never leaves a transcript half replaced.
func (s *SQLiteStore) Save(ctx context.Context, id string, st *State) error {
	summaryJSON, err := json.Marshal(st.Summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	analysisJSON, err := json.Marshal(st.Analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, summary_json, analysis_json, token_count, clarification_count, updated_at)
		 VALUES (?, ?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET
			summary_json = excluded.summary_json,
			analysis_json = excluded.analysis_json,
			token_count = excluded.token_count,
			clarification_count = excluded.clarification_count,
			updated_at = datetime('now')`,
		id, string(summaryJSON), string(analysisJSON),
		st.CurrentTokenCount, st.ClarificationCount); err != nil {
		return fmt.Errorf("saving session %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clearing messages for %s: %w", id, err)
	}
	for i, msg := range st.Messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_messages (session_id, position, role, content)
			 VALUES (?, ?, ?, ?)`, id, i, msg.Role, msg.Content); err != nil {
			return fmt.Errorf("saving message %d for %s: %w", i, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.token_count, s.clarification_count, s.created_at, s.updated_at,
			COUNT(m.position)
		 FROM sessions s
		 LEFT JOIN session_messages m ON m.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var (
			info                 Info
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&info.ID, &info.TokenCount, &info.ClarificationCount,
			&createdAt, &updatedAt, &info.MessageCount); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		info.CreatedAt = createdAt
		info.UpdatedAt = updatedAt
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
