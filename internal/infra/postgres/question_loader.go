package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads question set JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, setID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionSet{}, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load question set: %w", err)
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("unmarshal question set: %w", err)
	}
	return set, nil
}

// SaveQuestionSets upserts question sets, used to seed the built-in and
// file-provided sets at startup.
func (l *QuestionLoader) SaveQuestionSets(ctx context.Context, sets []domain.QuestionSet) error {
	batch := &pgx.Batch{}
	for _, set := range sets {
		data, err := json.Marshal(set)
		if err != nil {
			return fmt.Errorf("marshal question set %s: %w", set.ID, err)
		}
		batch.Queue(`INSERT INTO question_sets (id, data, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, set.ID, data)
	}
	results := l.pool.SendBatch(ctx, batch)
	defer results.Close()
	for _, set := range sets {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save question set %s: %w", set.ID, err)
		}
	}
	return nil
}
