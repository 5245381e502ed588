package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// LeagueStore persists leagues and participants with bun.
type LeagueStore struct {
	db *bun.DB
}

func NewLeagueStore(db *bun.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

func (s *LeagueStore) CreateLeague(ctx context.Context, league domain.League, manager domain.Participant) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(toLeagueRow(league)).Exec(ctx); err != nil {
			return fmt.Errorf("insert league: %w", err)
		}
		if _, err := tx.NewInsert().Model(toParticipantRow(manager)).Exec(ctx); err != nil {
			return fmt.Errorf("insert manager: %w", mapWriteError(err))
		}
		return nil
	})
}

func (s *LeagueStore) GetLeague(ctx context.Context, leagueID string) (domain.League, error) {
	var row leagueRow
	err := s.db.NewSelect().Model(&row).Where("l.id = ?", leagueID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.League{}, domain.ErrLeagueNotFound
	}
	if err != nil {
		return domain.League{}, fmt.Errorf("select league: %w", err)
	}
	return row.toDomain(), nil
}

func (s *LeagueStore) ListLeagueIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().
		Model((*leagueRow)(nil)).
		Column("id").
		Order("id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return ids, nil
}

func (s *LeagueStore) AddParticipant(ctx context.Context, p domain.Participant) error {
	if _, err := s.db.NewInsert().Model(toParticipantRow(p)).Exec(ctx); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *LeagueStore) GetParticipant(ctx context.Context, leagueID, participantID string) (domain.Participant, error) {
	var row participantRow
	err := s.db.NewSelect().
		Model(&row).
		Where("p.league_id = ?", leagueID).
		Where("p.id = ?", participantID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("select participant: %w", err)
	}
	return row.toDomain(), nil
}

// ListParticipants returns participants in join order.
func (s *LeagueStore) ListParticipants(ctx context.Context, leagueID string) ([]domain.Participant, error) {
	exists, err := s.db.NewSelect().Model((*leagueRow)(nil)).Where("l.id = ?", leagueID).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("select league: %w", err)
	}
	if !exists {
		return nil, domain.ErrLeagueNotFound
	}

	var rows []participantRow
	err = s.db.NewSelect().
		Model(&rows).
		Where("p.league_id = ?", leagueID).
		Order("p.joined_at ASC", "p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]domain.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *LeagueStore) SaveParticipant(ctx context.Context, p domain.Participant) error {
	res, err := s.db.NewUpdate().
		Model(toParticipantRow(p)).
		ExcludeColumn("joined_at", "is_manager").
		WherePK().
		Where("league_id = ?", p.LeagueID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update participant: %w", mapWriteError(err))
	}
	return expectRow(res, domain.ErrParticipantNotFound)
}

// SaveResults writes the league results and the rescored participants in one
// transaction.
func (s *LeagueStore) SaveResults(ctx context.Context, league domain.League, participants []domain.Participant) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(toLeagueRow(league)).
			Column("results", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update league: %w", err)
		}
		if err := expectRow(res, domain.ErrLeagueNotFound); err != nil {
			return err
		}
		for _, p := range participants {
			_, err := tx.NewUpdate().
				Model(toParticipantRow(p)).
				Column("score", "tiebreak_distance", "tiebreak_known").
				WherePK().
				Where("league_id = ?", league.ID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("update participant %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (s *LeagueStore) DeleteParticipant(ctx context.Context, leagueID, participantID string) error {
	res, err := s.db.NewDelete().
		Model((*participantRow)(nil)).
		Where("league_id = ?", leagueID).
		Where("id = ?", participantID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return expectRow(res, domain.ErrParticipantNotFound)
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Field('C') {
	case pgUniqueViolation:
		return domain.ErrDuplicateDisplayName
	case pgForeignKeyViolation:
		return domain.ErrLeagueNotFound
	}
	return err
}
