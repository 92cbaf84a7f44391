package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type ChallengeRepository struct {
	db *sql.DB
}

func NewChallengeRepository(db *sql.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

const challengeColumns = `c.id, c.name, c.description, c.target, c.frequency, c.xp_reward, c.start_date, c.end_date, c.created_at`

func scanChallenge(row rowScanner) (*domain.Challenge, error) {
	challenge := &domain.Challenge{}
	var description, frequency sql.NullString
	var start, end sql.NullTime
	err := row.Scan(
		&challenge.ID,
		&challenge.Name,
		&description,
		&challenge.Target,
		&frequency,
		&challenge.XPReward,
		&start,
		&end,
		&challenge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	challenge.Description = description.String
	challenge.Frequency = domain.Frequency(frequency.String)
	if start.Valid {
		challenge.StartDate = &start.Time
	}
	if end.Valid {
		challenge.EndDate = &end.Time
	}
	return challenge, nil
}

func (r *ChallengeRepository) ListChallenges(ctx context.Context, filter domain.ChallengeFilter) ([]*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges c`
	var args []any

	switch filter {
	case domain.ChallengeFilterActive:
		query += ` WHERE (c.end_date IS NULL OR c.end_date > NOW())
			AND (c.start_date IS NULL OR c.start_date < NOW())`
	case domain.ChallengeFilterDaily, domain.ChallengeFilterWeekly:
		query += ` WHERE c.frequency = $1`
		args = append(args, string(filter))
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*domain.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *ChallengeRepository) GetChallengeByID(ctx context.Context, challengeID uuid.UUID) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges c WHERE c.id = $1`

	challenge, err := scanChallenge(r.db.QueryRowContext(ctx, query, challengeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return challenge, nil
}

func (r *ChallengeRepository) GetChallengeByName(ctx context.Context, name string) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges c WHERE c.name = $1`

	challenge, err := scanChallenge(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return challenge, nil
}

// newProgressExpr is the progress value after the upsert, for the conflict branch.
const newProgressExpr = `(CASE WHEN $5::boolean THEN uc.current_progress + EXCLUDED.current_progress ELSE EXCLUDED.current_progress END)`

const progressColumns = `uc.id, uc.user_id, uc.challenge_id, uc.current_progress, uc.completed, uc.completed_at, uc.last_updated`

func (r *ChallengeRepository) UpsertProgress(ctx context.Context, userID, challengeID uuid.UUID, value int, increment bool) (*domain.UserChallengeProgress, error) {
	// The insert selects from the challenge so an unknown challenge writes nothing.
	// Completion is sticky once the target is reached.
	query := `WITH c AS (SELECT id, target FROM challenges WHERE id = $3)
		INSERT INTO user_challenges AS uc (id, user_id, challenge_id, current_progress, completed, completed_at, last_updated)
		SELECT $1, $2, c.id, $4::int, $4::int >= c.target, CASE WHEN $4::int >= c.target THEN NOW() END, NOW()
		FROM c
		ON CONFLICT (user_id, challenge_id) DO UPDATE SET
			current_progress = ` + newProgressExpr + `,
			completed = uc.completed OR ` + newProgressExpr + ` >= (SELECT target FROM c),
			completed_at = COALESCE(uc.completed_at, CASE WHEN ` + newProgressExpr + ` >= (SELECT target FROM c) THEN NOW() END),
			last_updated = NOW()
		RETURNING ` + progressColumns

	row, err := scanProgress(r.db.QueryRowContext(ctx, query, uuid.New(), userID, challengeID, value, increment))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert challenge progress: %w", translate(err, domain.ErrChallengeNotFound))
	}
	return row, nil
}

func (r *ChallengeRepository) StartProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error) {
	insert := `INSERT INTO user_challenges (id, user_id, challenge_id, current_progress, completed, last_updated)
		VALUES ($1, $2, $3, 0, FALSE, NOW())
		ON CONFLICT (user_id, challenge_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert, uuid.New(), userID, challengeID); err != nil {
		return nil, translate(err, domain.ErrChallengeNotFound)
	}
	return r.GetProgress(ctx, userID, challengeID)
}

func (r *ChallengeRepository) GetProgress(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserChallengeProgress, error) {
	query := `SELECT ` + progressColumns + `, ` + challengeColumns + `
		FROM user_challenges uc
		JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = $1 AND uc.challenge_id = $2`

	row, err := scanProgressWithChallenge(r.db.QueryRowContext(ctx, query, userID, challengeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no progress for challenge", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge progress: %w", err)
	}
	return row, nil
}

func (r *ChallengeRepository) ListProgress(ctx context.Context, userID uuid.UUID, includeCompleted bool, page domain.PageRequest) ([]*domain.UserChallengeProgress, int, error) {
	where := `WHERE uc.user_id = $1 AND ($2::boolean OR uc.completed = FALSE)`

	var total int
	countQuery := `SELECT COUNT(*) FROM user_challenges uc ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, userID, includeCompleted).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count challenge progress: %w", err)
	}

	query := `SELECT ` + progressColumns + `, ` + challengeColumns + `
		FROM user_challenges uc
		JOIN challenges c ON c.id = uc.challenge_id
		` + where + `
		ORDER BY uc.last_updated DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, userID, includeCompleted, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*domain.UserChallengeProgress
	for rows.Next() {
		row, err := scanProgressWithChallenge(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *ChallengeRepository) DeleteProgressByFrequency(ctx context.Context, userID *uuid.UUID, frequency domain.Frequency) (int64, error) {
	query := `DELETE FROM user_challenges uc
		USING challenges c
		WHERE uc.challenge_id = c.id
			AND c.frequency = $1
			AND ($2::uuid IS NULL OR uc.user_id = $2)`

	var target uuid.NullUUID
	if userID != nil {
		target = uuid.NullUUID{UUID: *userID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, string(frequency), target)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanProgress(row rowScanner) (*domain.UserChallengeProgress, error) {
	progress := &domain.UserChallengeProgress{}
	var completedAt sql.NullTime
	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.ChallengeID,
		&progress.CurrentProgress,
		&progress.Completed,
		&completedAt,
		&progress.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	return progress, nil
}

func scanProgressWithChallenge(row rowScanner) (*domain.UserChallengeProgress, error) {
	progress := &domain.UserChallengeProgress{}
	challenge := &domain.Challenge{}
	var completedAt, start, end sql.NullTime
	var description, frequency sql.NullString
	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.ChallengeID,
		&progress.CurrentProgress,
		&progress.Completed,
		&completedAt,
		&progress.LastUpdated,
		&challenge.ID,
		&challenge.Name,
		&description,
		&challenge.Target,
		&frequency,
		&challenge.XPReward,
		&start,
		&end,
		&challenge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	challenge.Description = description.String
	challenge.Frequency = domain.Frequency(frequency.String)
	if start.Valid {
		challenge.StartDate = &start.Time
	}
	if end.Valid {
		challenge.EndDate = &end.Time
	}
	progress.Challenge = challenge
	return progress, nil
}
