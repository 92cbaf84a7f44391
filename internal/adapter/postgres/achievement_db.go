package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, full_name, username, avatar_url, bio, location, xp, level, is_admin, ai_repair_tips_enabled, created_at, updated_at`

func scanProfile(row rowScanner) (*domain.Profile, error) {
	profile := &domain.Profile{}
	var fullName, username, avatarURL, bio, location sql.NullString
	err := row.Scan(
		&profile.ID,
		&fullName,
		&username,
		&avatarURL,
		&bio,
		&location,
		&profile.XP,
		&profile.Level,
		&profile.IsAdmin,
		&profile.RepairTipsEnabled,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	profile.FullName = fullName.String
	profile.Username = username.String
	profile.AvatarURL = avatarURL.String
	profile.Bio = bio.String
	profile.Location = location.String
	return profile, nil
}

func (r *ProfileRepository) GetProfileByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// ListReminderRecipients returns the profiles that opted in to maintenance tips.
func (r *ProfileRepository) ListReminderRecipients(ctx context.Context) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE ai_repair_tips_enabled = TRUE
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

type AchievementRepository struct {
	db       *sql.DB
	profiles *ProfileRepository
}

func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db, profiles: NewProfileRepository(db)}
}

func (r *AchievementRepository) GetAchievementState(ctx context.Context, userID uuid.UUID) (*domain.AchievementState, error) {
	profile, err := r.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := &domain.AchievementState{Profile: profile}
	query := `SELECT
		(SELECT COUNT(*) FROM vehicles WHERE user_id = $1),
		(SELECT COUNT(*) FROM diagnoses WHERE user_id = $1 AND status = 'completed'),
		(SELECT COUNT(*) FROM club_members WHERE user_id = $1),
		(SELECT COUNT(*) FROM parts WHERE seller_id = $1)`

	err = r.db.QueryRowContext(ctx, query, userID).Scan(
		&state.VehicleCount,
		&state.CompletedDiagnoses,
		&state.ClubMemberships,
		&state.PartListings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count achievement activity: %w", err)
	}
	return state, nil
}

func (r *AchievementRepository) ListAwards(ctx context.Context, userID uuid.UUID) ([]*domain.AchievementAward, error) {
	query := `SELECT id, user_id, achievement_id, xp_awarded, badge_awarded, awarded_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY awarded_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []*domain.AchievementAward
	for rows.Next() {
		award := &domain.AchievementAward{}
		var badgeID uuid.NullUUID
		if err := rows.Scan(&award.ID, &award.UserID, &award.AchievementID, &award.XPAwarded, &badgeID, &award.AwardedAt); err != nil {
			return nil, err
		}
		if badgeID.Valid {
			award.BadgeID = &badgeID.UUID
		}
		awards = append(awards, award)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return awards, nil
}

func (r *AchievementRepository) GrantAchievement(ctx context.Context, userID uuid.UUID, achievement domain.Achievement) (*domain.AchievementAward, *domain.XPGrant, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	award := &domain.AchievementAward{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievement.ID,
		XPAwarded:     achievement.XP,
	}

	insertAward := `INSERT INTO user_achievements (id, user_id, achievement_id, xp_awarded, awarded_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, achievement_id) DO NOTHING
		RETURNING awarded_at`

	err = tx.QueryRowContext(ctx, insertAward, award.ID, userID, achievement.ID, achievement.XP).Scan(&award.AwardedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to record achievement: %w", translate(err, domain.ErrProfileNotFound))
	}

	if achievement.BadgeName != "" {
		var badgeID uuid.UUID
		err = tx.QueryRowContext(ctx, `SELECT id FROM badges WHERE name = $1`, achievement.BadgeName).Scan(&badgeID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil, false, fmt.Errorf("%w: %s", domain.ErrBadgeNotFound, achievement.BadgeName)
		case err != nil:
			return nil, nil, false, fmt.Errorf("failed to get badge: %w", err)
		}

		insertBadge := `INSERT INTO user_badges (id, user_id, badge_id, note, awarded_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (user_id, badge_id) DO NOTHING`
		if _, err = tx.ExecContext(ctx, insertBadge, uuid.New(), userID, badgeID, "Completed: "+achievement.Title); err != nil {
			return nil, nil, false, fmt.Errorf("failed to award badge: %w", err)
		}

		if _, err = tx.ExecContext(ctx, `UPDATE user_achievements SET badge_awarded = $1 WHERE id = $2`, badgeID, award.ID); err != nil {
			return nil, nil, false, err
		}
		award.BadgeID = &badgeID
	}

	grant, err := addXP(ctx, tx, userID, achievement.XP, "achievement", achievement.Title)
	if err != nil {
		return nil, nil, false, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, false, fmt.Errorf("failed to commit achievement: %w", err)
	}
	return award, grant, true, nil
}

// addXP locks the profile row, adds amount and recomputes the level.
func addXP(ctx context.Context, tx *sql.Tx, userID uuid.UUID, amount int, source, reason string) (*domain.XPGrant, error) {
	grant := &domain.XPGrant{}
	err := tx.QueryRowContext(ctx, `SELECT xp, level FROM profiles WHERE id = $1 FOR UPDATE`, userID).
		Scan(&grant.PreviousXP, &grant.PreviousLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	grant.NewXP = grant.PreviousXP + amount
	grant.NewLevel = domain.LevelForXP(grant.NewXP)
	grant.LevelUp = grant.NewLevel > grant.PreviousLevel

	_, err = tx.ExecContext(ctx, `UPDATE profiles SET xp = $1, level = $2, updated_at = $3 WHERE id = $4`,
		grant.NewXP, grant.NewLevel, time.Now().UTC(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile xp: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO xp_logs (id, user_id, amount, source, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`, uuid.New(), userID, amount, source, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to log xp: %w", err)
	}
	return grant, nil
}

type BadgeRepository struct {
	db *sql.DB
}

func NewBadgeRepository(db *sql.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

const badgeColumns = `b.id, b.name, b.description, b.icon_url, b.rarity, b.created_at`

func scanBadge(row rowScanner) (*domain.Badge, error) {
	badge := &domain.Badge{}
	var description, iconURL, rarity sql.NullString
	if err := row.Scan(&badge.ID, &badge.Name, &description, &iconURL, &rarity, &badge.CreatedAt); err != nil {
		return nil, err
	}
	badge.Description = description.String
	badge.IconURL = iconURL.String
	badge.Rarity = rarity.String
	return badge, nil
}

func (r *BadgeRepository) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+badgeColumns+` FROM badges b ORDER BY b.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []*domain.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *BadgeRepository) GetBadgeByName(ctx context.Context, name string) (*domain.Badge, error) {
	badge, err := scanBadge(r.db.QueryRowContext(ctx, `SELECT `+badgeColumns+` FROM badges b WHERE b.name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadgeNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}
	return badge, nil
}

func (r *BadgeRepository) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadge, error) {
	query := `SELECT ub.id, ub.user_id, ub.badge_id, ub.note, ub.awarded_at, ` + badgeColumns + `
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.UserBadge
	for rows.Next() {
		userBadge := &domain.UserBadge{Badge: &domain.Badge{}}
		var note, description, iconURL, rarity sql.NullString
		err := rows.Scan(
			&userBadge.ID,
			&userBadge.UserID,
			&userBadge.BadgeID,
			&note,
			&userBadge.AwardedAt,
			&userBadge.Badge.ID,
			&userBadge.Badge.Name,
			&description,
			&iconURL,
			&rarity,
			&userBadge.Badge.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		userBadge.Note = note.String
		userBadge.Badge.Description = description.String
		userBadge.Badge.IconURL = iconURL.String
		userBadge.Badge.Rarity = rarity.String
		result = append(result, userBadge)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *BadgeRepository) AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, note string) (bool, error) {
	query := `INSERT INTO user_badges (id, user_id, badge_id, note, awarded_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
		ON CONFLICT (user_id, badge_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, uuid.New(), userID, badgeID, note)
	if err != nil {
		return false, translate(err, domain.ErrBadgeNotFound)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
