package repository

import (
	"context"
	"time"

	"dailybrush/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrichedSubmission is the read shape of a submission: base columns plus the
// joined author profile, the joined challenge, live like/comment counts and
// the per-viewer has_liked flag.
type EnrichedSubmission struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	ChallengeID        uuid.UUID
	ImageURL           string
	Description        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Username           string
	DisplayName        *string
	AvatarURL          *string
	ChallengeTitle     string
	ChallengeStartDate string
	ChallengeIsSpecial bool
	LikeCount          int64
	CommentCount       int64
	HasLiked           bool
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error)
	Update(ctx context.Context, submission *entity.Submission) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Enriched reads. viewer drives has_liked; pass uuid.Nil for anonymous
	// requests, which makes the flag false everywhere.
	GetEnriched(ctx context.Context, viewer, id uuid.UUID) (*EnrichedSubmission, error)
	ListFeed(ctx context.Context, viewer uuid.UUID) ([]*EnrichedSubmission, error)
	ListByChallenge(ctx context.Context, viewer, challengeID uuid.UUID) ([]*EnrichedSubmission, error)
	ListByUser(ctx context.Context, viewer, userID uuid.UUID) ([]*EnrichedSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *entity.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error) {
	var submission entity.Submission
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}

	return &submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *entity.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Submission{}, "id = ?", id).Error
}

// enrichedSelect computes the aggregates inline so counts are always live.
// has_liked is an EXISTS check, deliberately not an inner join: submissions
// with zero likes must still appear with the flag false.
const enrichedSelect = `
SELECT s.id, s.user_id, s.challenge_id, s.image_url, s.description,
       s.created_at, s.updated_at,
       p.username, p.display_name, p.avatar_url,
       c.title AS challenge_title,
       c.start_date AS challenge_start_date,
       c.is_special AS challenge_is_special,
       (SELECT COUNT(*) FROM likes WHERE likes.submission_id = s.id) AS like_count,
       (SELECT COUNT(*) FROM comments WHERE comments.submission_id = s.id) AS comment_count,
       EXISTS(SELECT 1 FROM likes WHERE likes.submission_id = s.id AND likes.user_id = ?) AS has_liked
FROM submissions s
JOIN profiles p ON p.user_id = s.user_id
JOIN challenges c ON c.id = s.challenge_id
`

func (r *submissionRepository) GetEnriched(ctx context.Context, viewer, id uuid.UUID) (*EnrichedSubmission, error) {
	var rows []*EnrichedSubmission
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+"WHERE s.id = ?", viewer, id).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return rows[0], nil
}

func (r *submissionRepository) ListFeed(ctx context.Context, viewer uuid.UUID) ([]*EnrichedSubmission, error) {
	var rows []*EnrichedSubmission
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+"ORDER BY s.created_at DESC", viewer).
		Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) ListByChallenge(ctx context.Context, viewer, challengeID uuid.UUID) ([]*EnrichedSubmission, error) {
	var rows []*EnrichedSubmission
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+"WHERE s.challenge_id = ? ORDER BY s.created_at DESC", viewer, challengeID).
		Scan(&rows).Error
	return rows, err
}

func (r *submissionRepository) ListByUser(ctx context.Context, viewer, userID uuid.UUID) ([]*EnrichedSubmission, error) {
	var rows []*EnrichedSubmission
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+"WHERE s.user_id = ? ORDER BY s.created_at DESC", viewer, userID).
		Scan(&rows).Error
	return rows, err
}
