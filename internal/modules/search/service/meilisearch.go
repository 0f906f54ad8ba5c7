package service

import (
	"fmt"
	"log"
	"time"

	"dailybrush/internal/entity"
	"github.com/meilisearch/meilisearch-go"
)

// SearchService mirrors challenge and submission writes into Meilisearch and
// hands clients scoped tenant tokens so they query the search host directly.
type SearchService interface {
	IndexChallenge(challenge *entity.Challenge) error
	IndexSubmission(submission *entity.Submission, username string) error
	DeleteChallenge(id string) error
	DeleteSubmission(id string) error
	SearchToken() (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initIndexes() {
	challengeFilterable := []any{"is_special"}
	if _, err := s.client.Index("challenges").UpdateFilterableAttributes(&challengeFilterable); err != nil {
		log.Printf("Failed to update challenges filterable attributes: %v", err)
	}
	challengeSortable := []string{"start_date"}
	if _, err := s.client.Index("challenges").UpdateSortableAttributes(&challengeSortable); err != nil {
		log.Printf("Failed to update challenges sortable attributes: %v", err)
	}

	submissionFilterable := []any{"challenge_id", "user_id"}
	if _, err := s.client.Index("submissions").UpdateFilterableAttributes(&submissionFilterable); err != nil {
		log.Printf("Failed to update submissions filterable attributes: %v", err)
	}
	submissionSortable := []string{"created_at"}
	if _, err := s.client.Index("submissions").UpdateSortableAttributes(&submissionSortable); err != nil {
		log.Printf("Failed to update submissions sortable attributes: %v", err)
	}
}

func (s *meiliSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"challenges", "submissions"},
		ExpiresAt:   time.Now().AddDate(100, 0, 0),
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
}

type meiliChallengeDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	IsSpecial   bool   `json:"is_special"`
}

type meiliSubmissionDoc struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ChallengeID string `json:"challenge_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *meiliSearchService) IndexChallenge(challenge *entity.Challenge) error {
	doc := meiliChallengeDoc{
		ID:          challenge.ID.String(),
		Title:       challenge.Title,
		Description: challenge.Description,
		StartDate:   challenge.StartDate,
		IsSpecial:   challenge.IsSpecial,
	}

	_, err := s.client.Index("challenges").AddDocuments([]meiliChallengeDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) IndexSubmission(submission *entity.Submission, username string) error {
	doc := meiliSubmissionDoc{
		ID:          submission.ID.String(),
		ImageURL:    submission.ImageURL,
		ChallengeID: submission.ChallengeID.String(),
		UserID:      submission.UserID.String(),
		Username:    username,
		CreatedAt:   submission.CreatedAt.Unix(),
	}
	if submission.Description != nil {
		doc.Description = *submission.Description
	}

	_, err := s.client.Index("submissions").AddDocuments([]meiliSubmissionDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) DeleteChallenge(id string) error {
	_, err := s.client.Index("challenges").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) DeleteSubmission(id string) error {
	_, err := s.client.Index("submissions").DeleteDocument(id)
	return err
}

// SearchToken issues a 24h tenant token. Every indexed document is public, so
// the rules carry no filters.
func (s *meiliSearchService) SearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		"challenges":  map[string]any{"filter": nil},
		"submissions": map[string]any{"filter": nil},
	}

	return s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

func strPtr(s string) *string {
	return &s
}
