package dto

type CreateChallengeInput struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" binding:"required,datetime=2006-01-02"`
	IsSpecial   bool   `json:"is_special"`
}

type UpdateChallengeInput struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	IsSpecial   *bool   `json:"is_special"`
}
