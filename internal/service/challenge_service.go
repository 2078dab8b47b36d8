package service

import (
	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"
)

type ChallengeService struct {
	ChallengeRepo  *repository.ChallengeRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, submissionRepo *repository.SubmissionRepository) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo:  challengeRepo,
		SubmissionRepo: submissionRepo,
	}
}

// ChallengeView is the member-facing projection. It never carries the flag.
type ChallengeView struct {
	ID          uint                      `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Category    model.ChallengeCategory   `json:"category"`
	Difficulty  model.ChallengeDifficulty `json:"difficulty"`
	Points      int                       `json:"points"`
	SolveCount  int                       `json:"solveCount"`
	Solved      bool                      `json:"solved"`
}

// ListForMember returns active challenges annotated with whether the member
// has already solved each one.
func (s *ChallengeService) ListForMember(memberID uint) ([]ChallengeView, error) {
	challenges, err := s.ChallengeRepo.ListActive()
	if err != nil {
		return nil, err
	}

	solved, err := s.SubmissionRepo.SolvedChallengeIDs(memberID)
	if err != nil {
		return nil, err
	}

	views := make([]ChallengeView, 0, len(challenges))
	for _, ch := range challenges {
		views = append(views, ChallengeView{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Category:    ch.Category,
			Difficulty:  ch.Difficulty,
			Points:      ch.Points,
			SolveCount:  ch.SolveCount,
			Solved:      solved[ch.ID],
		})
	}
	return views, nil
}

func (s *ChallengeService) GetForMember(memberID, challengeID uint) (*ChallengeView, error) {
	ch, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}
	if !ch.IsActive {
		return nil, util.ErrChallengeNotFound
	}

	solved, err := s.SubmissionRepo.HasSolved(memberID, challengeID)
	if err != nil {
		return nil, err
	}

	return &ChallengeView{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		Category:    ch.Category,
		Difficulty:  ch.Difficulty,
		Points:      ch.Points,
		SolveCount:  ch.SolveCount,
		Solved:      solved,
	}, nil
}

type ChallengeInput struct {
	Title       string                    `json:"title" binding:"required"`
	Description string                    `json:"description"`
	Category    model.ChallengeCategory   `json:"category" binding:"required"`
	Difficulty  model.ChallengeDifficulty `json:"difficulty"`
	Points      int                       `json:"points" binding:"required,gt=0"`
	Flag        string                    `json:"flag" binding:"required"`
	IsActive    bool                      `json:"isActive"`
}

func (s *ChallengeService) Create(authorID uint, input ChallengeInput) (*model.Challenge, error) {
	if input.Difficulty == "" {
		input.Difficulty = model.DifficultyMedium
	}

	challenge := model.Challenge{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Difficulty:  input.Difficulty,
		Points:      input.Points,
		Flag:        input.Flag,
		IsActive:    input.IsActive,
		AuthorID:    authorID,
	}
	if err := s.ChallengeRepo.Create(&challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// Update edits challenge metadata. Changing points does not retroactively
// adjust already-awarded solves.
func (s *ChallengeService) Update(challengeID uint, input ChallengeInput) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}

	challenge.Title = input.Title
	challenge.Description = input.Description
	challenge.Category = input.Category
	if input.Difficulty != "" {
		challenge.Difficulty = input.Difficulty
	}
	challenge.Points = input.Points
	if input.Flag != "" {
		challenge.Flag = input.Flag
	}
	challenge.IsActive = input.IsActive

	if err := s.ChallengeRepo.Update(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) SetActive(challengeID uint, active bool) error {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		return util.ErrChallengeNotFound
	}
	return s.ChallengeRepo.SetActive(challengeID, active)
}

// Delete retires a challenge. Counted solves and awarded points survive the
// deletion.
func (s *ChallengeService) Delete(challengeID uint) error {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return util.ErrChallengeNotFound
	}
	return s.ChallengeRepo.Delete(challenge)
}

func (s *ChallengeService) ListAdmin(page, limit int, filter repository.ChallengeFilter) ([]model.Challenge, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ChallengeRepo.ListAdmin(page, limit, filter)
}
