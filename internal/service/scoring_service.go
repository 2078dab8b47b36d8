package service

import (
	"errors"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"
	"icehc_portal/pkg/logger"
	"icehc_portal/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitResult is the outcome of one flag submission.
type SubmitResult struct {
	Accepted      bool `json:"accepted"`
	AlreadySolved bool `json:"alreadySolved"`
	PointsAwarded int  `json:"pointsAwarded"`
}

type ScoringService struct {
	DB              *gorm.DB
	MemberRepo      *repository.MemberRepository
	ChallengeRepo   *repository.ChallengeRepository
	SubmissionRepo  *repository.SubmissionRepository
	NotificationSvc *NotificationService
}

func NewScoringService(
	db *gorm.DB,
	memberRepo *repository.MemberRepository,
	challengeRepo *repository.ChallengeRepository,
	submissionRepo *repository.SubmissionRepository,
	notificationSvc *NotificationService,
) *ScoringService {
	return &ScoringService{
		DB:              db,
		MemberRepo:      memberRepo,
		ChallengeRepo:   challengeRepo,
		SubmissionRepo:  submissionRepo,
		NotificationSvc: notificationSvc,
	}
}

// SubmitFlag evaluates one submission. Resubmitting a solved challenge never
// awards points again, wrong flags cost nothing, and a correct flag credits
// the member exactly once even when the same pair submits concurrently.
func (s *ScoringService) SubmitFlag(memberID, challengeID uint, submittedFlag, ipAddress string) (*SubmitResult, error) {
	if submittedFlag == "" {
		return nil, util.ErrEmptyFlag
	}

	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}
	if member.Disabled {
		return nil, util.ErrMemberDisabled
	}
	if member.Status != model.StatusApproved {
		return nil, util.ErrMemberNotApproved
	}

	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}
	if !challenge.IsActive {
		return nil, util.ErrChallengeInactive
	}

	solved, err := s.SubmissionRepo.HasSolved(memberID, challengeID)
	if err != nil {
		return nil, err
	}
	if solved {
		s.logAttempt(member, challenge, submittedFlag, model.AttemptDuplicate, ipAddress)
		return &SubmitResult{Accepted: false, AlreadySolved: true, PointsAwarded: 0}, nil
	}

	// Flags match byte for byte. No trimming, no case folding.
	if submittedFlag != challenge.Flag {
		s.logAttempt(member, challenge, submittedFlag, model.AttemptWrong, ipAddress)
		return &SubmitResult{Accepted: false, AlreadySolved: false, PointsAwarded: 0}, nil
	}

	var raced bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		sub := model.Submission{
			MemberID:      memberID,
			ChallengeID:   challengeID,
			PointsAwarded: challenge.Points,
		}
		if err := s.SubmissionRepo.CreateCounted(tx, &sub); err != nil {
			// A concurrent submit won the unique index; this attempt is a
			// duplicate, not a failure.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				raced = true
				return nil
			}
			return err
		}

		if err := tx.Model(&model.Member{}).
			Where("id = ?", memberID).
			Update("points", gorm.Expr("points + ?", challenge.Points)).Error; err != nil {
			return err
		}

		return tx.Model(&model.Challenge{}).
			Where("id = ?", challengeID).
			Update("solve_count", gorm.Expr("solve_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	if raced {
		s.logAttempt(member, challenge, submittedFlag, model.AttemptDuplicate, ipAddress)
		return &SubmitResult{Accepted: false, AlreadySolved: true, PointsAwarded: 0}, nil
	}

	s.logAttempt(member, challenge, submittedFlag, model.AttemptCorrect, ipAddress)
	s.recordSolve(member, challenge)

	return &SubmitResult{Accepted: true, AlreadySolved: false, PointsAwarded: challenge.Points}, nil
}

// logAttempt appends to the audit trail. Audit failures are logged and
// swallowed so they never change the submission outcome.
func (s *ScoringService) logAttempt(member *model.Member, challenge *model.Challenge, flag string, result model.AttemptResult, ip string) {
	monitoring.FlagSubmissions.WithLabelValues(string(result)).Inc()

	entry := model.SubmissionLog{
		MemberID:      member.ID,
		ChallengeID:   challenge.ID,
		SubmittedFlag: flag,
		Result:        result,
		IPAddress:     ip,
	}
	if err := s.SubmissionRepo.CreateLog(&entry); err != nil {
		logger.Log.Error("Failed to write submission log",
			zap.Uint("memberId", member.ID),
			zap.Uint("challengeId", challenge.ID),
			zap.Error(err))
	}
}

func (s *ScoringService) recordSolve(member *model.Member, challenge *model.Challenge) {
	feed := model.SolveFeedEntry{
		MemberID:       member.ID,
		MemberName:     member.Name,
		ChallengeID:    challenge.ID,
		ChallengeTitle: challenge.Title,
		Points:         challenge.Points,
	}
	if err := s.SubmissionRepo.CreateFeedEntry(&feed); err != nil {
		logger.Log.Error("Failed to append solve feed", zap.Error(err))
	}

	if s.NotificationSvc != nil {
		s.NotificationSvc.NotifySolve(member, challenge)
	}

	logger.Log.Info("Challenge solved",
		zap.Uint("memberId", member.ID),
		zap.Uint("challengeId", challenge.ID),
		zap.Int("points", challenge.Points))
}

// SolveFeed returns the most recent counted solves for the dashboard.
func (s *ScoringService) SolveFeed(limit int) ([]model.SolveFeedEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.SubmissionRepo.RecentFeed(limit)
}

func (s *ScoringService) SubmissionLogs(page, limit int, challengeID uint) ([]model.SubmissionLog, int64, error) {
	return s.SubmissionRepo.ListLogs(page, limit, challengeID)
}
