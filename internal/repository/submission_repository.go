package repository

import (
	"icehc_portal/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// CreateCounted inserts a counted solve. The composite unique index on
// (member_id, challenge_id) rejects a second counted row; with gorm error
// translation enabled the caller sees gorm.ErrDuplicatedKey.
func (r *SubmissionRepository) CreateCounted(tx *gorm.DB, sub *model.Submission) error {
	return tx.Create(sub).Error
}

func (r *SubmissionRepository) HasSolved(memberID, challengeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("member_id = ? AND challenge_id = ?", memberID, challengeID).
		Count(&count).Error
	return count > 0, err
}

// SolvedChallengeIDs returns the set of challenges the member has counted
// solves for, to annotate the challenge list.
func (r *SubmissionRepository) SolvedChallengeIDs(memberID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.Submission{}).
		Where("member_id = ?", memberID).
		Pluck("challenge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	solved := make(map[uint]bool, len(ids))
	for _, id := range ids {
		solved[id] = true
	}
	return solved, nil
}

// SumAwarded totals the member's counted solves; members.points must always
// equal this sum.
func (r *SubmissionRepository) SumAwarded(memberID uint) (int, error) {
	var sum int64
	err := r.DB.Model(&model.Submission{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(points_awarded), 0)").
		Scan(&sum).Error
	return int(sum), err
}

func (r *SubmissionRepository) CreateLog(log *model.SubmissionLog) error {
	return r.DB.Create(log).Error
}

func (r *SubmissionRepository) ListLogs(page, limit int, challengeID uint) ([]model.SubmissionLog, int64, error) {
	var logs []model.SubmissionLog
	var total int64

	query := r.DB.Model(&model.SubmissionLog{})
	if challengeID != 0 {
		query = query.Where("challenge_id = ?", challengeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}

func (r *SubmissionRepository) CreateFeedEntry(entry *model.SolveFeedEntry) error {
	return r.DB.Create(entry).Error
}

func (r *SubmissionRepository) RecentFeed(limit int) ([]model.SolveFeedEntry, error) {
	var entries []model.SolveFeedEntry
	err := r.DB.Order("solved_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// TrimFeed keeps the feed table bounded; older rows beyond keep are removed.
func (r *SubmissionRepository) TrimFeed(keep int64) error {
	var count int64
	if err := r.DB.Model(&model.SolveFeedEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count <= keep {
		return nil
	}

	var staleIDs []uint
	if err := r.DB.Model(&model.SolveFeedEntry{}).
		Order("solved_at ASC").
		Limit(int(count - keep)).
		Pluck("id", &staleIDs).Error; err != nil {
		return err
	}
	return r.DB.Delete(&model.SolveFeedEntry{}, staleIDs).Error
}
