package repository

import (
	"icehc_portal/internal/model"
	"time"

	"gorm.io/gorm"
)

type MemberRepository struct {
	DB *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

func (r *MemberRepository) Create(member *model.Member) error {
	now := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = now
	}
	return r.DB.Create(member).Error
}

func (r *MemberRepository) FindByID(id uint) (*model.Member, error) {
	var member model.Member
	err := r.DB.First(&member, id).Error
	return &member, err
}

func (r *MemberRepository) FindByEmail(email string) (*model.Member, error) {
	var member model.Member
	err := r.DB.Where("email = ?", email).First(&member).Error
	return &member, err
}

func (r *MemberRepository) Update(member *model.Member) error {
	return r.DB.Save(member).Error
}

func (r *MemberRepository) Delete(member *model.Member) error {
	return r.DB.Delete(member).Error
}

func (r *MemberRepository) UpdateLastSeen(memberID uint) error {
	return r.DB.Model(&model.Member{}).
		Where("id = ?", memberID).
		Update("last_seen", time.Now()).
		Error
}

// AddPoints credits delta atomically at the storage layer; callers must
// never read-modify-write the points column.
func (r *MemberRepository) AddPoints(memberID uint, delta int) error {
	return r.DB.Model(&model.Member{}).
		Where("id = ?", memberID).
		Update("points", gorm.Expr("points + ?", delta)).
		Error
}

// CountWithMorePoints returns how many approved members strictly outrank the
// given score. Rank is 1 + this count.
func (r *MemberRepository) CountWithMorePoints(points int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Member{}).
		Where("status = ? AND points > ?", model.StatusApproved, points).
		Count(&count).Error
	return count, err
}

// LeaderboardPage reads approved members ordered by points descending. The
// id tiebreak only stabilizes row order; displayed ranks come from the
// strict-greater-than count.
func (r *MemberRepository) LeaderboardPage(offset, limit int) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	query := r.DB.Model(&model.Member{}).Where("status = ?", model.StatusApproved)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("points DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error
	return members, total, err
}

// ApprovedIDs lists ids of all approved members, used for notification
// fan-out.
func (r *MemberRepository) ApprovedIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Member{}).
		Where("status = ?", model.StatusApproved).
		Pluck("id", &ids).Error
	return ids, err
}
