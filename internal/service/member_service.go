package service

import (
	"errors"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MemberService struct {
	MemberRepo     *repository.MemberRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewMemberService(memberRepo *repository.MemberRepository, submissionRepo *repository.SubmissionRepository) *MemberService {
	return &MemberService{
		MemberRepo:     memberRepo,
		SubmissionRepo: submissionRepo,
	}
}

// LeaderboardRow is one leaderboard entry with its competition rank.
type LeaderboardRow struct {
	Rank   int    `json:"rank"`
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Points int    `json:"points"`
}

// RankOf computes the member's competition rank from live data: one more
// than the number of approved members with strictly more points. Tied
// members share a rank.
func (s *MemberService) RankOf(memberID uint) (int, int, error) {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return 0, 0, util.ErrMemberNotFound
	}
	if member.Status != model.StatusApproved {
		return 0, 0, util.ErrMemberNotApproved
	}

	ahead, err := s.MemberRepo.CountWithMorePoints(member.Points)
	if err != nil {
		return 0, 0, err
	}
	return int(ahead) + 1, member.Points, nil
}

// Leaderboard pages approved members by points. Ranks are consistent across
// page boundaries: the first row's rank comes from a strict-greater count
// and ties within the page inherit the previous row's rank.
func (s *MemberService) Leaderboard(page, limit int) ([]LeaderboardRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	offset := (page - 1) * limit
	members, total, err := s.MemberRepo.LeaderboardPage(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(members) == 0 {
		return []LeaderboardRow{}, total, nil
	}

	firstRank64, err := s.MemberRepo.CountWithMorePoints(members[0].Points)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]LeaderboardRow, 0, len(members))
	rank := int(firstRank64) + 1
	for i, m := range members {
		if i > 0 && m.Points != members[i-1].Points {
			rank = offset + i + 1
		}
		rows = append(rows, LeaderboardRow{
			Rank:   rank,
			ID:     m.ID,
			Name:   m.Name,
			Avatar: m.Avatar,
			Points: m.Points,
		})
	}
	return rows, total, nil
}

func (s *MemberService) GetProfile(memberID uint) (*model.Member, error) {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}
	return member, nil
}

type ProfileUpdate struct {
	Name          *string `json:"name"`
	Bio           *string `json:"bio"`
	Avatar        *string `json:"avatar"`
	Skills        *string `json:"skills"`
	GithubURL     *string `json:"githubUrl"`
	DiscordHandle *string `json:"discordHandle"`
}

func (s *MemberService) UpdateProfile(memberID uint, update ProfileUpdate) (*model.Member, error) {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}

	if update.Name != nil && *update.Name != "" {
		member.Name = *update.Name
	}
	if update.Bio != nil {
		member.Bio = *update.Bio
	}
	if update.Avatar != nil {
		member.Avatar = *update.Avatar
	}
	if update.Skills != nil {
		member.Skills = *update.Skills
	}
	if update.GithubURL != nil {
		member.GithubURL = *update.GithubURL
	}
	if update.DiscordHandle != nil {
		member.DiscordHandle = *update.DiscordHandle
	}

	if err := s.MemberRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) ChangePassword(memberID uint, oldPassword, newPassword string) error {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return util.ErrMemberNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(oldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	member.Password = string(hashed)
	return s.MemberRepo.Update(member)
}

// ListMembers pages members for the admin console, optionally filtered by
// status.
func (s *MemberService) ListMembers(page, limit int, status model.MemberStatus) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	query := s.MemberRepo.DB.Model(&model.Member{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&members).Error
	return members, total, err
}

func (s *MemberService) SetStatus(memberID uint, status model.MemberStatus) (*model.Member, error) {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}
	member.Status = status
	if err := s.MemberRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// SetRole changes a member's role. Only a superadmin may grant or revoke
// admin, and the last superadmin cannot demote itself away.
func (s *MemberService) SetRole(actor *util.Claims, memberID uint, role model.MemberRole) (*model.Member, error) {
	if !actor.Role.AtLeast(model.RoleSuperadmin) {
		return nil, util.ErrPermissionDenied
	}

	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}

	if member.Role == model.RoleSuperadmin && role != model.RoleSuperadmin {
		var remaining int64
		if err := s.MemberRepo.DB.Model(&model.Member{}).
			Where("role = ? AND id <> ?", model.RoleSuperadmin, memberID).
			Count(&remaining).Error; err != nil {
			return nil, err
		}
		if remaining == 0 {
			return nil, util.ErrPermissionDenied
		}
	}

	member.Role = role
	if err := s.MemberRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) SetDisabled(memberID uint, disabled bool) (*model.Member, error) {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}
	member.Disabled = disabled
	if err := s.MemberRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// ResetPoints rebuilds a member's points column from their counted solves,
// repairing drift after manual database surgery.
func (s *MemberService) ResetPoints(memberID uint) (*model.Member, error) {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrMemberNotFound
	}

	sum, err := s.SubmissionRepo.SumAwarded(memberID)
	if err != nil {
		return nil, err
	}

	if err := s.MemberRepo.DB.Model(&model.Member{}).
		Where("id = ?", memberID).
		Update("points", sum).Error; err != nil {
		return nil, err
	}
	member.Points = sum
	return member, nil
}

func (s *MemberService) DeleteMember(memberID uint) error {
	member, err := s.MemberRepo.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMemberNotFound
		}
		return err
	}
	return s.MemberRepo.Delete(member)
}
