package service

import (
	"errors"
	"time"

	"icehc_portal/internal/config"
	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	MemberRepo *repository.MemberRepository
	Cfg        *config.Config
}

func NewAuthService(memberRepo *repository.MemberRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		MemberRepo: memberRepo,
		Cfg:        cfg,
	}
}

// Register creates a pending member. New signups carry no privileges until an
// admin approves them.
func (s *AuthService) Register(member *model.Member) error {
	_, err := s.MemberRepo.FindByEmail(member.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(member.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	member.Password = string(hashedPassword)
	member.Role = model.RoleMember
	member.Status = model.StatusPending
	member.Points = 0
	return s.MemberRepo.Create(member)
}

// Login verifies credentials and issues a token. Rejected and disabled
// accounts cannot log in; pending ones can, but only reach the public
// surface until approved.
func (s *AuthService) Login(email, password string) (string, *model.Member, error) {
	member, err := s.MemberRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if member.Status == model.StatusRejected {
		return "", nil, util.ErrMemberNotApproved
	}
	if member.Disabled {
		return "", nil, util.ErrMemberDisabled
	}

	member.LastLogin = time.Now()
	if err := s.MemberRepo.Update(member); err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(member, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, member, nil
}

func (s *AuthService) GetCurrentMember(c *gin.Context) *model.Member {
	claims := util.GetMemberFromContext(c)
	if claims == nil {
		return nil
	}

	member, _ := s.MemberRepo.FindByID(claims.MemberID)
	return member
}
