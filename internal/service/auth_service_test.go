package service

import (
	"errors"
	"testing"
	"time"

	"icehc_portal/internal/config"
	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repository.NewMemberRepository(db),
		&config.Config{JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		}},
	)
}

func TestRegisterCreatesPendingMember(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	member := &model.Member{
		Name:     "alice",
		Email:    "alice@icehc.club",
		Password: "hunter22",
		Role:     model.RoleAdmin,      // must be ignored
		Status:   model.StatusApproved, // must be ignored
		Points:   9000,                 // must be ignored
	}
	if err := svc.Register(member); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var stored model.Member
	if err := db.First(&stored, member.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if stored.Role != model.RoleMember || stored.Status != model.StatusPending || stored.Points != 0 {
		t.Fatalf("signup kept caller-supplied privileges: role=%s status=%s points=%d",
			stored.Role, stored.Status, stored.Points)
	}
	if stored.Password == "hunter22" {
		t.Fatal("password stored in cleartext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if err := svc.Register(&model.Member{Name: "alice", Email: "alice@icehc.club", Password: "hunter22"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := svc.Register(&model.Member{Name: "impostor", Email: "alice@icehc.club", Password: "other"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate email: err = %v", err)
	}
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if err := svc.Register(&model.Member{Name: "alice", Email: "alice@icehc.club", Password: "hunter22"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, member, err := svc.Login("alice@icehc.club", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if member.Email != "alice@icehc.club" {
		t.Fatalf("wrong member returned: %s", member.Email)
	}

	if _, _, err := svc.Login("alice@icehc.club", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("bad password: err = %v", err)
	}
	if _, _, err := svc.Login("nobody@icehc.club", "hunter22"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v", err)
	}
}

func TestLoginBlockedAccounts(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if err := svc.Register(&model.Member{Name: "alice", Email: "alice@icehc.club", Password: "hunter22"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Pending members may log in; they just stay on the public surface.
	if _, _, err := svc.Login("alice@icehc.club", "hunter22"); err != nil {
		t.Fatalf("pending login: %v", err)
	}

	db.Model(&model.Member{}).Where("email = ?", "alice@icehc.club").Update("status", model.StatusRejected)
	if _, _, err := svc.Login("alice@icehc.club", "hunter22"); !errors.Is(err, util.ErrMemberNotApproved) {
		t.Fatalf("rejected login: err = %v", err)
	}

	db.Model(&model.Member{}).Where("email = ?", "alice@icehc.club").
		Updates(map[string]interface{}{"status": model.StatusApproved, "disabled": true})
	if _, _, err := svc.Login("alice@icehc.club", "hunter22"); !errors.Is(err, util.ErrMemberDisabled) {
		t.Fatalf("disabled login: err = %v", err)
	}
}
