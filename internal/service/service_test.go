package service

import (
	"fmt"
	"testing"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/pkg/database"
	"icehc_portal/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the production
// schema. A single connection keeps the in-memory store alive and
// serializes concurrent access the way the tests expect.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createMember(t *testing.T, db *gorm.DB, name string, points int, status model.MemberStatus) *model.Member {
	t.Helper()
	member := &model.Member{
		Name:     name,
		Email:    fmt.Sprintf("%s@icehc.club", name),
		Password: "irrelevant",
		Role:     model.RoleMember,
		Status:   status,
		Points:   points,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("create member %s: %v", name, err)
	}
	return member
}

func createChallenge(t *testing.T, db *gorm.DB, title string, points int, flag string, active bool) *model.Challenge {
	t.Helper()
	challenge := &model.Challenge{
		Title:      title,
		Category:   model.CategoryWeb,
		Difficulty: model.DifficultyEasy,
		Points:     points,
		Flag:       flag,
		IsActive:   active,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("create challenge %s: %v", title, err)
	}
	return challenge
}

func newScoringService(db *gorm.DB) *ScoringService {
	return NewScoringService(
		db,
		repository.NewMemberRepository(db),
		repository.NewChallengeRepository(db),
		repository.NewSubmissionRepository(db),
		nil,
	)
}

func newMemberService(db *gorm.DB) *MemberService {
	return NewMemberService(
		repository.NewMemberRepository(db),
		repository.NewSubmissionRepository(db),
	)
}
