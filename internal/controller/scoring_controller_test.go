package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/service"
	"icehc_portal/internal/util"
	"icehc_portal/pkg/database"
	"icehc_portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newScoringRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
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

	scoringSvc := service.NewScoringService(
		db,
		repository.NewMemberRepository(db),
		repository.NewChallengeRepository(db),
		repository.NewSubmissionRepository(db),
		nil,
	)
	ctrl := NewScoringController(scoringSvc)

	router := gin.New()
	router.POST("/api/challenges/submit", func(c *gin.Context) {
		var member model.Member
		if err := db.First(&member).Error; err == nil {
			c.Set("member", &util.Claims{
				MemberID: member.ID,
				Role:     member.Role,
				Status:   member.Status,
				Email:    member.Email,
			})
		}
		ctrl.SubmitFlag(c)
	})
	return router, db
}

func submitFlag(t *testing.T, router *gin.Engine, challengeID uint, flag string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(SubmitFlagRequest{ChallengeID: challengeID, Flag: flag})
	req := httptest.NewRequest(http.MethodPost, "/api/challenges/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitFlagStatusCodes(t *testing.T) {
	router, db := newScoringRouter(t)

	member := model.Member{
		Name:     "alice",
		Email:    "alice@icehc.club",
		Password: "irrelevant",
		Role:     model.RoleMember,
		Status:   model.StatusApproved,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}

	active := model.Challenge{
		Title:    "Web Starter",
		Category: model.CategoryWeb,
		Points:   100,
		Flag:     "ICEHC{warmup}",
		IsActive: true,
	}
	inactive := model.Challenge{
		Title:    "Unreleased",
		Category: model.CategoryPwn,
		Points:   500,
		Flag:     "ICEHC{soon}",
		IsActive: false,
	}
	for _, ch := range []*model.Challenge{&active, &inactive} {
		if err := db.Create(ch).Error; err != nil {
			t.Fatalf("create challenge %s: %v", ch.Title, err)
		}
	}

	for _, tc := range []struct {
		name        string
		challengeID uint
		flag        string
		wantStatus  int
	}{
		{"correct flag", active.ID, "ICEHC{warmup}", http.StatusOK},
		{"resubmit is not an error", active.ID, "ICEHC{warmup}", http.StatusOK},
		{"wrong flag is not an error", active.ID, "ICEHC{nope}", http.StatusOK},
		{"inactive challenge is forbidden", inactive.ID, "ICEHC{soon}", http.StatusForbidden},
		{"unknown challenge", 9999, "ICEHC{warmup}", http.StatusNotFound},
		{"empty flag fails validation", active.ID, "", http.StatusBadRequest},
	} {
		rec := submitFlag(t, router, tc.challengeID, tc.flag)
		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d (body %s)", tc.name, rec.Code, tc.wantStatus, rec.Body.String())
		}
	}
}

func TestSubmitFlagForbiddenForUnapproved(t *testing.T) {
	router, db := newScoringRouter(t)

	member := model.Member{
		Name:     "pending",
		Email:    "pending@icehc.club",
		Password: "irrelevant",
		Role:     model.RoleMember,
		Status:   model.StatusPending,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	challenge := model.Challenge{
		Title:    "Web Starter",
		Category: model.CategoryWeb,
		Points:   100,
		Flag:     "ICEHC{warmup}",
		IsActive: true,
	}
	if err := db.Create(&challenge).Error; err != nil {
		t.Fatalf("create challenge: %v", err)
	}

	rec := submitFlag(t, router, challenge.ID, "ICEHC{warmup}")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("pending member submit: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	var resp util.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != http.StatusForbidden {
		t.Fatalf("envelope code = %d, want %d", resp.Code, http.StatusForbidden)
	}
}
