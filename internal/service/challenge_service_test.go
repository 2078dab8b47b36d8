package service

import (
	"errors"
	"testing"

	"icehc_portal/internal/model"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/util"

	"gorm.io/gorm"
)

func newChallengeService(db *gorm.DB) *ChallengeService {
	return NewChallengeService(
		repository.NewChallengeRepository(db),
		repository.NewSubmissionRepository(db),
	)
}

func TestListForMemberHidesInactive(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	member := createMember(t, db, "alice", 0, model.StatusApproved)

	createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)
	createChallenge(t, db, "Unreleased", 500, "ICEHC{soon}", false)

	views, err := svc.ListForMember(member.ID)
	if err != nil {
		t.Fatalf("ListForMember: %v", err)
	}
	if len(views) != 1 || views[0].Title != "Web Starter" {
		t.Fatalf("member listing = %+v", views)
	}
}

func TestListForMemberMarksSolved(t *testing.T) {
	db := newTestDB(t)
	challengeSvc := newChallengeService(db)
	scoringSvc := newScoringService(db)
	member := createMember(t, db, "alice", 0, model.StatusApproved)

	solvedCh := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)
	createChallenge(t, db, "Rot In Peace", 250, "ICEHC{caesar}", true)

	if _, err := scoringSvc.SubmitFlag(member.ID, solvedCh.ID, "ICEHC{warmup}", ""); err != nil {
		t.Fatalf("SubmitFlag: %v", err)
	}

	views, err := challengeSvc.ListForMember(member.ID)
	if err != nil {
		t.Fatalf("ListForMember: %v", err)
	}
	for _, v := range views {
		wantSolved := v.ID == solvedCh.ID
		if v.Solved != wantSolved {
			t.Fatalf("challenge %s solved = %v, want %v", v.Title, v.Solved, wantSolved)
		}
	}
}

func TestGetForMemberTreatsInactiveAsMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	member := createMember(t, db, "alice", 0, model.StatusApproved)

	hidden := createChallenge(t, db, "Unreleased", 500, "ICEHC{soon}", false)
	if _, err := svc.GetForMember(member.ID, hidden.ID); !errors.Is(err, util.ErrChallengeNotFound) {
		t.Fatalf("inactive challenge: err = %v", err)
	}
	if _, err := svc.GetForMember(member.ID, 9999); !errors.Is(err, util.ErrChallengeNotFound) {
		t.Fatalf("missing challenge: err = %v", err)
	}
}

func TestUpdateKeepsFlagWhenBlank(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)

	ch := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	updated, err := svc.Update(ch.ID, ChallengeInput{
		Title:    "Web Starter v2",
		Category: model.CategoryWeb,
		Points:   150,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Flag != "ICEHC{warmup}" {
		t.Fatalf("blank input replaced the flag: %q", updated.Flag)
	}
	if updated.Title != "Web Starter v2" || updated.Points != 150 {
		t.Fatalf("metadata not updated: %+v", updated)
	}

	rotated, err := svc.Update(ch.ID, ChallengeInput{
		Title:    "Web Starter v2",
		Category: model.CategoryWeb,
		Points:   150,
		Flag:     "ICEHC{rotated}",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("rotate flag: %v", err)
	}
	if rotated.Flag != "ICEHC{rotated}" {
		t.Fatalf("flag not rotated: %q", rotated.Flag)
	}
}

// Retiring a challenge must not claw back points already awarded.
func TestDeletePreservesAwardedPoints(t *testing.T) {
	db := newTestDB(t)
	challengeSvc := newChallengeService(db)
	scoringSvc := newScoringService(db)

	member := createMember(t, db, "alice", 0, model.StatusApproved)
	ch := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	if _, err := scoringSvc.SubmitFlag(member.ID, ch.ID, "ICEHC{warmup}", ""); err != nil {
		t.Fatalf("SubmitFlag: %v", err)
	}
	if err := challengeSvc.Delete(ch.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var updated model.Member
	db.First(&updated, member.ID)
	if updated.Points != 100 {
		t.Fatalf("points after delete = %d, want 100", updated.Points)
	}

	sum, err := scoringSvc.SubmissionRepo.SumAwarded(member.ID)
	if err != nil {
		t.Fatalf("SumAwarded: %v", err)
	}
	if sum != 100 {
		t.Fatalf("awarded sum after delete = %d, want 100", sum)
	}
}

func TestListAdminFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)

	createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)
	createChallenge(t, db, "Web Advanced", 400, "ICEHC{deep}", false)

	active := true
	rows, total, err := svc.ListAdmin(1, 20, repository.ChallengeFilter{Active: &active})
	if err != nil {
		t.Fatalf("ListAdmin: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Title != "Web Starter" {
		t.Fatalf("active filter = %+v, total %d", rows, total)
	}

	rows, total, err = svc.ListAdmin(1, 20, repository.ChallengeFilter{Keyword: "Advanced"})
	if err != nil {
		t.Fatalf("ListAdmin keyword: %v", err)
	}
	if total != 1 || rows[0].Title != "Web Advanced" {
		t.Fatalf("keyword filter = %+v, total %d", rows, total)
	}
}
