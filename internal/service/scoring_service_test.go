package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"icehc_portal/internal/model"
	"icehc_portal/internal/util"
)

func TestSubmitFlagCorrect(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "alice", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	result, err := svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "10.0.0.1")
	if err != nil {
		t.Fatalf("SubmitFlag: %v", err)
	}
	if !result.Accepted || result.AlreadySolved || result.PointsAwarded != 100 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var updated model.Member
	if err := db.First(&updated, member.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if updated.Points != 100 {
		t.Fatalf("points = %d, want 100", updated.Points)
	}

	var refreshed model.Challenge
	if err := db.First(&refreshed, challenge.ID).Error; err != nil {
		t.Fatalf("reload challenge: %v", err)
	}
	if refreshed.SolveCount != 1 {
		t.Fatalf("solve count = %d, want 1", refreshed.SolveCount)
	}
}

func TestSubmitFlagWrong(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "bob", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	result, err := svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{wrong}", "")
	if err != nil {
		t.Fatalf("SubmitFlag: %v", err)
	}
	if result.Accepted || result.AlreadySolved || result.PointsAwarded != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var updated model.Member
	db.First(&updated, member.ID)
	if updated.Points != 0 {
		t.Fatalf("wrong flag changed points to %d", updated.Points)
	}
}

func TestSubmitFlagCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "carol", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	result, err := svc.SubmitFlag(member.ID, challenge.ID, "icehc{WARMUP}", "")
	if err != nil {
		t.Fatalf("SubmitFlag: %v", err)
	}
	if result.Accepted {
		t.Fatal("case-mangled flag was accepted")
	}
}

func TestSubmitFlagIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "dave", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	first, err := svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "")
	if err != nil || !first.Accepted {
		t.Fatalf("first submit: result=%+v err=%v", first, err)
	}

	second, err := svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Accepted || !second.AlreadySolved || second.PointsAwarded != 0 {
		t.Fatalf("resubmit awarded again: %+v", second)
	}

	var updated model.Member
	db.First(&updated, member.ID)
	if updated.Points != 100 {
		t.Fatalf("points = %d after resubmit, want 100", updated.Points)
	}
}

func TestSubmitFlagConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "eve", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	const attempts = 8
	results := make([]*SubmitResult, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "")
		}(i)
	}
	wg.Wait()

	accepted := 0
	for i := 0; i < attempts; i++ {
		if errs[i] != nil {
			t.Fatalf("attempt %d: %v", i, errs[i])
		}
		if results[i].Accepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("accepted %d concurrent submits, want exactly 1", accepted)
	}

	var updated model.Member
	db.First(&updated, member.ID)
	if updated.Points != 100 {
		t.Fatalf("points = %d after concurrent submits, want 100", updated.Points)
	}

	var solves int64
	db.Model(&model.Submission{}).Where("member_id = ?", member.ID).Count(&solves)
	if solves != 1 {
		t.Fatalf("counted solves = %d, want 1", solves)
	}
}

func TestSubmitFlagValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	approved := createMember(t, db, "frank", 0, model.StatusApproved)
	pending := createMember(t, db, "grace", 0, model.StatusPending)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)
	inactive := createChallenge(t, db, "Retired", 200, "ICEHC{gone}", false)

	if _, err := svc.SubmitFlag(approved.ID, challenge.ID, "", ""); !errors.Is(err, util.ErrEmptyFlag) {
		t.Fatalf("empty flag: err = %v", err)
	}
	// Input validation comes first; an empty flag against a missing
	// challenge is still a validation failure, not a lookup failure.
	if _, err := svc.SubmitFlag(approved.ID, 9999, "", ""); !errors.Is(err, util.ErrEmptyFlag) {
		t.Fatalf("empty flag on missing challenge: err = %v", err)
	}
	if _, err := svc.SubmitFlag(pending.ID, challenge.ID, "ICEHC{warmup}", ""); !errors.Is(err, util.ErrMemberNotApproved) {
		t.Fatalf("pending member: err = %v", err)
	}
	if _, err := svc.SubmitFlag(approved.ID, inactive.ID, "ICEHC{gone}", ""); !errors.Is(err, util.ErrChallengeInactive) {
		t.Fatalf("inactive challenge: err = %v", err)
	}
	if _, err := svc.SubmitFlag(approved.ID, 9999, "ICEHC{warmup}", ""); !errors.Is(err, util.ErrChallengeNotFound) {
		t.Fatalf("missing challenge: err = %v", err)
	}

	disabled := createMember(t, db, "mallory", 0, model.StatusApproved)
	db.Model(&model.Member{}).Where("id = ?", disabled.ID).Update("disabled", true)
	if _, err := svc.SubmitFlag(disabled.ID, challenge.ID, "ICEHC{warmup}", ""); !errors.Is(err, util.ErrMemberDisabled) {
		t.Fatalf("disabled member: err = %v", err)
	}
}

// Points must always equal the sum of counted solves, whatever the mix of
// correct, wrong and duplicate submissions.
func TestPointsConservation(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "heidi", 0, model.StatusApproved)
	web := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)
	crypto := createChallenge(t, db, "Rot In Peace", 250, "ICEHC{caesar}", true)

	svc.SubmitFlag(member.ID, web.ID, "ICEHC{nope}", "")
	svc.SubmitFlag(member.ID, web.ID, "ICEHC{warmup}", "")
	svc.SubmitFlag(member.ID, web.ID, "ICEHC{warmup}", "")
	svc.SubmitFlag(member.ID, crypto.ID, "ICEHC{caesar}", "")

	var updated model.Member
	db.First(&updated, member.ID)

	sum, err := svc.SubmissionRepo.SumAwarded(member.ID)
	if err != nil {
		t.Fatalf("SumAwarded: %v", err)
	}
	if updated.Points != sum {
		t.Fatalf("points %d != awarded sum %d", updated.Points, sum)
	}
	if updated.Points != 350 {
		t.Fatalf("points = %d, want 350", updated.Points)
	}
}

func TestSubmissionAudit(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "ivan", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{nope}", "203.0.113.7")
	svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "203.0.113.7")
	svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "203.0.113.7")

	logs, total, err := svc.SubmissionLogs(1, 10, challenge.ID)
	if err != nil {
		t.Fatalf("SubmissionLogs: %v", err)
	}
	if total != 3 {
		t.Fatalf("audit rows = %d, want 3", total)
	}

	counts := map[model.AttemptResult]int{}
	for _, entry := range logs {
		counts[entry.Result]++
	}
	if counts[model.AttemptWrong] != 1 || counts[model.AttemptCorrect] != 1 || counts[model.AttemptDuplicate] != 1 {
		t.Fatalf("unexpected audit mix: %v", counts)
	}
}

func TestTrimFeedKeepsNewest(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := model.SolveFeedEntry{
			MemberID:       1,
			MemberName:     "alice",
			ChallengeID:    uint(i + 1),
			ChallengeTitle: fmt.Sprintf("Challenge %d", i+1),
			Points:         100,
			SolvedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("seed feed entry %d: %v", i, err)
		}
	}

	if err := svc.SubmissionRepo.TrimFeed(3); err != nil {
		t.Fatalf("TrimFeed: %v", err)
	}

	var remaining []model.SolveFeedEntry
	if err := db.Order("solved_at ASC").Find(&remaining).Error; err != nil {
		t.Fatalf("reload feed: %v", err)
	}
	if len(remaining) != 3 {
		t.Fatalf("feed rows = %d, want 3", len(remaining))
	}
	// The oldest two entries are the ones removed.
	if remaining[0].ChallengeID != 3 {
		t.Fatalf("oldest surviving entry = challenge %d, want 3", remaining[0].ChallengeID)
	}

	// Under the bound the trim is a no-op.
	if err := svc.SubmissionRepo.TrimFeed(10); err != nil {
		t.Fatalf("TrimFeed under bound: %v", err)
	}
	var count int64
	db.Model(&model.SolveFeedEntry{}).Count(&count)
	if count != 3 {
		t.Fatalf("feed rows after no-op trim = %d", count)
	}
}

func TestSolveFeed(t *testing.T) {
	db := newTestDB(t)
	svc := newScoringService(db)

	member := createMember(t, db, "judy", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	svc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "")

	feed, err := svc.SolveFeed(10)
	if err != nil {
		t.Fatalf("SolveFeed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
	if feed[0].MemberName != "judy" || feed[0].ChallengeTitle != "Web Starter" || feed[0].Points != 100 {
		t.Fatalf("unexpected feed entry: %+v", feed[0])
	}
}
