package service

import (
	"errors"
	"testing"

	"icehc_portal/internal/model"
	"icehc_portal/internal/util"
)

func TestRankStrictOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	first := createMember(t, db, "alice", 300, model.StatusApproved)
	second := createMember(t, db, "bob", 200, model.StatusApproved)
	third := createMember(t, db, "carol", 100, model.StatusApproved)

	for _, tc := range []struct {
		member *model.Member
		want   int
	}{
		{first, 1},
		{second, 2},
		{third, 3},
	} {
		rank, _, err := svc.RankOf(tc.member.ID)
		if err != nil {
			t.Fatalf("RankOf(%s): %v", tc.member.Name, err)
		}
		if rank != tc.want {
			t.Fatalf("rank of %s = %d, want %d", tc.member.Name, rank, tc.want)
		}
	}
}

func TestRankTiesShareRank(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	createMember(t, db, "alice", 300, model.StatusApproved)
	tiedA := createMember(t, db, "bob", 200, model.StatusApproved)
	tiedB := createMember(t, db, "carol", 200, model.StatusApproved)
	trailing := createMember(t, db, "dave", 100, model.StatusApproved)

	rankA, _, _ := svc.RankOf(tiedA.ID)
	rankB, _, _ := svc.RankOf(tiedB.ID)
	if rankA != 2 || rankB != 2 {
		t.Fatalf("tied ranks = %d, %d, want 2, 2", rankA, rankB)
	}

	// Two members at rank 2 push the next one to rank 4.
	rankTrailing, _, _ := svc.RankOf(trailing.ID)
	if rankTrailing != 4 {
		t.Fatalf("trailing rank = %d, want 4", rankTrailing)
	}
}

func TestRankExcludesUnapproved(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	createMember(t, db, "pending", 999, model.StatusPending)
	createMember(t, db, "rejected", 999, model.StatusRejected)
	approved := createMember(t, db, "alice", 100, model.StatusApproved)

	rank, _, err := svc.RankOf(approved.ID)
	if err != nil {
		t.Fatalf("RankOf: %v", err)
	}
	if rank != 1 {
		t.Fatalf("rank = %d, unapproved members must not count", rank)
	}

	if _, _, err := svc.RankOf(createMember(t, db, "newbie", 0, model.StatusPending).ID); !errors.Is(err, util.ErrMemberNotApproved) {
		t.Fatalf("pending member rank: err = %v", err)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	rows, total, err := svc.Leaderboard(1, 25)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("empty leaderboard returned %d rows, total %d", len(rows), total)
	}
}

func TestLeaderboardOrderAndRanks(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	createMember(t, db, "alice", 300, model.StatusApproved)
	createMember(t, db, "bob", 200, model.StatusApproved)
	createMember(t, db, "carol", 200, model.StatusApproved)
	createMember(t, db, "dave", 100, model.StatusApproved)

	rows, total, err := svc.Leaderboard(1, 25)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if total != 4 || len(rows) != 4 {
		t.Fatalf("rows = %d, total = %d", len(rows), total)
	}

	wantRanks := []int{1, 2, 2, 4}
	wantPoints := []int{300, 200, 200, 100}
	for i, row := range rows {
		if row.Rank != wantRanks[i] || row.Points != wantPoints[i] {
			t.Fatalf("row %d = rank %d points %d, want rank %d points %d",
				i, row.Rank, row.Points, wantRanks[i], wantPoints[i])
		}
	}
}

// Ranks on later pages must agree with what the full ordering implies,
// including ties spanning a page boundary.
func TestLeaderboardPageBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	createMember(t, db, "alice", 300, model.StatusApproved)
	createMember(t, db, "bob", 200, model.StatusApproved)
	createMember(t, db, "carol", 200, model.StatusApproved)
	createMember(t, db, "dave", 100, model.StatusApproved)

	page2, _, err := svc.Leaderboard(2, 2)
	if err != nil {
		t.Fatalf("Leaderboard page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page 2 rows = %d, want 2", len(page2))
	}
	// carol ties bob (rank 2) even though she opens page 2; dave is rank 4.
	if page2[0].Rank != 2 || page2[0].Points != 200 {
		t.Fatalf("page 2 first row = rank %d points %d, want rank 2 points 200", page2[0].Rank, page2[0].Points)
	}
	if page2[1].Rank != 4 || page2[1].Points != 100 {
		t.Fatalf("page 2 second row = rank %d points %d, want rank 4 points 100", page2[1].Rank, page2[1].Points)
	}
}

// Solving a challenge must never worsen anyone's rank.
func TestRankMonotonicity(t *testing.T) {
	db := newTestDB(t)
	memberSvc := newMemberService(db)
	scoringSvc := newScoringService(db)

	climber := createMember(t, db, "alice", 100, model.StatusApproved)
	bystander := createMember(t, db, "bob", 150, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)

	beforeClimber, _, _ := memberSvc.RankOf(climber.ID)
	beforeBystander, _, _ := memberSvc.RankOf(bystander.ID)

	if _, err := scoringSvc.SubmitFlag(climber.ID, challenge.ID, "ICEHC{warmup}", ""); err != nil {
		t.Fatalf("SubmitFlag: %v", err)
	}

	afterClimber, _, _ := memberSvc.RankOf(climber.ID)
	if afterClimber > beforeClimber {
		t.Fatalf("solver's rank worsened: %d -> %d", beforeClimber, afterClimber)
	}
	if afterClimber != 1 {
		t.Fatalf("solver rank = %d, want 1 at 200 points", afterClimber)
	}

	afterBystander, _, _ := memberSvc.RankOf(bystander.ID)
	if afterBystander != beforeBystander+1 {
		t.Fatalf("bystander rank = %d, want %d", afterBystander, beforeBystander+1)
	}
}

func TestResetPointsRepairsDrift(t *testing.T) {
	db := newTestDB(t)
	memberSvc := newMemberService(db)
	scoringSvc := newScoringService(db)

	member := createMember(t, db, "alice", 0, model.StatusApproved)
	challenge := createChallenge(t, db, "Web Starter", 100, "ICEHC{warmup}", true)
	scoringSvc.SubmitFlag(member.ID, challenge.ID, "ICEHC{warmup}", "")

	// Simulate manual surgery on the points column.
	db.Model(&model.Member{}).Where("id = ?", member.ID).Update("points", 9000)

	repaired, err := memberSvc.ResetPoints(member.ID)
	if err != nil {
		t.Fatalf("ResetPoints: %v", err)
	}
	if repaired.Points != 100 {
		t.Fatalf("points after reset = %d, want 100", repaired.Points)
	}
}

func TestSetRoleGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberService(db)

	root := createMember(t, db, "root", 0, model.StatusApproved)
	db.Model(&model.Member{}).Where("id = ?", root.ID).Update("role", model.RoleSuperadmin)
	target := createMember(t, db, "alice", 0, model.StatusApproved)

	adminClaims := &util.Claims{MemberID: target.ID, Role: model.RoleAdmin}
	if _, err := svc.SetRole(adminClaims, target.ID, model.RoleAdmin); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("admin granting roles: err = %v", err)
	}

	rootClaims := &util.Claims{MemberID: root.ID, Role: model.RoleSuperadmin}
	promoted, err := svc.SetRole(rootClaims, target.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("superadmin promote: %v", err)
	}
	if promoted.Role != model.RoleAdmin {
		t.Fatalf("role = %s, want admin", promoted.Role)
	}

	// The last superadmin cannot be demoted.
	if _, err := svc.SetRole(rootClaims, root.ID, model.RoleMember); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("demoting last superadmin: err = %v", err)
	}
}
