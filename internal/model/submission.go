package model

import (
	"time"
)

// Submission is a counted correct solve. The composite unique index is the
// storage-level guarantee that a member is credited at most once per
// challenge, including under concurrent submits.
type Submission struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID      uint      `gorm:"uniqueIndex:idx_member_challenge;not null" json:"memberId"`
	ChallengeID   uint      `gorm:"uniqueIndex:idx_member_challenge;not null" json:"challengeId"`
	PointsAwarded int       `gorm:"not null" json:"pointsAwarded"`
	SolvedAt      time.Time `gorm:"autoCreateTime" json:"solvedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

type AttemptResult string

const (
	AttemptCorrect   AttemptResult = "correct"
	AttemptWrong     AttemptResult = "wrong"
	AttemptDuplicate AttemptResult = "duplicate"
)

// SubmissionLog records every attempt for audit purposes. Rows are never
// mutated or deleted and never award points.
type SubmissionLog struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID      uint          `gorm:"index;not null" json:"memberId"`
	ChallengeID   uint          `gorm:"index;not null" json:"challengeId"`
	SubmittedFlag string        `gorm:"size:255;not null" json:"submittedFlag"`
	Result        AttemptResult `gorm:"size:20;not null" json:"result"`
	IPAddress     string        `gorm:"size:45" json:"ipAddress"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (SubmissionLog) TableName() string {
	return "submission_logs"
}

// SolveFeedEntry denormalizes recent solves for the dashboard ticker.
type SolveFeedEntry struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID       uint      `gorm:"not null" json:"memberId"`
	MemberName     string    `gorm:"size:100;not null" json:"memberName"`
	ChallengeID    uint      `gorm:"not null" json:"challengeId"`
	ChallengeTitle string    `gorm:"size:100;not null" json:"challengeTitle"`
	Points         int       `gorm:"not null" json:"points"`
	SolvedAt       time.Time `gorm:"autoCreateTime;index" json:"solvedAt"`
}

func (SolveFeedEntry) TableName() string {
	return "solve_feed"
}
