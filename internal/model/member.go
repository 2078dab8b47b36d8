package model

import (
	"time"
)

type MemberRole string

const (
	RoleMember     MemberRole = "member"
	RoleAdmin      MemberRole = "admin"
	RoleSuperadmin MemberRole = "superadmin"
)

// roleLevels orders roles by privilege so guards compare levels instead of
// matching ad hoc string lists per view.
var roleLevels = map[MemberRole]int{
	RoleMember:     1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// AtLeast reports whether r carries at least the privileges of required.
func (r MemberRole) AtLeast(required MemberRole) bool {
	return roleLevels[r] >= roleLevels[required]
}

type MemberStatus string

const (
	StatusPending  MemberStatus = "pending"
	StatusApproved MemberStatus = "approved"
	StatusRejected MemberStatus = "rejected"
)

// swagger:model Member
type Member struct {
	BaseModel
	Name          string       `gorm:"size:100;not null" json:"name"`
	Email         string       `gorm:"size:100;unique;not null" json:"email"`
	Password      string       `gorm:"size:100;not null" json:"-"`
	Role          MemberRole   `gorm:"size:20;default:'member'" json:"role"`
	Status        MemberStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	Points        int          `gorm:"default:0;index" json:"points"` // solved-challenge points, only ever incremented atomically
	Bio           string       `gorm:"type:text" json:"bio"`
	Avatar        string       `gorm:"size:255" json:"avatar"`
	Skills        string       `gorm:"size:255" json:"skills"` // comma-joined
	GithubURL     string       `gorm:"size:255" json:"githubUrl"`
	DiscordHandle string       `gorm:"size:100" json:"discordHandle"`
	Disabled      bool         `gorm:"default:false" json:"disabled"`
	LastLogin     time.Time    `json:"lastLogin"`
	LastSeen      time.Time    `json:"lastSeen"`
}

func (Member) TableName() string {
	return "members"
}
