package model

type ChallengeCategory string

const (
	CategoryWeb       ChallengeCategory = "web"
	CategoryForensics ChallengeCategory = "forensics"
	CategoryCrypto    ChallengeCategory = "crypto"
	CategoryPwn       ChallengeCategory = "pwn"
	CategoryReversing ChallengeCategory = "reversing"
	CategoryOSINT     ChallengeCategory = "osint"
	CategoryMisc      ChallengeCategory = "misc"
)

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "easy"
	DifficultyMedium ChallengeDifficulty = "medium"
	DifficultyHard   ChallengeDifficulty = "hard"
	DifficultyInsane ChallengeDifficulty = "insane"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title       string              `gorm:"size:100;unique;not null" json:"title"`
	Description string              `gorm:"type:text" json:"description"`
	Category    ChallengeCategory   `gorm:"size:20;index;not null" json:"category"`
	Difficulty  ChallengeDifficulty `gorm:"size:20;default:'medium'" json:"difficulty"`
	Points      int                 `gorm:"not null" json:"points"`
	// Flag is the stored secret, compared byte-for-byte against submissions.
	// Never serialized into member-facing payloads.
	Flag       string `gorm:"size:255;not null" json:"-"`
	IsActive   bool   `gorm:"default:false;index" json:"isActive"`
	AuthorID   uint   `gorm:"index" json:"authorId"`
	SolveCount int    `gorm:"default:0" json:"solveCount"`
}

func (Challenge) TableName() string {
	return "challenges"
}
