package model

// swagger:model Announcement
type Announcement struct {
	UUIDBase
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"index" json:"authorId"`
	Author   Member `gorm:"foreignKey:AuthorID" json:"author"`
	IsPinned bool   `gorm:"default:false" json:"isPinned"`
	Views    int    `gorm:"default:0" json:"views"`
}

func (Announcement) TableName() string {
	return "announcements"
}
