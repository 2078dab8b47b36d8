package model

// Document is a shared club file (writeups, slides, recordings). Deleted
// rows stay in the table via DeletedAt and form the trash; restore clears
// the marker.
// swagger:model Document
type Document struct {
	UUIDBase
	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	FileURL       string `gorm:"size:255;not null" json:"fileUrl"`
	FileSize      int64  `gorm:"default:0" json:"fileSize"`
	ContentType   string `gorm:"size:100" json:"contentType"`
	UploaderID    uint   `gorm:"index" json:"uploaderId"`
	Uploader      Member `gorm:"foreignKey:UploaderID" json:"uploader"`
	DownloadCount int    `gorm:"default:0" json:"downloadCount"`
}

func (Document) TableName() string {
	return "documents"
}
