package database

import (
	"fmt"
	"icehc_portal/internal/config"
	"icehc_portal/internal/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Unique-key violations become gorm.ErrDuplicatedKey so the
		// scoring flow can treat a lost race as "already solved".
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

// Migrate creates or updates the schema for every portal model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Member{},
		&model.Challenge{},
		&model.Submission{},
		&model.SubmissionLog{},
		&model.SolveFeedEntry{},
		&model.Announcement{},
		&model.Event{},
		&model.EventRSVP{},
		&model.Document{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.DirectMessage{},
		&model.Notification{},
	)
}

// seedDefaults inserts the bootstrap superadmin when the members table is
// empty, so a fresh deployment is reachable.
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.Member{}).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("change-me-now"), bcrypt.DefaultCost)
		if err != nil {
			return
		}
		root := &model.Member{
			Name:     "ICEHC Root",
			Email:    "root@icehc.club",
			Password: string(hashed),
			Role:     model.RoleSuperadmin,
			Status:   model.StatusApproved,
		}
		db.Create(root)
		log.Println("Seeded bootstrap superadmin root@icehc.club")
	}
}
