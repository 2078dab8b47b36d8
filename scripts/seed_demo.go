// Seeds a handful of demo challenges so a fresh deployment has something to
// solve. Safe to run repeatedly: existing titles are skipped.
//
// Usage: go run scripts/seed_demo.go

package main

import (
	"errors"
	"log"

	"icehc_portal/internal/config"
	"icehc_portal/internal/model"
	"icehc_portal/pkg/database"
	"icehc_portal/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	challenges := []model.Challenge{
		{
			Title:       "Web Starter",
			Description: "Poke around the demo site until something leaks.",
			Category:    model.CategoryWeb,
			Difficulty:  model.DifficultyEasy,
			Points:      100,
			Flag:        "ICEHC{warmup}",
			IsActive:    true,
		},
		{
			Title:       "Lost in Hexdump",
			Description: "Someone hid a message in this disk image.",
			Category:    model.CategoryForensics,
			Difficulty:  model.DifficultyMedium,
			Points:      250,
			Flag:        "ICEHC{strings_is_not_enough}",
			IsActive:    true,
		},
		{
			Title:       "Rot In Peace",
			Description: "A cipher older than the club itself.",
			Category:    model.CategoryCrypto,
			Difficulty:  model.DifficultyEasy,
			Points:      100,
			Flag:        "ICEHC{caesar_salad}",
			IsActive:    true,
		},
		{
			Title:       "Stack Attack",
			Description: "The binary trusts its input a little too much.",
			Category:    model.CategoryPwn,
			Difficulty:  model.DifficultyHard,
			Points:      500,
			Flag:        "ICEHC{smashing_good_time}",
			IsActive:    false,
		},
	}

	seeded := 0
	for _, ch := range challenges {
		var existing model.Challenge
		err := db.Where("title = ?", ch.Title).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check challenge %q: %v", ch.Title, err)
		}
		if err := db.Create(&ch).Error; err != nil {
			log.Fatalf("Failed to seed challenge %q: %v", ch.Title, err)
		}
		seeded++
	}

	log.Printf("Done, %d challenge(s) seeded", seeded)
}
