package main

import (
	"fmt"
	"log"

	"game2048_backend/domain"
	"game2048_backend/internal/service/config"
	"game2048_backend/internal/service/dsn"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func migrate() (err error) {
	dbConfig, err := config.LoadDB()
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(dsn.FromConfig(dbConfig)), &gorm.Config{})
	if err != nil {
		return err
	}

	// gen_random_uuid() is built in from PostgreSQL 13; older servers need pgcrypto.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}

	err = db.AutoMigrate(&domain.User{})
	if err != nil {
		return err
	}
	fmt.Println("Database migrated")
	return nil
}

func main() {
	err := migrate()
	if err != nil {
		log.Fatal(err)
	}
}
