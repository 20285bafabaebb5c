package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/localnerve/storefront/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Prints the DDL gorm generates for the storefront models, using sqlite
func main() {
	var showSQL bool
	flag.BoolVar(&showSQL, "v", false, "log the migration statements")
	flag.Parse()

	level := logger.Silent
	if showSQL {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		log.Fatal(err)
	}

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	var tables []string
	if err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name").Scan(&tables).Error; err != nil {
		log.Fatal(err)
	}

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var ddl []string
		if err := db.Raw("SELECT sql FROM sqlite_master WHERE tbl_name = ? AND sql IS NOT NULL", table).Scan(&ddl).Error; err != nil {
			log.Fatal(err)
		}
		for _, stmt := range ddl {
			fmt.Println(stmt)
		}
	}
}
