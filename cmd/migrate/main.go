package main

import (
	"log"

	"doccoder-be/internal/config"
	"doccoder-be/internal/model"
	"doccoder-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Enabling pgvector...")
	if err := database.EnableVector(db); err != nil {
		log.Fatalf("Error: Failed to enable vector extension: %v", err)
	}

	models := []interface{}{
		&model.Document{},
		&model.DocumentChunk{},
		&model.GlossaryEntry{},
	}
	log.Printf("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// lookups by document and by term; no ANN index
	log.Println("Step 3: Creating indexes...")
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id ON document_chunks (document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_glossary_entries_user_term ON glossary_entries (user_id, lower(term))`,
	}
	for _, sql := range indexes {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v. Continuing...", err)
		}
	}

	log.Println("Migration completed successfully")
}
