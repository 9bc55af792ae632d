package database

import (
	"fmt"
	"log"

	"github.com/SVIGHNESH/MacQuiz/internal/config"
	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the attempt start race guard relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Quiz{},
		&models.Question{},
		&models.QuestionBankItem{},
		&models.QuizAssignment{},
		&models.QuizAttempt{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// At most one in-progress attempt per (quiz, student). AutoMigrate
	// cannot express a partial index, so create it directly. Completed
	// attempts are exempt: staff previews accumulate finished rows.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_attempt
		ON quiz_attempts (quiz_id, student_id)
		WHERE is_completed = false`)

	log.Println("database migrated")
}
