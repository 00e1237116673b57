package database

import (
	"classlink_backend/internal/config"
	"classlink_backend/internal/model"
	"fmt"
	"log"

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
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.ParentStudentRelation{},
		&model.StudentLinkingCode{},
		&model.ClassroomCredential{},
		&model.ClassroomCourse{},
		&model.ClassroomCoursework{},
		&model.ClassroomSubmission{},
		&model.SyncLog{},
		&model.Quiz{},
		&model.QuizResult{},
		&model.CalendarEvent{},
		&model.HomeworkReview{},
		&model.Message{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
