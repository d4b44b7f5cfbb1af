package db

import (
	"fmt"
	"log"
	"os"

	"robolab/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Component{},
		&models.BorrowRequest{},
		&models.Notification{},
		&models.LoginSession{},
	); err != nil {
		return err
	}

	// 审批队列按组件查 pending 最频繁
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_by_component
	  ON %s (component_id)
	  WHERE status = 'pending';
	`, models.RequestTable, models.RequestTable)).Error; err != nil {
		return err
	}

	// 逾期扫描只看 approved 的到期时间
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_approved_due
	  ON %s (due_date)
	  WHERE status = 'approved';
	`, models.RequestTable, models.RequestTable)).Error; err != nil {
		return err
	}

	return nil
}
