package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// At most one upcoming booking per barber, date and time. Completed and
// cancelled rows do not hold the slot.
const upcomingSlotIndexSQL = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_upcoming_slot
	ON bookings (barber_id, date, time)
	WHERE status = 'upcoming'
`

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Barber{},
		&models.WorkingHours{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := db.Exec(upcomingSlotIndexSQL).Error; err != nil {
		log.Fatalf("failed to create booking slot index: %v", err)
	}

	return db
}
