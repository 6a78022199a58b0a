package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

// BookingOverlapConstraint is the PostgreSQL exclusion constraint that keeps
// active bookings of a room from overlapping.
const BookingOverlapConstraint = "bookings_no_active_overlap"

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("🔄 running database migrations")
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.Payment{},
		&models.OTPRecord{},
		&models.Admin{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() == DriverPostgres {
		if err := ensureOverlapConstraint(db); err != nil {
			return err
		}
	}

	logger.Info("✅ database migrations completed")
	return nil
}

func ensureOverlapConstraint(db *gorm.DB) error {
	var count int64
	err := db.Raw("SELECT count(*) FROM pg_constraint WHERE conname = ?", BookingOverlapConstraint).Scan(&count).Error
	if err != nil {
		return fmt.Errorf("lookup overlap constraint: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}
	stmt := fmt.Sprintf(`ALTER TABLE bookings ADD CONSTRAINT %s
		EXCLUDE USING gist (room_id WITH =, daterange(check_in, check_out, '[)') WITH &&)
		WHERE (status IN ('%s', '%s'))`,
		BookingOverlapConstraint, models.BookingStatusPending, models.BookingStatusConfirmed)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add overlap constraint: %w", err)
	}
	return nil
}
