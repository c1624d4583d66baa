package cmd

import (
	"fmt"

	"github.com/frahmantamala/hr-records/internal"
	absenceDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/absence"
	accountDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/account"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	feedbackDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/feedback"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// stores shares one connection pool between gorm (records) and sqlx
// (accounts, health ping).
type stores struct {
	Gorm *gorm.DB
	SQL  *sqlx.DB
}

func (s *stores) Close() error {
	return s.SQL.Close()
}

// openStores connects to the configured database. The sqlite driver is for
// local development and creates its schema with AutoMigrate; postgres relies
// on the goose migrations.
func openStores(cfg internal.DatabaseConfig) (*stores, error) {
	var (
		dialector gorm.Dialector
		sqlDriver string
	)
	switch cfg.GetDriver() {
	case internal.DriverSQLite:
		dialector, sqlDriver = sqlite.Open(cfg.GetDSN()), "sqlite3"
	default:
		dialector, sqlDriver = postgres.Open(cfg.GetDSN()), "pgx"
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.GetDriver() == internal.DriverSQLite {
		if err := gdb.AutoMigrate(
			&accountDatamodel.Account{},
			&employeeDatamodel.Employee{},
			&absenceDatamodel.Absence{},
			&feedbackDatamodel.Feedback{},
		); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	return &stores{Gorm: gdb, SQL: sqlx.NewDb(sqlDB, sqlDriver)}, nil
}
