package bootstrap

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/leadscore/internal/config"
	"github.com/scoutline/leadscore/internal/database"
	infralogger "github.com/scoutline/leadscore/internal/infra/logger"
)

// DatabaseComponents holds database connection and repositories.
type DatabaseComponents struct {
	DB           *sqlx.DB
	PostingsRepo *database.PostingsRepository
	LeadsRepo    *database.LeadsRepository
}

// SetupDatabase creates database connection and repositories.
func SetupDatabase(cfg *config.Config, logger infralogger.Logger) (*DatabaseComponents, error) {
	dbPort := strconv.Itoa(cfg.Database.Port)
	if cfg.Database.Port == 0 {
		dbPort = "5432"
	}

	dbConfig := database.Config{
		Host:            cfg.Database.Host,
		Port:            dbPort,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	if dbConfig.Host == "" {
		dbConfig.Host = "localhost"
	}
	if dbConfig.User == "" {
		dbConfig.User = "postgres"
	}
	if dbConfig.DBName == "" {
		dbConfig.DBName = "leadscore"
	}
	if dbConfig.SSLMode == "" {
		dbConfig.SSLMode = "disable"
	}

	logger.Info("Connecting to PostgreSQL database",
		infralogger.String("host", dbConfig.Host),
		infralogger.String("port", dbConfig.Port),
		infralogger.String("database", dbConfig.DBName),
	)

	db, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:           db,
		PostingsRepo: database.NewPostingsRepository(db),
		LeadsRepo:    database.NewLeadsRepository(db),
	}, nil
}
