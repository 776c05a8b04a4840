package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/project-tracker/internal/models"
)

// Models lists every table in dependency order.
var Models = []interface{}{
	&models.User{},
	&models.Project{},
	&models.ProjectMember{},
	&models.Task{},
}

// Options tunes the persistence context.
type Options struct {
	Debug         bool
	SlowThreshold time.Duration
	MaxOpenConns  int
}

// Open builds a persistence context for databaseURL. The dialect is picked from
// the URL scheme: postgres://, mysql://, or sqlite:// / file: / :memory:.
func Open(databaseURL string, log *zap.Logger, opts Options) (*gorm.DB, error) {
	dialector, err := Dialector(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, opts),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if isMemorySQLite(databaseURL) {
		// every new connection to :memory: would see an empty database
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("Database connection established", zap.String("dialect", dialector.Name()))
	return db, nil
}

// Dialector maps a database URL to the matching GORM driver.
func Dialector(databaseURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "mysql://"):
		return mysql.Open(mysqlDSN(strings.TrimPrefix(databaseURL, "mysql://"))), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(sqliteDSN(strings.TrimPrefix(databaseURL, "sqlite://"))), nil
	case strings.HasPrefix(databaseURL, "file:"), databaseURL == ":memory:":
		return sqlite.Open(sqliteDSN(databaseURL)), nil
	default:
		return nil, fmt.Errorf("unsupported database url %q", databaseURL)
	}
}

// Migrate creates or updates the tables for all models.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Synchronising database schema")
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database schema ready")
	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mysqlDSN turns user:pass@host:port/name into the go-sql-driver form.
func mysqlDSN(rest string) string {
	creds, hostAndDB, found := strings.Cut(rest, "@")
	if !found {
		hostAndDB, creds = creds, ""
	}
	host, name, _ := strings.Cut(hostAndDB, "/")
	dsn := fmt.Sprintf("tcp(%s)/%s", host, name)
	if creds != "" {
		dsn = creds + "@" + dsn
	}
	if !strings.Contains(name, "?") {
		dsn += "?charset=utf8mb4&parseTime=True&loc=UTC"
	}
	return dsn
}

// sqliteDSN makes sure foreign keys are enforced; SQLite leaves them off by default.
func sqliteDSN(dsn string) string {
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func isMemorySQLite(databaseURL string) bool {
	return strings.Contains(databaseURL, ":memory:") || strings.Contains(databaseURL, "mode=memory")
}

func newGormLogger(log *zap.Logger, opts Options) logger.Interface {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	threshold := opts.SlowThreshold
	if threshold == 0 {
		threshold = time.Second
	}
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             threshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
