package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"spacex-dashboard/internal/config"
	"spacex-dashboard/internal/models"

	// PostgreSQL driver
	_ "github.com/jackc/pgx/v5/stdlib"

	// Migration libraries
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	// Launches returns every stored launch record in insertion order.
	Launches(ctx context.Context) ([]models.Launch, error)

	// ReplaceLaunches atomically replaces the stored launch records.
	ReplaceLaunches(ctx context.Context, launches []models.Launch) error
}

type service struct {
	db   *sql.DB
	name string
}

// New opens a connection pool to the configured database.
func New(cfg config.DBConfig) (Service, error) {
	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &service{db: db, name: cfg.Database}, nil
}

// Migrate applies every pending migration found in cfg.MigrationsDir.
func Migrate(cfg config.DBConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.URL())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Ping the database
	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	log.Printf("Disconnected from database: %s", s.name)
	return s.db.Close()
}

func (s *service) Launches(ctx context.Context) ([]models.Launch, error) {
	query := `
		SELECT flight_number, launch_site, payload_mass_kg, class, booster_version, booster_version_category
		FROM launches
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	var launches []models.Launch
	for rows.Next() {
		var l models.Launch
		err := rows.Scan(
			&l.FlightNumber,
			&l.LaunchSite,
			&l.PayloadMassKg,
			&l.Class,
			&l.BoosterVersion,
			&l.BoosterVersionCategory,
		)
		if err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		launches = append(launches, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return launches, nil
}

func (s *service) ReplaceLaunches(ctx context.Context, launches []models.Launch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM launches`); err != nil {
		return fmt.Errorf("clear launches: %w", err)
	}

	insert := `
		INSERT INTO launches (flight_number, launch_site, payload_mass_kg, class, booster_version, booster_version_category)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, l := range launches {
		_, err := tx.ExecContext(ctx, insert,
			l.FlightNumber,
			l.LaunchSite,
			l.PayloadMassKg,
			int(l.Class),
			l.BoosterVersion,
			l.BoosterVersionCategory,
		)
		if err != nil {
			return fmt.Errorf("insert launch %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Printf("Stored %d launches", len(launches))
	return nil
}
