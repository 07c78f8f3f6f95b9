package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"spacex-dashboard/internal/config"
	"spacex-dashboard/internal/database"
	"spacex-dashboard/internal/launches"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

type Server struct {
	cfg     config.Config
	table   *launches.Table
	db      database.Service
	limiter *visitorLimiter
	metrics *metrics
}

// New wires a Server around an already-loaded launch table. db may be nil
// when the table was read from a file.
func New(cfg config.Config, table *launches.Table, db database.Service) *Server {
	return &Server{
		cfg:     cfg,
		table:   table,
		db:      db,
		limiter: newVisitorLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		metrics: newMetrics(prometheus.NewRegistry()),
	}
}

// NewServer loads the launch table from the configured source and returns an
// http.Server ready to listen on cfg.Addr().
func NewServer(cfg config.Config) (*http.Server, error) {
	var db database.Service
	if cfg.DataSource == config.SourcePostgres {
		var err error
		if db, err = database.New(cfg.DB); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	table, err := loadTable(ctx, cfg, db)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	min, max := table.PayloadBounds()
	log.Printf("Loaded %d launches from %d sites (payload %.0f-%.0f kg)", table.Len(), len(table.Sites()), min, max)

	s := New(cfg, table, db)
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	if db != nil {
		srv.RegisterOnShutdown(func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		})
	}
	return srv, nil
}

func loadTable(ctx context.Context, cfg config.Config, db database.Service) (*launches.Table, error) {
	if db == nil {
		return launches.LoadFile(cfg.DataFile)
	}

	records, err := db.Launches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load launches from database: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no launches stored, run the importer first", launches.ErrEmpty)
	}
	return launches.NewTable(records)
}
