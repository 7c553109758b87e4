// Command scanner runs a single inactivity scan and exits. It is meant to be
// invoked on a cadence by an external scheduler such as cron, which is also
// what keeps at most one run active at a time.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/followup/internal/config"
	persistence "example.com/followup/internal/persistence/postgres"
	"example.com/followup/internal/resolver"
	"example.com/followup/internal/scanner"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdownCh
		cancel()
	}()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	res := resolver.New(
		persistence.NewNoteSource(pool),
		persistence.NewAppointmentSource(pool),
		persistence.NewQuoteSource(pool),
	)

	scan := scanner.New(
		persistence.NewLeadRepository(pool),
		persistence.NewTaskRepository(pool),
		persistence.NewNotificationRepository(pool),
		persistence.NewUserRepository(pool),
		res,
		cfg.InactivityThreshold,
		scanner.WithWorkers(cfg.ScanWorkers),
	)

	report, err := scan.Run(ctx)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	log.Printf("scan complete: processed=%d tasks_created=%d notifications_created=%d errors=%d",
		report.Processed, report.TasksCreated, report.NotificationsCreated, len(report.Errors))
	for _, leadErr := range report.Errors {
		log.Printf("lead %s: %v", leadErr.LeadID, leadErr.Err)
	}
}
