// Command migrate reassigns orphaned shots (shots with no project) to a
// target project, the same repair the admin endpoint runs, for operators who
// prefer a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/database"
	"github.com/shotbuilder/backend/internal/project"
	"github.com/shotbuilder/backend/internal/shot"
	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/pkg/logger"
)

func main() {
	var (
		clientID    = flag.String("client", "", "tenant id (required)")
		projectID   = flag.String("project", "", "target project id")
		placeholder = flag.Bool("placeholder", false, "create a placeholder project instead of using -project")
		list        = flag.Bool("list", false, "list orphaned shots and exit")
	)
	flag.Parse()

	if *clientID == "" {
		fmt.Fprintln(os.Stderr, "usage: migrate -client <id> [-list | -project <id> | -placeholder]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(os.Getenv("LOG_LEVEL"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongo: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDB.Database)

	st := store.New(db)
	shotRepo := shot.NewStoreRepository(st)
	projectSvc := project.NewService(project.NewStoreRepository(st))
	migrator := shot.NewMigrator(shotRepo, projectSvc)

	orphans, err := migrator.FindOrphans(ctx, *clientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listing orphans: %v\n", err)
		os.Exit(1)
	}
	if len(orphans) == 0 {
		fmt.Println("no orphaned shots")
		return
	}
	fmt.Printf("%d orphaned shot(s):\n", len(orphans))
	for _, s := range orphans {
		fmt.Printf("  %s  %s\n", s.ID, s.Name)
	}
	if *list {
		return
	}
	if *projectID == "" && !*placeholder {
		fmt.Fprintln(os.Stderr, "pick a target: -project <id> or -placeholder")
		os.Exit(2)
	}

	ids := make([]string, 0, len(orphans))
	for _, s := range orphans {
		ids = append(ids, s.ID)
	}

	var report *shot.MigrationReport
	if *placeholder {
		report, err = migrator.ReassignToPlaceholder(ctx, *clientID, ids)
	} else {
		report, err = migrator.Reassign(ctx, *clientID, *projectID, ids)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(report.DescribeOutcome())
	for _, id := range report.Failed {
		fmt.Printf("  failed: %s\n", id)
	}
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
