// Command import-history imports a watch-history export for one user
// from the command line, bypassing the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/config"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/di"
	"github.com/Asadaligondal/Identity-Compass/interfaces/ingest"
)

func main() {
	var (
		filePath = flag.String("file", "", "path to the history export JSON")
		userID   = flag.String("user", "", "owner of the imported items")
		timeout  = flag.Duration("timeout", 10*time.Minute, "overall import timeout")
	)
	flag.Parse()

	if *filePath == "" || *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *filePath, err)
	}

	records, err := ingest.ParseHistory(data)
	if err != nil {
		log.Fatalf("failed to parse history export: %v", err)
	}

	cmd := commands.ImportHistoryCommand{
		BatchID: uuid.New().String(),
		UserID:  *userID,
		Records: records,
	}
	if err := cmd.Validate(); err != nil {
		log.Fatalf("invalid import: %v", err)
	}

	result, err := container.ImportHandler.Handle(ctx, cmd)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("imported %d items (%d skipped, %d temporal links)\n",
		result.Imported, result.Skipped, result.Linked)
}
