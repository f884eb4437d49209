// cmd/tools/careers-indexer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"techflow-careers/internal/common/config"
	"techflow-careers/internal/common/database"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/content"
	"techflow-careers/pkg/catalog"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)

	validatePath := validateCmd.String("path", "", "Path to careers catalog (defaults to careers.catalog_path)")
	syncPath := syncCmd.String("path", "", "Path to careers catalog (defaults to careers.catalog_path)")
	skipSearch := syncCmd.Bool("skip-search", false, "Only load PostgreSQL, do not index Elasticsearch")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		c := loadCatalog(pathOr(*validatePath, cfg.Careers.CatalogPath))
		fmt.Printf("Catalog is valid: %d careers\n", len(c.Careers))

	case "sync":
		syncCmd.Parse(os.Args[2:])
		c := loadCatalog(pathOr(*syncPath, cfg.Careers.CatalogPath))
		if err := syncCatalog(cfg, c, *skipSearch); err != nil {
			fmt.Printf("Error syncing catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Synced %d careers\n", len(c.Careers))

	default:
		help()
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: careers-indexer <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  validate  Check the careers catalog")
	fmt.Println("  sync      Load the catalog into PostgreSQL and index it in Elasticsearch")
}

func pathOr(path, fallback string) string {
	if path != "" {
		return path
	}
	return fallback
}

func loadCatalog(path string) *catalog.Catalog {
	c, err := catalog.Load(path)
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}
	if problems := c.Validate(); len(problems) > 0 {
		fmt.Printf("Catalog %s has %d problem(s):\n", path, len(problems))
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	}
	return c
}

func syncCatalog(cfg *config.Config, c *catalog.Catalog, skipSearch bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := logger.NewStructured(cfg.Logging.Level, "console", "stderr")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Migrate(ctx); err != nil {
		return err
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	repo := content.NewRepository(pg.DB, rdb.Client, config.GetDuration(cfg.Careers.CacheTTL), log)
	for _, career := range c.Careers {
		if err := repo.Upsert(ctx, career); err != nil {
			return fmt.Errorf("upsert career %s: %w", career.ID, err)
		}
	}

	if skipSearch {
		return nil
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}
	return content.IndexCareers(ctx, es, cfg.Careers.Index, c.Careers)
}
