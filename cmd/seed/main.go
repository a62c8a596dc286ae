package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tessera/internal/config"
	"tessera/internal/domain/services"
	"tessera/internal/idgen"
	"tessera/internal/repository/postgres"
	"tessera/internal/service"
	"tessera/internal/service/notify"
)

// seedFixture is the YAML shape of a seed file: one workspace and a page
// tree. Children nest arbitrarily deep.
type seedFixture struct {
	Workspace struct {
		Name string `yaml:"name"`
	} `yaml:"workspace"`
	Pages []seedPage `yaml:"pages"`
}

type seedPage struct {
	Title      string         `yaml:"title"`
	Icon       string         `yaml:"icon"`
	Content    map[string]any `yaml:"content"`
	Properties map[string]any `yaml:"properties"`
	Children   []seedPage     `yaml:"children"`
}

// defaultFixture is used when no -file is given.
const defaultFixture = `
workspace:
  name: Demo Workspace
pages:
  - title: Getting Started
    icon: "📘"
    content:
      blocks:
        - type: paragraph
          text: Welcome! Pages nest under other pages; drag to reorder.
    children:
      - title: Keyboard Shortcuts
      - title: FAQ
  - title: Meeting Notes
    icon: "📝"
    children:
      - title: 2026-08-24 Weekly Sync
        properties:
          attendees: 4
      - title: 2026-08-17 Weekly Sync
  - title: Roadmap
    icon: "🗺️"
`

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed pages")
	fixtureFile := flag.String("file", "", "YAML fixture to seed from (default: built-in demo tree)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	ids := idgen.UUIDv7()
	pageService := service.NewPageService(postgres.NewPageRepository(repoConfig), ids, notify.NewHub(), logger)
	workspaceService := service.NewWorkspaceService(postgres.NewWorkspaceRepository(repoConfig), ids, logger)

	log.Printf("🌱 Seeding workspace %q (environment: %s, prefix: %s)",
		fixture.Workspace.Name, cfg.Environment, cfg.TablePrefix)

	// The whole fixture loads in one transaction: a half-seeded demo tree is
	// worse than none.
	txManager := postgres.NewTransactionManager(pool)
	var workspaceID string
	created := 0
	err = txManager.ExecTx(ctx, func(ctx context.Context) error {
		ws, err := workspaceService.CreateWorkspace(ctx, cfg.DevUserID, &services.CreateWorkspaceRequest{
			Name: fixture.Workspace.Name,
		})
		if err != nil {
			return err
		}
		workspaceID = ws.ID

		for _, page := range fixture.Pages {
			if err := seedTree(ctx, pageService, cfg.DevUserID, ws.ID, nil, page, &created); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("🎉 Seeding complete! workspace=%s pages=%d", workspaceID, created)
}

func loadFixture(path string) (*seedFixture, error) {
	data := []byte(defaultFixture)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	var fixture seedFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// seedTree creates one page and recurses over its children, parents first so
// every child references a committed parent.
func seedTree(ctx context.Context, pages services.PageService, userID, workspaceID string, parentID *string, node seedPage, created *int) error {
	req := &services.CreatePageRequest{
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		Title:       node.Title,
		Content:     node.Content,
		Properties:  node.Properties,
	}
	if node.Icon != "" {
		req.Icon = &node.Icon
	}

	page, err := pages.CreatePage(ctx, userID, req)
	if err != nil {
		return err
	}
	*created++
	log.Printf("  ✓ %s (depth %d)", page.Title, page.Depth)

	for _, child := range node.Children {
		if err := seedTree(ctx, pages, userID, workspaceID, &page.ID, child, created); err != nil {
			return err
		}
	}
	return nil
}
