// cmd/tools/store-migrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"plan-access-bot/internal/common/config"
	"plan-access-bot/internal/common/database"
	"plan-access-bot/internal/store"
)

// connections holds whatever the selected backends opened, closed on exit.
type connections struct {
	redis    *database.RedisClient
	postgres *database.PostgresClient
}

func (c *connections) Close() {
	if c.redis != nil {
		c.redis.Close()
	}
	if c.postgres != nil {
		c.postgres.Close()
	}
}

func main() {
	copyCmd := flag.NewFlagSet("copy", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Copy command flags
	from := copyCmd.String("from", "file", "Source backend (file, redis, postgres)")
	to := copyCmd.String("to", "", "Destination backend (file, redis, postgres)")
	fromDir := copyCmd.String("from-dir", "", "Directory of the source file backend (defaults to storage.dir)")
	toDir := copyCmd.String("to-dir", "", "Directory of the destination file backend (defaults to storage.dir)")
	copyCollection := copyCmd.String("collection", "all", "Collection to copy (subscriptions, pending_requests, all)")

	// Validate command flags
	backendName := validateCmd.String("backend", "", "Backend to inspect (defaults to storage.backend)")
	validateDir := validateCmd.String("dir", "", "Directory of the file backend (defaults to storage.dir)")
	validateCollection := validateCmd.String("collection", "all", "Collection to inspect")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "copy":
		copyCmd.Parse(os.Args[2:])
		if *to == "" || (*to == *from && *fromDir == *toDir) {
			fmt.Println("Error: -to is required and must differ from the source.")
			copyCmd.Usage()
			os.Exit(1)
		}
		collections, err := store.ParseCollections(*copyCollection)
		exitOnError("Invalid collection", err)

		cfg, err := config.Load()
		exitOnError("Failed to load config", err)

		conns := &connections{}
		defer conns.Close()

		src, err := openBackend(ctx, cfg, *from, *fromDir, conns)
		exitOnError("Failed to open source", err)
		dst, err := openBackend(ctx, cfg, *to, *toDir, conns)
		exitOnError("Failed to open destination", err)

		copied, err := store.Copy(ctx, src, dst, collections)
		for _, c := range collections {
			if n, ok := copied[c]; ok {
				fmt.Printf("Copied %d records of %s from %s to %s\n", n, c, src.Name(), dst.Name())
			}
		}
		exitOnError("Copy failed", err)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		collections, err := store.ParseCollections(*validateCollection)
		exitOnError("Invalid collection", err)

		cfg, err := config.Load()
		exitOnError("Failed to load config", err)

		name := *backendName
		if name == "" {
			name = cfg.Storage.Backend
		}

		conns := &connections{}
		defer conns.Close()

		backend, err := openBackend(ctx, cfg, name, *validateDir, conns)
		exitOnError("Failed to open backend", err)

		failed := false
		for _, c := range collections {
			report, err := store.Inspect(ctx, backend, c)
			exitOnError("Failed to read "+string(c), err)
			if report.Unreadable {
				fmt.Printf("%s: unreadable document (the bot treats it as empty)\n", c)
				failed = true
				continue
			}
			sort.Strings(report.Corrupt)
			fmt.Printf("%s: %d records, %d corrupt\n", c, report.Records, len(report.Corrupt))
			for _, key := range report.Corrupt {
				fmt.Printf("  corrupt: %s\n", key)
			}
			if len(report.Corrupt) > 0 {
				failed = true
			}
		}
		if failed {
			fmt.Println("Store validation found corrupt data.")
			os.Exit(1)
		}
		fmt.Println("Store validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, kind, dir string, conns *connections) (store.Backend, error) {
	storageCfg := cfg.Storage
	if dir != "" {
		storageCfg.Dir = dir
	}

	deps := store.Deps{}
	switch kind {
	case config.StorageRedis:
		if conns.redis == nil {
			rdb, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return nil, err
			}
			if err := rdb.Ping(ctx); err != nil {
				rdb.Close()
				return nil, err
			}
			conns.redis = rdb
		}
		deps.Redis = conns.redis.GetClient()
	case config.StoragePostgres:
		if conns.postgres == nil {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return nil, err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return nil, err
			}
			conns.postgres = pg
		}
		deps.Postgres = conns.postgres.GetDB()
	}

	backend, err := store.NewBackend(kind, storageCfg, deps)
	if err != nil {
		return nil, err
	}
	if pgBackend, ok := backend.(*store.PostgresBackend); ok {
		if err := pgBackend.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}
	return backend, nil
}

func exitOnError(msg string, err error) {
	if err != nil {
		fmt.Printf("%s: %v\n", msg, err)
		os.Exit(1)
	}
}

func help() {
	fmt.Print(`
Usage: store-migrate <command> [flags]

Commands:
  copy      Copy collections from one storage backend to another
  validate  Report record counts and corrupt records of a backend
  help      Show this help message

Examples:
  store-migrate copy -from file -from-dir ./data -to redis
  store-migrate copy -from redis -to postgres -collection subscriptions
  store-migrate validate -backend file -dir ./data

Connection settings are read from configs/config.yaml and the environment, as for the bot.
Use 'store-migrate <command> -h' for more information about a command.
` + "\n")
}
