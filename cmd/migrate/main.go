package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/infrastructure/migration"
	"github.com/shopsync/backend/migrations"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("invalid arguments")

// env is what a command runs against. m is nil for offline commands.
type env struct {
	dir  string
	args []string
	log  *zap.Logger
	m    *migration.Migrator
}

type command struct {
	usage   string
	summary string
	offline bool
	run     func(e *env) error
}

var commands = map[string]command{
	"up":   {usage: "up", summary: "Apply all pending migrations", run: func(e *env) error { return e.m.Up() }},
	"down": {usage: "down", summary: "Roll back all migrations", run: func(e *env) error { return e.m.Down() }},
	"step": {usage: "step <n>", summary: "Apply n migrations (negative rolls back)", run: func(e *env) error {
		n, err := intArg(e.args, 0)
		if err != nil {
			return err
		}
		return e.m.Steps(n)
	}},
	"goto": {usage: "goto <version>", summary: "Migrate to a specific version", run: func(e *env) error {
		v, err := intArg(e.args, 0)
		if err != nil || v < 0 {
			return errUsage
		}
		return e.m.GoTo(uint(v))
	}},
	"force": {usage: "force <version>", summary: "Set the version without running migrations", run: func(e *env) error {
		v, err := intArg(e.args, 0)
		if err != nil {
			return err
		}
		return e.m.Force(v)
	}},
	"version": {usage: "version", summary: "Show the current version", run: func(e *env) error {
		v, dirty, err := e.m.Version()
		if err != nil {
			return err
		}
		e.log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"create": {usage: "create <name> [desc]", summary: "Create a numbered up/down pair", offline: true, run: func(e *env) error {
		if len(e.args) == 0 {
			return errUsage
		}
		desc := ""
		if len(e.args) > 1 {
			desc = e.args[1]
		}
		mf, err := migration.CreateMigration(e.dir, e.args[0], desc)
		if err != nil {
			return err
		}
		e.log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	}},
	"list": {usage: "list", summary: "List migrations on disk", offline: true, run: func(e *env) error {
		names, err := migration.ListMigrations(e.dir)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return nil
	}},
}

var order = []string{"up", "down", "step", "goto", "version", "force", "create", "list"}

func main() {
	path := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	name := flag.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	e := &env{dir: *path, args: flag.Args()[1:], log: log}
	if e.dir == "" && cmd.offline {
		e.dir = defaultMigrationsDir
	}
	if !cmd.offline {
		db, m := openMigrator(log, *path)
		defer db.Close()
		defer m.Close()
		e.m = m
	}

	if err := cmd.run(e); err != nil {
		if errors.Is(err, errUsage) {
			log.Fatal("Usage: migrate " + cmd.usage)
		}
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

func openMigrator(log *zap.Logger, path string) (*sql.DB, *migration.Migrator) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	var m *migration.Migrator
	if path != "" {
		m, err = migration.New(db, path, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return db, m
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, errUsage
	}
	return n, nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "ShopSync database migration tool")
	fmt.Fprintln(out, "\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range order {
		c := commands[name]
		fmt.Fprintf(out, "  %-22s%s\n", c.usage, c.summary)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}
