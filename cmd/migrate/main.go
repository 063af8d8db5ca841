package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/config"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/db"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/logging"
)

const downMarker = "-- +migrate Down"

func main() {
	dir := flag.String("dir", "migrations", "directory holding *.sql migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", nil).WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, nil)

	database, err := db.Connect(context.Background(), cfg.DatabaseURL, db.DefaultPool())
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		log.WithError(err).Fatal("failed to ensure schema_migrations")
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		log.WithError(err).Fatal("failed to read migrations")
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		filename := filepath.Base(file)
		entry := log.WithField("migration", filename)
		var exists bool
		if err := database.Get(&exists, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, filename); err != nil {
			entry.WithError(err).Fatal("failed to read migration state")
		}
		if exists {
			continue
		}
		content, err := os.ReadFile(file)
		if err != nil {
			entry.WithError(err).Fatal("failed to read migration")
		}
		if err := applyUp(database, string(content)); err != nil {
			entry.WithError(err).Fatal("failed to apply migration")
		}
		if _, err := database.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, filename); err != nil {
			entry.WithError(err).Fatal("failed to record migration")
		}
		entry.Info("applied")
		applied++
	}
	log.WithField("applied", applied).Info("migrations complete")
}

// applyUp runs every statement above the Down marker.
func applyUp(db execer, content string) error {
	up, _, _ := strings.Cut(content, downMarker)
	for _, stmt := range splitSQL(up) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// splitSQL breaks a script on lines containing ';'. Comment lines are
// dropped. Statements must not put ';' inside string literals.
func splitSQL(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
