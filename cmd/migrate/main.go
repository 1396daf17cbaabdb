// Command migrate applies the SQL migrations under migrations/ with golang-migrate.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"user_backend/internal/platform/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}
	slog.SetDefault(logger.New(os.Getenv("APP_ENV"), os.Stderr))

	if err := newRootCmd(os.Stdout, openMigrator).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
