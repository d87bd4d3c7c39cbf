package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	"github.com/spf13/viper"
)

var DB *pgxpool.Pool

func ConnectDb() {
	fmt.Println("Connecting to database...", viper.GetString("postgres_db.cluster"))
	databaseUrl := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		viper.GetString("postgres_db.user"),
		viper.GetString("postgres_db.password"),
		viper.GetString("postgres_db.cluster"),
		viper.GetInt("postgres_db.port"),
		viper.GetString("postgres_db.keyspace"))

	// migrations run over database/sql, the application over pgxpool
	migrationDb, err := sql.Open("postgres", databaseUrl)
	if err != nil {
		log.Fatalf("Error opening database connection for migrations: %v", err)
	}
	runMigrations(migrationDb)

	dbConfig, err := pgxpool.ParseConfig(databaseUrl)
	if err != nil {
		log.Fatalf("Failed to create pgxpool config: %v", err)
	}
	dbConfig.MaxConns = 4
	dbConfig.MaxConnLifetime = time.Hour
	dbConfig.MaxConnIdleTime = 30 * time.Minute
	dbConfig.HealthCheckPeriod = time.Minute
	dbConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Error while creating pgxpool connection: %v", err)
	}
	DB = pool

	log.Println("Database connected and ready for application use!")
}

func runMigrations(db *sql.DB) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("Could not create postgres driver: %v", err)
	}
	migrationDir := viper.GetString("migration_dir")
	if migrationDir == "" {
		migrationDir = "file://migration"
	}
	migrator, err := migrate.NewWithDatabaseInstance(migrationDir, "postgres", driver)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied successfully!")
}
