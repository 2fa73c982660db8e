// Package main provides a database migration runner.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/viper"

	"github.com/ashfall-games/ashfall/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/ashfall.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	dbCfg, err := loadDatabaseConfig(*configPath)
	if err != nil {
		log.Fatalf("loading database config: %v", err)
	}

	dsn := dbCfg.DSN()
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	run(m, *direction, *steps, start)
}

// loadDatabaseConfig reads the database section of the config file.
//
// Postcondition: Returns an error when the file is unreadable or has no
// database section; viper's Sub returns nil in that case.
func loadDatabaseConfig(path string) (config.DatabaseConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("reading config: %w", err)
	}

	sub := v.Sub("database")
	if sub == nil {
		return config.DatabaseConfig{}, fmt.Errorf("config %q has no database section", path)
	}

	var dbCfg config.DatabaseConfig
	if err := sub.Unmarshal(&dbCfg); err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("parsing database config: %w", err)
	}
	return dbCfg, nil
}

func run(m *migrate.Migrate, direction string, steps int, start time.Time) {
	var err error

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", direction)
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	elapsed := time.Since(start)

	if err == migrate.ErrNoChange {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", version, dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", direction, version, dirty, elapsed)
	}
}
