// Команда migrate применяет и откатывает миграции схемы postgres
//
//	go run ./cmd/migrate -config config.toml up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate version
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/pkg/migrator"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Database.Driver != config.StorageDriverPostgres {
		fmt.Printf("Migrations are only needed for the %q driver, configured %q\n",
			config.StorageDriverPostgres, cfg.Database.Driver)
		os.Exit(1)
	}

	dir, url := cfg.Database.MigrationsPath, cfg.Database.URL()

	switch cmd := flag.Arg(0); cmd {
	case "up", "":
		err = migrator.Up(dir, url)
	case "down":
		err = migrator.Down(dir, url)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = migrator.Version(dir, url)
		if err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	default:
		fmt.Printf("Unknown command %q, expected up, down or version\n", cmd)
		os.Exit(2)
	}

	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
}
