package migrator

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrMigrate ошибка применения миграций
var ErrMigrate = errors.New("migrator: migration failed")

// Up применяет все новые миграции из каталога sourceDir к базе databaseURL
// Отсутствие новых миграций не считается ошибкой
func Up(sourceDir, databaseURL string) error {
	m, err := migrate.New("file://"+sourceDir, databaseURL)
	if err != nil {
		return fmt.Errorf("%w: init: %w", ErrMigrate, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: up: %w", ErrMigrate, err)
	}
	return nil
}

// Down откатывает одну последнюю миграцию
func Down(sourceDir, databaseURL string) error {
	m, err := migrate.New("file://"+sourceDir, databaseURL)
	if err != nil {
		return fmt.Errorf("%w: init: %w", ErrMigrate, err)
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: down: %w", ErrMigrate, err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func Version(sourceDir, databaseURL string) (uint, bool, error) {
	m, err := migrate.New("file://"+sourceDir, databaseURL)
	if err != nil {
		return 0, false, fmt.Errorf("%w: init: %w", ErrMigrate, err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: version: %w", ErrMigrate, err)
	}
	return version, dirty, nil
}
