package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator aplica as migrações embutidas no binário
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator cria um migrator para a URL informada
func NewMigrator(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir migrações embutidas: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up aplica todas as migrações pendentes
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	return nil
}

// Down desfaz as últimas steps migrações; steps <= 0 desfaz todas
func (mg *Migrator) Down(steps int) error {
	var err error
	if steps <= 0 {
		err = mg.m.Down()
	} else {
		err = mg.m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao desfazer migrações: %w", err)
	}
	return nil
}

// Version retorna a versão atual e se o banco ficou em estado sujo
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("erro ao ler versão das migrações: %w", err)
	}
	return version, dirty, nil
}

// Close libera a origem e a conexão do migrator
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("erro ao fechar origem das migrações: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("erro ao fechar conexão das migrações: %w", dbErr)
	}
	return nil
}
