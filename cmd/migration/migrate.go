package main

import (
	"fmt"

	"github.com/hugohenrick/erp-ledger/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas as migrações pendentes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(m)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Desfaz migrações",
	Example: `  # Desfaz a última migração
  ledgerctl down --steps 1

  # Desfaz todas
  ledgerctl down`,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(m)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão atual do esquema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(printVersion)
	},
}

func init() {
	downCmd.Flags().Int("steps", 0, "Quantidade de migrações a desfazer (0 desfaz todas)")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func withMigrator(fn func(m *database.Migrator) error) error {
	m, err := database.NewMigrator(cfg.Database.MigrationURL())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func printVersion(m *database.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	logger.WithComponent("migration").Info("versão do esquema", "version", v, "dirty", dirty)
	fmt.Printf("versão %d", v)
	if dirty {
		fmt.Print(" (dirty)")
	}
	fmt.Println()
	return nil
}
