package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hugohenrick/erp-ledger/internal/config"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Ferramentas de manutenção do banco do ERP Ledger",
	Long: `ledgerctl aplica as migrações do esquema e executa as rotinas de manutenção
do ledger: recuperação de intenções pendentes e marcação de parcelamentos vencidos.

A conexão é lida de DATABASE_URL ou das variáveis DB_HOST, DB_PORT, DB_USER,
DB_PASSWORD, DB_NAME e DB_SSLMODE.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return logger.Setup(cfg.Log)
	},
}

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		logger.WithComponent("ledgerctl").Error("falha na execução do comando", "error", err)
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}
