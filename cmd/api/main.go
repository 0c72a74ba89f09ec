package main

import (
	"context"
	"log"

	"github.com/hugohenrick/erp-ledger/internal/config"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/joho/godotenv"

	_ "github.com/hugohenrick/erp-ledger/docs"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro na configuração: %v", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("Erro ao configurar logger: %v", err)
	}

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		logger.WithComponent("api").Error("erro ao iniciar aplicação", "error", err)
		log.Fatalf("Erro ao iniciar aplicação: %v", err)
	}
	defer app.Close()

	if err := app.Start(); err != nil {
		logger.WithComponent("api").Error("servidor encerrado com erro", "error", err)
	}
}
