package main

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-ledger/internal/adapter/repository/postgres"
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/numbering"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/spf13/cobra"
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Conclui ou descarta as intenções pendentes",
	Long: `Reaplica cada intenção que ficou pendente após uma interrupção. Comandos que
já não podem ser aplicados são descartados; nenhum efeito parcial permanece.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPoster(cmd.Context(), func(ctx context.Context, p *poster.Poster) error {
			report, err := p.Recover(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("pendentes: %d, concluídas: %d, descartadas: %d, falhas: %d\n",
				report.Pending, report.RolledFwd, report.RolledBack, report.Failed)
			return nil
		})
	},
}

var overdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Marca como vencidos os parcelamentos com vencimento passado",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPoster(cmd.Context(), func(ctx context.Context, p *poster.Poster) error {
			updated, err := p.MarkOverdue(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("planos vencidos: %d\n", updated)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd, overdueCmd)
}

func withPoster(ctx context.Context, fn func(ctx context.Context, p *poster.Poster) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := database.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	numbers, err := numbering.NewGenerator(cfg.SnowflakeNode)
	if err != nil {
		return err
	}

	p := poster.New(
		postgres.NewStore(pool, logger.WithComponent("store")),
		payment.NewAllocator(cfg.Commissions, cfg.SettlementTolerance),
		numbers,
		logger.WithComponent("maintenance"),
		poster.Config{MaxAttempts: cfg.MaxAttempts, RetryDelay: cfg.RetryDelay},
	)
	return fn(ctx, p)
}
