package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/route"
	"github.com/hugohenrick/erp-ledger/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-ledger/internal/adapter/repository/postgres"
	"github.com/hugohenrick/erp-ledger/internal/application/intake"
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/internal/config"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/extraction"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/notify"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/numbering"
	"github.com/hugohenrick/erp-ledger/pkg/auth"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const version = "1.0.0"

// App representa a aplicação e suas dependências
type App struct {
	cfg        *config.Config
	log        logger.Logger
	router     *gin.Engine
	pool       *pgxpool.Pool
	broker     *events.Broker
	dispatcher *notify.Dispatcher
	poster     *poster.Poster
	resolver   *intake.Resolver
	jwt        *auth.JWTService
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.WithComponent("api")
	a := &App{cfg: cfg, log: log}

	uow, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	numbers, err := numbering.NewGenerator(cfg.SnowflakeNode)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Destinos das exportações de vendas
	sinks := []notify.Sink{notify.NewLogSink(logger.WithComponent("export"))}
	if cfg.NotifyWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.NotifyWebhookURL, cfg.NotifyTimeout))
	}
	a.dispatcher = notify.NewDispatcher(logger.WithComponent("notify"), cfg.NotifyBuffer, sinks...)
	a.broker = events.NewBroker(logger.WithComponent("events"))

	a.poster = poster.New(uow,
		payment.NewAllocator(cfg.Commissions, cfg.SettlementTolerance),
		numbers,
		logger.WithComponent("poster"),
		poster.Config{MaxAttempts: cfg.MaxAttempts, RetryDelay: cfg.RetryDelay},
		poster.WithPublisher(a.broker),
		poster.WithNotifier(a.dispatcher),
	)

	if err := a.bootstrap(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.OpenAI.APIKey != "" {
		a.resolver = intake.NewResolver(extraction.New(cfg.OpenAI, logger.WithComponent("extraction")), a.poster, logger.WithComponent("intake"))
	} else {
		log.Warn("OPENAI_API_KEY não configurada, resolução de pedidos desativada")
	}

	if cfg.JWTSecret != "" {
		a.jwt, err = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour)
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		log.Warn("JWT_SECRET_KEY não configurada, autenticação desativada")
	}

	if err := dto.RegisterValidators(); err != nil {
		a.Close()
		return nil, err
	}

	gin.SetMode(cfg.GinMode)
	a.router = gin.New()
	a.router.Use(gin.Recovery(), requestLogger(logger.WithComponent("http")))
	a.router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Operator"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	a.SetupRoutes()
	return a, nil
}

func (a *App) openStore(ctx context.Context) (store.UnitOfWork, error) {
	switch a.cfg.StoreDriver {
	case config.DriverMemory:
		a.log.Warn("usando armazenamento em memória, os dados não serão persistidos")
		return memory.NewStore(), nil
	default:
		pool, err := database.NewPostgresDB(ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("erro ao conectar com o banco de dados: %w", err)
		}
		a.pool = pool
		return postgres.NewStore(pool, logger.WithComponent("store")), nil
	}
}

// bootstrap conclui intenções pendentes e garante a lista de preços base
func (a *App) bootstrap(ctx context.Context) error {
	report, err := a.poster.Recover(ctx)
	if err != nil {
		return fmt.Errorf("erro na recuperação de intenções: %w", err)
	}
	if report.Pending > 0 {
		a.log.Info("recuperação concluída",
			"pending", report.Pending,
			"rolled_forward", report.RolledFwd,
			"rolled_back", report.RolledBack,
			"failed", report.Failed)
	}

	if _, err := a.poster.EnsureBasePriceList(ctx); err != nil {
		return fmt.Errorf("erro ao preparar lista de preços base: %w", err)
	}
	return nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes() {
	route.Setup(a.router, a.cfg.BasePath, route.Controllers{
		Health:  controller.NewHealthController(version, a.cfg.StoreDriver),
		Catalog: controller.NewCatalogController(a.poster, logger.WithComponent("catalog")),
		Ledger:  controller.NewLedgerController(a.poster, logger.WithComponent("ledger")),
		Sales:   controller.NewSaleController(a.poster, logger.WithComponent("sales")),
		Intake:  controller.NewIntakeController(a.resolver, logger.WithComponent("intake")),
		Events:  controller.NewEventController(a.broker, 32),
	}, auth.OperatorMiddleware(a.jwt))
}

// Start inicia o servidor e bloqueia até receber SIGINT ou SIGTERM
func (a *App) Start() error {
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Streams SSE mantêm a conexão ocupada; o broker os encerra no shutdown
	srv.RegisterOnShutdown(a.broker.Close)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("servidor iniciado", "addr", srv.Addr, "store", a.cfg.StoreDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("erro no servidor HTTP: %w", err)
		}
		return nil
	case sig := <-quit:
		a.log.Info("encerrando servidor", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("erro ao encerrar servidor: %w", err)
	}
	a.log.Info("servidor encerrado")
	return nil
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação. Deve ser chamado depois que Start
// retornar, quando não há mais handlers exportando documentos.
func (a *App) Close() {
	if a.broker != nil {
		a.broker.Close()
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("requisição",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"operator", auth.Operator(c))
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
