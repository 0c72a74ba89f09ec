package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Controllers agrupa os controllers expostos pela API
type Controllers struct {
	Health  *controller.HealthController
	Catalog *controller.CatalogController
	Ledger  *controller.LedgerController
	Sales   *controller.SaleController
	Intake  *controller.IntakeController
	Events  *controller.EventController
}

// Setup registra todas as rotas sob basePath; operator identifica quem executa cada comando
func Setup(router *gin.Engine, basePath string, c Controllers, operator gin.HandlerFunc) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(basePath)
	api.GET("/health", c.Health.Check)

	protected := api.Group("")
	protected.Use(operator)

	SetupCatalogRoutes(protected, c.Catalog)
	SetupCounterpartyRoutes(protected, c.Catalog)
	SetupAccountRoutes(protected, c.Ledger)
	SetupInstallmentRoutes(protected, c.Ledger)
	SetupSaleRoutes(protected, c.Sales)
	SetupDeliveryNoteRoutes(protected, c.Sales)

	protected.POST("/intake/resolve", c.Intake.Resolve)
	protected.GET("/events", c.Events.Stream)
}

// SetupCatalogRoutes configura as rotas de preço, produtos e listas de preços
func SetupCatalogRoutes(router *gin.RouterGroup, catalogController *controller.CatalogController) {
	router.POST("/pricing/compute", catalogController.ComputePrice)

	products := router.Group("/products")
	{
		products.POST("", catalogController.CreateProduct)
		products.GET("", catalogController.SearchProducts)
		products.GET("/:id", catalogController.GetProduct)
		products.PUT("/:id", catalogController.UpdateProduct)
		products.POST("/:id/stock-adjustments", catalogController.AdjustStock)
		products.GET("/:id/movements", catalogController.ListMovements)
	}

	priceLists := router.Group("/price-lists")
	{
		priceLists.POST("", catalogController.CreatePriceList)
		priceLists.GET("", catalogController.ListPriceLists)
		priceLists.PATCH("/:id/base", catalogController.SetBasePriceList)
	}
}

// SetupCounterpartyRoutes configura as rotas de clientes e fornecedores
func SetupCounterpartyRoutes(router *gin.RouterGroup, catalogController *controller.CatalogController) {
	clients := router.Group("/clients")
	{
		clients.POST("", catalogController.CreateCounterparty(counterparty.KindClient))
		clients.GET("/:id", catalogController.GetCounterparty(counterparty.KindClient))
		clients.PUT("/:id", catalogController.UpdateCounterparty(counterparty.KindClient))
	}

	suppliers := router.Group("/suppliers")
	{
		suppliers.POST("", catalogController.CreateCounterparty(counterparty.KindSupplier))
		suppliers.GET("/:id", catalogController.GetCounterparty(counterparty.KindSupplier))
	}
}

// SetupAccountRoutes configura as rotas de contas e transferências
func SetupAccountRoutes(router *gin.RouterGroup, ledgerController *controller.LedgerController) {
	accounts := router.Group("/accounts")
	{
		accounts.POST("", ledgerController.CreateAccount)
		accounts.GET("", ledgerController.ListAccounts)
		accounts.GET("/:id", ledgerController.GetAccount)
		accounts.GET("/:id/entries", ledgerController.Statement)
		accounts.POST("/:id/close", ledgerController.CloseAccount)
		accounts.POST("/:id/open", ledgerController.OpenAccount)
		accounts.POST("/:id/movements", ledgerController.RecordMovement)
	}

	router.POST("/transfers", ledgerController.Transfer)
}

// SetupInstallmentRoutes configura as rotas de parcelamento
func SetupInstallmentRoutes(router *gin.RouterGroup, ledgerController *controller.LedgerController) {
	plans := router.Group("/installment-plans")
	{
		plans.POST("", ledgerController.CreateInstallmentPlan)
		plans.POST("/mark-overdue", ledgerController.MarkOverdue)
		plans.GET("/:id", ledgerController.GetInstallmentPlan)
		plans.POST("/:id/payments", ledgerController.RegisterPayment)
		plans.POST("/:id/cancel", ledgerController.CancelInstallmentPlan)
	}
}

// SetupSaleRoutes configura as rotas de vendas
func SetupSaleRoutes(router *gin.RouterGroup, saleController *controller.SaleController) {
	sales := router.Group("/sales")
	{
		sales.POST("", saleController.Finalize)
		sales.GET("/:id", saleController.Get)
		sales.POST("/:id/reverse", saleController.Reverse)
	}
}

// SetupDeliveryNoteRoutes configura as rotas de remitos
func SetupDeliveryNoteRoutes(router *gin.RouterGroup, saleController *controller.SaleController) {
	notes := router.Group("/delivery-notes")
	{
		notes.POST("", saleController.CreateDeliveryNote)
		notes.POST("/invoice", saleController.Invoice)
		notes.GET("/:id", saleController.GetDeliveryNote)
		notes.POST("/:id/deliver", saleController.MarkDelivered)
		notes.POST("/:id/cancel", saleController.CancelDeliveryNote)
	}
}
