package main

// @title           ERP Ledger API
// @version         1.0
// @description     API de precificação, caixa, estoque e contas correntes.
// @description     Cada comando contábil é atômico: preço, liquidação, estoque e lançamentos são gravados juntos ou nada é gravado.

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
