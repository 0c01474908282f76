package domain

// Module: бизнес-домен, к которому относится метрика или инсайт.
type Module string

// Операционные модули дашборда (общие KPI).
const (
	ModuleOrders     Module = "orders"
	ModuleFinance    Module = "finance"
	ModuleLogistics  Module = "logistics"
	ModuleProduction Module = "production"
	ModuleSales      Module = "sales"
	ModuleMarketing  Module = "marketing"
)

// Модули исполнительного уровня (ExecutiveKpi и AIInsight).
const (
	ModuleOverview   Module = "overview"
	ModuleFinancial  Module = "financial"
	ModulePurchasing Module = "purchasing"
	ModuleAIInsights Module = "ai_insights"
)

// KpiModules: закрытый набор для Kpi. marketing есть только здесь.
var KpiModules = []Module{
	ModuleOrders,
	ModuleFinance,
	ModuleLogistics,
	ModuleProduction,
	ModuleSales,
	ModuleMarketing,
}

// ExecutiveModules: закрытый набор для ExecutiveKpi и AIInsight.
var ExecutiveModules = []Module{
	ModuleOverview,
	ModuleFinancial,
	ModuleProduction,
	ModuleSales,
	ModuleLogistics,
	ModulePurchasing,
	ModuleAIInsights,
}
