package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/analytics"
	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	RoleResolver   *auth.RoleResolver
	ResetUC        *auth.PasswordResetUseCase
	CompanyUC      *usecase.CompanyUseCase
	DocumentUC     *usecase.DocumentUseCase
	CatalogUC      *usecase.CatalogUseCase
	ContractUC     *usecase.ContractUseCase
	CertificateUC  *usecase.CertificateUseCase
	InvoiceUC      *usecase.InvoiceRequestUseCase
	NotificationUC *usecase.NotificationUseCase
	UserAdminUC    *usecase.UserAdminUseCase
	AuditUC        *usecase.AuditUseCase
	BudgetUC       *usecase.BudgetUseCase
	DashboardUC    *analytics.DashboardUseCase
	JWTSecret      string
	Log            *logger.Logger
}

var (
	clientOnly = RequireRole(entity.RoleClient)
	staffOnly  = RequireRole(entity.RoleAccountant, entity.RoleAdministrator)
	adminOnly  = RequireRole(entity.RoleAdministrator)
	anyRole    = RequireRole(entity.Roles...)
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.ResetUC, log)
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	documentHandler := NewDocumentHandler(deps.DocumentUC, log)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, log)
	contractHandler := NewContractHandler(deps.ContractUC, log)
	invoiceHandler := NewInvoiceHandler(deps.CertificateUC, deps.InvoiceUC, log)
	notificationHandler := NewNotificationHandler(deps.NotificationUC, log)
	userHandler := NewUserHandler(deps.UserAdminUC, deps.AuditUC, log)
	budgetHandler := NewBudgetHandler(deps.BudgetUC, log)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/password/forgot", authHandler.ForgotPassword)
	authGroup.Post("/password/reset", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token). El perfil se resuelve por petición.
	var roles roleSource
	if deps.RoleResolver != nil {
		roles = deps.RoleResolver
	}
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, roles))

	// Sesión y navegación: también para usuarios sin perfil configurado
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/navigation/check", authHandler.CheckNavigation)
	protected.Get("/navigation/menu", authHandler.Menu)

	protected.Get("/cnpj/:cnpj", clientOnly, companyHandler.LookupCNPJ)

	// Empresas
	companies := protected.Group("/companies")
	companies.Post("/", clientOnly, companyHandler.Register)
	companies.Get("/mine", clientOnly, companyHandler.ListMine)
	companies.Get("/", staffOnly, companyHandler.List)
	companies.Get("/:id", anyRole, companyHandler.GetByID)
	companies.Delete("/:id", clientOnly, companyHandler.Deactivate)
	companies.Post("/:id/approve", staffOnly, companyHandler.Approve)
	companies.Post("/:id/reject", staffOnly, companyHandler.Reject)
	companies.Post("/:id/suspend", adminOnly, companyHandler.Suspend)
	companies.Get("/:id/documents/status", anyRole, companyHandler.PendingDocuments)
	companies.Get("/:id/subscriptions", anyRole, companyHandler.ListSubscriptions)
	companies.Post("/:id/documents", clientOnly, documentHandler.Upload)
	companies.Get("/:id/documents", anyRole, documentHandler.ListByCompany)
	companies.Post("/:id/contracts", clientOnly, contractHandler.Contract)
	companies.Get("/:id/contracts", anyRole, contractHandler.ListByCompany)
	companies.Post("/:id/certificate", clientOnly, invoiceHandler.UploadCertificate)
	companies.Get("/:id/certificate", anyRole, invoiceHandler.GetCertificate)
	companies.Post("/:id/nfse", clientOnly, invoiceHandler.Request)
	companies.Get("/:id/nfse", anyRole, invoiceHandler.ListByCompany)
	companies.Get("/:id/budget-config", anyRole, budgetHandler.GetConfig)
	companies.Put("/:id/budget-config", clientOnly, budgetHandler.SaveConfig)
	companies.Get("/:id/budget-config/logo", anyRole, budgetHandler.Logo)
	companies.Put("/:id/budget-config/logo", clientOnly, budgetHandler.UploadLogo)
	companies.Delete("/:id/budget-config/logo", clientOnly, budgetHandler.RemoveLogo)
	companies.Post("/:id/budgets", clientOnly, budgetHandler.Generate)

	protected.Get("/budget-configs", staffOnly, budgetHandler.ListConfigs)
	protected.Put("/subscriptions/:id/status", adminOnly, companyHandler.SetSubscriptionStatus)

	// Documentos
	protected.Get("/document-types", anyRole, documentHandler.ListTypes)
	protected.Post("/document-types", adminOnly, documentHandler.CreateType)
	protected.Put("/document-types/:id", adminOnly, documentHandler.UpdateType)
	documents := protected.Group("/documents")
	documents.Get("/:id/download", anyRole, documentHandler.Download)
	documents.Post("/:id/approve", staffOnly, documentHandler.Approve)
	documents.Post("/:id/reject", staffOnly, documentHandler.Reject)
	documents.Delete("/:id", clientOnly, documentHandler.Delete)

	// Catálogo
	protected.Get("/plans", anyRole, catalogHandler.ListPlans)
	protected.Post("/plans", adminOnly, catalogHandler.CreatePlan)
	protected.Put("/plans/:id", adminOnly, catalogHandler.UpdatePlan)
	protected.Get("/services", anyRole, catalogHandler.ListServices)
	protected.Post("/services", adminOnly, catalogHandler.CreateService)
	protected.Put("/services/:id", adminOnly, catalogHandler.UpdateService)

	// Serviços contratados
	contracts := protected.Group("/contracts")
	contracts.Get("/", staffOnly, contractHandler.List)
	contracts.Get("/aging", staffOnly, contractHandler.Aging)
	contracts.Post("/:id/start", staffOnly, contractHandler.Start)
	contracts.Post("/:id/complete", staffOnly, contractHandler.Complete)
	contracts.Post("/:id/cancel", anyRole, contractHandler.Cancel)

	// NFS-e
	nfse := protected.Group("/nfse", staffOnly)
	nfse.Get("/", invoiceHandler.List)
	nfse.Post("/:id/processing", invoiceHandler.StartProcessing)
	nfse.Post("/:id/issued", invoiceHandler.MarkIssued)
	nfse.Post("/:id/error", invoiceHandler.MarkError)
	nfse.Post("/:id/cancel", invoiceHandler.Cancel)
	nfse.Get("/:id/rps.xml", invoiceHandler.ExportRPS)

	// Notificaciones
	notifications := protected.Group("/notifications", anyRole)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Get("/stream", notificationHandler.Stream)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	// Administración
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", userHandler.SetRole)
	users.Put("/:id/active", userHandler.SetActive)
	protected.Get("/audit", adminOnly, userHandler.Audit)

	protected.Get("/dashboard/summary", anyRole, dashboardHandler.GetSummary)
}
