package api

import (
	"echo_bank/internal/auth"       // Token verification
	"echo_bank/internal/middleware" // Middleware

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the services the router dispatches to
type Deps struct {
	Verifier   auth.Verifier
	Onboarding Linker
	Accounts   AccountService
	Users      UserService
	Plaid      LinkTokenCreator // Optional
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	// Auth routes
	r.POST("/user", RegisterHandler(d.Users))    // Registration endpoint
	r.POST("/user/login", LoginHandler(d.Users)) // Login endpoint

	// Nessie onboarding; the workflow verifies the credential itself
	r.POST("/nessie/link-user", LinkUserHandler(d.Onboarding))

	authed := middleware.AuthMiddleware(d.Verifier)

	// Account routes (protected)
	accountGroup := r.Group("/accounts", authed)
	accountGroup.GET("", ListAccountsHandler(d.Accounts))                             // List accounts
	accountGroup.POST("/mock", CreateMockAccountsHandler(d.Accounts))                 // Seed mock accounts
	accountGroup.GET("/:accountId/transactions", ListTransactionsHandler(d.Accounts)) // Account transactions

	// Plaid routes (protected)
	r.GET("/plaid/create-link-token", authed, CreateLinkTokenHandler(d.Plaid)) // Plaid Link token

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin", authed, middleware.AdminOnlyMiddleware(d.Users))
	adminGroup.GET("/users", ListUsersHandler(d.Users)) // List users endpoint
}
