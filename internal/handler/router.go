package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rfq-market/internal/domain/user"
	"rfq-market/internal/handler/api"
	"rfq-market/internal/handler/middleware"
	"rfq-market/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	rfqHandler *api.RFQHandler,
	quoteHandler *api.QuoteHandler,
	declineHandler *api.DeclineHandler,
	dispatchHandler *api.DispatchHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, rfqHandler, quoteHandler, declineHandler, dispatchHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	rfqHandler *api.RFQHandler,
	quoteHandler *api.QuoteHandler,
	declineHandler *api.DeclineHandler,
	dispatchHandler *api.DispatchHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		rfqs := apiGroup.Group("/rfqs")
		rfqs.Use(authMiddleware.RequireAuth())
		{
			addRoutes(rfqs, []route{
				{Method: http.MethodPost, Path: "", Handler: rfqHandler.Create,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleClient)}},
				{Method: http.MethodGet, Path: "", Handler: rfqHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: rfqHandler.Get},
				{Method: http.MethodGet, Path: "/:id/quotes", Handler: rfqHandler.ListQuotes},
				{Method: http.MethodGet, Path: "/:id/declines", Handler: rfqHandler.ListDeclines},
			})
		}

		quotes := apiGroup.Group("/quotes")
		quotes.Use(authMiddleware.RequireAuth())
		{
			addRoutes(quotes, []route{
				{Method: http.MethodPost, Path: "", Handler: quoteHandler.Create,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleProvider)}},
				{Method: http.MethodPost, Path: "/:id/accept", Handler: quoteHandler.Accept,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleClient)}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: quoteHandler.Reject,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleClient)}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: quoteHandler.Complete,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleProvider)}},
			})
		}

		declines := apiGroup.Group("/declines")
		declines.Use(authMiddleware.RequireAuth())
		{
			addRoutes(declines, []route{
				{Method: http.MethodPost, Path: "", Handler: declineHandler.Create,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleProvider)}},
			})
		}

		dispatches := apiGroup.Group("/dispatches")
		dispatches.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleAdmin))
		{
			addRoutes(dispatches, []route{
				{Method: http.MethodGet, Path: "", Handler: dispatchHandler.List},
				{Method: http.MethodGet, Path: "/requests/:id", Handler: dispatchHandler.Get},
				{Method: http.MethodGet, Path: "/batches/:id", Handler: dispatchHandler.GetBatch},
				{Method: http.MethodPost, Path: "/targets/:id/retry", Handler: dispatchHandler.Retry},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
