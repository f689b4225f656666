package routes

import (
	"time"

	"goldengeneration/handlers"
	"goldengeneration/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSignupRoutes registers the signup session endpoints.
func RegisterSignupRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/signup")
	{
		api.GET("/options", hb.I18n.FormOptionsHandler)

		session := api.Group("/session")
		session.Use(middleware.FirebaseAuthMiddleware(hb.Verifier))
		session.POST("", hb.Signup.StartSessionHandler)
		session.GET("", hb.Signup.GetSessionHandler)
		session.DELETE("", hb.Signup.AbandonHandler)
		session.PATCH("/personal", hb.Signup.ChangePersonalFieldHandler)
		session.POST("/personal/submit", hb.Signup.SubmitPersonalHandler)
		session.POST("/community/toggle", hb.Signup.ToggleCommunityOptionHandler)
		session.PATCH("/community", hb.Signup.SetCommunityFieldHandler)
		session.POST("/community/submit", hb.Signup.SubmitCommunityHandler)
		session.POST("/back", hb.Signup.BackHandler)
		session.POST("/finalize", hb.Signup.FinalizeHandler)
	}
}

// RegisterEventRoutes registers the events feed. Writes need the admin claim.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.GET("", hb.Events.ListEventsHandler)

		admin := api.Group("")
		admin.Use(middleware.FirebaseAuthMiddleware(hb.Verifier), middleware.RequireAdmin())
		admin.POST("", hb.Events.CreateEventHandler)
		admin.DELETE("/:id", hb.Events.DeleteEventHandler)
	}
}

// RegisterMemberRoutes registers access to stored registrations.
func RegisterMemberRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/members/me", middleware.FirebaseAuthMiddleware(hb.Verifier), hb.Members.GetMyMemberHandler)

	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.FirebaseAuthMiddleware(hb.Verifier), middleware.RequireAdmin())
		adminGroup.GET("/members/:uid", hb.Members.GetMemberHandler)
		adminGroup.DELETE("/members/:uid", hb.Members.DeleteMemberHandler)
	}
}

// RegisterI18nRoutes registers the language endpoints.
func RegisterI18nRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/i18n/languages", hb.I18n.LanguagesHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := hb.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.RateLimit))
	r.Use(middleware.LocaleMiddleware(hb.Catalog, hb.DefaultLocale))

	RegisterSignupRoutes(r, hb)
	RegisterEventRoutes(r, hb)
	RegisterMemberRoutes(r, hb)
	RegisterI18nRoutes(r, hb)
	RegisterHealthRoute(r)
}
