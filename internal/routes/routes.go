package routes

import (
	"github.com/atakamran/LiftLegendsBack/internal/config"
	"github.com/atakamran/LiftLegendsBack/internal/handlers"
	"github.com/atakamran/LiftLegendsBack/internal/middleware"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/atakamran/LiftLegendsBack/internal/services"
	notifyws "github.com/atakamran/LiftLegendsBack/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, hub *notifyws.Hub) *services.SubscriptionService {
	userRepo := repository.NewUserRepository(db)
	userProfileRepo := repository.NewUserProfileRepository(db)
	programRepo := repository.NewProgramRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	cartRepo := repository.NewCartRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	gymRepo := repository.NewGymRepository(db)
	coachRepo := repository.NewCoachRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	var gateway services.PaymentGateway
	if cfg.ZarinpalMerchantID != "" {
		gateway = services.NewZarinpalGateway(cfg.ZarinpalMerchantID, cfg.ZarinpalSandbox)
	}
	callbackURL := cfg.ZarinpalCallback
	if callbackURL == "" {
		callbackURL = cfg.AppBaseURL + "/api/payment/verify"
	}

	subscriptionService := services.NewSubscriptionService(userProfileRepo, hub)
	catalogService := services.NewCatalogService(programRepo)
	cartService := services.NewCartService(cartRepo, discountRepo, programRepo, gymRepo)
	paymentService := services.NewPaymentService(purchaseRepo, userProfileRepo, gateway, callbackURL)

	authHandler := handlers.NewAuthHandler(db, userRepo, userProfileRepo, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(subscriptionService, userProfileRepo, paymentService)
	programHandler := handlers.NewProgramHandler(catalogService, programRepo, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	blogHandler := handlers.NewBlogHandler(blogRepo, storageService)
	gymHandler := handlers.NewGymHandler(gymRepo)
	coachHandler := handlers.NewCoachHandler(coachRepo)
	discountHandler := handlers.NewDiscountHandler(discountRepo)
	searchHandler := handlers.NewSearchHandler(catalogService, blogRepo)
	notificationHandler := handlers.NewNotificationHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	programs := api.Group("/programs")
	programs.Get("", programHandler.ListPrograms)
	programs.Get("/:id", programHandler.GetProgram)

	blog := api.Group("/blog")
	blog.Get("", blogHandler.ListPosts)
	blog.Get("/:slug", blogHandler.GetPost)

	gyms := api.Group("/gyms")
	gyms.Get("", gymHandler.ListGyms)
	gyms.Get("/:id", gymHandler.GetGym)

	coaches := api.Group("/coaches")
	coaches.Get("", coachHandler.ListCoaches)
	coaches.Get("/:id", coachHandler.GetCoach)

	api.Get("/search", searchHandler.Search)

	// Zarinpal redirects the buyer here after the hosted payment page.
	payment := api.Group("/payment")
	payment.Get("/verify", paymentHandler.VerifyPayment)
	payment.Get("/deep-link", paymentHandler.DeepLink)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := authProtected.Group("/users")
	users.Get("/profile", profileHandler.GetProfile)
	users.Put("/profile", profileHandler.UpdateProfile)
	users.Get("/dashboard", profileHandler.Dashboard)

	cart := authProtected.Group("/cart")
	cart.Get("", cartHandler.GetCart)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:id", cartHandler.UpdateItem)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Delete("", cartHandler.ClearCart)
	cart.Post("/discount", cartHandler.ApplyDiscount)

	payments := authProtected.Group("/payments")
	payments.Post("/subscription", paymentHandler.RequestPayment)
	payments.Get("", paymentHandler.ListPurchases)

	admin := authProtected.Group("/admin", middleware.AdminRequired())
	admin.Post("/programs", programHandler.CreateProgram)
	admin.Put("/programs/:id", programHandler.UpdateProgram)
	admin.Delete("/programs/:id", programHandler.DeleteProgram)
	admin.Post("/programs/:id/image", programHandler.UploadProgramImage)
	admin.Get("/blog", blogHandler.ListAllPosts)
	admin.Post("/blog", blogHandler.CreatePost)
	admin.Put("/blog/:id", blogHandler.UpdatePost)
	admin.Delete("/blog/:id", blogHandler.DeletePost)
	admin.Post("/blog/:id/cover", blogHandler.UploadCoverImage)
	admin.Post("/gyms", gymHandler.CreateGym)
	admin.Delete("/gyms/:id", gymHandler.DeleteGym)
	admin.Post("/gyms/:id/memberships", gymHandler.CreateMembership)
	admin.Get("/discounts", discountHandler.ListCodes)
	admin.Post("/discounts", discountHandler.CreateCode)
	admin.Delete("/discounts/:code", discountHandler.DeactivateCode)
	admin.Post("/coaches", coachHandler.CreateCoach)
	admin.Put("/coaches/:id", coachHandler.UpdateCoach)
	admin.Delete("/coaches/:id", coachHandler.DeleteCoach)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))

	return subscriptionService
}
