package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/llanero/admin-backend/api/controllers"
	"github.com/llanero/admin-backend/api/middleware"
	"github.com/llanero/admin-backend/internal/banners"
	"github.com/llanero/admin-backend/internal/catalog"
	"github.com/llanero/admin-backend/internal/customers"
	"github.com/llanero/admin-backend/internal/gateway"
	"github.com/llanero/admin-backend/internal/members"
	"github.com/llanero/admin-backend/internal/notifications"
	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/internal/paymentmethods"
	"github.com/llanero/admin-backend/internal/realtime"
	"github.com/llanero/admin-backend/internal/reports"
	"github.com/llanero/admin-backend/internal/warehouses"
	"github.com/llanero/admin-backend/pkg/config"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/redis"
)

const (
	// inviteReplayTTL covers a console retrying an invite after a dropped connection.
	inviteReplayTTL  = 24 * time.Hour
	consoleReplayTTL = 10 * time.Minute
)

// Services are the domain services behind the console routes. A nil service
// answers its routes with an error instead of panicking.
type Services struct {
	Warehouses     warehouses.Service
	Catalog        catalog.Service
	Orders         orders.Service
	Customers      customers.Service
	Members        members.Service
	PaymentMethods paymentmethods.Service
	Banners        banners.Service
	Notifications  notifications.Service
	Reports        reports.Service
	Gateway        gateway.Service
}

type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Hub      *realtime.Hub
	Gatherer prometheus.Gatherer
	Services Services
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	svc := deps.Services

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// The optional Redis client must not reach the middleware as a typed nil.
	var (
		idempotencyStore redis.IdempotencyStore
		redisPinger      controllers.Pinger
		limiter          middleware.RateLimiter
	)
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		redisPinger = deps.Redis
		limiter = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    redisPinger,
		}, logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	inviteOnce := middleware.Idempotent(idempotencyStore, logg, inviteReplayTTL)
	actionOnce := middleware.Idempotent(idempotencyStore, logg, consoleReplayTTL)

	console := enums.StaffRoles
	stream := controllers.StreamConfig{Hub: deps.Hub, Heartbeat: cfg.Realtime.HeartbeatInterval, Logger: logg}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, logg))
		r.Use(middleware.RequireRoles(logg, console...))

		r.Get("/me", controllers.Me())

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", controllers.ListWarehouses(svc.Warehouses, logg))
			r.Post("/", controllers.CreateWarehouse(svc.Warehouses, logg))
			r.Get("/{warehouseId}", controllers.GetWarehouse(svc.Warehouses, logg))
			r.Patch("/{warehouseId}", controllers.UpdateWarehouse(svc.Warehouses, logg))
			r.Put("/{warehouseId}/active", controllers.SetWarehouseActive(svc.Warehouses, logg))
			r.Delete("/{warehouseId}", controllers.DeleteWarehouse(svc.Warehouses, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svc.Catalog, logg))
			r.Post("/", controllers.CreateCategory(svc.Catalog, logg))
			r.Put("/{categoryId}", controllers.UpdateCategory(svc.Catalog, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(svc.Catalog, logg))
		})
		r.Route("/subcategories", func(r chi.Router) {
			r.Get("/", controllers.ListSubcategories(svc.Catalog, logg))
			r.Post("/", controllers.CreateSubcategory(svc.Catalog, logg))
			r.Put("/{subcategoryId}", controllers.UpdateSubcategory(svc.Catalog, logg))
			r.Delete("/{subcategoryId}", controllers.DeleteSubcategory(svc.Catalog, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svc.Catalog, logg))
			r.Post("/", controllers.CreateProduct(svc.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(svc.Catalog, logg))
			r.Put("/{productId}", controllers.UpdateProduct(svc.Catalog, logg))
			r.Put("/{productId}/active", controllers.SetProductActive(svc.Catalog, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svc.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svc.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svc.Orders, logg))
			r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(svc.Orders, logg))
			r.With(actionOnce).Post("/{orderId}/assign", controllers.AssignOrderDelivery(svc.Orders, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svc.Customers, logg))
			r.Get("/{customerId}", controllers.GetCustomer(svc.Customers, logg))
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/team", controllers.ListTeamMembers(svc.Members, logg))
			r.Get("/delivery", controllers.ListDeliveryMembers(svc.Members, logg))
			r.Get("/{memberId}", controllers.GetMember(svc.Members, logg))
			r.Patch("/{memberId}", controllers.UpdateMember(svc.Members, logg))
			r.Put("/{memberId}/delivery-status", controllers.SetDeliveryStatus(svc.Members, logg))
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.ListPaymentMethods(svc.PaymentMethods, logg))
			r.Post("/", controllers.CreatePaymentMethod(svc.PaymentMethods, logg))
			r.Put("/{paymentMethodId}", controllers.UpdatePaymentMethod(svc.PaymentMethods, logg))
			r.Put("/{paymentMethodId}/active", controllers.SetPaymentMethodActive(svc.PaymentMethods, logg))
			r.Delete("/{paymentMethodId}", controllers.DeletePaymentMethod(svc.PaymentMethods, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.ListBanners(svc.Banners, logg))
			r.Post("/", controllers.CreateBanner(svc.Banners, logg))
			r.Put("/{bannerId}", controllers.UpdateBanner(svc.Banners, logg))
			r.Delete("/{bannerId}", controllers.DeleteBanner(svc.Banners, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svc.Notifications, logg))
			r.Post("/", controllers.CreateNotification(svc.Notifications, logg))
			r.With(actionOnce).Post("/{notificationId}/read", controllers.MarkNotificationRead(svc.Notifications, logg))
			r.With(actionOnce).Post("/read-all", controllers.MarkAllNotificationsRead(svc.Notifications, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", controllers.SalesSummary(svc.Reports, logg))
			r.Get("/sales/export", controllers.ExportSales(svc.Reports, logg))
		})

		r.Route("/realtime", func(r chi.Router) {
			r.Get("/orders", controllers.StreamOrders(svc.Orders, stream))
			r.Get("/notifications", controllers.StreamNotifications(svc.Notifications, stream))
		})
	})

	gatewayLimit := middleware.RateLimitPolicy{
		Name:   "gateway",
		Window: cfg.RateLimit.GatewayWindow,
		Limit:  cfg.RateLimit.GatewayLimit,
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, logg))
		r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin))
		r.Use(middleware.RateLimit(gatewayLimit, limiter, logg, http.MethodPost))

		r.With(inviteOnce).Post("/api/team", controllers.InviteMember(svc.Gateway, gateway.AudienceTeam, logg))
		r.Delete("/api/team", controllers.DeleteMember(svc.Gateway, gateway.AudienceTeam, logg))
		r.With(inviteOnce).Post("/api/delivery", controllers.InviteMember(svc.Gateway, gateway.AudienceDelivery, logg))
		r.Delete("/api/delivery", controllers.DeleteMember(svc.Gateway, gateway.AudienceDelivery, logg))
	})

	return r
}
