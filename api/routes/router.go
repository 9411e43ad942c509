package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelvin-saputra/sievo-sub000/api/controllers"
	"github.com/kelvin-saputra/sievo-sub000/api/middleware"
	"github.com/kelvin-saputra/sievo-sub000/internal/auth"
	"github.com/kelvin-saputra/sievo-sub000/internal/budgets"
	"github.com/kelvin-saputra/sievo-sub000/internal/contacts"
	"github.com/kelvin-saputra/sievo-sub000/internal/events"
	"github.com/kelvin-saputra/sievo-sub000/internal/hr"
	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/internal/notifications"
	"github.com/kelvin-saputra/sievo-sub000/internal/organizations"
	"github.com/kelvin-saputra/sievo-sub000/internal/proposals"
	"github.com/kelvin-saputra/sievo-sub000/internal/purchasing"
	"github.com/kelvin-saputra/sievo-sub000/internal/tasks"
	"github.com/kelvin-saputra/sievo-sub000/internal/users"
	"github.com/kelvin-saputra/sievo-sub000/internal/vendorservices"
	"github.com/kelvin-saputra/sievo-sub000/pkg/auth/session"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
	"github.com/kelvin-saputra/sievo-sub000/pkg/metrics"
	pkgredis "github.com/kelvin-saputra/sievo-sub000/pkg/redis"
)

const (
	writeLimit  = 300
	writeWindow = time.Minute
)

// RedisStore is the slice of the redis client the HTTP layer uses.
type RedisStore interface {
	pkgredis.IdempotencyStore
	middleware.WindowLimiter
	Ping(ctx context.Context) error
}

// Deps carries everything NewRouter wires. Nil services are not allowed.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       RedisStore
	Sessions    session.AccessSessionChecker
	Memberships middleware.MembershipLookup
	HTTPMetrics *metrics.HTTPMetrics
	// MetricsHandler serves /metrics; omitted when nil.
	MetricsHandler http.Handler

	Auth           auth.Service
	Users          users.Service
	Organizations  organizations.Service
	Contacts       contacts.Service
	Events         events.Service
	Tasks          tasks.Service
	HR             hr.Service
	Inventory      inventory.Service
	VendorServices vendorservices.Service
	Purchasing     purchasing.Service
	Budgets        budgets.Service
	Proposals      proposals.Service
	Notifications  notifications.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, map[string]controllers.Pinger{
			"postgres": d.DB,
			"redis":    d.Redis,
		}, logg))
	})
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	authHandlers := controllers.AuthHandlers{
		Service: d.Auth,
		JWT:     cfg.JWT,
		Cookies: cfg.Cookie,
		Logger:  logg,
	}
	budgetHandlers := controllers.BudgetHandlers{Service: d.Budgets, Logger: logg}

	authenticate := middleware.Auth(cfg.JWT, cfg.Cookie, d.Sessions, logg)
	staff := middleware.RequireRoles(logg, middleware.RolesStaff...)
	planners := middleware.RequireRoles(logg, middleware.RolesPlanners...)
	approvers := middleware.RequireRoles(logg, middleware.RolesApprovers...)
	once := middleware.Idempotent(d.Redis, middleware.CreateReplayTTL, logg)
	approval := middleware.Idempotent(d.Redis, middleware.ApprovalReplayTTL, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.Throttle(middleware.RegisterPolicy(cfg.AuthRateLimit), d.Redis, logg), once).
				Post("/register", authHandlers.Register())
			r.With(middleware.Throttle(middleware.LoginPolicy(cfg.AuthRateLimit), d.Redis, logg)).
				Post("/login", authHandlers.Login())
			r.Post("/refresh", authHandlers.Refresh())
			r.Post("/logout", authHandlers.Logout())

			r.With(authenticate).Post("/switch-organization", authHandlers.SwitchOrganization())
			r.With(authenticate, middleware.OrganizationContext(d.Memberships, logg)).Get("/me", authHandlers.Me())
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.OrganizationContext(d.Memberships, logg))
			r.Use(middleware.UserRateLimit("writes", writeLimit, writeWindow, d.Redis, logg))

			r.Put("/users/me/password", controllers.ChangePassword(d.Users, logg))
			r.Get("/users/{userId}/assignments", controllers.UserSchedule(d.HR, logg))

			r.Route("/organization", func(r chi.Router) {
				r.Get("/", controllers.OrganizationGet(d.Organizations, logg))
				r.Get("/members", controllers.OrganizationMembers(d.Organizations, logg))
				r.Group(func(r chi.Router) {
					r.Use(approvers)
					r.Put("/", controllers.OrganizationUpdate(d.Organizations, logg))
					r.With(once).Post("/members", controllers.OrganizationInvite(d.Organizations, logg))
					r.Patch("/members/{userId}", controllers.OrganizationChangeRole(d.Organizations, logg))
					r.Delete("/members/{userId}", controllers.OrganizationRemoveMember(d.Organizations, logg))
				})
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", controllers.ContactList(d.Contacts, logg))
				r.Get("/{contactId}", controllers.ContactGet(d.Contacts, logg))
				r.With(staff, once).Post("/", controllers.ContactCreate(d.Contacts, logg))
				r.With(staff).Put("/{contactId}", controllers.ContactUpdate(d.Contacts, logg))
				r.With(staff).Delete("/{contactId}", controllers.ContactDelete(d.Contacts, logg))
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", controllers.EventList(d.Events, logg))
				r.With(planners, once).Post("/", controllers.EventCreate(d.Events, logg))

				r.Route("/{eventId}", func(r chi.Router) {
					r.Get("/", controllers.EventGet(d.Events, logg))
					r.With(planners).Put("/", controllers.EventUpdate(d.Events, logg))
					r.With(planners).Delete("/", controllers.EventDelete(d.Events, logg))
					r.With(planners, approval).Post("/status", controllers.EventChangeStatus(d.Events, logg))

					r.Get("/tasks", controllers.TaskList(d.Tasks, logg))
					r.With(staff, once).Post("/tasks", controllers.TaskCreate(d.Tasks, logg))

					r.With(staff).Get("/assignments", controllers.EventStaff(d.HR, logg))
					r.With(planners, once).Post("/assignments", controllers.AssignmentCreate(d.HR, logg))
					r.With(planners).Patch("/assignments/{userId}", controllers.AssignmentUpdate(d.HR, logg))
					r.With(planners).Delete("/assignments/{userId}", controllers.AssignmentDelete(d.HR, logg))

					r.Route("/budget", func(r chi.Router) {
						r.Use(staff)
						r.Get("/", budgetHandlers.Get())
						r.Get("/summary", budgetHandlers.Summary())
						r.Group(func(r chi.Router) {
							r.Use(planners)
							r.Put("/", budgetHandlers.UpdateNotes())
							r.With(approval).Post("/status", budgetHandlers.ChangeStatus())
							r.Post("/categories", budgetHandlers.CreateCategory())
							r.Patch("/categories/{categoryId}", budgetHandlers.UpdateCategory())
							r.Delete("/categories/{categoryId}", budgetHandlers.DeleteCategory())
							r.With(once).Post("/plan", budgetHandlers.CreatePlanItem())
							r.Patch("/plan/{itemId}", budgetHandlers.UpdatePlanItem())
							r.Delete("/plan/{itemId}", budgetHandlers.DeletePlanItem())
							r.With(once).Post("/actual", budgetHandlers.CreateActualItem())
							r.Patch("/actual/{itemId}", budgetHandlers.UpdateActualItem())
							r.Delete("/actual/{itemId}", budgetHandlers.DeleteActualItem())
						})
					})
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", controllers.TaskList(d.Tasks, logg))
				r.Get("/{taskId}", controllers.TaskGet(d.Tasks, logg))
				r.Patch("/{taskId}", controllers.TaskUpdate(d.Tasks, logg))
				r.With(staff).Delete("/{taskId}", controllers.TaskDelete(d.Tasks, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryList(d.Inventory, logg))
				r.Get("/{inventoryId}", controllers.InventoryGet(d.Inventory, logg))
				r.With(staff, once).Post("/", controllers.InventoryCreate(d.Inventory, logg))
				r.With(staff).Put("/{inventoryId}", controllers.InventoryUpdate(d.Inventory, logg))
				r.With(staff).Delete("/{inventoryId}", controllers.InventoryDelete(d.Inventory, logg))
			})

			r.Route("/vendor-services", func(r chi.Router) {
				r.Get("/", controllers.VendorServiceList(d.VendorServices, logg))
				r.Get("/{serviceId}", controllers.VendorServiceGet(d.VendorServices, logg))
				r.With(staff, once).Post("/", controllers.VendorServiceCreate(d.VendorServices, logg))
				r.With(staff).Put("/{serviceId}", controllers.VendorServiceUpdate(d.VendorServices, logg))
				r.With(staff).Delete("/{serviceId}", controllers.VendorServiceDelete(d.VendorServices, logg))
			})

			r.Route("/purchasing", func(r chi.Router) {
				r.Get("/", controllers.PurchasingList(d.Purchasing, logg))
				r.Get("/{purchasingId}", controllers.PurchasingGet(d.Purchasing, logg))
				r.With(staff, once).Post("/", controllers.PurchasingCreate(d.Purchasing, logg))
				r.With(staff).Put("/{purchasingId}", controllers.PurchasingUpdate(d.Purchasing, logg))
				r.With(staff).Delete("/{purchasingId}", controllers.PurchasingDelete(d.Purchasing, logg))
			})

			r.Route("/proposals", func(r chi.Router) {
				r.Use(staff)
				r.Get("/", controllers.ProposalList(d.Proposals, logg))
				r.Get("/{proposalId}", controllers.ProposalGet(d.Proposals, logg))
				r.With(planners, once).Post("/", controllers.ProposalCreate(d.Proposals, logg))
				r.With(planners).Put("/{proposalId}", controllers.ProposalUpdate(d.Proposals, logg))
				r.With(planners, approval).Post("/{proposalId}/status", controllers.ProposalChangeStatus(d.Proposals, logg))
				r.With(planners).Delete("/{proposalId}", controllers.ProposalDelete(d.Proposals, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(d.Notifications, logg))
				r.With(once).Post("/read-all", controllers.MarkAllNotificationsRead(d.Notifications, logg))
				r.With(once).Post("/{notificationId}/read", controllers.MarkNotificationRead(d.Notifications, logg))
			})
		})
	})

	return r
}
