package main

import (
	"github.com/gofiber/fiber/v2"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"
	// recover turns a panicking handler into an error for the ErrorHandler
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/trentd187/sports-academy/internal/config"
	"github.com/trentd187/sports-academy/internal/handlers"
	"github.com/trentd187/sports-academy/internal/middleware"
	"github.com/trentd187/sports-academy/internal/models"
)

var (
	admin  = models.UserRoleAdmin
	coach  = models.UserRoleCoach
	player = models.UserRolePlayer
)

// newApp builds the fiber app with every route registered.
func newApp(cfg *config.Config, env *handlers.Env, gate *middleware.Gate) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Sports Academy API",
		// Every error, including unknown routes (404) and wrong verbs (405),
		// leaves as a JSON envelope.
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Global middleware ---
	// These run on every request before any route handler.
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.AllowOrigin(cfg.AllowedOrigin))

	// --- Public routes (no auth required) ---
	// GET /health is a liveness check for container probes and load balancers.
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Get("/status", handlers.DatabaseStatus(env))
	api.Options("/status", middleware.Preflight(fiber.MethodGet))

	authRoutes := api.Group("/auth")
	authRoutes.Get("/status", handlers.DatabaseStatus(env))
	authRoutes.Post("/login", handlers.Login(env))
	authRoutes.Post("/register", handlers.Register(env))
	authRoutes.Options("/status", middleware.Preflight(fiber.MethodGet))
	authRoutes.Options("/login", middleware.Preflight(fiber.MethodPost))
	authRoutes.Options("/register", middleware.Preflight(fiber.MethodPost))

	// --- Authenticated routes ---
	// Each resource group carries the gate with its role allowlist. Record-level
	// decisions (ownership, admin-only writes) are made by the handlers.

	users := api.Group("/users", gate.Require(admin))
	users.Get("/", handlers.GetUsers(env))
	users.Options("/", middleware.Preflight(fiber.MethodGet))

	players := api.Group("/players", gate.Require(admin, coach, player))
	players.Get("/", handlers.GetPlayers(env))
	players.Post("/", handlers.NotImplemented("POST method not implemented for /api/players"))
	players.Get("/:id", handlers.GetPlayer(env))
	players.Put("/:id", handlers.UpdatePlayer(env))
	players.Delete("/:id", handlers.DeletePlayer(env))
	collection(players)

	coaches := api.Group("/coaches", gate.Require(admin, coach, player))
	// Players get through the group gate, so this route narrows it again.
	coaches.Get("/:id/players", middleware.RequireRole("Access denied", admin, coach), handlers.GetCoachPlayers(env))
	coaches.Options("/:id/players", middleware.Preflight(fiber.MethodGet))
	coaches.Get("/", handlers.GetCoaches(env))
	coaches.Post("/", handlers.NotImplemented("POST method not implemented for /api/coaches"))
	coaches.Get("/:id", handlers.GetCoach(env))
	coaches.Put("/:id", handlers.UpdateCoach(env))
	coaches.Delete("/:id", handlers.DeleteCoach(env))
	collection(coaches)

	resource(api, gate, "/games", all(), crud{
		list: handlers.GetGames, get: handlers.GetGame, create: handlers.CreateGame,
		update: handlers.UpdateGame, remove: handlers.DeleteGame,
	}, env)
	resource(api, gate, "/batches", all(), crud{
		list: handlers.GetBatches, get: handlers.GetBatch, create: handlers.CreateBatch,
		update: handlers.UpdateBatch, remove: handlers.DeleteBatch,
	}, env)
	resource(api, gate, "/training_sessions", all(), crud{
		list: handlers.GetTrainingSessions, get: handlers.GetTrainingSession, create: handlers.CreateTrainingSession,
		update: handlers.UpdateTrainingSession, remove: handlers.DeleteTrainingSession,
	}, env)
	resource(api, gate, "/attendance", all(), crud{
		list: handlers.GetAttendance, get: handlers.GetAttendanceRecord, create: handlers.CreateAttendance,
		update: handlers.UpdateAttendance, remove: handlers.DeleteAttendance,
	}, env)
	resource(api, gate, "/payments", []models.UserRole{admin, player}, crud{
		list: handlers.GetPayments, get: handlers.GetPayment, create: handlers.CreatePayment,
		update: handlers.UpdatePayment, remove: handlers.DeletePayment,
	}, env)
	resource(api, gate, "/performance_notes", all(), crud{
		list: handlers.GetPerformanceNotes, get: handlers.GetPerformanceNote, create: handlers.CreatePerformanceNote,
		update: handlers.UpdatePerformanceNote, remove: handlers.DeletePerformanceNote,
	}, env)
	resource(api, gate, "/player_stats", all(), crud{
		list: handlers.GetPlayerStats, get: handlers.GetPlayerStatsRecord, create: handlers.CreatePlayerStats,
		update: handlers.UpdatePlayerStats, remove: handlers.DeletePlayerStats,
	}, env)

	// POST /api/admin/reset-db wipes and reseeds every table.
	adminRoutes := api.Group("/admin", gate.Require(admin))
	adminRoutes.Post("/reset-db",
		middleware.RequireRole("Access Denied: Admins only", admin),
		handlers.ResetDatabase(env))
	adminRoutes.Options("/reset-db", middleware.Preflight(fiber.MethodPost))

	return app
}

func all() []models.UserRole { return []models.UserRole{admin, coach, player} }

// crud holds the five handler factories of a standard resource.
type crud struct {
	list, get, create, update, remove func(*handlers.Env) fiber.Handler
}

// resource registers the standard five routes of one resource under prefix, behind
// a gate admitting roles.
func resource(api fiber.Router, gate *middleware.Gate, prefix string, roles []models.UserRole, h crud, env *handlers.Env) {
	grp := api.Group(prefix, gate.Require(roles...))
	grp.Get("/", h.list(env))
	grp.Post("/", h.create(env))
	grp.Get("/:id", h.get(env))
	grp.Put("/:id", h.update(env))
	grp.Delete("/:id", h.remove(env))
	collection(grp)
}

// collection answers preflight for a resource's collection and record paths.
func collection(grp fiber.Router) {
	grp.Options("/", middleware.Preflight(fiber.MethodGet, fiber.MethodPost))
	grp.Options("/:id", middleware.Preflight(fiber.MethodGet, fiber.MethodPut, fiber.MethodDelete))
}
