package router

import (
	"database/sql"
	"net/http"
	"time"

	"pet-care-planner/internal/adapters/location/devicequery"
	mem "pet-care-planner/internal/adapters/storage/memory"
	pg "pet-care-planner/internal/adapters/storage/postgres"
	"pet-care-planner/internal/domain/foods"
	"pet-care-planner/internal/domain/grooming"
	"pet-care-planner/internal/domain/health"
	"pet-care-planner/internal/domain/notifications"
	"pet-care-planner/internal/domain/overview"
	"pet-care-planner/internal/domain/pets"
	"pet-care-planner/internal/domain/profiles"
	"pet-care-planner/internal/domain/schedule"
	"pet-care-planner/internal/domain/shops"
	"pet-care-planner/internal/domain/tasks"
	"pet-care-planner/internal/middleware"
	"pet-care-planner/internal/platform/logger"
	"pet-care-planner/internal/ports/auth"
	"pet-care-planner/internal/ports/location"

	_ "pet-care-planner/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Zona para decidir "hoy". nil = UTC.
	Location *time.Location

	// Locate obtiene la ubicación del dispositivo. nil = lat/lon o header.
	Locate func(r *http.Request) location.Provider

	// Feed de notificaciones; si es nil se crea uno. Quien arma el
	// http.Server debe cerrarlo al apagar (RegisterOnShutdown(feed.CloseAll)).
	Feed *notifications.Feed

	// Emails con rol admin.
	AdminEmails []string
}

type repos struct {
	pets          pets.Repository
	tasks         tasks.Repository
	grooming      grooming.Repository
	health        health.Repository
	notifications notifications.Repository
	foods         foods.Repository
	shops         shops.Repository
	profiles      profiles.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			pets:          pg.NewPetsRepo(db),
			tasks:         pg.NewTasksRepo(db),
			grooming:      pg.NewGroomingRepo(db),
			health:        pg.NewHealthRepo(db),
			notifications: pg.NewNotificationsRepo(db),
			foods:         pg.NewFoodsRepo(db),
			shops:         pg.NewShopsRepo(db),
			profiles:      pg.NewProfilesRepo(db),
		}
	}
	return repos{
		pets:          mem.NewPetRepo(),
		tasks:         mem.NewTaskRepo(),
		grooming:      mem.NewGroomingRepo(),
		health:        mem.NewHealthRepo(),
		notifications: mem.NewNotificationRepo(),
		foods:         mem.NewFoodRepo(),
		shops:         mem.NewShopRepo(),
		profiles:      mem.NewProfileRepo(),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	locate := opts.Locate
	if locate == nil {
		locate = func(r *http.Request) location.Provider { return devicequery.FromRequest(r) }
	}
	feed := opts.Feed
	if feed == nil {
		feed = notifications.NewFeed(0)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.AdminEmails(opts.AdminEmails))
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := newRepos(opts.DB)

	// Dependencias compartidas por los tipos agendados
	deps := schedule.Deps{
		Location:  opts.Location,
		Anomalies: schedule.NewAnomalyLog(log),
		Log:       log,
	}
	notificationsSvc := notifications.NewService(rp.notifications, feed, deps)
	deps.Reminders = notificationsSvc

	// Services por módulo
	petsSvc := pets.NewService(rp.pets)
	tasksSvc := tasks.NewService(rp.tasks, deps)
	groomingSvc := grooming.NewService(rp.grooming, deps)
	healthSvc := health.NewService(rp.health, deps)
	foodsSvc := foods.NewService(rp.foods)
	shopsSvc := shops.NewService(rp.shops)
	profilesSvc := profiles.NewService(rp.profiles)
	overviewSvc := overview.NewService(deps,
		overview.TasksSource(tasksSvc),
		overview.GroomingSource(groomingSvc),
		overview.HealthSource(healthSvc),
	)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	tasks.RegisterRoutes(r, tasksSvc)
	grooming.RegisterRoutes(r, groomingSvc)
	health.RegisterRoutes(r, healthSvc)
	notifications.RegisterRoutes(r, notificationsSvc)
	foods.RegisterRoutes(r, foodsSvc)
	shops.RegisterRoutes(r, shopsSvc, locate)
	overview.RegisterRoutes(r, overviewSvc)
	profiles.RegisterRoutes(r, profilesSvc)

	return r
}
