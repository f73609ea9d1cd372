package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/middleware"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
	"github.com/BuzzLyutic/taskhub-api/internal/service"
)

type Deps struct {
	Store    repo.Store
	Tokens   *auth.TokenManager
	Metrics  *middleware.Metrics // nil disables /metrics
	PageSize int
	Logger   *zap.Logger
}

// NewRouter wires services and handlers over the store and returns the HTTP surface.
func NewRouter(d Deps) http.Handler {
	tasks := NewTaskHandler(service.NewTaskService(d.Store, d.Store, d.Store, d.PageSize), d.Logger)
	subtasks := NewSubTaskHandler(service.NewSubTaskService(d.Store, d.Store, d.PageSize), d.Logger)
	categories := NewCategoryHandler(service.NewCategoryService(d.Store), d.Logger)
	authH := NewAuthHandler(service.NewAuthService(d.Store, d.Store, d.Tokens), d.Logger)
	health := NewHealthHandler(d.Store, d.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(d.Logger))
	r.Use(chimw.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/health", health.Health)

	// токен-эндпоинты не смотрят на заголовок Authorization: клиент приходит сюда с протухшим access
	r.Post("/register/", authH.Register)
	r.Post("/token/", authH.Login)
	r.Post("/token/refresh/", authH.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(d.Tokens))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Post("/", categories.Create)
			r.Get("/count_tasks/", categories.CountTasks)
			r.Get("/deleted/", categories.Deleted)
			r.Get("/{id}/", categories.Get)
			r.Put("/{id}/", categories.Update)
			r.Delete("/{id}/", categories.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/logout/", authH.Logout)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", tasks.List)
				r.Post("/", tasks.Create)
				r.Get("/stats/", tasks.Stats)
				r.Get("/my/", tasks.My)
				r.Get("/{id}/", tasks.Get)
				r.Put("/{id}/", tasks.Replace)
				r.Patch("/{id}/", tasks.Patch)
				r.Delete("/{id}/", tasks.Delete)
			})

			r.Route("/subtasks", func(r chi.Router) {
				r.Get("/", subtasks.List)
				r.Post("/", subtasks.Create)
				r.Get("/{id}/", subtasks.Get)
				r.Put("/{id}/", subtasks.Replace)
				r.Patch("/{id}/", subtasks.Patch)
				r.Delete("/{id}/", subtasks.Delete)
			})
		})
	})

	return r
}
