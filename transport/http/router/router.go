package router

import (
	"github.com/go-chi/chi/v5"

	"lodge/internal/handlers/auth"
	"lodge/internal/handlers/booking"
	"lodge/internal/handlers/maintenance"
	"lodge/internal/handlers/room"
	"lodge/internal/handlers/task"
	"lodge/internal/handlers/user"
	"lodge/transport/http/middleware"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Room        room.Handler
	Booking     booking.Handler
	Task        task.Handler
	Maintenance maintenance.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthMiddleware middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthMiddleware.APIKey)
		routerGroup.Use(r.AuthMiddleware.Auth)
		routerGroup.Use(r.AuthMiddleware.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Task.Router(routerGroup)
		r.DomainHandlers.Maintenance.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authMiddleware middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthMiddleware: authMiddleware,
	}
}
