//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"lodge/config"
	"lodge/infras/jwt"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/infras/redis"
	"lodge/infras/s3"
	"lodge/permissions"
	"lodge/shared/cache"
	"lodge/transport/http"
	"lodge/transport/http/middleware"
	"lodge/transport/http/router"

	authService "lodge/internal/domains/auth/service"
	bookingRepository "lodge/internal/domains/booking/repository"
	bookingService "lodge/internal/domains/booking/service"
	maintenanceRepository "lodge/internal/domains/maintenance/repository"
	maintenanceService "lodge/internal/domains/maintenance/service"
	roomRepository "lodge/internal/domains/room/repository"
	roomService "lodge/internal/domains/room/service"
	taskRepository "lodge/internal/domains/task/repository"
	taskService "lodge/internal/domains/task/service"
	userRepository "lodge/internal/domains/user/repository"
	userService "lodge/internal/domains/user/service"

	authHandler "lodge/internal/handlers/auth"
	bookingHandler "lodge/internal/handlers/booking"
	maintenanceHandler "lodge/internal/handlers/maintenance"
	roomHandler "lodge/internal/handlers/room"
	taskHandler "lodge/internal/handlers/task"
	userHandler "lodge/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userRepository.NewSchedule,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var maintenanceDomain = wire.NewSet(
	maintenanceRepository.New,
	maintenanceService.New,
)

var taskDomain = wire.NewSet(
	taskRepository.New,
	taskRepository.NewAssignment,
	taskService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomDomain,
	bookingDomain,
	maintenanceDomain,
	taskDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	taskHandler.New,
	maintenanceHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeTaskService() taskService.Task {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
	)

	return nil
}
