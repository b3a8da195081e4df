// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"sinergia_backend/internal/admin"
	"sinergia_backend/internal/app"
	"sinergia_backend/internal/appointment"
	"sinergia_backend/internal/auth"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/meeting"
	"sinergia_backend/internal/platform/database"
	"sinergia_backend/internal/platform/logger"
	"sinergia_backend/internal/shared"
	"sinergia_backend/internal/user"

	"github.com/google/wire"
)

// initializeApplication is the main Wire injector.
func initializeApplication(cfg *config.Config) (*application, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,

		// Tokens
		auth.NewJWTService,
		wire.Bind(new(shared.TokenService), new(*auth.JWTService)),

		// Accounts
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),

		// Appointments
		appointment.NewGORMRepository,
		appointment.NewService,
		wire.Bind(new(appointment.Service), new(*appointment.ServiceImplementation)),

		// Meetings
		meeting.NewProvider,
		meeting.NewService,
		wire.Bind(new(meeting.Service), new(*meeting.ServiceImplementation)),

		// Handlers
		auth.NewHandler,
		appointment.NewHandler,
		admin.NewHandler,
		meeting.NewHandler,

		// Application Layer
		app.NewServer,
		newApplication,
	)
	return nil, nil, nil
}
