package app

import (
	"fmt"
	"net/http"
	"usuario/internal/app/deps"
	"usuario/internal/app/services"
	"usuario/internal/http/handlers/auth/confirm"
	"usuario/internal/http/handlers/auth/connect"
	"usuario/internal/http/handlers/auth/register"
	"usuario/internal/http/handlers/auth/resend"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	isTestMode := deps.Config.IsTestMode

	authRouter := chi.NewRouter()
	authRouter.Method(
		http.MethodPost,
		"/register",
		register.New(s.RegisterUser, deps.Config.IsRegistrationEnabled, isTestMode),
	)
	authRouter.Method(http.MethodPost, "/confirm", confirm.New(s.ConfirmAccount))
	authRouter.Method(http.MethodPost, "/resend", resend.New(s.ResendConfirmation, isTestMode))
	authRouter.Method(http.MethodPost, "/connect/{code}", connect.New(s.ConnectSocialAccount))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: router,
		Addr:    address,
	}
}
