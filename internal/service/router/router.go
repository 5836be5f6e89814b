package router

import (
	"context"
	"net/http"

	auth "game2048_backend/internal/auth/controller"
	game "game2048_backend/internal/game/controller"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/metrics"
	"game2048_backend/internal/service/middleware"
	signup "game2048_backend/internal/signup/controller"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const RateLimitMessage = "too many requests, please try again later"

type Handlers struct {
	Auth   *auth.AuthHandler
	Signup *signup.SignupHandler
	Game   *game.GameHandler
}

// Pinger reports whether the backing store answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Tokens  middleware.JwtTokenService
	Users   middleware.UserFinder
	Limiter middleware.Limiter
	Metrics *metrics.Recorder
	DB      Pinger

	TrustProxy bool
}

func SetUpRoutes(h Handlers, d Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(d.Metrics.Middleware)

	router.HandleFunc("/health", health(d.DB)).Methods("GET")
	router.Handle("/metrics", d.Metrics.Handler()).Methods("GET")

	signupRouter := router.PathPrefix("/signup").Subrouter()
	signupRouter.Use(middleware.RateLimit("signup", d.Limiter, RateLimitMessage, d.TrustProxy))
	signupRouter.HandleFunc("", h.Signup.Signup).Methods("POST")               // Create unverified account, mail OTP
	signupRouter.HandleFunc("/verifyOTP", h.Signup.VerifyOTP).Methods("POST")  // Confirm email with OTP
	signupRouter.HandleFunc("/resendOTP", h.Signup.ResendOTP).Methods("PATCH") // Issue a fresh OTP

	loginRouter := router.PathPrefix("/login").Subrouter()
	loginRouter.Use(middleware.RateLimit("login", d.Limiter, RateLimitMessage, d.TrustProxy))
	loginRouter.HandleFunc("", h.Auth.Login).Methods("POST")              // Password login, sets session cookie
	loginRouter.HandleFunc("/me", h.Auth.Me).Methods("GET")               // Current user from cookie
	loginRouter.HandleFunc("/google", h.Auth.GoogleLogin).Methods("POST") // Google authorization code login

	router.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	gameRouter := router.PathPrefix("/game").Subrouter()
	gameRouter.Use(middleware.RateLimit("game", d.Limiter, RateLimitMessage, d.TrustProxy))
	gameRouter.Use(middleware.Authenticate(d.Tokens, d.Users))
	gameRouter.HandleFunc("/save", h.Game.SaveGame).Methods("POST")           // Replace saved board
	gameRouter.HandleFunc("/state", h.Game.GetState).Methods("GET")           // Resume saved board
	gameRouter.HandleFunc("/leader_board", h.Game.Leaderboard).Methods("GET") // Top players

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.AccessLogger.Error("Health check failed",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.Error(err),
			)
			middleware.WriteJSONError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		middleware.WriteOK(w)
	}
}
