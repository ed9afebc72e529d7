package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"rttrailserver/internal/domain"
	"rttrailserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth         *service.AuthService
	Registration *service.RegistrationService
	Recover      *service.RecoverService
	Migration    *service.MigrationService
	Accounts     *service.AccountService
	POI          *service.POIService
	FlappyBird   *service.FlappyBirdService
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:          logger,
		isProd:          opts.IsProd,
		dbPing:          opts.DBPing,
		authSvc:         opts.Auth,
		registrationSvc: opts.Registration,
		recoverSvc:      opts.Recover,
		migrationSvc:    opts.Migration,
		accountSvc:      opts.Accounts,
		poiSvc:          opts.POI,
		flappySvc:       opts.FlappyBird,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", api.handleHealthz)

	// Without a database none of the services exist; keep the surface
	// registered so clients get 503s rather than 404s.
	if api.authSvc == nil {
		for _, pattern := range apiRoutePatterns {
			mux.HandleFunc(pattern, handleServiceUnavailable)
		}
		return wrap(mux, logger, opts.IsProd)
	}

	mux.HandleFunc("POST /login/access-token", api.handleAccessToken)
	mux.HandleFunc("POST /login/test-token", api.requireUser(domain.AccountTypeUser, api.handleTestToken))
	mux.HandleFunc("POST /login/activate", api.handleActivate)
	mux.HandleFunc("POST /login/recover", api.handleRecover)
	mux.HandleFunc("POST /login/reset-password", api.handleResetPassword)
	mux.HandleFunc("POST /login/change-password", api.handleChangePassword)
	mux.HandleFunc("GET /login/migrate-mail-confirm", api.handleMigrateMailConfirm)

	mux.HandleFunc("POST /users/register", api.handleRegister)
	mux.HandleFunc("GET /users/me", api.requireUser(domain.AccountTypeUser, api.handleMe))
	mux.HandleFunc("PATCH /users/me", api.requireUser(domain.AccountTypeUser, api.handleMeUpdate))
	mux.HandleFunc("POST /users/me/ask-deletion", api.requireUser(domain.AccountTypeUser, api.handleAskDeletion))
	mux.HandleFunc("POST /users/me/migrate-mail", api.requireUser(domain.AccountTypeUser, api.handleMigrateMail))
	mux.HandleFunc("GET /users", api.requireUser(domain.AccountTypeAdmin, api.handleUsersList))
	mux.HandleFunc("GET /users/count", api.requireUser(domain.AccountTypeAdmin, api.handleUsersCount))
	mux.HandleFunc("GET /users/search", api.requireUser(domain.AccountTypeUser, api.handleUsersSearch))
	mux.HandleFunc("GET /users/account-types", api.requireUser(domain.AccountTypeAdmin, api.handleAccountTypes))
	mux.HandleFunc("GET /users/{id}", api.requireUser(domain.AccountTypeAdmin, api.handleUsersGet))
	mux.HandleFunc("PATCH /users/{id}", api.requireUser(domain.AccountTypeAdmin, api.handleUsersUpdate))

	mux.HandleFunc("GET /poi", api.requireUser(domain.AccountTypeUser, api.handlePOIList))
	mux.HandleFunc("POST /poi", api.requireUser(domain.AccountTypeUser, api.handlePOICreate))
	mux.HandleFunc("GET /poi/{id}", api.requireUser(domain.AccountTypeUser, api.handlePOIGet))
	mux.HandleFunc("PATCH /poi/{id}", api.requireUser(domain.AccountTypeUser, api.handlePOIUpdate))
	mux.HandleFunc("DELETE /poi/{id}", api.requireUser(domain.AccountTypeUser, api.handlePOIDelete))
	mux.HandleFunc("POST /poi/{id}/vote", api.requireUser(domain.AccountTypeUser, api.handlePOIVote))

	mux.HandleFunc("GET /flappybird/scores", api.requireUser(domain.AccountTypeUser, api.handleFlappyLeaderboard))
	mux.HandleFunc("GET /flappybird/scores/me", api.requireUser(domain.AccountTypeUser, api.handleFlappyPersonalRank))
	mux.HandleFunc("POST /flappybird/scores", api.requireUser(domain.AccountTypeUser, api.handleFlappySubmit))

	return wrap(mux, logger, opts.IsProd)
}

func wrap(mux *http.ServeMux, logger *slog.Logger, isProd bool) http.Handler {
	var h http.Handler = mux
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, isProd)(h)
	return h
}

var apiRoutePatterns = []string{
	"POST /login/access-token",
	"POST /login/test-token",
	"POST /login/activate",
	"POST /login/recover",
	"POST /login/reset-password",
	"POST /login/change-password",
	"GET /login/migrate-mail-confirm",
	"POST /users/register",
	"GET /users/me",
	"PATCH /users/me",
	"POST /users/me/ask-deletion",
	"POST /users/me/migrate-mail",
	"GET /users",
	"GET /users/count",
	"GET /users/search",
	"GET /users/account-types",
	"GET /users/{id}",
	"PATCH /users/{id}",
	"GET /poi",
	"POST /poi",
	"GET /poi/{id}",
	"PATCH /poi/{id}",
	"DELETE /poi/{id}",
	"POST /poi/{id}/vote",
	"GET /flappybird/scores",
	"GET /flappybird/scores/me",
	"POST /flappybird/scores",
}

func handleServiceUnavailable(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "database not configured")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc         *service.AuthService
	registrationSvc *service.RegistrationService
	recoverSvc      *service.RecoverService
	migrationSvc    *service.MigrationService
	accountSvc      *service.AccountService
	poiSvc          *service.POIService
	flappySvc       *service.FlappyBirdService
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
