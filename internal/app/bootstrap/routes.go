// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/dalemusser/taskhub/internal/app/features/authgoogle"
	healthfeature "github.com/dalemusser/taskhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/taskhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/taskhub/internal/app/features/logout"
	notificationsfeature "github.com/dalemusser/taskhub/internal/app/features/notifications"
	projectsfeature "github.com/dalemusser/taskhub/internal/app/features/projects"
	registerfeature "github.com/dalemusser/taskhub/internal/app/features/register"
	tasksfeature "github.com/dalemusser/taskhub/internal/app/features/tasks"
	userinfofeature "github.com/dalemusser/taskhub/internal/app/features/userinfo"
	notestore "github.com/dalemusser/taskhub/internal/app/store/notifications"
	"github.com/dalemusser/taskhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/notify"
	"github.com/dalemusser/taskhub/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TaskHub creates the session token manager, wires the notification
// dispatcher, and mounts feature routers for authentication, projects,
// tasks, and notifications.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Session tokens are signed with the app secret. Secure cookies are
	// enabled in production mode.
	secure := coreCfg.Env == "prod"
	tokens, err := auth.NewTokenManager(appCfg.SessionSecret, appCfg.SessionName, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so role
	// changes and profile updates take effect immediately.
	tokens.SetUserFetcher(userstore.NewFetcher(db))

	errLog := apierr.NewLogger(logger)
	dispatcher := notify.New(notestore.New(db), userstore.New(db), logger)

	r := chi.NewRouter()

	// Every request gets an ID for log correlation, then the session user
	// is loaded into context if a valid token is present.
	r.Use(requestid.Middleware)
	r.Use(tokens.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Google OAuth sign-in flow
	googleHandler := authgooglefeature.NewHandler(
		db, tokens, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Credential authentication
	registerHandler := registerfeature.NewHandler(db, errLog, logger)
	registerfeature.MountRoutes(r, registerHandler)

	loginHandler := loginfeature.NewHandler(db, tokens, errLog, logger)
	loginfeature.MountRoutes(r, loginHandler)

	logoutHandler := logoutfeature.NewHandler(tokens, logger)
	logoutfeature.MountRoutes(r, logoutHandler)

	// Session introspection for the frontend
	userinfoHandler := userinfofeature.NewHandler()
	userinfofeature.MountRoutes(r, userinfoHandler)

	// Core application APIs
	projectsHandler := projectsfeature.NewHandler(db, dispatcher, errLog, logger)
	projectsfeature.MountRoutes(r, projectsHandler, tokens)

	tasksHandler := tasksfeature.NewHandler(db, dispatcher, errLog, logger)
	tasksfeature.MountRoutes(r, tasksHandler, tokens)

	notificationsHandler := notificationsfeature.NewHandler(db, errLog, logger)
	notificationsfeature.MountRoutes(r, notificationsHandler, tokens)

	return r, nil
}
