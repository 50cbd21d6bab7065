package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"

	_ "github.com/aussiebroadwan/adaptive/api/adaptive" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits are the rate limit profiles the router applies. A zero config
// disables that limit.
type Limits struct {
	Credentials httpx.RateLimitConfig // login, register, bootstrap; per IP
	Ingest      httpx.RateLimitConfig // emotion samples; per subject
	Default     httpx.RateLimitConfig // everything else; per subject or IP
}

// DefaultLimits is what the service runs with.
func DefaultLimits() Limits {
	return Limits{
		Credentials: httpx.StrictLimit,
		Ingest:      httpx.IngestLimit,
		Default:     httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	keys         KeyState
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	Limits        Limits
	DefaultWindow time.Duration

	AuthService      *service.AuthService
	PrincipalService *service.PrincipalService
	BootstrapService *service.BootstrapService
	SessionService   *service.SessionService
	EmotionService   *service.EmotionService
}

func NewRouter(
	verifier jwtx.Verifier,
	lookup httpx.IdentityLookup,
	keys KeyState,
	buildVersion string,
	db Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		db:           db,
		logger:       logger,
		Limits:       DefaultLimits(),
	}

	// Every request is logged, then goes through the authentication gate
	// before routing. Rejected credentials never reach a handler.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthnMiddleware(verifier, lookup),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerBootstrap()
	r.registerPrincipals()
	r.registerSessions()
	r.registerEmotion()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Adaptive Learning Telemetry API
//	@version		0.1.0
//	@description	Token authenticated ingest of learner frustration samples and windowed session statistics.
//	@description
//	@description				Tokens are HMAC signed (HS256 by default) and sent as "Authorization: Bearer {token}".
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/adaptive
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token from /auth/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.Limits.Credentials),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(&RegisterHandler{PrincipalService: r.PrincipalService},
			httpx.RateLimitByIP(r.Limits.Credentials),
		),
	)
}

func (r *Router) registerBootstrap() {
	r.Mux.Handle("POST /bootstrap",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			httpx.RateLimitByIP(r.Limits.Credentials),
		),
	)
}

func (r *Router) registerPrincipals() {
	h := &PrincipalsHandler{PrincipalService: r.PrincipalService}

	r.Mux.Handle("GET /me",
		httpx.Chain(httpx.RequireIdentity(h.HandleMe),
			httpx.RateLimitBySubject(r.Limits.Default),
		),
	)

	// Admin only. The role check runs before the limiter so anonymous
	// callers can't drain an admin's budget.
	r.Mux.Handle("POST /principals",
		httpx.Chain(httpx.RequireIdentity(h.HandleCreate),
			httpx.RequireAnyRole(jwtx.RoleAdmin),
			httpx.RateLimitBySubject(r.Limits.Default),
		),
	)
	r.Mux.Handle("POST /principals/{id}/deactivate",
		httpx.Chain(httpx.RequireIdentity(h.HandleDeactivate),
			httpx.RequireAnyRole(jwtx.RoleAdmin),
			httpx.RateLimitBySubject(r.Limits.Default),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	r.Mux.Handle("POST /sessions",
		httpx.Chain(httpx.RequireIdentity(h.HandleStart),
			httpx.RateLimitBySubject(r.Limits.Default),
		),
	)
	r.Mux.Handle("POST /sessions/{sessionId}/end",
		httpx.Chain(httpx.RequireIdentity(h.HandleEnd),
			httpx.RateLimitBySubject(r.Limits.Default),
		),
	)
}

func (r *Router) registerEmotion() {
	h := &EmotionHandler{EmotionService: r.EmotionService, DefaultWindow: r.DefaultWindow}

	r.Mux.Handle("POST /sessions/{sessionId}/emotion",
		httpx.Chain(httpx.RequireIdentity(h.HandleRecord),
			httpx.RateLimitBySubject(r.Limits.Ingest),
		),
	)
	r.Mux.Handle("GET /sessions/{sessionId}/stats",
		httpx.Chain(httpx.RequireIdentity(h.HandleStats),
			httpx.RateLimitBySubject(r.Limits.Default),
		),
	)
}

func (r *Router) registerSystem() {
	// Probes may poll often; limited per IP.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Default),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.keys),
			httpx.RateLimitByIP(r.Limits.Default),
		),
	)
}
