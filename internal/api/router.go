package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jobinvoicer/esign/internal/api/handlers"
	"github.com/jobinvoicer/esign/internal/api/middleware"
	"github.com/jobinvoicer/esign/internal/audit"
	"github.com/jobinvoicer/esign/internal/auth"
	"github.com/jobinvoicer/esign/internal/completion"
	"github.com/jobinvoicer/esign/internal/config"
	"github.com/jobinvoicer/esign/internal/document"
	"github.com/jobinvoicer/esign/internal/envelope"
	"github.com/jobinvoicer/esign/internal/field"
	"github.com/jobinvoicer/esign/internal/queue"
	"github.com/jobinvoicer/esign/internal/render"
	"github.com/jobinvoicer/esign/internal/session"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/storage"
	"github.com/jobinvoicer/esign/internal/store"
	"github.com/jobinvoicer/esign/internal/store/postgres"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	blobs storage.Storage
	jwt   *auth.JWTMiddleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, blobs storage.Storage, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		blobs: blobs,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	var st store.Store = postgres.New(rt.db)
	auditSvc := audit.NewService(st)
	docSvc := document.NewService(st, rt.blobs)
	signerSvc := signer.NewService(st, rt.cfg.Signing.PublicBaseURL, rt.cfg.Signing.TokenTTL)
	fieldSvc := field.NewService(st, auditSvc)
	queueClient := queue.NewClient(rt.cfg.Redis)
	engine := completion.NewEngine()
	sessionSvc := session.NewService(st, signerSvc, engine, queueClient)
	envelopeSvc := envelope.NewService(st, signerSvc, fieldSvc, queueClient)
	renderEngine := render.NewEngine(st, docSvc)

	// Public signing session, reachable only by token. Rate limited since
	// there is no auth in front of it.
	rl := middleware.NewRateLimiter(5, 20)
	signH := handlers.NewSignHandler(sessionSvc)
	r.Route("/sign", func(r chi.Router) {
		r.Use(rl.Limit)
		r.Get("/{token}", signH.GetSession)
		r.Post("/{token}", signH.Submit)
	})

	// API v1 (staff auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		docH := handlers.NewDocumentHandler(docSvc)
		signerH := handlers.NewSignerHandler(signerSvc)
		signatureH := handlers.NewSignatureHandler(fieldSvc)
		renderH := handlers.NewRenderHandler(renderEngine, docSvc)
		envelopeH := handlers.NewEnvelopeHandler(envelopeSvc)
		eventH := handlers.NewEventHandler(auditSvc)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docH.Upload)
			r.Get("/", docH.List)
			r.Get("/{id}", docH.Get)
			r.Delete("/{id}", docH.Delete)

			r.Post("/{id}/signers", signerH.Add)
			r.Get("/{id}/signers", signerH.List)

			r.Get("/{id}/signatures", signatureH.List)
			r.Post("/{id}/signatures", signatureH.Create)
			r.Delete("/{id}/signatures/{fieldID}", signatureH.Delete)

			r.Get("/{id}/download", renderH.Download)
			r.Get("/{id}/preview", renderH.Preview)

			r.Post("/{id}/send-envelope", envelopeH.Send)

			r.Get("/{id}/events", eventH.List)
		})
	})

	return r
}
