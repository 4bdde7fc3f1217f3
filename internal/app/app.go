// Package app builds the ProofLayer process from configuration: stores,
// caches, services, handlers and the background workers that run next to
// the HTTP server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"prooflayer/internal/admin"
	adminadapters "prooflayer/internal/admin/adapters"
	authhandler "prooflayer/internal/auth/handler"
	authservice "prooflayer/internal/auth/service"
	userstore "prooflayer/internal/auth/store/user"
	billinghandler "prooflayer/internal/billing/handler"
	billingmetrics "prooflayer/internal/billing/metrics"
	"prooflayer/internal/billing/provider"
	billingservice "prooflayer/internal/billing/service"
	billingstore "prooflayer/internal/billing/store"
	entitlementhandler "prooflayer/internal/entitlement/handler"
	"prooflayer/internal/entitlement/jobs"
	entitlementmetrics "prooflayer/internal/entitlement/metrics"
	entitlementservice "prooflayer/internal/entitlement/service"
	entitlementstore "prooflayer/internal/entitlement/store"
	formhandler "prooflayer/internal/form/handler"
	formservice "prooflayer/internal/form/service"
	formstore "prooflayer/internal/form/store"
	jwttoken "prooflayer/internal/jwt_token"
	"prooflayer/internal/live"
	onboardinghandler "prooflayer/internal/onboarding/handler"
	onboardingservice "prooflayer/internal/onboarding/service"
	onboardingstore "prooflayer/internal/onboarding/store"
	"prooflayer/internal/platform/config"
	"prooflayer/internal/platform/httpserver"
	"prooflayer/internal/platform/kafka"
	platformmetrics "prooflayer/internal/platform/metrics"
	"prooflayer/internal/platform/outbox"
	"prooflayer/internal/platform/postgres"
	"prooflayer/internal/platform/postgres/migrations"
	platformredis "prooflayer/internal/platform/redis"
	"prooflayer/internal/platform/router"
	ratelimitmetrics "prooflayer/internal/ratelimit/metrics"
	ratelimitmw "prooflayer/internal/ratelimit/middleware"
	ratelimit "prooflayer/internal/ratelimit/models"
	ratelimitservice "prooflayer/internal/ratelimit/service"
	"prooflayer/internal/ratelimit/store/bucket"
	submissionhandler "prooflayer/internal/submission/handler"
	submissionmetrics "prooflayer/internal/submission/metrics"
	submissionservice "prooflayer/internal/submission/service"
	submissionstore "prooflayer/internal/submission/store"
	widgethandler "prooflayer/internal/widget/handler"
	widgetmetrics "prooflayer/internal/widget/metrics"
	widgetservice "prooflayer/internal/widget/service"
	widgetstore "prooflayer/internal/widget/store"
	workspacehandler "prooflayer/internal/workspace/handler"
	workspacemetrics "prooflayer/internal/workspace/metrics"
	workspaceservice "prooflayer/internal/workspace/service"
	workspacestore "prooflayer/internal/workspace/store"
	id "prooflayer/pkg/domain"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/audit/publisher"
	auditmemory "prooflayer/pkg/platform/audit/store/memory"
	auditpostgres "prooflayer/pkg/platform/audit/store/postgres"
	txcontext "prooflayer/pkg/platform/tx"
)

const (
	tokenIssuer      = "prooflayer"
	kafkaClientID    = "prooflayer"
	auditBufferSize  = 1024
	entitlementTTL   = 5 * time.Minute
	bucketIdle       = 10 * time.Minute
	sweepInterval    = time.Minute
	topicPartitions  = 3
	topicReplication = 1
)

// collectors are registered once per process; promauto panics on a second
// registration, and tests build more than one App.
type collectors struct {
	http         *platformmetrics.Metrics
	entitlements *entitlementmetrics.Metrics
	workspaces   *workspacemetrics.Metrics
	submissions  *submissionmetrics.Metrics
	widgets      *widgetmetrics.Metrics
	billing      *billingmetrics.Metrics
	ratelimit    *ratelimitmetrics.Metrics
	live         *live.Metrics
}

var processCollectors = sync.OnceValue(func() *collectors {
	return &collectors{
		http:         platformmetrics.New(nil),
		entitlements: entitlementmetrics.New(),
		workspaces:   workspacemetrics.New(),
		submissions:  submissionmetrics.New(),
		widgets:      widgetmetrics.New(),
		billing:      billingmetrics.New(),
		ratelimit:    ratelimitmetrics.New(),
		live:         live.NewMetrics(),
	}
})

// Options control how Build assembles the process.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	// Migrate applies pending migrations before the stores are used.
	Migrate bool
}

// App is a fully wired process. Handler serves every route; Run starts the
// server and the background workers.
type App struct {
	Handler http.Handler

	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	redis    *platformredis.Client
	producer *kafka.Producer
	audit    *publisher.Publisher
	relay    *outbox.Relay
	reset    *jobs.UsageReset
	buckets  *bucket.InMemoryBucketStore
	hub      *live.Hub

	closeOnce sync.Once
}

// stores groups the per-aggregate persistence chosen by configuration.
type stores struct {
	users        authservice.UserStore
	entitlements entitlementstore.Backend
	workspaces   workspaceservice.Store
	forms        formStore
	submissions  submissionStore
	widgets      widgetStore
	onboarding   onboardingservice.Store
	billing      billingservice.EventStore
	outbox       outbox.Store
	audit        audit.Store
	newRunner    func() txcontext.Runner
	dependents   []workspaceservice.Dependent
	formCascade  []formservice.Dependent
}

// The workspace service cascades to these in memory mode, so they need both
// the service store methods and DeleteByWorkspace.
type formStore interface {
	formservice.Store
	workspaceservice.Dependent
}

type submissionStore interface {
	submissionservice.Store
	workspaceservice.Dependent
}

type widgetStore interface {
	widgetservice.Store
	workspaceservice.Dependent
}

// Build wires the process. Callers must Close the returned App.
func Build(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{cfg: cfg, logger: logger}
	m := processCollectors()

	st, err := a.openStores(ctx, opts.Migrate)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.redis, err = platformredis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.producer, err = kafka.NewProducer(cfg.Kafka.Brokers, kafkaClientID)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.relay = outbox.NewRelay(st.outbox, a.producer, st.newRunner(),
			outbox.WithInterval(cfg.Kafka.PollInterval),
			outbox.WithBatchSize(cfg.Kafka.BatchSize),
			outbox.WithLogger(logger),
		)
	}

	a.audit = publisher.NewPublisher(st.audit,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(logger),
	)

	var entStore entitlementservice.Store = st.entitlements
	if a.redis != nil {
		entStore = entitlementstore.NewCached(st.entitlements,
			platformredis.NewJSONCache(a.redis, "prooflayer", entitlementTTL), logger)
	}
	entitlements := entitlementservice.New(entStore,
		entitlementservice.WithLogger(logger),
		entitlementservice.WithAuditPublisher(a.audit),
		entitlementservice.WithMetrics(m.entitlements),
	)

	onboarding := onboardingservice.New(st.onboarding, logger)

	workspaces := workspaceservice.New(st.workspaces, entitlements,
		workspaceservice.WithLogger(logger),
		workspaceservice.WithAuditPublisher(a.audit),
		workspaceservice.WithMetrics(m.workspaces),
		workspaceservice.WithTxRunner(st.newRunner()),
		workspaceservice.WithOnboarding(onboarding),
		workspaceservice.WithDependents(st.dependents...),
	)

	feeds := &feedInvalidator{}
	forms := formservice.New(st.forms, workspaces, entitlements,
		formservice.WithLogger(logger),
		formservice.WithAuditPublisher(a.audit),
		formservice.WithTxRunner(st.newRunner()),
		formservice.WithOnboarding(onboarding),
		formservice.WithDependents(st.formCascade...),
		formservice.WithFeedCache(feeds),
	)

	a.hub = live.NewHub(live.WithMetrics(m.live))
	submissionOpts := []submissionservice.Option{
		submissionservice.WithLogger(logger),
		submissionservice.WithAuditPublisher(a.audit),
		submissionservice.WithMetrics(m.submissions),
		submissionservice.WithTxRunner(st.newRunner()),
		submissionservice.WithFeedCache(feeds),
		submissionservice.WithBroadcaster(a.hub),
	}
	if a.db != nil {
		submissionOpts = append(submissionOpts, submissionservice.WithOutbox(st.outbox, cfg.Kafka.SubmissionsTopic))
	}
	submissions := submissionservice.New(st.submissions, forms, workspaces, entitlements, submissionOpts...)

	widgetOpts := []widgetservice.Option{
		widgetservice.WithLogger(logger),
		widgetservice.WithAuditPublisher(a.audit),
		widgetservice.WithMetrics(m.widgets),
		widgetservice.WithTxRunner(st.newRunner()),
		widgetservice.WithOnboarding(onboarding),
	}
	if a.redis != nil {
		widgetOpts = append(widgetOpts, widgetservice.WithCache(
			platformredis.NewJSONCache(a.redis, "prooflayer", cfg.Widget.FeedTTL)))
	}
	widgets := widgetservice.New(st.widgets, workspaces, entitlements, submissions, cfg.Widget.ScriptURL, widgetOpts...)
	feeds.widgets = widgets

	tokens := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, tokenIssuer, cfg.Server.TokenTTL)
	auth := authservice.New(st.users, tokens, entitlements,
		authservice.WithLogger(logger),
		authservice.WithAuditPublisher(a.audit),
		authservice.WithTxRunner(st.newRunner()),
	)

	billing := billingservice.New(a.checkoutProvider(), entitlements, st.billing,
		billingservice.Config{
			WebhookSecret: cfg.Checkout.WebhookSecret,
			SuccessURL:    cfg.Checkout.SuccessURL,
			CancelURL:     cfg.Checkout.CancelURL,
		},
		billingservice.WithLogger(logger),
		billingservice.WithAuditPublisher(a.audit),
		billingservice.WithMetrics(m.billing),
		billingservice.WithTxRunner(st.newRunner()),
		billingservice.WithUsers(st.users),
	)

	a.buckets = bucket.New()
	var primary ratelimitservice.BucketStore = a.buckets
	limiterOpts := []ratelimitservice.Option{
		ratelimitservice.WithLogger(logger),
		ratelimitservice.WithMetrics(m.ratelimit),
		ratelimitservice.WithLimit(ratelimit.ClassSubmit, ratelimit.PerMinute(cfg.SubmitRatePerMinute)),
	}
	if a.redis != nil {
		primary = bucket.NewRedis(a.redis)
		limiterOpts = append(limiterOpts, ratelimitservice.WithFallback(a.buckets))
	}
	limiter := ratelimitservice.New(primary, limiterOpts...)

	a.reset, err = jobs.NewUsageReset(entitlements, cfg.UsageResetSchedule, jobs.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Handler = router.New(router.Handlers{
		Auth:         authhandler.New(auth, logger),
		Workspaces:   workspacehandler.New(workspaces, logger),
		Forms:        formhandler.New(forms, logger),
		Submissions:  submissionhandler.New(submissions, logger),
		Widgets:      widgethandler.New(widgets, logger),
		Entitlements: entitlementhandler.New(entitlements, logger),
		Onboarding:   onboardinghandler.New(onboarding, logger),
		Billing:      billinghandler.New(billing, logger),
		Admin:        admin.New(adminadapters.NewUserStoreAdapter(st.users), entitlements, logger),
		Live:         live.NewHandler(a.hub, workspaces, originPatterns(cfg.Server.PublicBaseURL), logger),
	}, router.Options{
		Logger:      logger,
		Metrics:     m.http,
		Validator:   jwttoken.NewJWTServiceAdapter(tokens),
		AdminToken:  cfg.Server.AdminToken,
		RateLimiter: ratelimitmw.New(limiter, logger, ratelimitmw.WithAuditPublisher(a.audit)),
		Ready:       a.readiness(),
	})
	return a, nil
}

func (a *App) openStores(ctx context.Context, migrate bool) (*stores, error) {
	if a.cfg.Database.URL == "" {
		a.logger.Warn("DATABASE_URL not set, using in-memory stores")
		forms := formstore.NewInMemory()
		submissions := submissionstore.NewInMemory()
		widgets := widgetstore.NewInMemory()
		return &stores{
			users:        userstore.New(),
			entitlements: entitlementstore.NewInMemory(),
			workspaces:   workspacestore.NewInMemory(),
			forms:        forms,
			submissions:  submissions,
			widgets:      widgets,
			onboarding:   onboardingstore.NewInMemory(),
			billing:      billingstore.NewInMemory(),
			outbox:       outbox.NewInMemory(),
			audit:        auditmemory.NewInMemoryStore(),
			// Lock runners are not reentrant; each service gets its own.
			newRunner:   func() txcontext.Runner { return txcontext.NewLockRunner() },
			dependents:  []workspaceservice.Dependent{submissions, widgets, forms},
			formCascade: []formservice.Dependent{submissions},
		}, nil
	}

	db, err := postgres.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	if migrate {
		applied, err := migrations.Apply(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		a.logger.Info("migrations applied", "count", len(applied))
	}
	runner := txcontext.NewSQLRunner(db)
	return &stores{
		users:        userstore.NewPostgres(db),
		entitlements: entitlementstore.NewPostgres(db),
		workspaces:   workspacestore.NewPostgres(db),
		forms:        formstore.NewPostgres(db),
		submissions:  submissionstore.NewPostgres(db),
		widgets:      widgetstore.NewPostgres(db),
		onboarding:   onboardingstore.NewPostgres(db),
		billing:      billingstore.NewPostgres(db),
		outbox:       outbox.NewPostgres(db),
		audit:        auditpostgres.New(db, a.cfg.Kafka.AuditTopic),
		newRunner:    func() txcontext.Runner { return runner },
	}, nil
}

func (a *App) checkoutProvider() billingservice.Provider {
	if a.cfg.Checkout.BaseURL == "" {
		a.logger.Warn("CHECKOUT_BASE_URL not set, using in-memory checkout")
		return provider.NewInMemory(a.cfg.Server.PublicBaseURL)
	}
	return provider.NewHTTP(provider.Config{
		BaseURL: a.cfg.Checkout.BaseURL,
		APIKey:  a.cfg.Checkout.APIKey,
		Timeout: a.cfg.Checkout.Timeout,
	}, provider.WithLogger(a.logger))
}

func (a *App) readiness() map[string]router.Check {
	checks := map[string]router.Check{}
	if a.db != nil {
		checks["postgres"] = a.db.PingContext
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Health
	}
	if a.producer != nil {
		checks["kafka"] = a.producer.Ping
	}
	return checks
}

// Run serves HTTP and runs the background workers until ctx is canceled or
// one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a.producer != nil {
		if err := a.producer.EnsureTopics(ctx, topicPartitions, topicReplication,
			a.cfg.Kafka.SubmissionsTopic, a.cfg.Kafka.AuditTopic); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	srv := httpserver.New(a.cfg.Server, a.Handler)
	g.Go(func() error {
		return httpserver.Run(ctx, srv, a.cfg.Server.ShutdownTimeout, a.logger)
	})
	g.Go(func() error {
		return a.reset.Run(ctx)
	})
	g.Go(func() error {
		a.sweepBuckets(ctx)
		return nil
	})
	if a.relay != nil {
		g.Go(func() error {
			return a.relay.Run(ctx)
		})
	}
	return g.Wait()
}

func (a *App) sweepBuckets(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.buckets.Sweep(bucketIdle); n > 0 {
				a.logger.DebugContext(ctx, "swept idle rate limit buckets", "count", n)
			}
		}
	}
}

// Close drains the audit buffer and releases connections.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.audit != nil {
			a.audit.Close()
		}
		if a.producer != nil {
			a.producer.Close()
		}
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				a.logger.Warn("redis close failed", "error", err)
			}
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.logger.Warn("postgres close failed", "error", err)
			}
		}
	})
}

// feedInvalidator lets the form and submission services evict widget feeds.
// The widget service is built after them because widgets read published
// submissions.
type feedInvalidator struct {
	widgets *widgetservice.Service
}

func (f *feedInvalidator) InvalidateWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error {
	if f.widgets == nil {
		return nil
	}
	return f.widgets.InvalidateWorkspace(ctx, workspaceID)
}

// originPatterns allows the dashboard host to open the live websocket.
func originPatterns(publicBaseURL string) []string {
	u, err := url.Parse(publicBaseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
