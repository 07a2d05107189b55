// cmd/bot/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"plan-access-bot/internal/access"
	"plan-access-bot/internal/catalog"
	"plan-access-bot/internal/common/auth"
	awsclient "plan-access-bot/internal/common/aws"
	"plan-access-bot/internal/common/clock"
	"plan-access-bot/internal/common/config"
	"plan-access-bot/internal/common/database"
	httpclient "plan-access-bot/internal/common/http"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/observability"
	"plan-access-bot/internal/common/telegram"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/intent"
	"plan-access-bot/internal/notify"
	"plan-access-bot/internal/pending"
	"plan-access-bot/internal/store"
	"plan-access-bot/internal/subscription"

	// Admin handlers (5)
	as "plan-access-bot/internal/handlers/admin/activate-subscription"
	ds "plan-access-bot/internal/handlers/admin/deactivate-subscription"
	gp "plan-access-bot/internal/handlers/admin/get-proof"
	lp "plan-access-bot/internal/handlers/admin/list-pending"
	ls "plan-access-bot/internal/handlers/admin/list-subscriptions"

	// User handlers (6)
	bf "plan-access-bot/internal/handlers/user/browse-files"
	sf "plan-access-bot/internal/handlers/user/send-file"
	so "plan-access-bot/internal/handlers/user/show-offer"
	sp "plan-access-bot/internal/handlers/user/select-plan"
	st "plan-access-bot/internal/handlers/user/start"
	sub "plan-access-bot/internal/handlers/user/submit-proof"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})
	zapLog.Info("Starting plan access bot...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Redis with retry (only when a backend needs it) ---
	var rdb *database.RedisClient
	if cfg.NeedsRedis() {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init PostgreSQL with retry (only for the postgres store) ---
	var pg *database.PostgresClient
	if cfg.Storage.Backend == config.StoragePostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Record store ---
	deps := store.Deps{}
	if rdb != nil {
		deps.Redis = rdb.GetClient()
	}
	if pg != nil {
		deps.Postgres = pg.GetDB()
	}
	backend, err := store.NewBackend(cfg.Storage.Backend, cfg.Storage, deps)
	if err != nil {
		zapLog.Fatal("failed to create record store backend", zap.Error(err))
	}
	if pgBackend, ok := backend.(*store.PostgresBackend); ok {
		if err := pgBackend.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("failed to create record table", zap.Error(err))
		}
	}
	records := store.New(backend, log)
	zapLog.Info("Record store ready", zap.String("backend", backend.Name()))

	// --- Core ---
	clk := clock.System()
	queue := pending.NewQueue(records, clk, log)
	ledger := subscription.NewLedger(records, queue, clk, time.Local, log)
	engine := access.NewEngine(ledger)
	admins := auth.NewAdminPolicy(cfg.Admin.IDs)
	if len(admins.AdminIDs()) == 0 {
		zapLog.Warn("no admin ids configured; admin commands are disabled")
	}

	intentTTL := time.Duration(cfg.Intent.TTLMinutes) * time.Minute
	var intents intent.Cache
	if cfg.Intent.Backend == config.IntentRedis {
		intents = intent.NewRedisCache(rdb.GetClient(), cfg.Storage.KeyPrefix, intentTTL, log)
	} else {
		intents = intent.NewMemoryCache(intentTTL, cfg.Intent.MaxEntries, clk)
	}

	files, err := newCatalog(ctx, cfg)
	if err != nil {
		zapLog.Fatal("failed to create catalog", zap.Error(err))
	}

	// --- Telegram transport with retry ---
	var bot *telegram.Client
	err = retryWithBackoff(func() error {
		var err error
		bot, err = telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.PollTimeout, cfg.Telegram.Debug, log)
		return err
	}, 10, 2*time.Second, zapLog, "Telegram client initialization")
	if err != nil {
		zapLog.Fatal("telegram client failed after retries", zap.Error(err))
	}
	zapLog.Info("Telegram client connected", zap.String("username", bot.Username()))

	notifier := newNotifier(ctx, cfg, bot, admins, log, zapLog)

	// --- Handlers ---
	dispatcher := transport.NewDispatcher(bot, obs, log)
	registered := 0
	register := func(taskType string, route transport.Route, fn transport.HandlerFunc) {
		if !config.IsHandlerEnabled(cfg, taskType) {
			zapLog.Info("handler disabled", zap.String("taskType", taskType))
			return
		}
		dispatcher.Register(taskType, route, fn)
		registered++
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetHandlerConfig(cfg, taskType).Timeout)
	}

	// Browse Files
	bfCfg := bf.LoadConfig()
	bfCfg.Timeout = timeout(bf.TaskType)
	browser := bf.NewHandler(bfCfg, engine, files, log)
	register(bf.TaskType, transport.CommandRoute("files"), browser.Handle)

	// Start
	stCfg := st.LoadConfig()
	stCfg.Timeout = timeout(st.TaskType)
	register(st.TaskType, transport.CommandRoute("start"), st.NewHandler(stCfg, admins, browser, log).Handle)

	// Select Plan
	spCfg := sp.LoadConfig()
	spCfg.Timeout = timeout(sp.TaskType)
	register(sp.TaskType, transport.CallbackRoute(sp.CallbackPrefix), sp.NewHandler(spCfg, intents, log).Handle)

	// Show Offer
	soCfg := so.LoadConfig()
	soCfg.Timeout = timeout(so.TaskType)
	soCfg.PubgID = cfg.Payment.PubgID
	soCfg.TelegramUsername = cfg.Payment.TelegramUsername
	soCfg.Offers = cfg.Payment.Offers
	register(so.TaskType, transport.CallbackRoute(so.CallbackPrefix), so.NewHandler(soCfg, log).Handle)

	// Submit Proof
	subCfg := sub.LoadConfig()
	subCfg.Timeout = timeout(sub.TaskType)
	register(sub.TaskType, transport.PhotoRoute(), sub.NewHandler(subCfg, queue, intents, notifier, log).Handle)

	// Send File
	sfCfg := sf.LoadConfig()
	sfCfg.Timeout = timeout(sf.TaskType)
	register(sf.TaskType, transport.CallbackRoute(sf.CallbackPrefix), sf.NewHandler(sfCfg, engine, files, log).Handle)

	// Activate Subscription
	asCfg := as.LoadConfig()
	asCfg.Timeout = timeout(as.TaskType)
	register(as.TaskType, transport.CommandRoute(as.Command), as.NewHandler(asCfg, admins, ledger, log).Handle)

	// Deactivate Subscription
	dsCfg := ds.LoadConfig()
	dsCfg.Timeout = timeout(ds.TaskType)
	deactivate := ds.NewHandler(dsCfg, admins, ledger, log)
	register(ds.TaskType, transport.CommandRoute(ds.Command), deactivate.Handle)
	register(ds.TaskType, transport.CommandRoute(ds.AliasCommand), deactivate.Handle)

	// List Subscriptions
	lsCfg := ls.LoadConfig()
	lsCfg.Timeout = timeout(ls.TaskType)
	register(ls.TaskType, transport.CommandRoute(ls.Command), ls.NewHandler(lsCfg, admins, ledger, log).Handle)

	// List Pending
	lpCfg := lp.LoadConfig()
	lpCfg.Timeout = timeout(lp.TaskType)
	pendingList := lp.NewHandler(lpCfg, admins, queue, log)
	register(lp.TaskType, transport.CommandRoute(lp.Command), pendingList.Handle)
	register(lp.TaskType, transport.CallbackRoute(lp.CallbackPrefix), pendingList.Handle)

	// Get Proof
	gpCfg := gp.LoadConfig()
	gpCfg.Timeout = timeout(gp.TaskType)
	register(gp.TaskType, transport.CallbackRoute(gp.CallbackPrefix), gp.NewHandler(gpCfg, admins, queue, log).Handle)

	zapLog.Info("Handlers registered", zap.Int("routes", registered))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, code := "ready", http.StatusOK
		if rdb != nil {
			if err := rdb.Ping(r.Context()); err != nil {
				status, code = "redis unavailable", http.StatusServiceUnavailable
			}
		}
		if pg != nil {
			if err := pg.Ping(r.Context()); err != nil {
				status, code = "postgres unavailable", http.StatusServiceUnavailable
			}
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Event loop ---
	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Run(ctx, bot.Events(ctx))
	}()
	zapLog.Info("Bot is polling for updates")

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		zapLog.Warn("event loop did not stop in time")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	zapLog.Info("Bot stopped")
}

func newCatalog(ctx context.Context, cfg *config.Config) (catalog.Catalog, error) {
	switch cfg.Catalog.Backend {
	case config.CatalogS3:
		s3cfg := cfg.Catalog.S3
		client, err := awsclient.NewS3Client(ctx, awsclient.ClientOptions{
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return catalog.NewS3Catalog(client, s3cfg.Bucket, s3cfg.Prefix), nil
	default:
		gh := cfg.Catalog.GitHub
		return catalog.NewGitHubCatalog(httpclient.NewClient(config.GetDuration(gh.DownloadTimeout)), catalog.GitHubOptions{
			BaseURL:         gh.BaseURL,
			RawHost:         gh.RawHost,
			Branch:          gh.Branch,
			ListTimeout:     config.GetDuration(gh.ListTimeout),
			DownloadTimeout: config.GetDuration(gh.DownloadTimeout),
		})
	}
}

func newNotifier(ctx context.Context, cfg *config.Config, bot *telegram.Client, admins *auth.AdminPolicy, log logger.Logger, zapLog *zap.Logger) *notify.Notifier {
	var channels []notify.Channel
	subject := cfg.App.Name + ": new payment proof"
	notifyAWS := awsclient.ClientOptions{
		Region:   cfg.Notifications.AWS.Region,
		Endpoint: cfg.Notifications.AWS.Endpoint,
	}

	if cfg.Notifications.Telegram.Enabled {
		channels = append(channels, notify.NewTelegramChannel(bot, admins.AdminIDs))
	}
	if cfg.Notifications.SNS.Enabled {
		client, err := awsclient.NewSNSClient(ctx, notifyAWS)
		if err != nil {
			zapLog.Error("SNS channel disabled", zap.Error(err))
		} else {
			channels = append(channels, notify.NewSNSChannel(client, cfg.Notifications.SNS.TopicARN, subject))
			zapLog.Info("SNS channel enabled", zap.String("region", client.Region()))
		}
	}
	if cfg.Notifications.SES.Enabled {
		client, err := awsclient.NewSESClient(ctx, notifyAWS)
		if err != nil {
			zapLog.Error("SES channel disabled", zap.Error(err))
		} else {
			ses := cfg.Notifications.SES
			channels = append(channels, notify.NewSESChannel(client, ses.FromEmail, ses.ToEmails, subject))
			zapLog.Info("SES channel enabled", zap.String("region", client.Region()))
		}
	}

	if len(channels) == 0 {
		zapLog.Warn("no admin notification channel enabled")
	}
	return notify.NewNotifier(log, channels...)
}
