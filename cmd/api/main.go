package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/jhoicas/stock-ledger/docs"
	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/mail"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// stores repositorios y runner transaccional del driver elegido.
type stores struct {
	txRunner    inventory.TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	projectRepo repository.ProjectRepository
	pool        *pgxpool.Pool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	collector := metrics.NewCollector()

	st := openStores(ctx, cfg, log, collector)
	if st.pool != nil {
		defer st.pool.Close()
	}

	// Alertas de stock bajo: SMTP si está configurado, si no solo log
	var dispatcher alert.Dispatcher = mail.NewLogDispatcher(log.Zerolog())
	if cfg.Mail.Enabled() {
		smtp, err := mail.NewSMTPDispatcher(cfg.Mail, cfg.Alert.Recipients)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración SMTP")
		}
		dispatcher = smtp
	}
	notifier := alert.NewNotifier(dispatcher, collector, alert.Config{Timeout: cfg.Alert.Timeout}, log.Zerolog())

	hubCtx, stopHub := context.WithCancel(ctx)
	hub := ws.NewHub(log.Zerolog())
	go hub.Run(hubCtx)

	hooks := inventory.Hooks{
		Notifier:   notifier,
		Publisher:  inventory.Publishers{collector, hub},
		Rejections: collector,
	}
	registerMovementUC := inventory.NewRegisterMovementUseCase(st.txRunner, hooks, log.Zerolog())
	allocationUC := inventory.NewAllocationUseCase(st.txRunner, registerMovementUC, st.projectRepo, hooks, log.Zerolog())
	ledgerUC := inventory.NewLedgerUseCase(st.movRepo, st.productRepo, st.projectRepo, cfg.Ledger.DefaultLimit, cfg.Ledger.MaxLimit)
	productUC := usecase.NewProductUseCase(st.productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		Allocation:       allocationUC,
		Ledger:           ledgerUC,
		JWTSecret:        cfg.JWT.Secret,
		StockFeed:        hub.Handler(),
		Metrics:          collector.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stopHub()
	if err := notifier.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("alertas pendientes sin confirmar al apagar")
	}

	log.Info().Msg("aplicación detenida")
}

// openStores abre PostgreSQL (con migraciones opcionales) o el store en memoria.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger, observer postgres.RetryObserver) stores {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.New()
		return stores{
			txRunner:    store,
			productRepo: store.Products(),
			movRepo:     store.Movements(),
			projectRepo: store.Projects(),
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.App.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	return stores{
		txRunner:    postgres.NewTxRunner(pool, log.Zerolog(), observer),
		productRepo: postgres.NewProductRepository(pool),
		movRepo:     postgres.NewStockMovementRepository(pool),
		projectRepo: postgres.NewProjectRepository(pool),
		pool:        pool,
	}
}
