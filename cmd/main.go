package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/masa1724/pdf2image/internal/compose"
	"github.com/masa1724/pdf2image/internal/config"
	"github.com/masa1724/pdf2image/internal/delivery"
	"github.com/masa1724/pdf2image/internal/domain"
	"github.com/masa1724/pdf2image/internal/error_notificator"
	"github.com/masa1724/pdf2image/internal/infra"
	"github.com/masa1724/pdf2image/internal/pdf"
	"github.com/masa1724/pdf2image/internal/ports"
	"github.com/masa1724/pdf2image/internal/workbook"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("output dir: %v", err)
	}

	// =========================================================================
	// REPOSITORIES
	// =========================================================================

	var jobRepo ports.JobRepo
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db ping failed: %v", err)
		}
		if err := infra.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		cancel()

		jobRepo = infra.NewJobRepo(db)
	} else {
		zl.Log(logger.LogEntry{Level: "warn", Message: "DATABASE_URL is not set, job history kept in memory", Service: "pdf2image"})
		jobRepo = infra.NewMemJobRepo()
	}

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	store := domain.NewNopStore()
	if cfg.S3.Enabled() {
		s3Client, err := infra.NewS3Client(cfg.S3)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		store = domain.NewS3Service(s3Client)
	}

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var errInfra error_notificator.Notificator = error_notificator.Nop{}
	if cfg.TelegramToken != "" {
		tg, err := error_notificator.NewTelegramInfra(cfg.TelegramToken, cfg.AdminChatIDs, baseLogger)
		if err != nil {
			log.Fatalf("failed to init telegram: %v", err)
		}
		errInfra = tg
	}
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	pdfService := pdf.NewService(pdf.NewOpener(pdf.RendererType(cfg.Renderer)), baseLogger)
	composeService := compose.NewService(baseLogger)
	bookService := workbook.NewService(workbook.NewExcelizeSheet, baseLogger)

	conversionService := domain.NewConversionService(
		pdfService,
		composeService,
		bookService,
		jobRepo,
		store,
		errService,
		baseLogger,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	convHandler := delivery.NewConvertHandler(conversionService, cfg.OutputDir, delivery.Defaults{
		DPI:         cfg.DefaultDPI,
		FitWidth:    cfg.DefaultFitWidth,
		MaxDPI:      cfg.MaxDPI,
		MaxFitWidth: cfg.MaxFitWidth,
	}, zl)
	jobHandler := delivery.NewJobHandler(jobRepo, zl)

	r := delivery.NewRouter(convHandler, jobHandler, delivery.RouteConfig{
		AuthToken:       cfg.AuthToken,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			n, err := infra.PruneJobDirs(cfg.OutputDir, cfg.JobTTL, time.Now())
			if err != nil {
				log.Printf("[prune-jobs] error: %v", err)
			}
			if n > 0 {
				log.Printf("[prune-jobs] removed %d old job dirs", n)
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr + " (renderer " + cfg.Renderer + ")",
		Service: "pdf2image",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
