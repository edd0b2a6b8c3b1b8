package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/yavin5/spectacle/internal/adapter/chat/twitch"
	"github.com/yavin5/spectacle/internal/ai"
	"github.com/yavin5/spectacle/internal/config"
	"github.com/yavin5/spectacle/internal/service/chat"
	"github.com/yavin5/spectacle/internal/service/companion"
	"github.com/yavin5/spectacle/internal/service/gallery"
	"github.com/yavin5/spectacle/internal/service/image"
)

func main() {
	cfg := config.NewConfig()
	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow(
		"Starting spectacle",
		"DebugMode", cfg.DebugMode,
		"dir", cfg.ImageServerDir,
		"pollInterval", cfg.PollInterval.String(),
		"maxAttempts", cfg.MaxAttempts,
	)

	// Директория обмена должна существовать до первого запроса
	if err := os.MkdirAll(cfg.ImageServerDir, 0o755); err != nil {
		sugar.Errorw("Не удалось создать директорию обмена", "dir", cfg.ImageServerDir, "error", err)
		return
	}

	imgClient := image.NewClient(cfg.ImageServerDir, cfg.PollInterval, cfg.MaxAttempts, sugar)
	queue := chat.NewQueue(cfg.ChatMax)

	var rewriter ai.Rewriter = ai.NewStubRewriter()
	if cfg.RewriteEnabled {
		// реальный клиент OpenAI (использует переменные окружения, напр. OPENAI_API_KEY)
		oClient := openai.NewClient()
		rewriter = ai.NewPromptRewriter(&oClient, cfg.RewriteModel)
		sugar.Infow("Prompt rewriter enabled", "model", cfg.RewriteModel)
	}

	var notifier companion.Notifier
	gal := gallery.NewServer(gallery.Config{Enabled: cfg.Gallery.Enabled, BindAddr: cfg.Gallery.BindAddr}, cfg.ImageServerDir, sugar)
	if cfg.Gallery.Enabled {
		if err := gal.Start(ctx); err != nil {
			sugar.Errorw("Не удалось запустить галерею", "error", err)
			return
		}
		notifier = gal
		sugar.Infow("Gallery enabled", "addr", gal.Addr())
	}

	adapter := twitch.New(twitch.Config{
		Username:      cfg.TwitchUsername,
		OAuth:         cfg.TwitchOAuthToken,
		Channel:       cfg.TwitchChannel,
		CommandPrefix: cfg.CommandPrefix,
	}, sugar)
	if adapter == nil && !cfg.Gallery.Enabled {
		sugar.Errorw("Ни чат, ни галерея не сконфигурированы, запускаться незачем")
		return
	}

	var announcer companion.Announcer
	if adapter != nil {
		announcer = adapter
	}
	comp := companion.New(queue, imgClient, rewriter, announcer, notifier, sugar, cfg.MaxInFlight)
	go func() {
		if err := comp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			sugar.Errorw("Companion stopped with error", "error", err)
		}
	}()

	// Фоновая очистка старых артефактов по TTL
	if ttl := time.Duration(cfg.ArtifactTTLSeconds) * time.Second; ttl > 0 {
		cleaner := image.NewCleaner(sugar)
		go func() {
			t := time.NewTicker(ttl)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					cleaner.Clean(cfg.ImageServerDir, ttl, cfg.DebugMode)
				}
			}
		}()
	}

	if adapter != nil {
		if err := adapter.Run(ctx, queue); err != nil && !errors.Is(err, context.Canceled) {
			sugar.Errorw("Twitch adapter stopped with error", "error", err)
		}
	} else {
		// Режим только-галерея: команд из чата нет, просто ждём завершения
		<-ctx.Done()
	}
	sugar.Infow("Spectacle stopped")
}
