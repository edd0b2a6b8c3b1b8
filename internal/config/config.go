package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // Режим дебага

	// Протокол обмена с воркером генерации изображений
	ImageServerDir     string        `env:"IMAGE_SERVER_DIR_PATH"` // Общая с воркером директория: сюда кладём промпты, здесь появляются изображения и файлы ошибок
	PollInterval       time.Duration `env:"POLL_INTERVAL"`         // Интервал опроса директории
	MaxAttempts        int           `env:"MAX_ATTEMPTS"`          // Максимум итераций опроса до таймаута
	ArtifactTTLSeconds int           `env:"ARTIFACT_TTL_SECONDS"`  // Время, через которое артефакты обмена считаются старыми и их надо удалить; 0 — очистка выключена

	// Команды из чата
	CommandPrefix string `env:"COMMAND_PREFIX"` // Префикс команды генерации, например "!image"
	ChatMax       int    `env:"CHAT_MAX"`       // Максимум команд в очереди
	MaxInFlight   int    `env:"MAX_IN_FLIGHT"`  // Максимум одновременных запросов к воркеру

	// Переписывание промпта через OpenAI
	RewriteEnabled bool   `env:"REWRITE_ENABLED"` // Разворачивать короткие промпты через OpenAI
	RewriteModel   string `env:"REWRITE_MODEL"`   // Модель для переписывания

	// Chat / Twitch
	TwitchUsername   string `env:"TWITCH_USERNAME"`    // Имя пользователя Twitch (логин)
	TwitchOAuthToken string `env:"TWITCH_OAUTH_TOKEN"` // OAuth токен Twitch (может быть без префикса oauth:)
	TwitchChannel    string `env:"TWITCH_CHANNEL"`     // Канал Twitch (один), без #

	// Gallery — HTTP-раздача готовых изображений и события для оверлея
	Gallery GalleryConfig
}

// GalleryConfig конфигурация HTTP-сервера галереи.
type GalleryConfig struct {
	Enabled  bool   `env:"GALLERY_ENABLED"`   // Главный флаг включения/выключения
	BindAddr string `env:"GALLERY_BIND_ADDR"` // Адрес слушателя, напр. 127.0.0.1:8085
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:      false,
		ImageServerDir: "../image-server",
		PollInterval:   time.Second,
		MaxAttempts:    300, // 5 минут при интервале в секунду
		// Очистка по умолчанию выключена: удаление артефактов — забота деплоя
		ArtifactTTLSeconds: 0,
		CommandPrefix:      "!image",
		ChatMax:            30,
		MaxInFlight:        4,
		RewriteEnabled:     false,
		RewriteModel:       "gpt-4o",
		Gallery: GalleryConfig{
			Enabled:  false,
			BindAddr: "127.0.0.1:8085",
		},
	}
}

// NewConfig загружает конфигурацию приложения.
func NewConfig() *Config {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	_ = env.Parse(cfg)

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага для отображения доп инфы")
	flag.StringVar(&cfg.ImageServerDir, "image-server-dir", cfg.ImageServerDir, "общая с воркером директория обмена")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "интервал опроса директории, напр. 1s")
	flag.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "максимум итераций опроса до таймаута")
	flag.IntVar(&cfg.ArtifactTTLSeconds, "artifact-ttl-seconds", cfg.ArtifactTTLSeconds, "TTL артефактов обмена в секундах; 0 — очистка выключена")
	flag.StringVar(&cfg.CommandPrefix, "command-prefix", cfg.CommandPrefix, "префикс команды генерации в чате")
	flag.IntVar(&cfg.ChatMax, "chat-max", cfg.ChatMax, "максимум команд в очереди")
	flag.IntVar(&cfg.MaxInFlight, "max-in-flight", cfg.MaxInFlight, "максимум одновременных запросов к воркеру")
	flag.BoolVar(&cfg.RewriteEnabled, "rewrite-enabled", cfg.RewriteEnabled, "разворачивать промпты через OpenAI (требуется OPENAI_API_KEY)")
	flag.StringVar(&cfg.RewriteModel, "rewrite-model", cfg.RewriteModel, "модель OpenAI для переписывания промпта")
	flag.StringVar(&cfg.TwitchUsername, "twitch-username", cfg.TwitchUsername, "логин Twitch для подключения к чату")
	flag.StringVar(&cfg.TwitchOAuthToken, "twitch-oauth-token", cfg.TwitchOAuthToken, "OAuth токен Twitch (может быть без префикса oauth:)")
	flag.StringVar(&cfg.TwitchChannel, "twitch-channel", cfg.TwitchChannel, "канал Twitch (без #)")
	flag.BoolVar(&cfg.Gallery.Enabled, "gallery-enabled", cfg.Gallery.Enabled, "включить HTTP-сервер галереи")
	flag.StringVar(&cfg.Gallery.BindAddr, "gallery-bind-addr", cfg.Gallery.BindAddr, "адрес для прослушивания галереи (напр. 127.0.0.1:8085)")
	flag.Parse()

	if strings.TrimSpace(cfg.ImageServerDir) == "" {
		panic(fmt.Errorf("image server: не задана директория обмена; укажите ENV IMAGE_SERVER_DIR_PATH или флаг -image-server-dir"))
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 300
	}

	return cfg
}
