package companion

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yavin5/spectacle/internal/ai"
	"github.com/yavin5/spectacle/internal/service/chat"
	"github.com/yavin5/spectacle/internal/service/image"
)

// Announcer отправляет текст обратно в чат.
type Announcer interface {
	Say(text string)
}

// Notifier получает исход каждого запроса (например, галерея для оверлея).
type Notifier interface {
	Publish(user string, res image.Result)
}

// Companion связывает очередь команд, переписывание промпта и файловый
// протокол генерации. На каждую команду запускается отдельная задача опроса;
// количество одновременных запросов ограничено maxInFlight.
type Companion struct {
	queue     *chat.Queue
	images    *image.Client
	rewriter  ai.Rewriter
	announcer Announcer
	notifier  Notifier
	logger    *zap.SugaredLogger
	sem       chan struct{}
}

func New(queue *chat.Queue, images *image.Client, rewriter ai.Rewriter, announcer Announcer, notifier Notifier, logger *zap.SugaredLogger, maxInFlight int) *Companion {
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	return &Companion{
		queue:     queue,
		images:    images,
		rewriter:  rewriter,
		announcer: announcer,
		notifier:  notifier,
		logger:    logger,
		sem:       make(chan struct{}, maxInFlight),
	}
}

// Run выбирает команды из очереди до отмены контекста.
func (c *Companion) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-c.queue.NotifyCh():
			for _, cmd := range c.queue.Drain() {
				select {
				case <-ctx.Done():
					return context.Cause(ctx)
				case c.sem <- struct{}{}:
				}
				go c.handle(ctx, cmd)
			}
		}
	}
}

func (c *Companion) handle(ctx context.Context, cmd chat.Command) {
	defer func() { <-c.sem }()

	prompt := cmd.Prompt
	if c.rewriter != nil {
		rewritten, err := c.rewriter.Rewrite(ctx, prompt)
		if err != nil {
			c.logger.Warnw("Не удалось переписать промпт, используем исходный", "error", err)
		} else if rewritten != "" {
			prompt = rewritten
		}
	}

	req := image.Request{
		SenderID:  cmd.User,
		MessageID: messageID(cmd.MessageID),
		Width:     cmd.Width,
		Height:    cmd.Height,
	}
	c.logger.Infow("Отправка запроса воркеру", "base", req.BaseName(), "user", cmd.User)
	res := c.images.Request(ctx, req, prompt)

	c.announce(cmd.User, res)
	if c.notifier != nil {
		c.notifier.Publish(cmd.User, res)
	}
}

func (c *Companion) announce(user string, res image.Result) {
	if c.announcer == nil {
		return
	}
	switch res.Kind {
	case image.Success:
		c.announcer.Say(fmt.Sprintf("@%s картинка готова: %s", user, filepath.Base(res.ImagePath)))
	case image.GenerationFailed:
		c.announcer.Say(fmt.Sprintf("@%s генерация не удалась: %s", user, strings.TrimSpace(res.Message)))
	case image.TimedOut:
		c.announcer.Say(fmt.Sprintf("@%s воркер не ответил вовремя, попробуйте позже", user))
	case image.Cancelled:
		// завершение приложения, в чат не пишем
	default:
		c.announcer.Say(fmt.Sprintf("@%s не получилось отправить запрос", user))
	}
}

// messageID нормализует идентификатор сообщения под грамматику имён файлов:
// дефисы недопустимы (воркер делит базовое имя по '-'), пустой id заменяется
// свежим uuid.
func messageID(id string) string {
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if id == "" {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return id
}
