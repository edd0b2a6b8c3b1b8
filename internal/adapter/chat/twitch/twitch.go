package twitch

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	twitchirc "github.com/gempir/go-twitch-irc/v4"
	"go.uber.org/zap"

	svcchat "github.com/yavin5/spectacle/internal/service/chat"
)

// Config хранит параметры подключения к Twitch IRC.
type Config struct {
	Username      string
	OAuth         string // может быть с/без префикса oauth:
	Channel       string // без #, регистр не важен
	CommandPrefix string // например, "!image"
}

// Adapter подключается к чату Twitch, разбирает команды генерации изображений
// в очередь и умеет отвечать в канал результатом.
type Adapter struct {
	cfg     Config
	logger  *zap.SugaredLogger
	client  *twitchirc.Client
	channel string
}

// New создаёт адаптер; при неполных учётных данных возвращает nil без ошибки,
// чтобы компаньон мог работать без чата (например, в режиме галереи).
func New(cfg Config, logger *zap.SugaredLogger) *Adapter {
	username := strings.ToLower(strings.TrimSpace(cfg.Username))
	token := strings.TrimSpace(cfg.OAuth)
	channel := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cfg.Channel), "#"))
	if username == "" || token == "" || channel == "" {
		logger.Warnw("Twitch chat not configured: missing env", "username", username != "", "token", token != "", "channel", channel != "")
		return nil
	}
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	cfg.Username = username
	cfg.OAuth = token
	return &Adapter{
		cfg:     cfg,
		logger:  logger,
		client:  twitchirc.NewClient(username, token),
		channel: channel,
	}
}

// Say отправляет текст в канал. Безопасно вызывать из любых горутин.
func (a *Adapter) Say(text string) {
	if text == "" {
		return
	}
	a.client.Say(a.channel, text)
}

// Префильтр URL для сообщений чата.
var urlRe = regexp.MustCompile(`https?://[^\s]+`)

// stripURLs вырезает URL из текста сообщения; возвращает пустую строку,
// если кроме ссылок ничего не было.
func stripURLs(text string) string {
	return strings.TrimSpace(urlRe.ReplaceAllString(text, ""))
}

// Run запускает клиент Twitch IRC и складывает разобранные команды в queue.
// Базовые реконнекты обеспечиваются клиентом; функция завершается по отмене ctx.
func (a *Adapter) Run(ctx context.Context, queue *svcchat.Queue) error {
	if queue == nil {
		return nil
	}

	// Минимальный антиспам: дедуп одинаковых сообщений пользователя в течение окна.
	const spamWindow = 5 * time.Second
	type lastMsg struct {
		text string
		at   time.Time
	}
	var mu sync.Mutex
	lastByUser := map[string]lastMsg{}

	a.client.OnConnect(func() {
		a.logger.Infow("Twitch connected", "as", a.cfg.Username, "join", a.channel)
		a.client.Join(a.channel)
	})

	a.client.OnPrivateMessage(func(msg twitchirc.PrivateMessage) {
		user := strings.TrimSpace(msg.User.Name)
		text := strings.TrimSpace(msg.Message)
		if text == "" || user == "" {
			return
		}
		// Вырезаем URL: ссылкам не место в промптах
		text = stripURLs(text)
		if text == "" { // всё было URL — пропускаем
			return
		}

		// Антиспам: одинаковый текст от того же пользователя в течение окна — дропаем
		now := time.Now()
		drop := false
		mu.Lock()
		if lm, ok := lastByUser[user]; ok {
			if lm.text == text && now.Sub(lm.at) <= spamWindow {
				drop = true
			}
		}
		if !drop {
			lastByUser[user] = lastMsg{text: text, at: now}
		}
		mu.Unlock()
		if drop {
			return
		}

		cmd, ok := svcchat.ParseCommand(a.cfg.CommandPrefix, user, msg.ID, text)
		if !ok {
			return
		}
		a.logger.Infow("Команда генерации из чата", "user", user, "dims", cmd.Width, "prompt", cmd.Prompt)
		queue.Add(cmd)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- a.client.Connect() }()

	select {
	case <-ctx.Done():
		_ = a.client.Disconnect()
		// Подождём чуть-чуть корректного завершения
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
		}
		return context.Canceled
	case err := <-errCh:
		if err != nil {
			a.logger.Errorw("twitch connect error", "error", err)
		}
		return err
	}
}
