package image

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Значения по умолчанию: 300 итераций по секунде = 5 минут ожидания.
const (
	DefaultPollInterval = time.Second
	DefaultMaxAttempts  = 300
)

// Client реализует клиентскую сторону файлового протокола обмена с воркером
// генерации изображений: записать промпт в общую директорию, опрашивать её
// до появления результата, вернуть исход. Клиент никогда не удаляет и не
// изменяет чужие файлы; единственный побочный эффект — один файл промпта.
type Client struct {
	dir          string
	pollInterval time.Duration
	maxAttempts  int
	logger       *zap.SugaredLogger
}

// NewClient создаёт клиента протокола. Неположительные interval/attempts
// заменяются значениями по умолчанию.
func NewClient(dir string, pollInterval time.Duration, maxAttempts int, logger *zap.SugaredLogger) *Client {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Client{dir: dir, pollInterval: pollInterval, maxAttempts: maxAttempts, logger: logger}
}

// Request записывает промпт и ждёт результата. Порядок проверки на каждой
// итерации фиксирован: сначала изображение, затем файл ошибки — если каким-то
// образом появились оба, выигрывает изображение и файл ошибки не читается.
// Запись промпта перезаписывающая: повторный запрос с тем же кортежем
// заменяет старый промпт целиком, а не дописывает его.
func (c *Client) Request(ctx context.Context, req Request, promptText string) Result {
	if err := req.Validate(); err != nil {
		return Result{Kind: WriteFailed, Message: "invalid request: " + err.Error()}
	}

	promptPath := req.PromptPath(c.dir)
	imagePath := req.ImagePath(c.dir)
	errorPath := req.ErrorPath(c.dir)

	if err := os.WriteFile(promptPath, []byte(promptText), 0o644); err != nil {
		c.logger.Errorw("Не удалось записать файл промпта", "path", promptPath, "error", err)
		return Result{Kind: WriteFailed, Message: fmt.Sprintf("failed to write prompt file %s: %v", promptPath, err)}
	}
	c.logger.Infow("Промпт записан, ожидаем результат",
		"base", req.BaseName(),
		"interval", c.pollInterval.String(),
		"maxAttempts", c.maxAttempts,
	)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if fileExists(imagePath) {
			c.logger.Infow("Изображение готово", "path", imagePath, "attempt", attempt)
			return Result{Kind: Success, ImagePath: imagePath}
		}
		if fileExists(errorPath) {
			// Единственная попытка чтения, без повторов: неудача — это
			// отдельный исход, а не повод ждать дальше.
			data, err := os.ReadFile(errorPath)
			if err != nil {
				c.logger.Warnw("Файл ошибки есть, но прочитать не удалось", "path", errorPath, "error", err)
				return Result{Kind: ReadFailed, Message: fmt.Sprintf("failed to read error file %s: %v", errorPath, err)}
			}
			c.logger.Infow("Воркер сообщил об ошибке генерации", "base", req.BaseName())
			return Result{Kind: GenerationFailed, Message: string(data)}
		}

		t := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
			return Result{Kind: Cancelled, Message: "request cancelled: " + context.Cause(ctx).Error()}
		case <-t.C:
		}
	}

	c.logger.Warnw("Таймаут ожидания результата", "base", req.BaseName(), "attempts", c.maxAttempts)
	return Result{
		Kind: TimedOut,
		Message: fmt.Sprintf("no result after %d attempts (%s total); worker stuck or not running",
			c.maxAttempts, time.Duration(c.maxAttempts)*c.pollInterval),
	}
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
