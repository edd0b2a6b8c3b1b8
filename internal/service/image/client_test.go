package image

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Укороченные константы опроса для тестов.
const (
	testInterval = 10 * time.Millisecond
	testAttempts = 50
)

func newTestClient(t *testing.T) (*Client, string) {
	t.Helper()
	dir := t.TempDir()
	return NewClient(dir, testInterval, testAttempts, zap.NewNop().Sugar()), dir
}

func testRequest() Request {
	return Request{SenderID: "u1", MessageID: "m1", Width: 640, Height: 480}
}

// Сценарий A: воркер пишет изображение с задержкой, клиент возвращает Success.
func TestRequestImageAppearsLater(t *testing.T) {
	c, dir := newTestClient(t)
	req := testRequest()

	go func() {
		time.Sleep(3 * testInterval)
		_ = os.WriteFile(req.ImagePath(dir), []byte("png-bytes"), 0o644)
	}()

	res := c.Request(context.Background(), req, "a red fox")
	require.Equal(t, Success, res.Kind)
	assert.Equal(t, filepath.Join(dir, "u1-m1-640x480.png"), res.ImagePath)
	assert.True(t, res.OK())

	// промпт должен быть записан и не удалён клиентом
	data, err := os.ReadFile(req.PromptPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "a red fox", string(data))
}

// Сценарий B: воркер оставляет файл ошибки, содержимое передаётся дословно.
func TestRequestWorkerError(t *testing.T) {
	c, dir := newTestClient(t)
	req := testRequest()

	go func() {
		time.Sleep(2 * testInterval)
		_ = os.WriteFile(req.ErrorPath(dir), []byte("OOM"), 0o644)
	}()

	res := c.Request(context.Background(), req, "a red fox")
	require.Equal(t, GenerationFailed, res.Kind)
	assert.Equal(t, "OOM", res.Message)
	assert.False(t, res.OK())
}

// Сценарий C: воркер молчит — таймаут после maxAttempts итераций.
func TestRequestTimeout(t *testing.T) {
	dir := t.TempDir()
	c := NewClient(dir, testInterval, 5, zap.NewNop().Sugar())

	start := time.Now()
	res := c.Request(context.Background(), testRequest(), "a red fox")
	elapsed := time.Since(start)

	require.Equal(t, TimedOut, res.Kind)
	assert.NotEmpty(t, res.Message)
	// не раньше (attempts-1) интервалов
	assert.GreaterOrEqual(t, elapsed, 4*testInterval)
}

// Сценарий D: директория не существует — WriteFailed без единой итерации опроса.
func TestRequestWriteFailure(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "no-such-dir"), testInterval, testAttempts, zap.NewNop().Sugar())

	start := time.Now()
	res := c.Request(context.Background(), testRequest(), "a red fox")
	elapsed := time.Since(start)

	require.Equal(t, WriteFailed, res.Kind)
	assert.Contains(t, res.Message, "failed to write prompt file")
	// возврат немедленный, опрос не начинался
	assert.Less(t, elapsed, testInterval)
}

// Если есть и изображение, и файл ошибки — выигрывает изображение.
func TestRequestImageWinsOverError(t *testing.T) {
	c, dir := newTestClient(t)
	req := testRequest()
	require.NoError(t, os.WriteFile(req.ImagePath(dir), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(req.ErrorPath(dir), []byte("boom"), 0o644))

	res := c.Request(context.Background(), req, "a red fox")
	require.Equal(t, Success, res.Kind)
	assert.Empty(t, res.Message)
}

// Отмена контекста в точке ожидания даёт отдельный исход Cancelled.
func TestRequestCancelled(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(2 * testInterval)
		cancel()
	}()

	res := c.Request(ctx, testRequest(), "a red fox")
	require.Equal(t, Cancelled, res.Kind)
	assert.Contains(t, res.Message, "cancelled")
}

// Повторный запрос с тем же кортежем перезаписывает промпт целиком.
func TestRequestPromptOverwrite(t *testing.T) {
	c, dir := newTestClient(t)
	req := testRequest()
	require.NoError(t, os.WriteFile(req.ImagePath(dir), []byte("png"), 0o644))

	res := c.Request(context.Background(), req, "first prompt")
	require.Equal(t, Success, res.Kind)
	res = c.Request(context.Background(), req, "second")
	require.Equal(t, Success, res.Kind)

	data, err := os.ReadFile(req.PromptPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

// Невалидный кортеж отклоняется до обращения к файловой системе.
func TestRequestInvalidIdentity(t *testing.T) {
	c, dir := newTestClient(t)

	res := c.Request(context.Background(), Request{SenderID: "../u1", MessageID: "m1", Width: 640, Height: 480}, "p")
	require.Equal(t, WriteFailed, res.Kind)
	assert.Contains(t, res.Message, "invalid request")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "никаких файлов создаваться не должно")
}
