package image

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Расширения артефактов протокола обмена. Базовое имя у всех трёх общее.
const (
	promptExt   = ".txt"
	imageExt    = ".png"
	errorSuffix = "-error.txt"
)

// Request — идентичность одного запроса на генерацию изображения.
// Кортеж (SenderID, MessageID, Width, Height) однозначно задаёт базовое имя
// файлов обмена; воркер разбирает его как "{sender}-{msg}-{W}x{H}".
type Request struct {
	SenderID  string
	MessageID string
	Width     int
	Height    int
}

// Символы, запрещённые в идентификаторах: разделитель протокола и всё,
// что может изменить путь файла.
const forbiddenIDChars = "-/\\\x00"

// Validate проверяет кортеж до построения путей. Дефис запрещён, потому что
// воркер делит базовое имя на ровно три части по '-'.
func (r Request) Validate() error {
	if err := validateID("sender id", r.SenderID); err != nil {
		return err
	}
	if err := validateID("message id", r.MessageID); err != nil {
		return err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d: must be positive", r.Width, r.Height)
	}
	return nil
}

func validateID(what, id string) error {
	if id == "" {
		return errors.New("empty " + what)
	}
	if strings.ContainsAny(id, forbiddenIDChars) {
		return fmt.Errorf("%s %q contains forbidden characters", what, id)
	}
	if strings.HasPrefix(id, ".") {
		return fmt.Errorf("%s %q must not start with a dot", what, id)
	}
	return nil
}

// BaseName возвращает каноничное имя без расширения: "{sender}-{msg}-{W}x{H}".
// Детерминировано и инъективно для валидных кортежей.
func (r Request) BaseName() string {
	return fmt.Sprintf("%s-%s-%dx%d", r.SenderID, r.MessageID, r.Width, r.Height)
}

// PromptPath — путь файла промпта в директории обмена.
func (r Request) PromptPath(dir string) string {
	return filepath.Join(dir, r.BaseName()+promptExt)
}

// ImagePath — путь готового изображения.
func (r Request) ImagePath(dir string) string {
	return filepath.Join(dir, r.BaseName()+imageExt)
}

// ErrorPath — путь файла с текстом ошибки воркера.
func (r Request) ErrorPath(dir string) string {
	return filepath.Join(dir, r.BaseName()+errorSuffix)
}
