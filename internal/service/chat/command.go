package chat

import (
	"strconv"
	"strings"

	"github.com/yavin5/spectacle/internal/service/image"
)

// Command — разобранная команда генерации изображения из чата.
type Command struct {
	User      string
	MessageID string
	Width     int
	Height    int
	Prompt    string
}

// ParseCommand разбирает строку вида "!image [соотношение|WxH] промпт".
// Первый токен после префикса может задавать размеры: либо именованное
// соотношение из таблицы воркера, либо явное "640x480". Нераспознанный токен
// считается началом промпта. Пустой промпт — не команда.
func ParseCommand(prefix, user, messageID, text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix+" ") {
		return Command{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, prefix))
	if rest == "" {
		return Command{}, false
	}

	width, height, _ := image.ResolveAspect(image.DefaultAspect)

	token, tail, _ := strings.Cut(rest, " ")
	if w, h, ok := image.ResolveAspect(token); ok {
		width, height = w, h
		rest = strings.TrimSpace(tail)
	} else if w, h, ok := parseDims(token); ok {
		width, height = w, h
		rest = strings.TrimSpace(tail)
	}
	if rest == "" {
		return Command{}, false
	}

	return Command{
		User:      user,
		MessageID: messageID,
		Width:     width,
		Height:    height,
		Prompt:    rest,
	}, true
}

// parseDims разбирает явные размеры "WxH": положительные десятичные числа
// без ведущих нулей, разделитель — строчная 'x'.
func parseDims(token string) (int, int, bool) {
	ws, hs, found := strings.Cut(token, "x")
	if !found {
		return 0, 0, false
	}
	w, ok := parsePositive(ws)
	if !ok {
		return 0, 0, false
	}
	h, ok := parsePositive(hs)
	if !ok {
		return 0, 0, false
	}
	return w, h, true
}

func parsePositive(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
