package gallery

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yavin5/spectacle/internal/service/image"
)

// Config конфигурация HTTP-сервера галереи.
type Config struct {
	Enabled  bool
	BindAddr string
}

// Server отдаёт готовые изображения из общей директории и транслирует исходы
// запросов подключённым по WebSocket оверлеям (например, для OBS).
type Server struct {
	cfg     Config
	dir     string
	srv     *http.Server
	logger  *zap.SugaredLogger
	running atomic.Bool

	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
}

// event — сообщение оверлею об исходе одного запроса.
type event struct {
	User    string `json:"user"`
	Status  string `json:"status"`
	Image   string `json:"image,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewServer(cfg Config, dir string, logger *zap.SugaredLogger) *Server {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:8085"
	}
	s := &Server{
		cfg:    cfg,
		dir:    dir,
		logger: logger,
		conns:  map[*websocket.Conn]struct{}{},
		// Оверлей обычно открывается с file:// или localhost — Origin не проверяем.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/images/", s.handleImage)
	mux.HandleFunc("/ws", s.handleWS)

	s.srv = &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	go func() {
		s.logger.Infow("Gallery listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("Gallery stopped with error", "error", err)
		} else {
			s.logger.Infow("Gallery stopped")
		}
	}()

	// Watch for context cancellation to stop the server
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.closeConns()
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("gallery shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Addr() string { return s.cfg.BindAddr }

// Publish реализует companion.Notifier: рассылает исход всем оверлеям.
func (s *Server) Publish(user string, res image.Result) {
	ev := event{User: user, Status: res.Kind.String(), Message: res.Message}
	if res.Kind == image.Success {
		ev.Image = "/images/" + filepath.Base(res.ImagePath)
		ev.Message = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Warnw("Не удалось отправить событие оверлею", "error", err)
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed; use GET", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/images/")
	// Только плоские имена PNG: никаких поддиректорий и обходов пути.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".png") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.dir, name))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	total := len(s.conns)
	s.mu.Unlock()
	s.logger.Infow("Оверлей подключился", "remote", conn.RemoteAddr().String(), "total", total)

	// Читатель нужен только чтобы заметить закрытие со стороны клиента.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.conns, conn)
				s.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}
