package chat

import "sync"

// Queue — потокобезопасная очередь команд фиксированной ёмкости с каналом
// уведомления. При переполнении удаляется самая старая команда.
type Queue struct {
	cap    int
	items  []Command
	mu     sync.Mutex
	notify chan struct{}
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 30
	}
	return &Queue{cap: capacity, items: make([]Command, 0, capacity), notify: make(chan struct{}, 1)}
}

// Add добавляет команду, при переполнении удаляет самую старую.
func (q *Queue) Add(cmd Command) {
	q.mu.Lock()
	if len(q.items) == q.cap {
		copy(q.items, q.items[1:])
		q.items = q.items[:q.cap-1]
	}
	q.items = append(q.items, cmd)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Drain возвращает все команды и очищает очередь.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	cmds := make([]Command, len(q.items))
	copy(cmds, q.items)
	q.items = q.items[:0]
	q.mu.Unlock()
	return cmds
}

func (q *Queue) Len() int {
	q.mu.Lock()
	l := len(q.items)
	q.mu.Unlock()
	return l
}

// NotifyCh сигнализирует о появлении новых команд (без гарантии один-к-одному).
func (q *Queue) NotifyCh() <-chan struct{} { return q.notify }
