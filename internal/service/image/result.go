package image

// Kind — дискриминатор исхода запроса. Исходы терминальные: после любого из
// них клиент к директории по этому запросу больше не обращается.
type Kind int

const (
	// Success — изображение появилось и доступно по ImagePath.
	Success Kind = iota
	// WriteFailed — не удалось записать файл промпта; локальная проблема,
	// не ошибка генерации. Опрос не начинался.
	WriteFailed
	// GenerationFailed — воркер оставил файл ошибки; Message содержит его
	// содержимое дословно.
	GenerationFailed
	// ReadFailed — файл ошибки есть, но прочитать его не удалось
	// (например, гонка с дозаписью воркера).
	ReadFailed
	// TimedOut — ни один артефакт не появился за отведённое число итераций.
	TimedOut
	// Cancelled — контекст отменён до появления результата.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case WriteFailed:
		return "write_failed"
	case GenerationFailed:
		return "generation_failed"
	case ReadFailed:
		return "read_failed"
	case TimedOut:
		return "timed_out"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result — итог одного запроса. ImagePath заполнен только при Success,
// Message — человекочитаемое описание причины для остальных исходов.
type Result struct {
	Kind      Kind
	ImagePath string
	Message   string
}

// OK сообщает, что запрос завершился готовым изображением.
func (r Result) OK() bool { return r.Kind == Success }
