package port

// Fields - структурированные данные для записи в лог
type Fields map[string]interface{}

// LoggerPort определяет контракт для системы логирования.
// Ядро не знает, куда уходят записи: stdout, fluent-bit или оба сразу.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)

	// Error записывает ошибку вместе с объектом error
	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields создает логгер с уже добавленными полями (trace_id, component)
	WithFields(fields Fields) LoggerPort
}
