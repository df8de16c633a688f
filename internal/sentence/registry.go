package sentence

import "fmt"

// Message is a typed sentence payload. Concrete message types are produced
// and consumed by their formatter.
type Message interface {
	// FormatterCode returns the three character code of the formatter
	// that defines this message's field schema.
	FormatterCode() string
}

// Formatter maps between a typed message and the ordered field tokens of
// one sentence. A formatter never inspects framing or checksums; the frame
// has already validated them by the time FromFields runs.
type Formatter interface {
	Code() string
	Schema() []FieldSpec
	ToFields(msg Message) ([]string, error)
	FromFields(fields []string) (Message, error)
}

// Fragmenter is implemented by formatters whose payload can span multiple
// sentences. Split breaks a message into fragments whose armored payloads
// fit maxChars; Join is the inverse, reassembling fragments ordered by
// sentence number regardless of arrival order.
type Fragmenter interface {
	PayloadChars(msg Message) (int, error)
	Split(msg Message, maxChars int) ([]Message, error)
	Join(frags []Message) (Message, error)
}

// Registry resolves a formatter code to its implementation. It is populated
// once at startup and read-only afterwards, so lookups are safe from any
// goroutine without locking.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// NewDefaultRegistry returns a registry with all built-in formatters
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	// Registration of built-ins cannot collide.
	_ = r.Register(ABBFormatter{})
	_ = r.Register(VDMFormatter{})
	return r
}

// Register adds a formatter. Registering a code twice fails with
// ErrDuplicateFormatter so one schema can never silently shadow another.
func (r *Registry) Register(f Formatter) error {
	code := f.Code()
	if len(code) != FormatterLength {
		return fmt.Errorf("formatter code: %w: %q is not %d characters", ErrMalformedField, code, FormatterLength)
	}
	if _, ok := r.formatters[code]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFormatter, code)
	}
	r.formatters[code] = f
	return nil
}

// Lookup resolves a formatter code.
func (r *Registry) Lookup(code string) (Formatter, error) {
	f, ok := r.formatters[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormatterNotFound, code)
	}
	return f, nil
}
