package sentence

import (
	"errors"
	"fmt"
	"sync"
)

// Fragment is implemented by message types that can arrive split across
// several sentences. A session-level collaborator uses it to key its
// reassembly buffer; the codec itself holds no state between calls.
type Fragment interface {
	Message
	FragmentInfo() (total, number, seqID int)
	GroupID() string
}

// Builder turns typed messages into wire sentences and back, resolving
// field schemas through a formatter registry. All methods are pure
// functions over their inputs and the read-only registry, so one Builder
// can be shared by any number of goroutines.
type Builder struct {
	registry *Registry
}

// NewBuilder returns a builder backed by the given registry.
func NewBuilder(registry *Registry) *Builder {
	return &Builder{registry: registry}
}

// Encode renders a message as one or more wire sentences. When the message
// fits a single sentence the result has length one. Otherwise the payload
// is split across fragments sized from the 82 character bound, sentence
// numbers ascending from 1 and the result ordered to match. A message whose
// non-payload fields alone overflow the bound fails with ErrSentenceTooLong.
func (b *Builder) Encode(talkerID string, msg Message) ([]Sentence, error) {
	f, err := b.registry.Lookup(msg.FormatterCode())
	if err != nil {
		return nil, err
	}
	fields, err := f.ToFields(msg)
	if err != nil {
		return nil, err
	}
	s, err := Assemble(talkerID, f.Code(), fields)
	if err == nil {
		return []Sentence{s}, nil
	}
	if !errors.Is(err, ErrSentenceTooLong) {
		return nil, err
	}
	frag, ok := f.(Fragmenter)
	if !ok {
		return nil, err
	}

	// The non-payload region keeps its width across fragments (the count
	// fields are fixed width), so the payload budget is what remains of
	// the 82 characters once that overhead is taken out.
	payloadLen, err := frag.PayloadChars(msg)
	if err != nil {
		return nil, err
	}
	overhead := renderedLength(talkerID, fields) - payloadLen
	maxChars := MaxSentenceLength - overhead
	if maxChars < 1 {
		return nil, fmt.Errorf("%w: %d characters of overhead leave no room for payload",
			ErrSentenceTooLong, overhead)
	}

	frags, err := frag.Split(msg, maxChars)
	if err != nil {
		return nil, err
	}
	sentences := make([]Sentence, 0, len(frags))
	for _, fm := range frags {
		ff, err := f.ToFields(fm)
		if err != nil {
			return nil, err
		}
		fs, err := Assemble(talkerID, f.Code(), ff)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, fs)
	}
	return sentences, nil
}

// Decode resolves a parsed sentence's formatter and converts its fields to
// a typed message. For multi-sentence messages the result is one fragment;
// TryComplete reassembles a full set.
func (b *Builder) Decode(s Sentence) (Message, error) {
	f, err := b.registry.Lookup(s.Formatter)
	if err != nil {
		return nil, err
	}
	return f.FromFields(s.Fields)
}

// TryComplete reassembles decoded fragments into the logical message they
// carry. Order of the input is irrelevant; reassembly is by sentence
// number. It fails with ErrFragmentSetIncomplete while fragments are still
// missing and ErrFragmentMismatch when the set is inconsistent.
func (b *Builder) TryComplete(frags []Message) (Message, error) {
	if len(frags) == 0 {
		return nil, fmt.Errorf("%w: no fragments", ErrFragmentSetIncomplete)
	}
	code := frags[0].FormatterCode()
	for _, m := range frags[1:] {
		if m.FormatterCode() != code {
			return nil, fmt.Errorf("%w: mixed formatters %q and %q", ErrFragmentMismatch, code, m.FormatterCode())
		}
	}
	f, err := b.registry.Lookup(code)
	if err != nil {
		return nil, err
	}
	frag, ok := f.(Fragmenter)
	if !ok {
		if len(frags) == 1 {
			return frags[0], nil
		}
		return nil, fmt.Errorf("%w: %q does not fragment", ErrFragmentMismatch, code)
	}
	return frag.Join(frags)
}

// renderedLength is the wire length of a sentence with the given talker
// and field tokens, delimiters and terminator included.
func renderedLength(talkerID string, fields []string) int {
	n := 1 + len(talkerID) + FormatterLength // start delimiter and address
	for _, f := range fields {
		n += 1 + len(f)
	}
	return n + 3 + len(Terminator) // checksum delimiter and two hex digits
}

// Generator produces ABB broadcast sentences, managing the rolling
// sequential message identifier that groups the fragments of one multi-
// sentence message. Safe for concurrent use.
type Generator struct {
	builder  *Builder
	talkerID string

	mu    sync.Mutex
	seqID int
}

// NewGenerator returns a generator transmitting under the given talker ID.
func NewGenerator(registry *Registry, talkerID string) *Generator {
	return &Generator{builder: NewBuilder(registry), talkerID: talkerID}
}

// BroadcastASM armors a raw ASM payload and encapsulates it in ABB
// sentences, fragmenting as needed. The sequential ID advances after each
// multi-sentence message so consecutive broadcasts remain distinguishable
// at the receiver.
func (g *Generator) BroadcastASM(payload []byte, sourceID OptInt, channel, txFormat int) ([]Sentence, error) {
	armored, fill := Armor(payload)

	g.mu.Lock()
	defer g.mu.Unlock()
	msg := ABBMessage{
		TotalSentences:     1,
		SentenceNumber:     1,
		SequentialID:       g.seqID,
		SourceID:           sourceID,
		Channel:            channel,
		TransmissionFormat: txFormat,
		Payload:            armored,
		FillBits:           fill,
	}
	sentences, err := g.builder.Encode(g.talkerID, msg)
	if err != nil {
		return nil, err
	}
	if len(sentences) > 1 {
		g.seqID = (g.seqID + 1) % 10
	}
	return sentences, nil
}
