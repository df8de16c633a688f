package sentence

import (
	"fmt"
	"strings"
)

// Sentence framing constants per IEC 61162-1.
const (
	StartDelimiter    = '!' // encapsulation sentences
	AltStartDelimiter = '$' // parametric sentences
	FieldDelimiter    = ','
	ChecksumDelimiter = '*'
	Terminator        = "\r\n"

	// MaxSentenceLength is the maximum rendered sentence length,
	// delimiters and terminator included.
	MaxSentenceLength = 82

	FormatterLength = 3
)

// Sentence is one framed presentation-interface sentence: talker, formatter,
// raw field tokens and checksum. It is a value type and is never mutated
// after Assemble or Parse construct it.
type Sentence struct {
	Start     byte // '!' or '$'
	TalkerID  string
	Formatter string
	Fields    []string
	Checksum  byte
}

// ChecksumOf computes the running XOR over the sentence body, the region
// between (but excluding) the start and checksum delimiters.
func ChecksumOf(body string) byte {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return sum
}

func (s Sentence) body() string {
	return s.TalkerID + s.Formatter + string(FieldDelimiter) + strings.Join(s.Fields, string(FieldDelimiter))
}

// String renders the sentence in wire form, terminator included.
func (s Sentence) String() string {
	return fmt.Sprintf("%c%s%c%02X%s", s.Start, s.body(), ChecksumDelimiter, s.Checksum, Terminator)
}

// Assemble frames a field list into a checksummed sentence. It fails with
// ErrSentenceTooLong when the rendered form would exceed MaxSentenceLength.
func Assemble(talkerID, formatter string, fields []string) (Sentence, error) {
	if len(talkerID) < 2 || len(talkerID) > 3 {
		return Sentence{}, fmt.Errorf("talker ID: %w: %q is not 2-3 characters", ErrMalformedField, talkerID)
	}
	if len(formatter) != FormatterLength {
		return Sentence{}, fmt.Errorf("formatter: %w: %q is not %d characters",
			ErrMalformedField, formatter, FormatterLength)
	}
	for i, f := range fields {
		if strings.ContainsAny(f, reservedChars) {
			return Sentence{}, fmt.Errorf("field %d: %w: token %q contains a sentence delimiter",
				i, ErrMalformedField, f)
		}
	}
	s := Sentence{
		Start:     StartDelimiter,
		TalkerID:  talkerID,
		Formatter: formatter,
		Fields:    fields,
	}
	s.Checksum = ChecksumOf(s.body())
	if n := len(s.String()); n > MaxSentenceLength {
		return Sentence{}, fmt.Errorf("%w: %d characters, limit %d", ErrSentenceTooLong, n, MaxSentenceLength)
	}
	return s, nil
}

// Parse validates the framing of a raw sentence string and splits it into
// talker, formatter and field tokens. The terminator is optional so callers
// can pass either stripped or unstripped lines. Structural failures are
// surfaced before any field is interpreted; field semantics are left to the
// formatter resolved from the registry.
func Parse(raw string) (Sentence, error) {
	raw = strings.TrimRight(raw, "\r\n")
	if len(raw) == 0 || (raw[0] != StartDelimiter && raw[0] != AltStartDelimiter) {
		return Sentence{}, fmt.Errorf("%w: sentence does not begin with %q or %q",
			ErrMissingStartDelimiter, StartDelimiter, AltStartDelimiter)
	}
	star := strings.LastIndexByte(raw, ChecksumDelimiter)
	if star < 0 {
		return Sentence{}, fmt.Errorf("%w", ErrMissingChecksumDelimiter)
	}
	body := raw[1:star]
	want, err := parseChecksum(raw[star+1:])
	if err != nil {
		return Sentence{}, err
	}
	got := ChecksumOf(body)
	if got != want {
		return Sentence{}, fmt.Errorf("%w: computed %02X, transmitted %02X", ErrChecksumMismatch, got, want)
	}

	tokens := strings.Split(body, string(FieldDelimiter))
	address := tokens[0]
	if len(address) < FormatterLength+2 || len(address) > FormatterLength+3 {
		return Sentence{}, fmt.Errorf("address: %w: %q is not a talker plus formatter", ErrMalformedField, address)
	}
	return Sentence{
		Start:     raw[0],
		TalkerID:  address[:len(address)-FormatterLength],
		Formatter: address[len(address)-FormatterLength:],
		Fields:    tokens[1:],
		Checksum:  want,
	}, nil
}

// parseChecksum decodes the two hex digits following the checksum delimiter.
func parseChecksum(s string) (byte, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: checksum %q is not two hex digits", ErrChecksumMismatch, s)
	}
	var sum byte
	for i := 0; i < 2; i++ {
		d := s[i]
		switch {
		case d >= '0' && d <= '9':
			d -= '0'
		case d >= 'A' && d <= 'F':
			d -= 'A' - 10
		default:
			// lowercase hex is outside the standard
			return 0, fmt.Errorf("%w: checksum %q is not two uppercase hex digits", ErrChecksumMismatch, s)
		}
		sum = sum<<4 | d
	}
	return sum, nil
}
