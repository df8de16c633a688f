package sentence

import "errors"

// Codec errors. Every failure the codec can produce wraps one of these
// sentinels, so callers can dispatch with errors.Is without string matching.
var (
	// ErrMalformedField indicates a field token whose character set, width
	// or numeric range violates its field specification.
	ErrMalformedField = errors.New("malformed field")

	// ErrInvalidPayloadCharacter indicates a payload character outside the
	// six-bit ASCII armoring alphabet.
	ErrInvalidPayloadCharacter = errors.New("invalid payload character")

	// ErrSentenceTooLong indicates a sentence whose rendered form would
	// exceed the 82 character limit of IEC 61162-1.
	ErrSentenceTooLong = errors.New("sentence too long")

	// ErrMissingStartDelimiter indicates input that does not begin with
	// '!' or '$'.
	ErrMissingStartDelimiter = errors.New("missing start delimiter")

	// ErrMissingChecksumDelimiter indicates input with no '*' checksum
	// delimiter.
	ErrMissingChecksumDelimiter = errors.New("missing checksum delimiter")

	// ErrChecksumMismatch indicates a transmitted checksum that does not
	// match the one computed over the sentence body.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrFieldCountMismatch indicates a field list whose length does not
	// match the formatter's schema.
	ErrFieldCountMismatch = errors.New("field count mismatch")

	// ErrDuplicateFormatter indicates an attempt to register a formatter
	// code that is already registered.
	ErrDuplicateFormatter = errors.New("duplicate formatter")

	// ErrFormatterNotFound indicates a formatter code with no registered
	// schema.
	ErrFormatterNotFound = errors.New("formatter not registered")

	// ErrFragmentSetIncomplete indicates a reassembly attempt with at
	// least one sentence number in [1, total] still missing.
	ErrFragmentSetIncomplete = errors.New("fragment set incomplete")

	// ErrFragmentMismatch indicates fragments that share a sequential ID
	// but disagree on fields that must be identical across one message.
	ErrFragmentMismatch = errors.New("fragment mismatch")
)
