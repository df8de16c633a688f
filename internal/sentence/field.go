package sentence

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind selects the encoding rules for one sentence field.
type FieldKind int

const (
	FieldInt       FieldKind = iota // decimal integer, no padding
	FieldPaddedInt                  // decimal integer, zero-padded to Width digits
	FieldString                     // literal text from the permitted sentence alphabet
	FieldPayload                    // six-bit armored payload
)

// FieldSpec describes one field of a formatter schema. Specs are defined
// once per formatter and treated as read-only reference data.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Min      int // minimum value (integer kinds)
	Max      int // maximum value (integer kinds)
	Width    int // rendered digit count (FieldPaddedInt) or maximum characters (string kinds, 0 = no limit)
	Optional bool
}

// OptInt is an integer field value with explicit presence. An absent
// optional field encodes to an empty token and an empty token decodes back
// to absent, so 0 and "not supplied" never collapse into each other.
type OptInt struct {
	Set   bool
	Value int
}

// Int returns a present OptInt.
func Int(v int) OptInt {
	return OptInt{Set: true, Value: v}
}

// reservedChars are the sentence delimiters that must never appear inside
// a field token.
const reservedChars = "!$,*\r\n"

// EncodeIntField renders an integer value as a field token.
func EncodeIntField(v OptInt, spec FieldSpec) (string, error) {
	if !v.Set {
		if !spec.Optional {
			return "", fmt.Errorf("%s: %w: mandatory field is absent", spec.Name, ErrMalformedField)
		}
		return "", nil
	}
	if v.Value < spec.Min || v.Value > spec.Max {
		return "", fmt.Errorf("%s: %w: %d out of range [%d,%d]",
			spec.Name, ErrMalformedField, v.Value, spec.Min, spec.Max)
	}
	if spec.Kind == FieldPaddedInt {
		return fmt.Sprintf("%0*d", spec.Width, v.Value), nil
	}
	return strconv.Itoa(v.Value), nil
}

// DecodeIntField parses an integer field token. An empty token decodes to
// an absent OptInt for optional fields and fails for mandatory ones.
func DecodeIntField(token string, spec FieldSpec) (OptInt, error) {
	if token == "" {
		if !spec.Optional {
			return OptInt{}, fmt.Errorf("%s: %w: empty mandatory field", spec.Name, ErrMalformedField)
		}
		return OptInt{}, nil
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return OptInt{}, fmt.Errorf("%s: %w: non-digit character %q",
				spec.Name, ErrMalformedField, token[i])
		}
	}
	if spec.Kind == FieldPaddedInt && len(token) != spec.Width {
		return OptInt{}, fmt.Errorf("%s: %w: got %d digits, want %d",
			spec.Name, ErrMalformedField, len(token), spec.Width)
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return OptInt{}, fmt.Errorf("%s: %w: %v", spec.Name, ErrMalformedField, err)
	}
	if v < spec.Min || v > spec.Max {
		return OptInt{}, fmt.Errorf("%s: %w: %d out of range [%d,%d]",
			spec.Name, ErrMalformedField, v, spec.Min, spec.Max)
	}
	return Int(v), nil
}

// EncodeStringField renders a text or payload value as a field token.
func EncodeStringField(s string, spec FieldSpec) (string, error) {
	if s == "" && !spec.Optional {
		return "", fmt.Errorf("%s: %w: mandatory field is absent", spec.Name, ErrMalformedField)
	}
	if spec.Width > 0 && len(s) > spec.Width {
		return "", fmt.Errorf("%s: %w: %d characters exceeds limit of %d",
			spec.Name, ErrMalformedField, len(s), spec.Width)
	}
	if spec.Kind == FieldPayload {
		if i := invalidArmorIndex(s); i >= 0 {
			return "", fmt.Errorf("%s: %w: %q at offset %d",
				spec.Name, ErrInvalidPayloadCharacter, s[i], i)
		}
		return s, nil
	}
	if strings.ContainsAny(s, reservedChars) {
		return "", fmt.Errorf("%s: %w: token contains a sentence delimiter", spec.Name, ErrMalformedField)
	}
	return s, nil
}

// DecodeStringField parses a text or payload field token.
func DecodeStringField(token string, spec FieldSpec) (string, error) {
	if token == "" {
		if !spec.Optional {
			return "", fmt.Errorf("%s: %w: empty mandatory field", spec.Name, ErrMalformedField)
		}
		return "", nil
	}
	if spec.Width > 0 && len(token) > spec.Width {
		return "", fmt.Errorf("%s: %w: %d characters exceeds limit of %d",
			spec.Name, ErrMalformedField, len(token), spec.Width)
	}
	if spec.Kind == FieldPayload {
		if i := invalidArmorIndex(token); i >= 0 {
			return "", fmt.Errorf("%s: %w: %q at offset %d",
				spec.Name, ErrInvalidPayloadCharacter, token[i], i)
		}
	}
	return token, nil
}
