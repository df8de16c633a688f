package sentence

import (
	"errors"
	"testing"
)

func TestEncodeIntField(t *testing.T) {
	tests := []struct {
		name      string
		value     OptInt
		spec      FieldSpec
		expected  string
		expectErr error
	}{
		{
			name:     "plain integer",
			value:    Int(7),
			spec:     FieldSpec{Name: "channel", Kind: FieldInt, Min: 0, Max: 9},
			expected: "7",
		},
		{
			name:     "zero-padded integer",
			value:    Int(3),
			spec:     FieldSpec{Name: "total", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
			expected: "03",
		},
		{
			name:     "absent optional encodes to empty token",
			value:    OptInt{},
			spec:     FieldSpec{Name: "source", Kind: FieldInt, Min: 0, Max: 99, Optional: true},
			expected: "",
		},
		{
			name:     "present zero is not absent",
			value:    Int(0),
			spec:     FieldSpec{Name: "source", Kind: FieldInt, Min: 0, Max: 99, Optional: true},
			expected: "0",
		},
		{
			name:      "absent mandatory fails",
			value:     OptInt{},
			spec:      FieldSpec{Name: "channel", Kind: FieldInt, Min: 0, Max: 9},
			expectErr: ErrMalformedField,
		},
		{
			name:      "value above range fails",
			value:     Int(100),
			spec:      FieldSpec{Name: "total", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
			expectErr: ErrMalformedField,
		},
		{
			name:      "value below range fails",
			value:     Int(0),
			spec:      FieldSpec{Name: "total", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
			expectErr: ErrMalformedField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeIntField(tt.value, tt.spec)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("EncodeIntField() error = %v, want %v", err, tt.expectErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeIntField() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("EncodeIntField() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDecodeIntField(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		spec      FieldSpec
		expected  OptInt
		expectErr error
	}{
		{
			name:     "plain integer",
			token:    "5",
			spec:     FieldSpec{Name: "channel", Kind: FieldInt, Min: 0, Max: 9},
			expected: Int(5),
		},
		{
			name:     "padded integer",
			token:    "07",
			spec:     FieldSpec{Name: "total", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
			expected: Int(7),
		},
		{
			name:     "empty optional decodes to absent",
			token:    "",
			spec:     FieldSpec{Name: "source", Kind: FieldInt, Min: 0, Max: 99, Optional: true},
			expected: OptInt{},
		},
		{
			name:     "zero decodes to present zero",
			token:    "0",
			spec:     FieldSpec{Name: "source", Kind: FieldInt, Min: 0, Max: 99, Optional: true},
			expected: Int(0),
		},
		{
			name:      "empty mandatory fails",
			token:     "",
			spec:      FieldSpec{Name: "channel", Kind: FieldInt, Min: 0, Max: 9},
			expectErr: ErrMalformedField,
		},
		{
			name:      "non-digit characters fail",
			token:     "1a",
			spec:      FieldSpec{Name: "source", Kind: FieldInt, Min: 0, Max: 99},
			expectErr: ErrMalformedField,
		},
		{
			name:      "negative sign is not a digit",
			token:     "-1",
			spec:      FieldSpec{Name: "channel", Kind: FieldInt, Min: 0, Max: 9},
			expectErr: ErrMalformedField,
		},
		{
			name:      "wrong width for padded field fails",
			token:     "7",
			spec:      FieldSpec{Name: "total", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
			expectErr: ErrMalformedField,
		},
		{
			name:      "out of range fails",
			token:     "4",
			spec:      FieldSpec{Name: "channel", Kind: FieldInt, Min: 0, Max: 3},
			expectErr: ErrMalformedField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeIntField(tt.token, tt.spec)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("DecodeIntField() error = %v, want %v", err, tt.expectErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeIntField() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("DecodeIntField() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestStringFieldRules(t *testing.T) {
	payloadSpec := FieldSpec{Name: "payload", Kind: FieldPayload, Optional: true}
	textSpec := FieldSpec{Name: "channel", Kind: FieldString, Width: 1, Optional: true}

	if _, err := EncodeStringField("1P000Oh", payloadSpec); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if _, err := EncodeStringField("abc def", payloadSpec); !errors.Is(err, ErrInvalidPayloadCharacter) {
		t.Errorf("space in payload: error = %v, want ErrInvalidPayloadCharacter", err)
	}
	if _, err := DecodeStringField("1P0#0Oh", payloadSpec); !errors.Is(err, ErrInvalidPayloadCharacter) {
		t.Errorf("'#' in payload: error = %v, want ErrInvalidPayloadCharacter", err)
	}
	if _, err := EncodeStringField("A,B", textSpec); !errors.Is(err, ErrMalformedField) {
		t.Errorf("delimiter in token: error = %v, want ErrMalformedField", err)
	}
	if _, err := DecodeStringField("AB", textSpec); !errors.Is(err, ErrMalformedField) {
		t.Errorf("over-width token: error = %v, want ErrMalformedField", err)
	}
	if got, err := DecodeStringField("", textSpec); err != nil || got != "" {
		t.Errorf("empty optional: got (%q, %v), want (\"\", nil)", got, err)
	}
}
