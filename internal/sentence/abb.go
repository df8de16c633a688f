package sentence

import (
	"fmt"
	"strconv"
)

// ABBFormatterCode identifies the ASM broadcast message sentence of the
// draft IEC PAS 63343 (Oct 2020).
const ABBFormatterCode = "ABB"

// ABB broadcast channel selection values.
const (
	ChannelNoPreference = 0
	ChannelASM1         = 1
	ChannelASM2         = 2
	ChannelBoth         = 3
)

// ABB transmission format values.
const (
	FormatNoErrorCoding = 0
	FormatFEC34         = 1
	FormatSATUplink     = 2
)

// ABBMessage is the typed content of one ABB sentence: an ASM payload to be
// broadcast, with its addressing and channel selection. The payload is
// carried in six-bit armored form; Armor and Dearmor convert to and from
// raw bits.
type ABBMessage struct {
	TotalSentences     int    // 1-99
	SentenceNumber     int    // 1-99, <= TotalSentences
	SequentialID       int    // 0-9, shared by all sentences of one message
	SourceID           OptInt // up to 10 digits
	Channel            int    // 0-3
	ASMID              string // reserved for future use, always null
	TransmissionFormat int    // 0-9
	Payload            string // six-bit armored
	FillBits           int    // 0-5
}

// FormatterCode implements Message.
func (m ABBMessage) FormatterCode() string { return ABBFormatterCode }

// FragmentInfo implements Fragment.
func (m ABBMessage) FragmentInfo() (total, number, seqID int) {
	return m.TotalSentences, m.SentenceNumber, m.SequentialID
}

// GroupID implements Fragment. Fragments of one logical message must agree
// on everything it contains.
func (m ABBMessage) GroupID() string {
	src := ""
	if m.SourceID.Set {
		src = strconv.Itoa(m.SourceID.Value)
	}
	return fmt.Sprintf("%s,%d,%s,%d", src, m.Channel, m.ASMID, m.TransmissionFormat)
}

var abbSchema = []FieldSpec{
	{Name: "total sentences", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
	{Name: "sentence number", Kind: FieldPaddedInt, Min: 1, Max: 99, Width: 2},
	{Name: "sequential ID", Kind: FieldInt, Min: 0, Max: 9},
	{Name: "source ID", Kind: FieldInt, Min: 0, Max: 9999999999, Optional: true},
	{Name: "channel", Kind: FieldInt, Min: 0, Max: 3},
	{Name: "ASM ID", Kind: FieldString, Width: 5, Optional: true},
	{Name: "transmission format", Kind: FieldInt, Min: 0, Max: 9},
	{Name: "payload", Kind: FieldPayload, Optional: true},
	{Name: "fill bits", Kind: FieldInt, Min: 0, Max: 5},
}

// ABBFormatter encodes and decodes the ABB field schema.
type ABBFormatter struct{}

// Code implements Formatter.
func (ABBFormatter) Code() string { return ABBFormatterCode }

// Schema implements Formatter.
func (ABBFormatter) Schema() []FieldSpec { return abbSchema }

// ToFields renders an ABBMessage as its ordered field tokens.
func (f ABBFormatter) ToFields(msg Message) ([]string, error) {
	m, ok := msg.(ABBMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an ABB message", ErrMalformedField, msg)
	}
	if m.SentenceNumber > m.TotalSentences {
		return nil, fmt.Errorf("sentence number: %w: %d exceeds total %d",
			ErrMalformedField, m.SentenceNumber, m.TotalSentences)
	}
	fields := make([]string, 0, len(abbSchema))
	for i, spec := range abbSchema {
		var tok string
		var err error
		switch i {
		case 0:
			tok, err = EncodeIntField(Int(m.TotalSentences), spec)
		case 1:
			tok, err = EncodeIntField(Int(m.SentenceNumber), spec)
		case 2:
			tok, err = EncodeIntField(Int(m.SequentialID), spec)
		case 3:
			tok, err = EncodeIntField(m.SourceID, spec)
		case 4:
			tok, err = EncodeIntField(Int(m.Channel), spec)
		case 5:
			tok, err = EncodeStringField(m.ASMID, spec)
		case 6:
			tok, err = EncodeIntField(Int(m.TransmissionFormat), spec)
		case 7:
			tok, err = EncodeStringField(m.Payload, spec)
		case 8:
			tok, err = EncodeIntField(Int(m.FillBits), spec)
		}
		if err != nil {
			return nil, err
		}
		fields = append(fields, tok)
	}
	return fields, nil
}

// FromFields parses ordered field tokens into an ABBMessage. The field
// count must match the schema exactly.
func (f ABBFormatter) FromFields(fields []string) (Message, error) {
	if len(fields) != len(abbSchema) {
		return nil, fmt.Errorf("%w: got %d fields, ABB has %d", ErrFieldCountMismatch, len(fields), len(abbSchema))
	}
	var m ABBMessage
	for i, spec := range abbSchema {
		var err error
		switch i {
		case 0, 1, 2, 4, 6, 8:
			var v OptInt
			v, err = DecodeIntField(fields[i], spec)
			if err == nil {
				switch i {
				case 0:
					m.TotalSentences = v.Value
				case 1:
					m.SentenceNumber = v.Value
				case 2:
					m.SequentialID = v.Value
				case 4:
					m.Channel = v.Value
				case 6:
					m.TransmissionFormat = v.Value
				case 8:
					m.FillBits = v.Value
				}
			}
		case 3:
			m.SourceID, err = DecodeIntField(fields[i], spec)
		case 5:
			m.ASMID, err = DecodeStringField(fields[i], spec)
		case 7:
			m.Payload, err = DecodeStringField(fields[i], spec)
		}
		if err != nil {
			return nil, err
		}
	}
	if m.SentenceNumber > m.TotalSentences {
		return nil, fmt.Errorf("sentence number: %w: %d exceeds total %d",
			ErrMalformedField, m.SentenceNumber, m.TotalSentences)
	}
	return m, nil
}

// PayloadChars implements Fragmenter.
func (ABBFormatter) PayloadChars(msg Message) (int, error) {
	m, ok := msg.(ABBMessage)
	if !ok {
		return 0, fmt.Errorf("%w: %T is not an ABB message", ErrMalformedField, msg)
	}
	return len(m.Payload), nil
}

// Split breaks an oversized ABB message into per-sentence fragments of at
// most maxChars payload characters. All fragments share the addressing
// fields; fill bits apply to the final fragment only, the rest carry whole
// six-bit groups.
func (ABBFormatter) Split(msg Message, maxChars int) ([]Message, error) {
	m, ok := msg.(ABBMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an ABB message", ErrMalformedField, msg)
	}
	if maxChars < 1 {
		return nil, fmt.Errorf("%w: no room for payload characters", ErrSentenceTooLong)
	}
	total := (len(m.Payload) + maxChars - 1) / maxChars
	if total > 99 {
		return nil, fmt.Errorf("%w: payload needs %d sentences, limit 99", ErrSentenceTooLong, total)
	}
	frags := make([]Message, 0, total)
	for i := 0; i < total; i++ {
		frag := m
		frag.TotalSentences = total
		frag.SentenceNumber = i + 1
		end := (i + 1) * maxChars
		if end > len(m.Payload) {
			end = len(m.Payload)
		}
		frag.Payload = m.Payload[i*maxChars : end]
		if i < total-1 {
			frag.FillBits = 0
		}
		frags = append(frags, frag)
	}
	return frags, nil
}

// Join reassembles the fragments of one logical ABB message. Ordering is by
// sentence number, not arrival order. It fails with ErrFragmentSetIncomplete
// while any sentence number in [1, total] is missing and with
// ErrFragmentMismatch when fragments disagree on total count or addressing.
func (ABBFormatter) Join(frags []Message) (Message, error) {
	if len(frags) == 0 {
		return nil, fmt.Errorf("%w: no fragments", ErrFragmentSetIncomplete)
	}
	first, ok := frags[0].(ABBMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an ABB message", ErrMalformedField, frags[0])
	}
	total := first.TotalSentences
	byNumber := make(map[int]ABBMessage, total)
	for _, f := range frags {
		m, ok := f.(ABBMessage)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not an ABB message", ErrMalformedField, f)
		}
		if m.TotalSentences != total {
			return nil, fmt.Errorf("%w: total sentences %d vs %d", ErrFragmentMismatch, m.TotalSentences, total)
		}
		if m.SequentialID != first.SequentialID || m.GroupID() != first.GroupID() {
			return nil, fmt.Errorf("%w: fragments disagree on addressing fields", ErrFragmentMismatch)
		}
		if prev, dup := byNumber[m.SentenceNumber]; dup && prev != m {
			return nil, fmt.Errorf("%w: conflicting duplicates of sentence %d", ErrFragmentMismatch, m.SentenceNumber)
		}
		byNumber[m.SentenceNumber] = m
	}
	payload := ""
	for n := 1; n <= total; n++ {
		m, ok := byNumber[n]
		if !ok {
			return nil, fmt.Errorf("%w: missing sentence %d of %d", ErrFragmentSetIncomplete, n, total)
		}
		payload += m.Payload
	}
	out := first
	out.TotalSentences = 1
	out.SentenceNumber = 1
	out.Payload = payload
	out.FillBits = byNumber[total].FillBits
	return out, nil
}
