package sentence

import "fmt"

// VDMFormatterCode identifies the AIS VHF data-link message sentence of
// IEC 61162-1. It is the second built-in formatter; ASM equipment relays
// received AIS traffic on the same presentation interface.
const VDMFormatterCode = "VDM"

// VDMMessage is the typed content of one VDM sentence.
type VDMMessage struct {
	TotalSentences int    // 1-9
	SentenceNumber int    // 1-9, <= TotalSentences
	SequentialID   OptInt // 0-9, absent for single-sentence messages
	Channel        string // "A" or "B", may be empty
	Payload        string // six-bit armored
	FillBits       int    // 0-5
}

// FormatterCode implements Message.
func (m VDMMessage) FormatterCode() string { return VDMFormatterCode }

// FragmentInfo implements Fragment. A VDM without a sequential ID can only
// be a single-sentence message, so absent maps to 0 harmlessly.
func (m VDMMessage) FragmentInfo() (total, number, seqID int) {
	return m.TotalSentences, m.SentenceNumber, m.SequentialID.Value
}

// GroupID implements Fragment.
func (m VDMMessage) GroupID() string { return m.Channel }

var vdmSchema = []FieldSpec{
	{Name: "total sentences", Kind: FieldInt, Min: 1, Max: 9},
	{Name: "sentence number", Kind: FieldInt, Min: 1, Max: 9},
	{Name: "sequential ID", Kind: FieldInt, Min: 0, Max: 9, Optional: true},
	{Name: "channel", Kind: FieldString, Width: 1, Optional: true},
	{Name: "payload", Kind: FieldPayload, Optional: true},
	{Name: "fill bits", Kind: FieldInt, Min: 0, Max: 5},
}

// VDMFormatter encodes and decodes the VDM field schema.
type VDMFormatter struct{}

// Code implements Formatter.
func (VDMFormatter) Code() string { return VDMFormatterCode }

// Schema implements Formatter.
func (VDMFormatter) Schema() []FieldSpec { return vdmSchema }

// ToFields renders a VDMMessage as its ordered field tokens.
func (f VDMFormatter) ToFields(msg Message) ([]string, error) {
	m, ok := msg.(VDMMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a VDM message", ErrMalformedField, msg)
	}
	if m.SentenceNumber > m.TotalSentences {
		return nil, fmt.Errorf("sentence number: %w: %d exceeds total %d",
			ErrMalformedField, m.SentenceNumber, m.TotalSentences)
	}
	if m.Channel != "" && m.Channel != "A" && m.Channel != "B" {
		return nil, fmt.Errorf("channel: %w: %q is not A or B", ErrMalformedField, m.Channel)
	}
	total, err := EncodeIntField(Int(m.TotalSentences), vdmSchema[0])
	if err != nil {
		return nil, err
	}
	number, err := EncodeIntField(Int(m.SentenceNumber), vdmSchema[1])
	if err != nil {
		return nil, err
	}
	seq, err := EncodeIntField(m.SequentialID, vdmSchema[2])
	if err != nil {
		return nil, err
	}
	channel, err := EncodeStringField(m.Channel, vdmSchema[3])
	if err != nil {
		return nil, err
	}
	payload, err := EncodeStringField(m.Payload, vdmSchema[4])
	if err != nil {
		return nil, err
	}
	fill, err := EncodeIntField(Int(m.FillBits), vdmSchema[5])
	if err != nil {
		return nil, err
	}
	return []string{total, number, seq, channel, payload, fill}, nil
}

// FromFields parses ordered field tokens into a VDMMessage.
func (f VDMFormatter) FromFields(fields []string) (Message, error) {
	if len(fields) != len(vdmSchema) {
		return nil, fmt.Errorf("%w: got %d fields, VDM has %d", ErrFieldCountMismatch, len(fields), len(vdmSchema))
	}
	var m VDMMessage
	total, err := DecodeIntField(fields[0], vdmSchema[0])
	if err != nil {
		return nil, err
	}
	m.TotalSentences = total.Value
	number, err := DecodeIntField(fields[1], vdmSchema[1])
	if err != nil {
		return nil, err
	}
	m.SentenceNumber = number.Value
	if m.SequentialID, err = DecodeIntField(fields[2], vdmSchema[2]); err != nil {
		return nil, err
	}
	if m.Channel, err = DecodeStringField(fields[3], vdmSchema[3]); err != nil {
		return nil, err
	}
	if m.Channel != "" && m.Channel != "A" && m.Channel != "B" {
		return nil, fmt.Errorf("channel: %w: %q is not A or B", ErrMalformedField, m.Channel)
	}
	if m.Payload, err = DecodeStringField(fields[4], vdmSchema[4]); err != nil {
		return nil, err
	}
	fill, err := DecodeIntField(fields[5], vdmSchema[5])
	if err != nil {
		return nil, err
	}
	m.FillBits = fill.Value
	if m.SentenceNumber > m.TotalSentences {
		return nil, fmt.Errorf("sentence number: %w: %d exceeds total %d",
			ErrMalformedField, m.SentenceNumber, m.TotalSentences)
	}
	return m, nil
}

// PayloadChars implements Fragmenter.
func (VDMFormatter) PayloadChars(msg Message) (int, error) {
	m, ok := msg.(VDMMessage)
	if !ok {
		return 0, fmt.Errorf("%w: %T is not a VDM message", ErrMalformedField, msg)
	}
	return len(m.Payload), nil
}

// Split breaks an oversized VDM message into per-sentence fragments.
func (VDMFormatter) Split(msg Message, maxChars int) ([]Message, error) {
	m, ok := msg.(VDMMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a VDM message", ErrMalformedField, msg)
	}
	if maxChars < 1 {
		return nil, fmt.Errorf("%w: no room for payload characters", ErrSentenceTooLong)
	}
	total := (len(m.Payload) + maxChars - 1) / maxChars
	if total > 9 {
		return nil, fmt.Errorf("%w: payload needs %d sentences, limit 9", ErrSentenceTooLong, total)
	}
	if total > 1 && !m.SequentialID.Set {
		return nil, fmt.Errorf("sequential ID: %w: required for a multi-sentence message", ErrMalformedField)
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

// Join reassembles the fragments of one logical VDM message.
func (VDMFormatter) Join(frags []Message) (Message, error) {
	if len(frags) == 0 {
		return nil, fmt.Errorf("%w: no fragments", ErrFragmentSetIncomplete)
	}
	first, ok := frags[0].(VDMMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a VDM message", ErrMalformedField, frags[0])
	}
	total := first.TotalSentences
	byNumber := make(map[int]VDMMessage, total)
	for _, f := range frags {
		m, ok := f.(VDMMessage)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a VDM message", ErrMalformedField, f)
		}
		if m.TotalSentences != total {
			return nil, fmt.Errorf("%w: total sentences %d vs %d", ErrFragmentMismatch, m.TotalSentences, total)
		}
		if m.SequentialID != first.SequentialID || m.Channel != first.Channel {
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
