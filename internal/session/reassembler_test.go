package session

import (
	"testing"
	"time"

	"github.com/vdestools/vdesasm/internal/sentence"
)

func buildFragments(t *testing.T, seqID int, payloadLen int) (sentence.ABBMessage, []sentence.Message) {
	t.Helper()
	b := sentence.NewBuilder(sentence.NewDefaultRegistry())

	raw := make([]byte, payloadLen)
	for i := range raw {
		raw[i] = byte(i)
	}
	payload, fill := sentence.Armor(raw)
	msg := sentence.ABBMessage{
		TotalSentences: 1,
		SentenceNumber: 1,
		SequentialID:   seqID,
		SourceID:       sentence.Int(123456789),
		Channel:        sentence.ChannelASM1,
		Payload:        payload,
		FillBits:       fill,
	}
	sentences, err := b.Encode("AI", msg)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	frags := make([]sentence.Message, 0, len(sentences))
	for _, s := range sentences {
		m, err := b.Decode(s)
		if err != nil {
			t.Fatalf("Decode() unexpected error: %v", err)
		}
		frags = append(frags, m)
	}
	return msg, frags
}

func newTestReassembler(ttl time.Duration) *Reassembler {
	return NewReassembler(sentence.NewBuilder(sentence.NewDefaultRegistry()), ttl)
}

func TestPushSingleSentenceMessage(t *testing.T) {
	r := newTestReassembler(0)
	msg := sentence.ABBMessage{
		TotalSentences: 1, SentenceNumber: 1,
		Channel: sentence.ChannelASM1, Payload: "4SAF",
	}
	out, done, err := r.Push("AI", msg)
	if err != nil || !done {
		t.Fatalf("Push() = (done=%v, err=%v), want immediate completion", done, err)
	}
	if out.(sentence.ABBMessage) != msg {
		t.Errorf("Push() = %+v, want %+v", out, msg)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", r.Pending())
	}
}

func TestPushReassemblesOutOfOrder(t *testing.T) {
	r := newTestReassembler(0)
	original, frags := buildFragments(t, 4, 60)
	if len(frags) < 2 {
		t.Fatalf("expected a multi-sentence message, got %d fragments", len(frags))
	}

	// Deliver the last fragment first.
	for i := len(frags) - 1; i > 0; i-- {
		_, done, err := r.Push("AI", frags[i])
		if err != nil {
			t.Fatalf("Push() fragment %d: %v", i, err)
		}
		if done {
			t.Fatalf("Push() fragment %d reported completion early", i)
		}
	}
	if r.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", r.Pending())
	}

	out, done, err := r.Push("AI", frags[0])
	if err != nil || !done {
		t.Fatalf("final Push() = (done=%v, err=%v), want completion", done, err)
	}
	if out.(sentence.ABBMessage) != original {
		t.Errorf("reassembled = %+v, want %+v", out, original)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d after completion, want 0", r.Pending())
	}
}

func TestPushKeepsConcurrentSetsApart(t *testing.T) {
	r := newTestReassembler(0)
	_, setA := buildFragments(t, 1, 60)
	_, setB := buildFragments(t, 2, 60)

	if _, done, _ := r.Push("AI", setA[0]); done {
		t.Fatal("set A completed from one fragment")
	}
	if _, done, _ := r.Push("AI", setB[0]); done {
		t.Fatal("set B completed from one fragment")
	}
	if r.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", r.Pending())
	}
}

func TestPushDuplicateFragmentIsIdempotent(t *testing.T) {
	r := newTestReassembler(0)
	original, frags := buildFragments(t, 3, 60)

	if _, done, _ := r.Push("AI", frags[0]); done {
		t.Fatal("completed from one fragment")
	}
	if _, done, _ := r.Push("AI", frags[0]); done {
		t.Fatal("completed from a duplicate fragment")
	}
	out, done, err := r.Push("AI", frags[1])
	if err != nil || !done {
		t.Fatalf("Push() = (done=%v, err=%v), want completion", done, err)
	}
	if out.(sentence.ABBMessage) != original {
		t.Errorf("reassembled = %+v, want %+v", out, original)
	}
}

func TestStaleSetsExpire(t *testing.T) {
	r := newTestReassembler(30 * time.Second)
	now := time.Now()
	r.now = func() time.Time { return now }

	_, frags := buildFragments(t, 6, 60)
	if _, done, _ := r.Push("AI", frags[0]); done {
		t.Fatal("completed from one fragment")
	}
	if r.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", r.Pending())
	}

	now = now.Add(31 * time.Second)
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d after TTL, want 0", r.Pending())
	}

	// A fragment arriving after expiry starts a fresh set.
	if _, done, _ := r.Push("AI", frags[1]); done {
		t.Error("expired set completed from a late fragment")
	}
}
