// Package session owns the mutable state the sentence codec deliberately
// refuses to hold: the buffer of partially received multi-sentence messages,
// keyed by their sequential identifier. The codec stays stateless and
// thread-safe; this package guards the buffer with a mutex and expires sets
// whose remaining fragments never arrive.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vdestools/vdesasm/internal/sentence"
)

// DefaultTTL is how long an incomplete fragment set is kept before it is
// discarded.
const DefaultTTL = 60 * time.Second

// Key identifies one in-flight logical message. Two transmitters can use
// the same sequential ID concurrently, so the group fields are part of the
// key as well.
type Key struct {
	Talker       string
	Formatter    string
	SequentialID int
	Group        string
}

type pendingSet struct {
	frags    []sentence.Message
	numbers  map[int]bool
	deadline time.Time
}

// Reassembler collects decoded fragments until a complete message can be
// reconstructed. Safe for concurrent use.
type Reassembler struct {
	builder *sentence.Builder
	ttl     time.Duration

	mu      sync.Mutex
	pending map[Key]*pendingSet
	now     func() time.Time // replaced in tests
}

// NewReassembler returns a reassembler delegating reconstruction to the
// given builder. A ttl of zero means DefaultTTL.
func NewReassembler(builder *sentence.Builder, ttl time.Duration) *Reassembler {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Reassembler{
		builder: builder,
		ttl:     ttl,
		pending: make(map[Key]*pendingSet),
		now:     time.Now,
	}
}

// Push adds one decoded fragment received under the given talker ID. When
// the fragment completes its set (or is a single-sentence message) the
// reconstructed message is returned with done=true and the set is dropped.
// Otherwise done is false and the fragment is buffered. An inconsistent set
// is discarded and its error returned so a retransmission starts clean.
func (r *Reassembler) Push(talkerID string, msg sentence.Message) (out sentence.Message, done bool, err error) {
	frag, ok := msg.(sentence.Fragment)
	if !ok {
		// Messages that cannot fragment are complete on arrival.
		return msg, true, nil
	}
	total, number, seqID := frag.FragmentInfo()
	if total <= 1 {
		return msg, true, nil
	}

	key := Key{
		Talker:       talkerID,
		Formatter:    msg.FormatterCode(),
		SequentialID: seqID,
		Group:        frag.GroupID(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	set := r.pending[key]
	if set == nil {
		set = &pendingSet{numbers: make(map[int]bool)}
		r.pending[key] = set
	}
	if !set.numbers[number] {
		set.frags = append(set.frags, msg)
		set.numbers[number] = true
	}
	set.deadline = r.now().Add(r.ttl)

	complete, err := r.builder.TryComplete(set.frags)
	if err != nil {
		if errors.Is(err, sentence.ErrFragmentSetIncomplete) {
			return nil, false, nil
		}
		delete(r.pending, key)
		return nil, false, fmt.Errorf("discarding fragment set %v: %w", key, err)
	}
	delete(r.pending, key)
	return complete, true, nil
}

// Pending reports how many fragment sets are in flight.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.pending)
}

func (r *Reassembler) sweepLocked() {
	now := r.now()
	for k, set := range r.pending {
		if now.After(set.deadline) {
			delete(r.pending, k)
		}
	}
}
