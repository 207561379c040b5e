package engine

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDFunc returns a new record identifier.
type IDFunc func() string

// ulidSource hands out monotonic ULIDs stamped with the engine clock, so
// records built within the same millisecond still sort in build order.
type ulidSource struct {
	mu    sync.Mutex
	clock func() time.Time
	mono  io.Reader
}

func newULIDSource(clock func() time.Time) *ulidSource {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ulidSource{
		clock: clock,
		mono:  ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

func (s *ulidSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(s.clock().UTC()), s.mono)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond; fall back to a fresh reader.
		id = ulid.MustNew(ulid.Timestamp(s.clock().UTC()), ulid.DefaultEntropy())
	}
	return id.String()
}
