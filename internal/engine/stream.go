package engine

import "sync"

// Stream is a seeded source of uniform integers. Every game drawn from a
// Stream gets its own nonce, so any finished game can be regenerated from
// (server seed, client seed, nonce) alone.
type Stream struct {
	mu      sync.Mutex
	seeds   Seeds
	nonce   uint64
	started bool
	gen     *ByteGenerator
}

// NewStream returns a Stream whose first game uses nonce.
func NewStream(seeds Seeds, nonce uint64) *Stream {
	return &Stream{seeds: seeds, nonce: nonce}
}

// NewGame moves the stream to the next nonce and restarts the byte cursor.
// The first call keeps the starting nonce.
func (s *Stream) NewGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newGameLocked()
}

func (s *Stream) newGameLocked() {
	if s.started {
		s.nonce++
	}
	s.started = true
	s.gen = NewByteGenerator(s.seeds.Server, s.seeds.Client, s.nonce, 0)
}

// Intn returns a uniformly distributed value in [0, n) by scaling the next
// float of the current game. It panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == nil {
		s.newGameLocked()
	}
	return scaleFloat(s.gen.NextFloat(), n)
}

// Seeds returns the seeds the stream draws from.
func (s *Stream) Seeds() Seeds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds
}

// Nonce returns the nonce of the current game.
func (s *Stream) Nonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}
