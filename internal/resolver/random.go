package resolver

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"
)

// Source supplies the randomness behind generator helpers. It is injected
// into the Resolver so tests can substitute a deterministic sequence.
// Implementations must be safe for reuse across helper calls; *math/rand.Rand
// satisfies the interface for seeded test sources.
type Source interface {
	io.Reader

	// Intn returns a uniform random int in [0, n). n must be > 0.
	Intn(n int) int
}

// cryptoSource backs the default Resolver with crypto/rand. It carries no
// state, so concurrent helper evaluation needs no coordination.
type cryptoSource struct{}

// CryptoSource returns the default crypto/rand-backed Source.
func CryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Read(p []byte) (int, error) {
	return crand.Read(p)
}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("resolver: Intn called with non-positive n")
	}

	// Rejection sampling to avoid modulo bias.
	max := uint64(n)
	limit := (^uint64(0) / max) * max
	var buf [8]byte
	for {
		if _, err := crand.Read(buf[:]); err != nil {
			// crypto/rand failing means the platform entropy source is
			// broken; nothing sensible can continue.
			panic("resolver: crypto/rand unavailable: " + err.Error())
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return int(v % max)
		}
	}
}

// randBytes reads n random bytes from the source.
func randBytes(src Source, n int) []byte {
	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		panic("resolver: random source exhausted: " + err.Error())
	}
	return buf
}
