package encrust

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// Keystream produces the pseudorandom mask bytes for one seed
type Keystream interface {
	// Fill writes the next len(p) keystream bytes into p. Consecutive calls
	// continue the same stream.
	Fill(p []byte)

	// Wipe clears the generator state. The keystream must not be used after.
	Wipe()
}

// NewKeystream creates the keystream for seed using the given suite
func NewKeystream(suite KeystreamSuite, seed uint64) (Keystream, error) {
	switch suite {
	case KeystreamXoshiro256:
		x := newXoshiro256(seed)
		return newWordStream(x.Uint64, x.wipe), nil

	case KeystreamChaCha8:
		key := seedKey32(seed)
		c := rand.NewChaCha8(key)
		wipeBytes(key[:])
		return newWordStream(c.Uint64, func() { *c = rand.ChaCha8{} }), nil

	case KeystreamChaCha20:
		s, err := newChaCha20Stream(seed)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, &ValidationError{
			Field:   "keystream",
			Value:   suite,
			Message: "unsupported keystream suite",
			Err:     ErrUnsupportedKeystream,
		}
	}
}

// Generate returns the first n keystream bytes for seed. Callers own the
// returned buffer and should wipe it once the mask has been applied.
func Generate(suite KeystreamSuite, seed uint64, n int) ([]byte, error) {
	ks, err := NewKeystream(suite, seed)
	if err != nil {
		return nil, err
	}
	defer ks.Wipe()

	out := make([]byte, n)
	ks.Fill(out)
	return out, nil
}

// seedBytes encodes seed in little-endian order. Every seed-to-state
// conversion goes through here so results never depend on the host order.
func seedBytes(seed uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	return b
}

// seedKey32 expands seed into 32 bytes with SplitMix64, little-endian
func seedKey32(seed uint64) [32]byte {
	var key [32]byte
	state := seed
	for i := 0; i < len(key); i += 8 {
		binary.LittleEndian.PutUint64(key[i:], splitMix64(&state))
	}
	return key
}

// wordStream turns a 64-bit generator into a byte stream, emitting each word
// in little-endian order
type wordStream struct {
	next func() uint64
	wipe func()
	buf  [8]byte
	pos  int // next unread byte of buf; 8 means empty
}

func newWordStream(next func() uint64, wipe func()) *wordStream {
	w := &wordStream{next: next, wipe: wipe}
	w.pos = len(w.buf)
	return w
}

func (w *wordStream) Fill(p []byte) {
	// Drain what is left of the previous word
	for len(p) > 0 && w.pos < len(w.buf) {
		p[0] = w.buf[w.pos]
		p = p[1:]
		w.pos++
	}

	for len(p) >= 8 {
		binary.LittleEndian.PutUint64(p, w.next())
		p = p[8:]
	}

	if len(p) > 0 {
		binary.LittleEndian.PutUint64(w.buf[:], w.next())
		w.pos = copy(p, w.buf[:])
	}
}

func (w *wordStream) Wipe() {
	wipeBytes(w.buf[:])
	w.pos = len(w.buf)
	if w.wipe != nil {
		w.wipe()
	}
}

// chacha20Stream is the ChaCha20 keystream under a key derived from the seed
type chacha20Stream struct {
	c *chacha20.Cipher
}

// newChaCha20Stream keys ChaCha20 with BLAKE2b-256 of the little-endian seed
// and an all-zero nonce. The nonce never repeats under one key because each
// key serves a single stream.
func newChaCha20Stream(seed uint64) (*chacha20Stream, error) {
	sb := seedBytes(seed)
	key := blake2b.Sum256(sb[:])
	defer wipeBytes(key[:])

	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, err
	}
	return &chacha20Stream{c: c}, nil
}

func (s *chacha20Stream) Fill(p []byte) {
	clear(p)
	s.c.XORKeyStream(p, p)
}

func (s *chacha20Stream) Wipe() {
	if s.c != nil {
		*s.c = chacha20.Cipher{}
	}
	s.c = nil
}
