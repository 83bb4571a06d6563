package encrust

import (
	"unsafe"
)

// Region is a contiguous run of protected bytes
type Region struct {
	// Bytes aliases the live storage; masking writes through it
	Bytes []byte

	// Width is the size in bytes of each numeric element stored in Bytes in
	// native byte order, or 0/1 for plain bytes. Multi-byte elements are
	// masked in little-endian order so masked values are portable.
	Width int
}

// ByteView is implemented by types that describe their own protected bytes
// instead of relying on reflection. The method set must be on the pointer
// receiver of the type stored in the container.
//
// Regions must yield the same regions in the same order on every call while
// the value is not modified through a Decrusted guard. Zeroize must overwrite
// every region with zero bytes.
type ByteView interface {
	Regions(yield func(Region))
	Zeroize()
}

// regionFunc enumerates the protected regions of one value
type regionFunc func(yield func(Region))

// viewOf resolves the regions of *v: the type's own ByteView if it has one,
// otherwise the compiled reflection layout.
func viewOf[T any](v *T) (regionFunc, *layout, error) {
	if bv, ok := any(v).(ByteView); ok {
		return bv.Regions, nil, nil
	}

	l, err := layoutFor[T]()
	if err != nil {
		return nil, nil, err
	}
	base := unsafe.Pointer(v)
	return func(yield func(Region)) {
		l.walk(base, yield, nil)
	}, l, nil
}

// regionLen returns the total number of protected bytes
func regionLen(view regionFunc) int {
	n := 0
	view(func(r Region) {
		n += len(r.Bytes)
	})
	return n
}

// applyMask XORs the keystream for seed over every region in order. The
// transform is its own inverse.
func applyMask(view regionFunc, suite KeystreamSuite, seed uint64) error {
	n := regionLen(view)
	if n == 0 {
		return nil
	}

	ks, err := Generate(suite, seed, n)
	if err != nil {
		return err
	}
	defer wipeBytes(ks)

	maskRegions(view, ks)
	return nil
}

// applyRemask moves every region from the mask for oldSeed to the mask for
// newSeed in a single pass, so the plaintext never appears in storage.
func applyRemask(view regionFunc, suite KeystreamSuite, oldSeed, newSeed uint64) error {
	n := regionLen(view)
	if n == 0 {
		return nil
	}

	oldKS, err := Generate(suite, oldSeed, n)
	if err != nil {
		return err
	}
	defer wipeBytes(oldKS)

	newKS, err := Generate(suite, newSeed, n)
	if err != nil {
		return err
	}
	defer wipeBytes(newKS)

	xorBytes(oldKS, newKS)
	maskRegions(view, oldKS)
	return nil
}

// maskRegions consumes ks sequentially across the regions of view
func maskRegions(view regionFunc, ks []byte) {
	off := 0
	view(func(r Region) {
		n := len(r.Bytes)
		xorCanonical(r.Bytes, ks[off:off+n], r.Width, hostBigEndian)
		off += n
	})
}
