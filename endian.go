package encrust

import (
	"crypto/subtle"
	"unsafe"
)

// hostBigEndian reports the byte order of the running processor
var hostBigEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 0
}()

// xorCanonical XORs ks into dst. dst holds elements of width bytes in the
// host's order; keystream byte j of an element always lands on the element's
// j-th least significant byte, whatever the host order.
func xorCanonical(dst, ks []byte, width int, bigEndian bool) {
	if width <= 1 || !bigEndian {
		xorBytes(dst, ks)
		return
	}

	for off := 0; off+width <= len(dst); off += width {
		last := off + width - 1
		for j := 0; j < width; j++ {
			dst[last-j] ^= ks[off+j]
		}
	}
}

// xorBytes XORs b into a in place
func xorBytes(a, b []byte) {
	subtle.XORBytes(a, a, b)
}
