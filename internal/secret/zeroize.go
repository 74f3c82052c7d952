// Package secret holds the zeroization helpers spec §9 requires for
// secret field elements and the 32-byte key: "all secret field elements
// and the 32-byte key are held in containers whose destructors overwrite
// memory."
//
// Go has no destructors; the best available approximation is an explicit
// Zero call at the end of the scope that owns the secret, which this
// package's caller (wkem.Encap) invokes via defer.
package secret

// Bytes overwrites b with zeros in place.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Key overwrites a 32-byte key in place.
func Key(k *[32]byte) {
	for i := range k {
		k[i] = 0
	}
}

// ScalarSlice overwrites a slice of serialized scalar bytes (as produced
// by curve.Suite.ScalarBytes) in place. curve.Scalar itself is an opaque
// value type backed by an immutable field-element struct; zkenc avoids
// retaining secret scalars past a single Encap/Decap call so that
// garbage collection reclaims them promptly, and zeroes every byte
// buffer a secret scalar is serialized into.
func ScalarSlice(bs [][]byte) {
	for _, b := range bs {
		Bytes(b)
	}
}
