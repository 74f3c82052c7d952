// Package zkerr defines the typed error taxonomy shared by every zkenc
// component. Callers distinguish failure modes with errors.Is against the
// sentinels below rather than string-matching.
package zkerr

import "errors"

var (
	// ErrMalformedInput signals a shape or size mismatch in an R1CS,
	// witness, EncapKey, or envelope.
	ErrMalformedInput = errors.New("zkenc: malformed input")

	// ErrUnsupportedFormat signals a bad magic number or version in an
	// .r1cs or .wtns file.
	ErrUnsupportedFormat = errors.New("zkenc: unsupported format")

	// ErrTruncatedInput signals a short read while parsing a binary file.
	ErrTruncatedInput = errors.New("zkenc: truncated input")

	// ErrCoefficientOutOfField signals an R1CS coefficient that does not
	// reduce to a valid field element.
	ErrCoefficientOutOfField = errors.New("zkenc: coefficient out of field")

	// ErrNotSatisfied signals that a witness fails the R1CS satisfaction
	// check. Surfaced to external callers as ErrWrongWitness.
	ErrNotSatisfied = errors.New("zkenc: witness does not satisfy constraint system")

	// ErrWrongWitness is the caller-facing alias for ErrNotSatisfied at
	// the Decap/decrypt boundary (spec: "the legitimate wrong-witness
	// signal").
	ErrWrongWitness = ErrNotSatisfied

	// ErrAuthFail signals an AEAD authentication failure: wrong key,
	// truncated ciphertext, or tampered envelope. Carries no further
	// information by design.
	ErrAuthFail = errors.New("zkenc: AEAD authentication failed")

	// ErrNotEmbedded signals get_public_input called on a flag=0
	// envelope.
	ErrNotEmbedded = errors.New("zkenc: envelope has no embedded public input")

	// ErrDomainCollision signals that a sampled challenge point x
	// coincides with a root of unity of the evaluation domain.
	ErrDomainCollision = errors.New("zkenc: domain collision, resample x")

	// ErrInternal signals an impossible state: pairing failure, MSM
	// length mismatch, allocator exhaustion, or exceeding the Encap
	// retry bound.
	ErrInternal = errors.New("zkenc: internal error")

	// ErrMissingInput signals a wire that is an input to the circuit but
	// received no value from the supplied JSON object.
	ErrMissingInput = errors.New("zkenc: missing input for wire")
)
