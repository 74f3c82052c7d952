package main

import (
	"errors"

	"github.com/flyinglimao/zkenc/zkerr"
)

// Exit codes per spec §6.3: 0 success, 2 input validation error,
// 3 witness mismatch, 4 AEAD auth failure, 1 other.
const (
	exitOK              = 0
	exitOther           = 1
	exitInputValidation = 2
	exitWrongWitness    = 3
	exitAuthFail        = 4
)

// exitCodeFor classifies err into the exit-code taxonomy of spec §6.3.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, zkerr.ErrNotSatisfied):
		return exitWrongWitness
	case errors.Is(err, zkerr.ErrAuthFail):
		return exitAuthFail
	case errors.Is(err, zkerr.ErrMalformedInput),
		errors.Is(err, zkerr.ErrUnsupportedFormat),
		errors.Is(err, zkerr.ErrTruncatedInput),
		errors.Is(err, zkerr.ErrCoefficientOutOfField),
		errors.Is(err, zkerr.ErrMissingInput),
		errors.Is(err, zkerr.ErrNotEmbedded):
		return exitInputValidation
	default:
		return exitOther
	}
}
