package utils

import (
	"errors"
	"math/rand/v2"
	"strings"
)

// CodeAlphabet is the alphabet flight and reference codes are drawn from
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrCodeSpaceExhausted is returned when every code of the requested length is taken
var ErrCodeSpaceExhausted = errors.New("code space exhausted")

const randomDraws = 32

// maxEnumerableLength bounds the fallback scan so the space size fits in a uint64
const maxEnumerableLength = 12

// RandomCode draws a code of the given length
func RandomCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(CodeAlphabet[rand.IntN(len(CodeAlphabet))])
	}
	return sb.String()
}

// RefCode returns a reference code for error correlation
func RefCode() string {
	return RandomCode(RefCodeLength)
}

// UniqueCode draws codes until one is not taken. After a bounded number of
// random draws it scans the space from a random offset, so it terminates with
// a fresh code or ErrCodeSpaceExhausted.
func UniqueCode(length int, taken func(string) bool) (string, error) {
	if length <= 0 {
		return "", errors.New("code length must be positive")
	}

	for i := 0; i < randomDraws; i++ {
		code := RandomCode(length)
		if !taken(code) {
			return code, nil
		}
	}

	if length > maxEnumerableLength {
		for {
			code := RandomCode(length)
			if !taken(code) {
				return code, nil
			}
		}
	}

	space := uint64(1)
	for i := 0; i < length; i++ {
		space *= uint64(len(CodeAlphabet))
	}

	start := rand.Uint64N(space)
	for i := uint64(0); i < space; i++ {
		code := codeAt((start+i)%space, length)
		if !taken(code) {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}

func codeAt(index uint64, length int) string {
	buf := make([]byte, length)
	base := uint64(len(CodeAlphabet))
	for i := length - 1; i >= 0; i-- {
		buf[i] = CodeAlphabet[index%base]
		index /= base
	}
	return string(buf)
}
