/*
Package encoding provides the fixed 64-symbol alphabet and the pluggable
translation strategy used by the trie to turn arbitrary strings into trie
keys and back.

The alphabet is intentionally small (64 symbols, so membership fits in a
single uint64 bitmap): space, a handful of ASCII punctuation characters,
the ten digits, the 26 upper-case Latin letters, and a sentinel symbol
that absorbs every code point outside the set. Encoding is lossy by
design — the original string is kept alongside the trie so that a
matched run can be rendered back in the caller's own casing and script
via TranslateDecode.

The active Encoding is a process-wide, set-once strategy: the first
caller that needs one lazily installs the ASCII default, and any
alternative must be installed before that happens. Installing a second
strategy is a programming error and returns ErrAlreadyInitialized rather
than silently replacing the first one.
*/
package encoding

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Alphabet is the fixed 64-character symbol set used for trie keys.
// Its length is part of the contract: Sentinel must stay the last index.
const Alphabet = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_"

// Sentinel is the symbol index that absorbs every code point not present
// in Alphabet.
const Sentinel = uint8(len(Alphabet) - 1)

// Encoding maps code points to symbol indices in [0, 63] and back, and
// translates whole strings to and from their normalized trie-key form.
type Encoding interface {
	// Idx returns the symbol index for c, or Sentinel if c has no
	// representative in the alphabet.
	Idx(c rune) uint8

	// Decode returns the code point for a symbol index produced by Idx.
	Decode(idx uint8) rune

	// TranslateEncode returns the normalized form of s used as a trie
	// key. For an ASCII-only encoding this is simply strings.ToUpper.
	TranslateEncode(s string) string

	// TranslateDecode returns the slice of original that corresponds to
	// an encoded run of length encodedLen starting at byteOffset in
	// original. A faithful ASCII encoding can return
	// original[byteOffset:byteOffset+encodedLen] directly because
	// TranslateEncode never changes byte length; a transliterating
	// encoding must track and honor its own expansion instead.
	TranslateDecode(original string, byteOffset, encodedLen int) string
}

// asciiEncoding is the default, faithful Encoding: every ASCII letter and
// the punctuation set in Alphabet round-trips byte-for-byte; everything
// else collapses onto Sentinel.
type asciiEncoding struct{}

func (asciiEncoding) Idx(c rune) uint8 {
	u := []rune(strings.ToUpper(string(c)))
	if len(u) != 1 {
		return Sentinel
	}
	i := strings.IndexRune(Alphabet, u[0])
	if i < 0 {
		return Sentinel
	}
	return uint8(i)
}

func (asciiEncoding) Decode(idx uint8) rune {
	return rune(Alphabet[idx])
}

func (asciiEncoding) TranslateEncode(s string) string {
	return strings.ToUpper(s)
}

func (asciiEncoding) TranslateDecode(original string, byteOffset, encodedLen int) string {
	return original[byteOffset : byteOffset+encodedLen]
}

var (
	active   atomic.Pointer[Encoding]
	initOnce sync.Once
)

// ErrAlreadyInitialized is returned by Init when a strategy has already
// been installed, either explicitly or lazily by a prior accessor.
type alreadyInitializedError struct{}

func (alreadyInitializedError) Error() string { return "encoding: already initialized" }

// ErrAlreadyInitialized is returned by Init on a second call.
var ErrAlreadyInitialized error = alreadyInitializedError{}

// Init installs e as the process-wide encoding strategy. It must be
// called, if at all, before any of Idx/Decode/TranslateEncode/
// TranslateDecode is called — those lazily install the ASCII default on
// first use. A second call, whether to Init or triggered by the lazy
// default, returns ErrAlreadyInitialized.
func Init(e Encoding) error {
	installed := false
	initOnce.Do(func() {
		active.Store(&e)
		installed = true
	})
	if !installed {
		return ErrAlreadyInitialized
	}
	return nil
}

func get() Encoding {
	if p := active.Load(); p != nil {
		return *p
	}
	var def Encoding = asciiEncoding{}
	initOnce.Do(func() {
		active.Store(&def)
	})
	if p := active.Load(); p != nil {
		return *p
	}
	return def
}

// Idx returns the symbol index of c under the active encoding.
func Idx(c rune) uint8 { return get().Idx(c) }

// Decode returns the code point for symbol index idx under the active
// encoding.
func Decode(idx uint8) rune { return get().Decode(idx) }

// TranslateEncode normalizes s into its trie-key form under the active
// encoding.
func TranslateEncode(s string) string { return get().TranslateEncode(s) }

// TranslateDecode slices original back out under the active encoding.
func TranslateDecode(original string, byteOffset, encodedLen int) string {
	return get().TranslateDecode(original, byteOffset, encodedLen)
}
