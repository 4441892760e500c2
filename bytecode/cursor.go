// Package bytecode implements a single-pass, variable-width scanner over an
// EVM instruction stream. It tracks a short sliding window of prior
// instructions indexed by step (not byte offset), which is what lets
// higher-level idiom matchers (see package abi) look back across PUSH
// instructions of differing width without losing alignment.
package bytecode

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethabi/recover/opcode"
)

// ErrInputFormat is returned when hex input cannot be decoded: non-hex
// characters, or an odd number of hex digits after stripping an optional
// "0x" prefix.
var ErrInputFormat = errors.New("bytecode: malformed hex input")

// defaultRingCapacity is the ring size used when callers don't care — one
// entry is enough to answer Pos()/Step() for the instruction just decoded.
const defaultRingCapacity = 1

// Cursor is a single-pass iterator over a byte buffer of EVM bytecode.
// A zero Cursor is not usable; construct one with NewCursor or
// NewCursorFromHex.
type Cursor struct {
	code []byte

	nextPos  int
	nextStep int

	// positions is a ring buffer of the last len(positions) instruction
	// start offsets, indexed oldest-first starting at head.
	positions []int
	head      int
	count     int
}

// NewCursor constructs a Cursor over raw bytecode with the given ring
// capacity. Capacity must be >= 1; ABIExtractor uses 4, the maximum
// negative lookback any recognized idiom needs.
func NewCursor(code []byte, capacity int) *Cursor {
	if capacity < 1 {
		capacity = defaultRingCapacity
	}
	return &Cursor{
		code:      code,
		positions: make([]int, capacity),
	}
}

// NewCursorFromHex constructs a Cursor from a hex string, with or without a
// "0x" prefix. Returns ErrInputFormat for non-hex characters or an odd
// number of hex digits.
func NewCursorFromHex(s string, capacity int) (*Cursor, error) {
	code, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return NewCursor(code, capacity), nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 != 0 {
		return nil, ErrInputFormat
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInputFormat
	}
	return b, nil
}

// HasMore reports whether there is another instruction to decode.
func (c *Cursor) HasMore() bool {
	return c.nextPos < len(c.code)
}

// Next decodes and advances past one instruction, returning its opcode.
// If HasMore is false it returns STOP without advancing. Advancing a
// truncated PUSH at the very end of the buffer may push nextPos past
// len(code); this is tolerated, and a subsequent HasMore simply reports
// false.
func (c *Cursor) Next() opcode.OpCode {
	if !c.HasMore() {
		return opcode.STOP
	}
	op := opcode.OpCode(c.code[c.nextPos])

	c.pushPos(c.nextPos)
	c.nextPos += 1 + opcode.PushWidth(op)
	c.nextStep++

	return op
}

func (c *Cursor) pushPos(pos int) {
	cap := len(c.positions)
	idx := (c.head + c.count) % cap
	if c.count == cap {
		// ring is full: evict oldest by advancing head
		c.head = (c.head + 1) % cap
	} else {
		c.count++
	}
	c.positions[idx] = pos
}

// ringAt returns the byte position k steps before the most recent one
// (k=1 is the most recent instruction), and whether that step is still
// within the ring window.
func (c *Cursor) ringAt(k int) (int, bool) {
	if k < 1 || k > c.count {
		return 0, false
	}
	cap := len(c.positions)
	idx := (c.head + c.count - k + cap) % cap
	return c.positions[idx], true
}

// Step returns the step ordinal of the most recently decoded instruction,
// or -1 before any call to Next.
func (c *Cursor) Step() int {
	return c.nextStep - 1
}

// Pos returns the byte position of the most recently decoded instruction.
// Before any call to Next this is undefined (returns -1).
func (c *Cursor) Pos() int {
	if p, ok := c.ringAt(1); ok {
		return p
	}
	return c.nextPos - 1
}

// sentinelOp is returned by At for an out-of-range absolute position.
const sentinelOp = opcode.STOP

// At returns the opcode at position p. A non-negative p is an absolute
// byte offset (out-of-range yields STOP). A negative p is a lookback by
// step: -1 is the most recently decoded instruction, -2 the one before
// that, and so on, up to the ring's capacity; beyond that (or before any
// instruction has been decoded) it yields STOP.
func (c *Cursor) At(p int) opcode.OpCode {
	if p >= 0 {
		if p >= len(c.code) {
			return sentinelOp
		}
		return opcode.OpCode(c.code[p])
	}
	abs, ok := c.ringAt(-p)
	if !ok {
		return sentinelOp
	}
	if abs >= len(c.code) {
		return sentinelOp
	}
	return opcode.OpCode(c.code[abs])
}

// Value returns the immediate operand bytes of the most recently decoded
// instruction; equivalent to ValueAt(-1).
func (c *Cursor) Value() []byte {
	return c.ValueAt(-1)
}

// ValueAt resolves p as in At, then returns the push_width(op) bytes
// following that opcode. Returns nil for non-PUSH opcodes. The returned
// slice may be shorter than push_width(op) if it runs past the end of the
// buffer — callers should treat a short slice as a truncated tail, not an
// error.
func (c *Cursor) ValueAt(p int) []byte {
	var abs int
	if p >= 0 {
		abs = p
	} else {
		a, ok := c.ringAt(-p)
		if !ok {
			return nil
		}
		abs = a
	}
	if abs >= len(c.code) {
		return nil
	}
	op := opcode.OpCode(c.code[abs])
	width := opcode.PushWidth(op)
	if width == 0 {
		return nil
	}
	start := abs + 1
	if start >= len(c.code) {
		return nil
	}
	end := start + width
	if end > len(c.code) {
		end = len(c.code)
	}
	return c.code[start:end]
}
