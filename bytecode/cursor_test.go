package bytecode

import (
	"bytes"
	"testing"

	"github.com/ethabi/recover/opcode"
)

func TestNewCursorFromHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"with prefix", "0x6001", []byte{0x60, 0x01}, false},
		{"without prefix", "6001", []byte{0x60, 0x01}, false},
		{"empty", "0x", []byte{}, false},
		{"odd length", "0x601", nil, true},
		{"non hex", "0xzz", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCursorFromHex(tt.in, 4)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(c.code, tt.want) {
				t.Errorf("code = %x, want %x", c.code, tt.want)
			}
		})
	}
}

func TestHasMoreAndStep(t *testing.T) {
	c := NewCursor([]byte{0x60, 0x01, 0x00}, 4)
	if c.Step() != -1 {
		t.Errorf("Step() before any Next = %d, want -1", c.Step())
	}
	if !c.HasMore() {
		t.Fatal("expected more instructions")
	}
	op := c.Next()
	if op != opcode.PUSH1 {
		t.Errorf("first op = %v, want PUSH1", op)
	}
	if c.Step() != 0 {
		t.Errorf("Step() = %d, want 0", c.Step())
	}
	if c.Pos() != 0 {
		t.Errorf("Pos() = %d, want 0", c.Pos())
	}
	if !c.HasMore() {
		t.Fatal("expected one more instruction (STOP)")
	}
	op = c.Next()
	if op != opcode.STOP {
		t.Errorf("second op = %v, want STOP", op)
	}
	if c.Step() != 1 {
		t.Errorf("Step() = %d, want 1", c.Step())
	}
	if c.Pos() != 2 {
		t.Errorf("Pos() = %d, want 2", c.Pos())
	}
	if c.HasMore() {
		t.Fatal("expected no more instructions")
	}
}

func TestNextPastEndReturnsStopWithoutAdvancing(t *testing.T) {
	c := NewCursor([]byte{0x00}, 4)
	c.Next()
	if c.HasMore() {
		t.Fatal("should have no more")
	}
	before := c.nextPos
	op := c.Next()
	if op != opcode.STOP {
		t.Errorf("Next past end = %v, want STOP", op)
	}
	if c.nextPos != before {
		t.Errorf("Next past end should not advance nextPos: %d -> %d", before, c.nextPos)
	}
}

func TestTruncatedPushTail(t *testing.T) {
	// PUSH1 with no operand byte.
	c := NewCursor([]byte{0x60}, 4)
	op := c.Next()
	if op != opcode.PUSH1 {
		t.Errorf("op = %v, want PUSH1", op)
	}
	if c.HasMore() {
		t.Error("truncated tail should not report more instructions")
	}
	val := c.Value()
	if len(val) != 0 {
		t.Errorf("Value() for truncated PUSH1 = %x, want empty", val)
	}
}

func TestValueWidth(t *testing.T) {
	code := []byte{0x63, 0x01, 0x02, 0x03, 0x04, 0x00} // PUSH4 0x01020304 STOP
	c := NewCursor(code, 4)
	op := c.Next()
	if op != opcode.PUSH1+3 {
		t.Fatalf("op = %v, want PUSH4", op)
	}
	val := c.Value()
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(val, want) {
		t.Errorf("Value() = %x, want %x", val, want)
	}
}

func TestRingLookback(t *testing.T) {
	// DUP1 PUSH4 0x2e64cec1 EQ PUSH1 0x37 JUMPI STOP
	code := []byte{0x80, 0x63, 0x2e, 0x64, 0xce, 0xc1, 0x14, 0x60, 0x37, 0x57, 0x00}
	c := NewCursor(code, 4)

	var ops []opcode.OpCode
	for c.HasMore() {
		ops = append(ops, c.Next())
	}
	// ops: DUP1, PUSH4, EQ, PUSH1, JUMPI, STOP (6 decoded instructions)
	if len(ops) != 6 {
		t.Fatalf("decoded %d instructions, want 6", len(ops))
	}

	// Re-walk and check lookback at the JUMPI step (5th decoded op).
	c2 := NewCursor(code, 4)
	for i := 0; i < 5; i++ {
		c2.Next()
	}
	if c2.At(-1) != opcode.JUMPI {
		t.Errorf("At(-1) = %v, want JUMPI", c2.At(-1))
	}
	if !opcode.IsPush(c2.At(-2)) {
		t.Errorf("At(-2) = %v, want a PUSH", c2.At(-2))
	}
	if c2.At(-3) != opcode.EQ {
		t.Errorf("At(-3) = %v, want EQ", c2.At(-3))
	}
	if !opcode.IsPush(c2.At(-4)) {
		t.Errorf("At(-4) = %v, want a PUSH", c2.At(-4))
	}

	sel := c2.ValueAt(-4)
	wantSel := []byte{0x2e, 0x64, 0xce, 0xc1}
	if !bytes.Equal(sel, wantSel) {
		t.Errorf("ValueAt(-4) = %x, want %x", sel, wantSel)
	}
	dest := c2.ValueAt(-2)
	wantDest := []byte{0x37}
	if !bytes.Equal(dest, wantDest) {
		t.Errorf("ValueAt(-2) = %x, want %x", dest, wantDest)
	}
}

func TestLookbackBeyondRingIsNoMatch(t *testing.T) {
	c := NewCursor([]byte{0x00, 0x00}, 4)
	c.Next() // only one step taken; ring holds 1 entry
	if c.At(-4) != opcode.STOP {
		t.Errorf("At(-4) beyond ring window should saturate to STOP sentinel, got %v", c.At(-4))
	}
}

func TestAtAbsolutePosition(t *testing.T) {
	c := NewCursor([]byte{0x80, 0x60}, 4)
	if c.At(0) != opcode.DUP1 {
		t.Errorf("At(0) = %v, want DUP1", c.At(0))
	}
	if c.At(100) != opcode.STOP {
		t.Errorf("At(100) out of range should saturate to STOP, got %v", c.At(100))
	}
}
