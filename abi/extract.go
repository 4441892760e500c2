// Package abi drives a bytecode.Cursor over a contract's runtime bytecode
// and recognizes two compiler-emitted idioms: the function-selector
// dispatcher (DUP1 PUSH4 <selector> EQ PUSHn <dest> JUMPI) and the event
// topic declaration (PUSH32 <topic> LOGn). It does not execute the
// program, recover argument types, or prove reachability — only the
// selectors, their payability, and the raw topic hashes a compiler's
// dispatcher prologue and LOG sites expose to a linear scan.
package abi

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/ethabi/recover/bytecode"
	"github.com/ethabi/recover/opcode"
)

// ringCapacity is the maximum negative lookback any recognized idiom
// needs: rule E4 inspects up to four decoded instructions back.
const ringCapacity = 4

// ExtractOption configures a single Extract/ExtractHex call.
type ExtractOption func(*options)

type options struct {
	strict bool
}

// Strict filters out function entries whose jump destination was never
// observed as a JUMPDEST. This is an extension beyond the default
// behavior, which (per the source this idiom is ported from) records
// jumps[selector] = dest without validating dest against the set of
// observed JUMPDESTs.
func Strict() ExtractOption {
	return func(o *options) { o.strict = true }
}

// ExtractHex decodes hex (with or without a "0x" prefix) and runs Extract
// over it. Returns bytecode.ErrInputFormat for malformed hex.
func ExtractHex(s string, opts ...ExtractOption) ([]Entry, error) {
	cur, err := bytecode.NewCursorFromHex(s, ringCapacity)
	if err != nil {
		return nil, err
	}
	return run(cur, opts...), nil
}

// Extract scans runtime bytecode and returns the recovered ABI sketch.
// Events appear in LOG encounter order; functions appear at the end, in
// the order their selectors were first inserted into the dispatcher
// table. Malformed or truncated instruction streams never cause Extract
// to fail — the tail of real contracts carries compiler metadata (CBOR
// auxdata) that is not valid bytecode, and a strict decoder would reject
// legitimate input.
func Extract(code []byte, opts ...ExtractOption) []Entry {
	return run(bytecode.NewCursor(code, ringCapacity), opts...)
}

// jumpEntry preserves first-insertion order for a map keyed by selector,
// since later writes to the same selector overwrite the destination but
// must not move the entry's position in the final ABI list.
type jumpEntry struct {
	selector string
	dest     uint64
}

func run(cur *bytecode.Cursor, opts ...ExtractOption) []Entry {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		jumps      []jumpEntry
		jumpIndex  = make(map[string]int) // selector -> index into jumps
		dests      = make(map[int]struct{})
		notPayable = make(map[int]struct{})
		lastPush32 []byte
		entries    []Entry
	)

	for cur.HasMore() {
		op := cur.Next()

		switch {
		case op == opcode.PUSH32:
			// Rule E1: record the PUSH32 immediate for a possible
			// following LOGn.
			lastPush32 = cur.Value()

		case opcode.IsLog(op) && len(lastPush32) > 0:
			// Rule E2: emit the topic. lastPush32 is deliberately not
			// cleared here — consecutive LOGs after a single PUSH32 all
			// emit the same topic. This behavior of the extractor is kept
			// on purpose; see the quirks listed for package abi in DESIGN.md.
			entries = append(entries, Entry{Kind: KindEvent, Hash: hexutil.Encode(lastPush32)})

		case op == opcode.JUMPDEST:
			// Rule E3: JUMPDEST bookkeeping, plus the non-payable guard
			// check. CALLVALUE, DUP1, ISZERO are all fixed-width, so
			// direct byte indexing past the JUMPDEST is sound here.
			pos := cur.Pos()
			dests[pos] = struct{}{}
			if cur.At(pos+1) == opcode.CALLVALUE &&
				cur.At(pos+2) == opcode.DUP1 &&
				cur.At(pos+3) == opcode.ISZERO {
				notPayable[pos] = struct{}{}
			}

		default:
			// Rule E4: function selector dispatch. The just-decoded op
			// (not matched above) is implicitly the most recent in the
			// lookback window.
			if cur.At(-1) == opcode.JUMPI &&
				opcode.IsPush(cur.At(-2)) &&
				cur.At(-3) == opcode.EQ &&
				opcode.IsPush(cur.At(-4)) {

				selector := hexutil.Encode(leftPad(cur.ValueAt(-4), 4))
				dest := bigEndianUint64(cur.ValueAt(-2))

				if idx, ok := jumpIndex[selector]; ok {
					jumps[idx].dest = dest
				} else {
					jumpIndex[selector] = len(jumps)
					jumps = append(jumps, jumpEntry{selector: selector, dest: dest})
				}
			}
		}
	}

	for _, j := range jumps {
		if o.strict {
			if _, ok := dests[int(j.dest)]; !ok {
				continue
			}
		}
		_, guarded := notPayable[int(j.dest)]
		entries = append(entries, Entry{
			Kind:     KindFunction,
			Selector: j.selector,
			Payable:  !guarded,
		})
	}

	return entries
}

// leftPad zero-pads b on the left to exactly n bytes. The compiler may
// emit a PUSHk with k<n when the selector's leading bytes are zero;
// without this the emitted selector would have inconsistent width and
// mismatch against external signature directories.
func leftPad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

func bigEndianUint64(b []byte) uint64 {
	return new(uint256.Int).SetBytes(b).Uint64()
}
