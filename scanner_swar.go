package cppon

import "encoding/binary"

// scanner_swar.go implements the scanner's "wide" tier as SWAR
// (SIMD-within-a-register) word-parallel primitives operating on 8 bytes
// at a time via uint64 arithmetic, rather than platform assembly, so the
// wide tier builds everywhere. The functional contract (exact window
// boundaries, NUL-sentinel tolerance in scanDigits) is identical to the
// scalar tier; only throughput differs. dispatch.go treats LevelSWAR64
// and LevelSWAR256 identically at the algorithm level; the distinction
// is kept so future real-SIMD tiers have a slot without an API change.

const swarLanes = 8

func broadcast(c byte) uint64 {
	return 0x0101010101010101 * uint64(c)
}

// hasZeroByte reports whether any byte lane of v is zero, using the
// classic bit trick: (v - 0x0101..01) & ^v & 0x8080..80.
func hasZeroByte(v uint64) bool {
	return (v-0x0101010101010101)&^v&0x8080808080808080 != 0
}

// firstZeroByteIndex returns the index (0..7) of the first zero byte in
// the little-endian word v. Caller must have already checked hasZeroByte.
func firstZeroByteIndex(v uint64) int {
	for i := 0; i < swarLanes; i++ {
		if byte(v>>(uint(i)*8)) == 0 {
			return i
		}
	}
	return swarLanes
}

// findQuoteSWAR returns the index of the first 0x22 byte in
// b[offset:offset+count], or notFound. It processes 8-byte words at a
// time and falls back to the scalar scan for the final partial word, so
// it never reads outside the window.
func findQuoteSWAR(b []byte, offset, count int) int {
	end := offset + count
	i := offset
	for ; i+swarLanes <= end; i += swarLanes {
		word := binary.LittleEndian.Uint64(b[i : i+8])
		masked := word ^ broadcast('"')
		if hasZeroByte(masked) {
			return i + firstZeroByteIndex(masked)
		}
	}
	return findQuoteScalar(b, i, end-i)
}

// scanDigitsSWAR returns the index of the first non-digit byte in
// b[offset : offset+count+1], matching scanDigitsScalar's one-byte past
// window sentinel contract. It hands the scalar scan either the final
// partial word (at most 7 bytes) or the word holding the first non-digit,
// so the sentinel-read stays exactly one byte.
func scanDigitsSWAR(b []byte, offset, count int) int {
	end := offset + count
	i := offset
	for ; i+swarLanes <= end; i += swarLanes {
		word := binary.LittleEndian.Uint64(b[i : i+8])
		if !isAllDigitsWord(word) {
			break
		}
	}
	return scanDigitsScalar(b, i, end-i)
}

// isAllDigitsWord reports whether every byte lane of the 8-byte word v is
// an ASCII digit '0'..'9'. The word is still loaded and tested as a single
// uint64 (one load instead of eight), but the per-lane range check is a
// plain unrolled comparison rather than a branch-free bit trick: a SWAR
// range-compare that is correct on both the lower and upper bound at
// once is easy to get subtly wrong, and the digit run is rarely long
// enough for the difference to matter.
func isAllDigitsWord(v uint64) bool {
	for i := 0; i < swarLanes; i++ {
		c := byte(v >> (uint(i) * 8))
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
