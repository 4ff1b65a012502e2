package cppon

import (
	"fmt"
	"io"
	"strings"
)

// DebugDump writes a line-per-node rendering of tree to w, one node per
// line with its kind and payload. It is a debugging aid in the same
// spirit as a raw tape dump: not a serialization format, not stable
// across releases, and never called by the library itself.
func DebugDump(w io.Writer, tree *Value) {
	debugDumpNode(w, tree, 0, "")
}

func debugDumpNode(w io.Writer, v *Value, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	if label != "" {
		label += " "
	}
	switch v.kind {
	case KindNull:
		fmt.Fprintf(w, "%s%snull\n", indent, label)
	case KindBool:
		fmt.Fprintf(w, "%s%sbool %v\n", indent, label, v.boolean)
	case KindObject:
		obj, _ := v.Object()
		fmt.Fprintf(w, "%s%sobject (%d members)\n", indent, label, obj.Len())
		for i := 0; i < obj.Len(); i++ {
			debugDumpNode(w, obj.Value(i), depth+1, fmt.Sprintf("%q:", obj.Key(i)))
		}
	case KindArray:
		arr, _ := v.Array()
		fmt.Fprintf(w, "%s%sarray (%d elements)\n", indent, label, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			elem, _ := arr.At(i)
			debugDumpNode(w, elem, depth+1, fmt.Sprintf("[%d]", i))
		}
	case KindStringView:
		fmt.Fprintf(w, "%s%sstring-view %q\n", indent, label, v.str)
	case KindOwnedString:
		fmt.Fprintf(w, "%s%sowned-string %q\n", indent, label, v.str)
	case KindNumberToken:
		fmt.Fprintf(w, "%s%snumber-token %s %q\n", indent, label, v.numKind, v.str)
	case KindNumber:
		fmt.Fprintf(w, "%s%snumber %s %s\n", indent, label, v.numKind, formatNumberBits(v.bits, v.numKind))
	case KindPathToken:
		fmt.Fprintf(w, "%s%spath-token %q\n", indent, label, v.str)
	case KindPointer:
		if v.ptr == nil {
			fmt.Fprintf(w, "%s%spointer <null>\n", indent, label)
			return
		}
		// Pointer targets are not followed; a cyclic tree would recurse
		// forever.
		fmt.Fprintf(w, "%s%spointer -> %p\n", indent, label, v.ptr)
	case KindBlobText:
		fmt.Fprintf(w, "%s%sblob-text (%d base64 bytes)\n", indent, label, len(v.str))
	case KindBlobBytes:
		fmt.Fprintf(w, "%s%sblob-bytes (%d bytes)\n", indent, label, len(v.bytes))
	}
}
