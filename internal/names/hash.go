package names

import (
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"kdart/internal/ir"
)

// Hash returns 8 lowercase hex digits of FNV-1a (32 bit) over the NFC form of s.
func Hash(s string) string {
	h := fnv.New32a()
	_, _ = h.Write(norm.NFC.Bytes([]byte(s)))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Signature renders the erased, owner-free signature used for overload
// suffixes: `[recv.]name(p1,p2,...)`.
func Signature(name string, receiver *ir.Type, params []ir.Type) string {
	var b strings.Builder
	if receiver != nil {
		b.WriteString(receiver.Erased())
		b.WriteByte('.')
	}
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Erased())
	}
	b.WriteByte(')')
	return b.String()
}

// OverloadSuffix returns the suffix appended to a non-first overload.
func OverloadSuffix(name string, receiver *ir.Type, params []ir.Type) string {
	return "$" + Hash(Signature(name, receiver, params))
}
