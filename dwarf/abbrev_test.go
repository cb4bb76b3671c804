package dwarf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeAbbrevTable parses buildAbbrevSection's own output back into
// abbrevDecl values, as a real consumer (or a DWARF reader) would, and
// checks it round-trips exactly.
func decodeAbbrevTable(t *testing.T, buf []byte) []abbrevDecl {
	t.Helper()
	var out []abbrevDecl
	pos := 0
	readUleb := func() uint64 {
		var v uint64
		var shift uint
		for {
			b := buf[pos]
			pos++
			v |= uint64(b&0x7f) << shift
			if b&0x80 == 0 {
				break
			}
			shift += 7
		}
		return v
	}
	for {
		code := readUleb()
		if code == 0 {
			break
		}
		tag := readUleb()
		children := buf[pos]
		pos++
		var attrs []abbrevAttr
		for {
			a := readUleb()
			f := readUleb()
			if a == 0 && f == 0 {
				break
			}
			attrs = append(attrs, abbrevAttr{attr: byte(a), form: byte(f)})
		}
		out = append(out, abbrevDecl{code: AbbrevKind(code), tag: byte(tag), children: children, attrs: attrs})
	}
	require.Equal(t, pos, len(buf), "trailing bytes after table terminator")
	return out
}

func TestAbbrevTableRoundTrips(t *testing.T) {
	buf := buildAbbrevSection()
	decoded := decodeAbbrevTable(t, buf)
	require.Equal(t, abbrevTable, decoded)
}

func TestAbbrevCodesAreSequentialFromOne(t *testing.T) {
	for i, d := range abbrevTable {
		require.Equal(t, AbbrevKind(i+1), d.code)
	}
}

func TestPad1HasNoAttributes(t *testing.T) {
	for _, d := range abbrevTable {
		if d.code == AbbrevPad1 {
			require.Equal(t, byte(childrenNo), d.children)
			require.Empty(t, d.attrs)
			return
		}
	}
	t.Fatal("AbbrevPad1 not found in abbrevTable")
}
