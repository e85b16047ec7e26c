package fat12

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/aligator/fat12/checkpoint"
)

// ShortName is the fixed 11 byte on-disk name: 8 bytes base, 3 bytes
// extension, space padded, without the dot.
type ShortName [11]byte

// oemCodePage is the code page short names are stored in.
var oemCodePage = charmap.CodePage437

// String returns the name in the usual "BASE.EXT" form.
func (n ShortName) String() string {
	base := decodeShortName(n[:8], true)
	ext := decodeShortName(n[8:], false)
	if ext == "" {
		return base
	}

	return base + "." + ext
}

// NormalizeName converts a human filename like "readme.txt" into its short
// name "README  TXT". The base is cut at the first dot and truncated to 8
// bytes, the extension to 3 bytes. ASCII letters are upper cased. Runes outside of
// the OEM code page are replaced by '_'.
func NormalizeName(name string) ShortName {
	var out ShortName
	for i := range out {
		out[i] = ' '
	}

	base, ext, _ := strings.Cut(name, ".")
	encodeInto(out[:8], base)
	encodeInto(out[8:], ext)

	// 0xE5 marks deleted entries, a real 0xE5 is stored as 0x05.
	if out[0] == entryDeleted {
		out[0] = entryKanji
	}

	return out
}

// RawName uses name as an already formatted short name. It is space padded
// to 11 bytes but neither upper cased nor split at a dot. Names longer than
// 11 bytes fail with ErrInvalidName.
func RawName(name string) (ShortName, error) {
	if len(name) > len(ShortName{}) {
		return ShortName{}, checkpoint.From(fmt.Errorf("%w: %q is longer than 11 bytes", ErrInvalidName, name))
	}

	var out ShortName
	n := copy(out[:], name)
	for i := n; i < len(out); i++ {
		out[i] = ' '
	}

	return out, nil
}

func encodeInto(dst []byte, s string) {
	i := 0
	for _, r := range s {
		if i == len(dst) {
			return
		}

		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}

		b, ok := oemCodePage.EncodeRune(r)
		if !ok {
			b = '_'
		}

		dst[i] = b
		i++
	}
}

// decodeShortName decodes one space padded part of a short name.
func decodeShortName(b []byte, leading bool) string {
	var sb strings.Builder
	for i, c := range b {
		if leading && i == 0 && c == entryKanji {
			c = entryDeleted
		}
		sb.WriteRune(oemCodePage.DecodeByte(c))
	}

	return strings.TrimRight(sb.String(), " ")
}
