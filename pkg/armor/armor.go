package armor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"sort"

	pgparmor "github.com/ProtonMail/go-crypto/openpgp/armor"
)

const (
	// PeekSize is how much of a stream the framing checks look at.
	PeekSize = 1024

	armorBegin     = "-----BEGIN PGP "
	cleartextBegin = "-----BEGIN PGP SIGNED MESSAGE-----"
	// SignatureBegin starts the armored signature of a cleartext message,
	// including the line break that precedes it.
	SignatureBegin = "\n-----BEGIN PGP SIGNATURE-----"
)

// IsArmored reports whether head, the start of a stream, looks like ASCII
// armor rather than a binary packet.
func IsArmored(head []byte) bool {
	if len(head) == 0 || head[0]&0x80 != 0 {
		return false
	}
	return bytes.Contains(head, []byte(armorBegin))
}

// IsCleartext reports whether head starts a cleartext signed message.
func IsCleartext(head []byte) bool {
	if len(head) == 0 || head[0]&0x80 != 0 {
		return false
	}
	return bytes.Contains(head, []byte(cleartextBegin))
}

// Decode strips ASCII armor from r and returns the binary body along with
// the armor block type.
func Decode(r io.Reader) (io.Reader, string, error) {
	block, err := pgparmor.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("armor: %w", err)
	}
	return block.Body, block.Type, nil
}

// CRC-24 (poly 0x1864CF, init 0xB704CE) compatible with OpenPGP armor.
func crc24(data []byte) uint32 {
	crc := uint32(0xB704CE)
	for _, b := range data {
		crc ^= uint32(b) << 16
		for i := 0; i < 8; i++ {
			crc <<= 1
			if (crc & 0x1000000) != 0 {
				crc ^= 0x1864CF
			}
		}
	}
	return crc & 0xFFFFFF
}

// Encode wraps raw in an ASCII armored block of the given type, e.g.
// "PGP MESSAGE" or "PGP PUBLIC KEY BLOCK". Headers are written sorted.
func Encode(blockType string, raw []byte, headers map[string]string, withCRC bool) []byte {
	b64 := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(b64, raw)

	var buf bytes.Buffer
	buf.WriteString("-----BEGIN " + blockType + "-----\n")
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s: %s\n", k, headers[k])
	}
	// blank line before data section (even if no headers)
	buf.WriteString("\n")

	for i := 0; i < len(b64); i += 64 {
		end := i + 64
		if end > len(b64) {
			end = len(b64)
		}
		buf.Write(b64[i:end])
		buf.WriteByte('\n')
	}
	if withCRC {
		crc := crc24(raw)
		sum := []byte{byte(crc >> 16), byte(crc >> 8), byte(crc)}
		buf.WriteString("=" + base64.StdEncoding.EncodeToString(sum) + "\n")
	}
	buf.WriteString("-----END " + blockType + "-----\n")
	return buf.Bytes()
}
