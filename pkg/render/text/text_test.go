package text

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/pgpdump/pkg/armor"
	"example.com/pgpdump/pkg/dump"
	"example.com/pgpdump/pkg/pgp"
)

func literal(name string, data []byte) []byte {
	b := []byte{'b', byte(len(name))}
	b = append(b, name...)
	b = binary.BigEndian.AppendUint32(b, 1600000000)
	return pgp.Packet(pgp.PKT_LITERAL, append(b, data...))
}

func render(t *testing.T, data []byte, opts dump.Options) string {
	t.Helper()
	res, err := dump.Dump(bytes.NewReader(data), opts)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	return buf.String()
}

func TestRenderLiteral(t *testing.T) {
	got := render(t, literal("test.txt", []byte("hello")), dump.Options{})
	want := strings.Join([]string{
		":off 0: packet header 0xcb13 (tag 11, len 19)",
		"Literal data packet",
		"    data format: 'b'",
		"    filename: test.txt (len 8)",
		"    timestamp: 1600000000 (Sun Sep 13 12:26:40 2020)",
		"    data bytes: 5",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderRawPreview(t *testing.T) {
	got := render(t, literal("test.txt", []byte("hello")), dump.Options{DumpRaw: true})
	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 5)
	assert.Equal(t, ":off 2: packet contents (19 bytes)", lines[1])
	assert.Equal(t, "    00000 | 62 08 74 65 73 74 2e 74 78 74 5f 5e 10 00 68 65  | b.test.txt_^..he", lines[2])
	assert.Equal(t, "    00016 | 6c 6c 6f "+strings.Repeat("   ", 13)+" | llo"+strings.Repeat(" ", 13), lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "Literal data packet", lines[5])

	got = render(t, literal("test.txt", []byte("hello")), dump.Options{DumpRaw: true, RawLimit: 3})
	assert.Contains(t, got, ":off 2: packet contents (first 3 bytes)\n    00000 | 62 08 74 ")
}

func TestRenderFramingAndNotes(t *testing.T) {
	assert.Equal(t, ":empty input\n", render(t, nil, dump.Options{}))
	assert.Equal(t, ":armored input\n:empty input\n", render(t, armor.Encode("PGP MESSAGE", nil, nil, true), dump.Options{}))

	var data []byte
	for i := 0; i < 20; i++ {
		data = append(data, literal("", nil)...)
	}
	got := render(t, data, dump.Options{})
	assert.Equal(t, dump.MaxStreamPackets+1, strings.Count(got, "Literal data packet\n"))
	assert.True(t, strings.HasSuffix(got, "\n:too many OpenPGP stream packets, stopping.\n"))
}

func TestRenderFailedAndSkipped(t *testing.T) {
	var data []byte
	data = append(data, pgp.Packet(pgp.PKT_MARKER, []byte("PGX"))...)
	data = append(data, pgp.Packet(pgp.PKT_MARKER, []byte("PGP"))...)
	data = append(data, pgp.Packet(60, []byte{1})...)
	data = append(data, pgp.Packet(pgp.PKT_TRUST, []byte{1, 2})...)

	want := strings.Join([]string{
		":off 0: packet header 0xca03 (tag 10, len 3)",
		"Marker packet",
		"    failed to parse",
		":off 5: packet header 0xca03 (tag 10, len 3)",
		"Marker packet",
		"    contents: PGP",
		":off 10: packet header 0xfc01 (tag 60, len 1)",
		"Skipping Unknown pkt: 60",
		"",
		":off 13: packet header 0xcc02 (tag 12, len 2)",
		"Skipping unhandled pkt: 12",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, render(t, data, dump.Options{}))
}

func TestRenderCompressed(t *testing.T) {
	inner := literal("a", nil)
	data := pgp.Packet(pgp.PKT_COMPRESSED, append([]byte{0}, inner...))
	got := render(t, data, dump.Options{})
	want := strings.Join([]string{
		":off 0: packet header 0xc80a (tag 8, len 10)",
		"Compressed data packet",
		"    compression algorithm: 0 (Uncompressed)",
		"    Decompressed contents:",
		"    :off 0: packet header 0xcb07 (tag 11, len 7)",
		"    Literal data packet",
		"        data format: 'b'",
		"        filename: a (len 1)",
		"        timestamp: 1600000000 (Sun Sep 13 12:26:40 2020)",
		"        data bytes: 0",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderKey(t *testing.T) {
	pub := bytes.Repeat([]byte{0x11}, 32)
	data, err := pgp.BuildSecretKeyV6(pgp.PKALG_X25519, time.Unix(1700000000, 0), pub, bytes.Repeat([]byte{0x22}, 32))
	require.NoError(t, err)

	got := render(t, data, dump.Options{DumpGrips: true, DumpMPI: true})
	assert.Contains(t, got, "\nSecret key packet\n    version: 6\n")
	assert.Contains(t, got, "    public key algorithm: 25 (X25519)\n    v6 public key material length: 32\n")
	assert.Contains(t, got, "        x25519, "+strings.Repeat("11", 32)+"\n")
	assert.Contains(t, got, "    secret key material:\n        s2k usage: 0\n        v6 s2k length: 0\n        cleartext secret key data: 32 bytes\n")
	assert.Contains(t, got, "    grip: 0xff31d71e5456262a74dbf44f9414aeaae8c094ac\n")
	assert.Contains(t, got, "    fingerprint: 0x")

	got = render(t, data, dump.Options{})
	assert.Contains(t, got, "        x25519\n")
	assert.NotContains(t, got, "fingerprint")
}

func TestRenderSignature(t *testing.T) {
	hashed := []byte{5, pgp.SIGSUB_CREATION_TIME, 0x5F, 0x5E, 0x10, 0x00}
	hashed = append(hashed, 2, pgp.SIGSUB_KEY_FLAGS|0x80, 0x03)
	hashed = append(hashed, 5, pgp.SIGSUB_PREF_AEAD_CIPHERSUITES, 9, 2, 7, 1)
	unhashed := append([]byte{9, pgp.SIGSUB_ISSUER_KEY_ID}, bytes.Repeat([]byte{0xAB}, 8)...)

	body := []byte{4, 0x13, pgp.PKALG_RSA, pgp.HASH_SHA256, 0, byte(len(hashed))}
	body = append(body, hashed...)
	body = append(body, 0, byte(len(unhashed)))
	body = append(body, unhashed...)
	body = append(body, 0xBE, 0xEF, 0x00, 0x09, 0x01, 0xFF)

	got := render(t, pgp.Packet(pgp.PKT_SIGNATURE, body), dump.Options{})
	want := strings.Join([]string{
		"Signature packet",
		"    version: 4",
		"    type: 19 (Positive User ID certification)",
		"    public key algorithm: 1 (RSA (Encrypt or Sign))",
		"    hash algorithm: 8 (SHA256)",
		"    hashed subpackets:",
		"        :type 2, len 4",
		"        signature creation time: 1600000000 (Sun Sep 13 12:26:40 2020)",
		"        :type 27, len 1, critical",
		"        key flags: 0x03 ( certify sign )",
		"        :type 39, len 4",
		"        preferred AEAD ciphersuites: AES-256/OCB, AES-128/EAX (9/2, 7/1)",
		"    unhashed subpackets:",
		"        :type 16, len 8",
		"        issuer key ID: 0xabababababababab",
		"    lbits: 0xbeef",
		"    signature material:",
		"        rsa s: 9 bits",
		"",
	}, "\n")
	idx := strings.Index(got, "Signature packet")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, want, got[idx:])
}

func TestRenderBrokenSubpacket(t *testing.T) {
	hashed := []byte{4, pgp.SIGSUB_CREATION_TIME, 1, 2, 3}
	body := []byte{4, 0x00, pgp.PKALG_RSA, pgp.HASH_SHA256, 0, byte(len(hashed))}
	body = append(body, hashed...)
	body = append(body, 0, 0, 0xBE, 0xEF, 0x00, 0x09, 0x01, 0xFF)

	got := render(t, pgp.Packet(pgp.PKT_SIGNATURE, body), dump.Options{})
	assert.Contains(t, got, strings.Join([]string{
		"        :type 2, len 3",
		"        signature creation time: failed to parse",
		"            00000 | 01 02 03 ",
	}, "\n"))
}
