package dump

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ProtonMail/go-crypto/openpgp/s2k"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/pgpdump/pkg/armor"
	"example.com/pgpdump/pkg/compress"
	"example.com/pgpdump/pkg/pgp"
)

func literalBody(format byte, name string, ts uint32, data []byte) []byte {
	b := []byte{format, byte(len(name))}
	b = append(b, name...)
	b = binary.BigEndian.AppendUint32(b, ts)
	return append(b, data...)
}

func literalPacket(name string, data []byte) []byte {
	return pgp.Packet(pgp.PKT_LITERAL, literalBody('b', name, 1600000000, data))
}

func dumpBytes(t *testing.T, data []byte, opts Options) *Result {
	t.Helper()
	res, err := Dump(bytes.NewReader(data), opts)
	require.NoError(t, err)
	return res
}

func TestDumpEmpty(t *testing.T) {
	res := dumpBytes(t, nil, Options{})
	assert.True(t, res.Empty)
	assert.False(t, res.Armored)
	assert.Empty(t, res.Packets)
}

func TestDumpArmoredEmpty(t *testing.T) {
	res := dumpBytes(t, armor.Encode("PGP MESSAGE", nil, nil, true), Options{})
	assert.True(t, res.Armored)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Packets)
}

func TestDumpLiteral(t *testing.T) {
	data := literalPacket("test.txt", []byte("hello"))
	res := dumpBytes(t, data, Options{})
	require.Len(t, res.Packets, 1)

	pkt := res.Packets[0]
	assert.False(t, pkt.Failed)
	assert.Equal(t, int64(0), pkt.Offset)
	assert.Equal(t, data[:2], pkt.Header.Raw)
	assert.Equal(t, byte(pgp.PKT_LITERAL), pkt.Header.Tag)
	assert.Nil(t, pkt.Raw)

	lit, ok := pkt.Record.(*Literal)
	require.True(t, ok)
	assert.Equal(t, byte('b'), lit.Format)
	assert.Equal(t, "test.txt", lit.Filename)
	assert.Equal(t, uint32(1600000000), lit.Timestamp)
	assert.Equal(t, int64(5), lit.DataLen)
}

func TestDumpOffsets(t *testing.T) {
	first := pgp.Packet(pgp.PKT_MARKER, []byte("PGP"))
	second := pgp.OldPacket(pgp.PKT_LITERAL, literalBody('t', "", 0, []byte("x")), 1)
	res := dumpBytes(t, append(append([]byte{}, first...), second...), Options{})
	require.Len(t, res.Packets, 2)

	assert.Equal(t, &Marker{Valid: true}, res.Packets[0].Record)
	assert.Equal(t, int64(len(first)), res.Packets[1].Offset)
	assert.Equal(t, second[:3], res.Packets[1].Header.Raw)
	assert.False(t, res.Packets[1].Header.NewFormat)
}

func TestDumpRawPreview(t *testing.T) {
	body := literalBody('b', "f", 0, bytes.Repeat([]byte{0xAA}, 40))
	data := pgp.Packet(pgp.PKT_LITERAL, body)

	res := dumpBytes(t, data, Options{DumpRaw: true})
	assert.Equal(t, body, res.Packets[0].Raw)
	assert.False(t, res.Packets[0].RawTruncated)

	res = dumpBytes(t, data, Options{DumpRaw: true, RawLimit: 4})
	assert.Equal(t, body[:4], res.Packets[0].Raw)
	assert.True(t, res.Packets[0].RawTruncated)
	assert.Equal(t, 4, res.Options.RawLimit)
}

func TestDumpPartialLiteral(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789"), 200)
	data := pgp.PartialPacket(pgp.PKT_LITERAL, literalBody('b', "big", 0, payload), 9)
	res := dumpBytes(t, data, Options{DumpRaw: true})
	require.Len(t, res.Packets, 1)

	pkt := res.Packets[0]
	assert.True(t, pkt.Header.Partial)
	assert.True(t, pkt.RawTruncated)
	assert.Equal(t, int64(len(payload)), pkt.Record.(*Literal).DataLen)
}

func TestDumpTruncatedPacket(t *testing.T) {
	data := literalPacket("test.txt", []byte("hello world"))
	res := dumpBytes(t, data[:len(data)-3], Options{})
	require.Len(t, res.Packets, 1)
	assert.True(t, res.Packets[0].Failed)
	assert.Error(t, res.Packets[0].Err)
}

func TestDumpMarker(t *testing.T) {
	res := dumpBytes(t, pgp.Packet(pgp.PKT_MARKER, []byte("PGX")), Options{})
	require.Len(t, res.Packets, 1)
	pkt := res.Packets[0]
	assert.True(t, pkt.Failed)
	assert.ErrorIs(t, pkt.Err, pgp.ErrPacket)
	assert.Equal(t, &Marker{Valid: false}, pkt.Record)
}

func TestDumpCompressed(t *testing.T) {
	inner := append(literalPacket("a", []byte("aaaa")), pgp.Packet(pgp.PKT_MARKER, []byte("PGP"))...)
	for _, alg := range []byte{compress.None, compress.ZIP, compress.ZLIB, compress.BZIP2} {
		c, err := compress.Get(alg)
		require.NoError(t, err)
		packed, err := c.Compress(inner)
		require.NoError(t, err)

		res := dumpBytes(t, pgp.Packet(pgp.PKT_COMPRESSED, append([]byte{alg}, packed...)), Options{})
		require.Len(t, res.Packets, 1, "alg %d", alg)
		comp, ok := res.Packets[0].Record.(*Compressed)
		require.True(t, ok)
		assert.Equal(t, alg, comp.Algorithm)
		require.Len(t, comp.Packets, 2, "alg %d", alg)
		assert.Equal(t, "a", comp.Packets[0].Record.(*Literal).Filename)
		// offsets restart inside decompressed data
		assert.Equal(t, int64(0), comp.Packets[0].Offset)
		assert.IsType(t, &Marker{}, comp.Packets[1].Record)
	}
}

func TestDumpUnknownCompression(t *testing.T) {
	res := dumpBytes(t, pgp.Packet(pgp.PKT_COMPRESSED, []byte{77, 1, 2, 3}), Options{})
	require.Len(t, res.Packets, 1)
	assert.True(t, res.Packets[0].Failed)
	assert.Equal(t, byte(77), res.Packets[0].Record.(*Compressed).Algorithm)
}

func TestDumpArmored(t *testing.T) {
	data := armor.Encode("PGP MESSAGE", literalPacket("test.txt", []byte("hello")), nil, true)
	res := dumpBytes(t, data, Options{})
	assert.True(t, res.Armored)
	assert.False(t, res.Cleartext)
	assert.Equal(t, "PGP MESSAGE", res.ArmorType)
	require.Len(t, res.Packets, 1)
	assert.Equal(t, "test.txt", res.Packets[0].Record.(*Literal).Filename)
}

func TestDumpBadArmor(t *testing.T) {
	res, err := Dump(strings.NewReader("-----BEGIN PGP junk\nmore junk\n"), Options{})
	assert.True(t, errors.Is(err, ErrBadArmor))
	assert.Empty(t, res.Packets)
}

func TestDumpBadCleartext(t *testing.T) {
	in := "-----BEGIN PGP SIGNED MESSAGE-----\nHash: SHA256\n\nhello\n"
	res, err := Dump(strings.NewReader(in), Options{})
	assert.Equal(t, ErrBadCleartext, err)
	assert.True(t, res.Cleartext)
}

func TestDumpCleartextWithLongText(t *testing.T) {
	sig := armor.Encode("PGP SIGNATURE", unknownAlgSignature(), nil, true)
	text := "-----BEGIN PGP SIGNED MESSAGE-----\nHash: SHA256\n\n" + strings.Repeat("signed line\n", 2000)
	res := dumpBytes(t, append([]byte(text), sig...), Options{})
	assert.True(t, res.Cleartext)
	assert.True(t, res.Armored)
	assert.Equal(t, "PGP SIGNATURE", res.ArmorType)
	require.Len(t, res.Packets, 1)
	assert.IsType(t, &Signature{}, res.Packets[0].Record)
}

func TestDumpIsRepeatable(t *testing.T) {
	var data []byte
	for i := 0; i < 20; i++ {
		data = append(data, literalPacket("x", []byte{byte(i)})...)
	}
	c := NewContext(Options{DumpRaw: true})
	first, err := c.Dump(bytes.NewReader(data))
	require.NoError(t, err)
	second, err := c.Dump(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDumpV6SecretKey(t *testing.T) {
	pub := bytes.Repeat([]byte{0x11}, 32)
	priv := bytes.Repeat([]byte{0x22}, 32)
	data, err := pgp.BuildSecretKeyV6(pgp.PKALG_X25519, time.Unix(1700000000, 0), pub, priv)
	require.NoError(t, err)

	res := dumpBytes(t, data, Options{DumpGrips: true})
	require.Len(t, res.Packets, 1)
	require.False(t, res.Packets[0].Failed)
	k := res.Packets[0].Record.(*Key)
	assert.Equal(t, byte(6), k.Version)
	assert.Equal(t, uint32(1700000000), k.Created)
	assert.Equal(t, uint32(32), k.MaterialLen)
	assert.Equal(t, &NativeKey{Name: "x25519", Pub: pub}, k.Material)

	require.NotNil(t, k.Secret)
	assert.False(t, k.Secret.Encrypted())
	assert.Equal(t, 32, k.Secret.DataLen)

	require.Len(t, k.Fingerprint, 32)
	assert.Equal(t, k.Fingerprint[:8], k.KeyID)
	require.NoError(t, k.GripErr)
	assert.Equal(t, "ff31d71e5456262a74dbf44f9414aeaae8c094ac", hex.EncodeToString(k.Grip))
}

func TestDumpSessionPackets(t *testing.T) {
	pkesk := []byte{3}
	pkesk = append(pkesk, bytes.Repeat([]byte{0xAB}, 8)...)
	pkesk = append(pkesk, pgp.PKALG_RSA, 0x00, 0x09, 0x01, 0xFF)

	anon := []byte{6, 0, pgp.PKALG_X25519}
	anon = append(anon, bytes.Repeat([]byte{0x01}, 32)...)
	anon = append(anon, 3, 0xA, 0xB, 0xC)

	skesk := []byte{4, pgp.SYM_AES128, 3, 2, 1, 2, 3, 4, 5, 6, 7, 8, 0x60}

	var data []byte
	data = append(data, pgp.Packet(pgp.PKT_PKESK, pkesk)...)
	data = append(data, pgp.Packet(pgp.PKT_PKESK, anon)...)
	data = append(data, pgp.Packet(pgp.PKT_SKESK, skesk)...)
	res := dumpBytes(t, data, Options{})
	require.Len(t, res.Packets, 3)
	for _, p := range res.Packets {
		require.False(t, p.Failed, "%v", p.Err)
	}

	p := res.Packets[0].Record.(*PKESK)
	assert.Equal(t, bytes.Repeat([]byte{0xAB}, 8), p.KeyID)
	assert.Equal(t, pgp.MPI{Declared: 9, Bytes: []byte{0x01, 0xFF}}, p.Material.(*RSASession).M)

	p = res.Packets[1].Record.(*PKESK)
	assert.Empty(t, p.Fingerprint)
	n := p.Material.(*NativeSession)
	assert.Equal(t, "x25519", n.Name)
	assert.Equal(t, []byte{0xA, 0xB, 0xC}, n.Wrapped)

	s := res.Packets[2].Record.(*SKESK)
	assert.Equal(t, byte(pgp.SYM_AES128), s.SymAlg)
	assert.Equal(t, uint64(65536), s.S2K.Iterations())
	assert.Empty(t, s.EncryptedKey)
}

func TestDumpOnePass(t *testing.T) {
	body := []byte{3, 0x00, pgp.HASH_SHA256, pgp.PKALG_EDDSA}
	body = append(body, bytes.Repeat([]byte{0x42}, 8)...)
	body = append(body, 1)
	res := dumpBytes(t, pgp.Packet(pgp.PKT_ONE_PASS, body), Options{})
	o := res.Packets[0].Record.(*OnePass)
	assert.Equal(t, byte(3), o.Version)
	assert.True(t, o.Nested)
	assert.Len(t, o.Signer, 8)

	// trailing octets fail the packet but keep the decoded fields
	res = dumpBytes(t, pgp.Packet(pgp.PKT_ONE_PASS, append(body, 0)), Options{})
	assert.True(t, res.Packets[0].Failed)
	assert.Equal(t, byte(pgp.PKALG_EDDSA), res.Packets[0].Record.(*OnePass).PubAlg)
}

func TestDumpEncrypted(t *testing.T) {
	seipd2 := []byte{2, pgp.SYM_AES256, pgp.AEAD_OCB, 6}
	seipd2 = append(seipd2, bytes.Repeat([]byte{0x5A}, 32)...)
	seipd2 = append(seipd2, bytes.Repeat([]byte{0xEE}, 100)...)

	var data []byte
	data = append(data, pgp.Packet(pgp.PKT_SE_DATA, bytes.Repeat([]byte{1}, 10))...)
	data = append(data, pgp.PartialPacket(pgp.PKT_SEIPD, seipd2, 9)...)
	res := dumpBytes(t, data, Options{})
	require.Len(t, res.Packets, 2)

	se := res.Packets[0].Record.(*Encrypted)
	assert.Equal(t, int64(10), se.DataLen)
	assert.False(t, se.HasHeader)

	v2 := res.Packets[1].Record.(*Encrypted)
	assert.True(t, v2.HasHeader)
	assert.Equal(t, byte(2), v2.Version)
	assert.Equal(t, byte(6), v2.ChunkSize)
	assert.Len(t, v2.Salt, 32)
	assert.Equal(t, int64(100), v2.DataLen)
}

// nativeKeyBody builds a public key body for a native key. v5 and v6 count
// the material, v4 does not.
func nativeKeyBody(version, alg byte, pub []byte) []byte {
	b := []byte{version}
	b = binary.BigEndian.AppendUint32(b, 1700000000)
	b = append(b, alg)
	if version >= 5 {
		b = binary.BigEndian.AppendUint32(b, uint32(len(pub)))
	}
	return append(b, pub...)
}

func iteratedS2K() []byte {
	return append(append([]byte{pgp.S2K_ITERATED, pgp.HASH_SHA256}, bytes.Repeat([]byte{0x5A}, 8)...), 0x60)
}

func encryptedV6Key(t *testing.T, cfg *packet.Config) []byte {
	t.Helper()
	e := newEntity(t, &packet.Config{Algorithm: packet.PubKeyAlgoEd25519, V6Keys: true})
	require.NoError(t, e.PrivateKey.EncryptWithConfig([]byte("passphrase"), cfg))
	var buf bytes.Buffer
	require.NoError(t, e.SerializePrivateWithoutSigning(&buf, nil))
	return buf.Bytes()
}

func TestDumpSecretKeyProtection(t *testing.T) {
	pub := bytes.Repeat([]byte{0x11}, 32)
	iv := bytes.Repeat([]byte{0x77}, 16)
	secret := bytes.Repeat([]byte{0x99}, 40)

	cases := []struct {
		name  string
		build func(t *testing.T) []byte
		check func(t *testing.T, k *Key)
	}{
		{
			name: "v6 sha1 checked",
			build: func(t *testing.T) []byte {
				return encryptedV6Key(t, &packet.Config{})
			},
			check: func(t *testing.T, k *Key) {
				s := k.Secret
				assert.Equal(t, byte(pgp.S2KU_SHA1), s.Usage)
				assert.Equal(t, byte(29), s.S2KLen)
				assert.Equal(t, byte(pgp.S2K_ITERATED), s.S2K.Specifier)
				assert.Len(t, s.IV, 16)
				assert.Equal(t, 32+20, s.DataLen)
			},
		},
		{
			name: "v6 aead argon2",
			build: func(t *testing.T) []byte {
				return encryptedV6Key(t, &packet.Config{
					AEADConfig: &packet.AEADConfig{DefaultMode: packet.AEADModeOCB},
					S2KConfig: &s2k.Config{
						S2KMode:      s2k.Argon2S2K,
						Argon2Config: &s2k.Argon2Config{NumberOfPasses: 1, DegreeOfParallelism: 1, Memory: 64},
					},
				})
			},
			check: func(t *testing.T, k *Key) {
				s := k.Secret
				assert.Equal(t, byte(pgp.S2KU_AEAD), s.Usage)
				assert.Equal(t, byte(38), s.S2KLen)
				assert.Equal(t, byte(pgp.AEAD_OCB), s.AEADAlg)
				assert.Equal(t, byte(pgp.S2K_ARGON2), s.S2K.Specifier)
				assert.Equal(t, byte(1), s.S2K.Passes)
				assert.Equal(t, byte(1), s.S2K.Parallelism)
				assert.Len(t, s.IV, 15)
				assert.Equal(t, 32+16, s.DataLen)
			},
		},
		{
			name: "v5 cfb",
			build: func(t *testing.T) []byte {
				body := nativeKeyBody(5, pgp.PKALG_ED25519, pub)
				params := append(append([]byte{pgp.SYM_AES256}, iteratedS2K()...), iv...)
				body = append(body, pgp.S2KU_SHA1, byte(len(params)))
				body = append(body, params...)
				body = binary.BigEndian.AppendUint32(body, uint32(len(secret)))
				return pgp.Packet(pgp.PKT_SECRET_KEY, append(body, secret...))
			},
			check: func(t *testing.T, k *Key) {
				assert.Equal(t, byte(5), k.Version)
				assert.Equal(t, uint32(32), k.MaterialLen)
				s := k.Secret
				assert.Equal(t, byte(28), s.S2KLen)
				assert.Equal(t, byte(pgp.SYM_AES256), s.SymAlg)
				assert.Equal(t, iv, s.IV)
				assert.Equal(t, uint32(len(secret)), s.SecretLen)
				assert.Equal(t, len(secret), s.DataLen)
			},
		},
		{
			name: "v5 aead iv padded to the block size",
			build: func(t *testing.T) []byte {
				body := nativeKeyBody(5, pgp.PKALG_ED25519, pub)
				params := append(append([]byte{pgp.SYM_AES128, pgp.AEAD_OCB}, iteratedS2K()...), iv...)
				body = append(body, pgp.S2KU_AEAD, byte(len(params)))
				body = append(body, params...)
				body = binary.BigEndian.AppendUint32(body, uint32(len(secret)))
				return pgp.Packet(pgp.PKT_SECRET_SUB, append(body, secret...))
			},
			check: func(t *testing.T, k *Key) {
				s := k.Secret
				assert.Equal(t, byte(pgp.AEAD_OCB), s.AEADAlg)
				assert.Equal(t, iv, s.IV)
				assert.Equal(t, uint32(len(secret)), s.SecretLen)
			},
		},
		{
			name: "legacy usage is the cipher",
			build: func(t *testing.T) []byte {
				body := nativeKeyBody(4, pgp.PKALG_ED25519, pub)
				body = append(body, pgp.SYM_AES128)
				body = append(body, iv...)
				return pgp.Packet(pgp.PKT_SECRET_KEY, append(body, secret...))
			},
			check: func(t *testing.T, k *Key) {
				s := k.Secret
				assert.True(t, s.Encrypted())
				assert.Equal(t, byte(pgp.SYM_AES128), s.SymAlg)
				assert.Nil(t, s.S2K)
				assert.Equal(t, iv, s.IV)
				assert.Equal(t, len(secret), s.DataLen)
			},
		},
		{
			name: "gnu dummy has no iv",
			build: func(t *testing.T) []byte {
				body := nativeKeyBody(4, pgp.PKALG_ED25519, pub)
				body = append(body, pgp.S2KU_SHA1, pgp.SYM_AES128, pgp.S2K_GNU, 0)
				body = append(body, "GNU"...)
				body = append(body, pgp.S2K_GNU_DUMMY)
				return pgp.Packet(pgp.PKT_SECRET_KEY, body)
			},
			check: func(t *testing.T, k *Key) {
				s := k.Secret
				assert.Equal(t, byte(pgp.S2K_GNU), s.S2K.Specifier)
				assert.Equal(t, byte(pgp.S2K_GNU_DUMMY), s.S2K.GNUExtension)
				assert.Empty(t, s.IV)
				assert.Zero(t, s.DataLen)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := dumpBytes(t, tc.build(t), Options{})
			require.NotEmpty(t, res.Packets)
			pkt := res.Packets[0]
			require.False(t, pkt.Failed, "%v", pkt.Err)
			k := pkt.Record.(*Key)
			require.NotNil(t, k.Secret)
			tc.check(t, k)
		})
	}
}

func TestDumpV5SecretKeyShortParameters(t *testing.T) {
	body := nativeKeyBody(5, pgp.PKALG_ED25519, bytes.Repeat([]byte{0x11}, 32))
	// the count covers the cipher and the S2K but leaves nothing for the IV
	body = append(body, pgp.S2KU_SHA1, 12, pgp.SYM_AES256)
	body = append(body, iteratedS2K()...)
	res := dumpBytes(t, pgp.Packet(pgp.PKT_SECRET_KEY, body), Options{})
	require.Len(t, res.Packets, 1)
	assert.True(t, res.Packets[0].Failed)
	assert.ErrorIs(t, res.Packets[0].Err, pgp.ErrPacket)
}
