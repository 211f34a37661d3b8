// Package text renders a dump result in the indented human readable form.
package text

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"example.com/pgpdump/pkg/dump"
	"example.com/pgpdump/pkg/pgp"
	"example.com/pgpdump/pkg/registry"
)

const (
	indent  = "    "
	lineLen = 16
	// ctime(3) layout
	timeLayout = "Mon Jan _2 15:04:05 2006"
)

// Render writes res to w using the flags the dump ran with.
func Render(w io.Writer, res *dump.Result) error {
	p := &printer{w: w, opts: res.Options}
	if res.Cleartext {
		p.line(":cleartext signed data")
	}
	if res.Armored {
		p.line(":armored input")
	}
	if res.Empty {
		p.line(":empty input")
	}
	p.packets(res.Packets)
	return p.err
}

type printer struct {
	w     io.Writer
	opts  dump.Options
	level int
	err   error
}

func (p *printer) line(format string, a ...interface{}) {
	if p.err != nil {
		return
	}
	s := fmt.Sprintf(format, a...)
	if s != "" {
		s = strings.Repeat(indent, p.level) + s
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}

func (p *printer) in()  { p.level++ }
func (p *printer) out() { p.level-- }

func (p *printer) hexdump(b []byte) {
	for i := 0; i < len(b); i += lineLen {
		var hx, asc strings.Builder
		for j := i; j < i+lineLen; j++ {
			if j >= len(b) {
				hx.WriteString("   ")
				asc.WriteByte(' ')
				continue
			}
			fmt.Fprintf(&hx, "%02x ", b[j])
			if b[j] >= 0x20 && b[j] < 0x7f {
				asc.WriteByte(b[j])
			} else {
				asc.WriteByte('.')
			}
		}
		p.line("%05d | %s | %s", i, hx.String(), asc.String())
	}
}

func (p *printer) hex(name string, b []byte, count bool) {
	if count {
		p.line("%s: 0x%s (%d bytes)", name, hex.EncodeToString(b), len(b))
		return
	}
	p.line("%s: 0x%s", name, hex.EncodeToString(b))
}

func (p *printer) mpi(name string, m pgp.MPI) {
	if p.opts.DumpMPI {
		p.line("%s: %d bits, %s", name, m.BitLen(), hex.EncodeToString(m.Bytes))
		return
	}
	p.line("%s: %d bits", name, m.BitLen())
}

func (p *printer) vec(name string, b []byte) {
	if p.opts.DumpMPI {
		p.line("%s, %s", name, hex.EncodeToString(b))
		return
	}
	p.line("%s", name)
}

func (p *printer) time(name string, t uint32) {
	p.line("%s: %d (%s)", name, t, time.Unix(int64(t), 0).UTC().Format(timeLayout))
}

func (p *printer) expiration(name string, seconds uint32) {
	if seconds == 0 {
		p.line("%s: 0 (never)", name)
		return
	}
	p.line("%s: %d seconds (%d days)", name, seconds, seconds/(24*60*60))
}

func (p *printer) alg(name string, t registry.Table, v byte) {
	p.line("%s: %d (%s)", name, v, t.Lookup(int(v)))
}

func (p *printer) palg(v byte) { p.alg("public key algorithm", registry.PublicKeyAlgorithms, v) }
func (p *printer) halg(v byte) { p.alg("hash algorithm", registry.HashAlgorithms, v) }
func (p *printer) salg(v byte) { p.alg("symmetric algorithm", registry.SymmetricAlgorithms, v) }

func (p *printer) packets(pkts []dump.Packet) {
	for i := range pkts {
		p.packet(&pkts[i])
	}
}

func (p *printer) packet(pkt *dump.Packet) {
	if n, ok := pkt.Record.(*dump.Note); ok {
		p.line(":%s", n.Text)
		return
	}
	h := pkt.Header
	hdr := hex.EncodeToString(h.Raw)
	switch {
	case h.Partial:
		p.line(":off %d: packet header 0x%s (tag %d, partial len)", pkt.Offset, hdr, h.Tag)
	case h.Indeterminate:
		p.line(":off %d: packet header 0x%s (tag %d, indeterminate len)", pkt.Offset, hdr, h.Tag)
	default:
		p.line(":off %d: packet header 0x%s (tag %d, len %d)", pkt.Offset, hdr, h.Tag, h.Length)
	}
	if pkt.Raw != nil {
		off := pkt.Offset + int64(h.Len())
		if pkt.RawTruncated {
			p.line(":off %d: packet contents (first %d bytes)", off, len(pkt.Raw))
		} else {
			p.line(":off %d: packet contents (%d bytes)", off, len(pkt.Raw))
		}
		p.in()
		p.hexdump(pkt.Raw)
		p.out()
		p.line("")
	}

	switch r := pkt.Record.(type) {
	case *dump.Signature:
		p.titled(pkt, "Signature packet", func() { p.signature(r) })
	case *dump.Key:
		p.titled(pkt, registry.KeyTypes.Lookup(int(r.Tag))+" packet", func() { p.key(r) })
	case *dump.UserID:
		p.titled(pkt, userIDTitle(r), func() { p.userID(r) })
	case *dump.PKESK:
		p.titled(pkt, "Public-key encrypted session key packet", func() { p.pkesk(r) })
	case *dump.SKESK:
		p.titled(pkt, "Symmetric-key encrypted session key packet", func() { p.skesk(r) })
	case *dump.OnePass:
		p.titled(pkt, "One-pass signature packet", func() { p.onePass(r) })
	case *dump.Marker:
		p.titled(pkt, "Marker packet", func() { p.marker(r) })
	case *dump.Literal:
		p.literal(r)
		p.failure(pkt)
	case *dump.Compressed:
		p.compressed(r)
		p.failure(pkt)
	case *dump.Encrypted:
		p.encrypted(r)
		p.failure(pkt)
	case *dump.Skipped:
		if r.Unknown {
			p.line("Skipping Unknown pkt: %d\n", r.Tag)
		} else {
			p.line("Skipping unhandled pkt: %d\n", r.Tag)
		}
	default:
		p.line("failed to parse")
	}
}

// titled prints a structured packet, or only its title when decoding failed.
func (p *printer) titled(pkt *dump.Packet, title string, body func()) {
	p.line("%s", title)
	if pkt.Failed {
		p.in()
		p.line("failed to parse")
		p.out()
		return
	}
	body()
}

func (p *printer) failure(pkt *dump.Packet) {
	if pkt.Failed {
		p.in()
		p.line("failed to parse")
		p.out()
	}
}

func userIDTitle(u *dump.UserID) string {
	if u.Tag == pgp.PKT_USER_ATTR {
		return "UserAttr packet"
	}
	return "UserID packet"
}

func (p *printer) signature(sig *dump.Signature) {
	p.in()
	defer p.out()

	p.line("version: %d", sig.Version)
	p.alg("type", registry.SignatureTypes, sig.Type)
	if sig.Version < 4 {
		p.time("creation time", sig.Created)
		p.hex("signing key id", sig.Signer, false)
	}
	p.palg(sig.PubAlg)
	p.halg(sig.HashAlg)

	if sig.Version >= 4 {
		p.line("hashed subpackets:")
		p.in()
		p.subpackets(lo.Filter(sig.Subpackets, func(s dump.Subpacket, _ int) bool { return s.Hashed }))
		p.out()

		p.line("unhashed subpackets:")
		p.in()
		p.subpackets(lo.Filter(sig.Subpackets, func(s dump.Subpacket, _ int) bool { return !s.Hashed }))
		p.out()
	}
	if sig.Salt != nil {
		p.hex("salt", sig.Salt, true)
	}

	p.hex("lbits", sig.LBits, false)
	p.line("signature material:")
	p.in()
	p.signatureMaterial(sig.Material)
	p.out()
}

func (p *printer) signatureMaterial(m dump.Material) {
	switch m := m.(type) {
	case *dump.RSASignature:
		p.mpi("rsa s", m.S)
	case *dump.DSASignature:
		p.mpi("dsa r", m.R)
		p.mpi("dsa s", m.S)
	case *dump.ECCSignature:
		p.mpi("ecc r", m.R)
		p.mpi("ecc s", m.S)
	case *dump.ElgamalSignature:
		p.mpi("eg r", m.R)
		p.mpi("eg s", m.S)
	case *dump.NativeSignature:
		p.vec(m.Name+" sig", m.Sig)
	case *dump.CompositeSignature:
		p.vec(m.Name+" ecc sig", m.ECC)
		p.vec(m.Name+" pq sig", m.PQ)
	default:
		p.line("unknown algorithm")
	}
}

func (p *printer) subpackets(subs []dump.Subpacket) {
	if len(subs) == 0 {
		p.line("none")
		return
	}
	for i := range subs {
		s := &subs[i]
		if s.Critical {
			p.line(":type %d, len %d, critical", s.Type, s.Length)
		} else {
			p.line(":type %d, len %d", s.Type, s.Length)
		}
		if p.opts.DumpRaw {
			p.line(":subpacket contents:")
			p.in()
			p.hexdump(s.Raw)
			p.out()
		}
		p.subpacket(s)
	}
}

func (p *printer) subpacket(s *dump.Subpacket) {
	name := registry.SubpacketTypes.Lookup(int(s.Type))
	switch v := s.Value.(type) {
	case dump.TimeValue:
		p.time(name, v.Time)
	case dump.ExpirationValue:
		p.expiration(name, v.Seconds)
	case dump.FlagValue:
		p.line("%s: %d", name, boolInt(v.Set))
	case dump.TrustValue:
		p.line("%s: amount %d, level %d", name, v.Amount, v.Level)
	case dump.TextValue:
		p.line("%s: %s", name, v.Text)
	case dump.PreferredValue:
		p.preferred(s.Type, name, v.Algorithms)
	case dump.RevocationKeyValue:
		p.line("%s", name)
		p.line("class: %d", v.Class)
		p.palg(v.Algorithm)
		p.hex("fingerprint", v.Fingerprint, true)
	case dump.IssuerKeyIDValue:
		p.hex(name, v.KeyID, false)
	case dump.NotationValue:
		if v.HumanReadable {
			p.line("%s: %s = %s", name, v.Name, v.Value)
		} else {
			p.line("%s: %s = 0x%s (%d bytes)", name, v.Name, hex.EncodeToString(v.Value), len(v.Value))
		}
	case dump.KeyServerPrefsValue:
		p.line("%s", name)
		p.line("no-modify: %d", boolInt(v.NoModify))
	case dump.KeyFlagsValue:
		p.line("%s: 0x%02x ( %s)", name, v.Flags, flagWords(v.Flags, keyFlagWords, "none"))
	case dump.RevocationReasonValue:
		p.alg(name, registry.RevocationReasons, v.Code)
		p.line("message: %s", v.Message)
	case dump.FeaturesValue:
		p.line("%s: 0x%02x ( %s)", name, v.Flags, flagWords(v.Flags, featureWords, ""))
	case dump.SignatureTargetValue:
		p.line("%s", name)
		p.palg(v.PubAlg)
		p.halg(v.HashAlg)
		p.hex("hash", v.Hash, true)
	case dump.EmbeddedSignatureValue:
		p.line("%s:", name)
		p.signature(v.Signature)
	case dump.IssuerFingerprintValue:
		p.hex(name, v.Fingerprint, true)
	default:
		if s.Err != nil {
			p.line("%s: failed to parse", name)
		}
		if !p.opts.DumpRaw {
			p.in()
			p.hexdump(s.Raw)
			p.out()
		}
	}
}

func (p *printer) preferred(typ byte, name string, algs []byte) {
	if typ == pgp.SIGSUB_PREF_AEAD_CIPHERSUITES {
		pairs := lo.Chunk(algs, 2)
		names := lo.Map(pairs, func(c []byte, _ int) string {
			if len(c) < 2 {
				return registry.SymmetricAlgorithms.Lookup(int(c[0]))
			}
			return registry.SymmetricAlgorithms.Lookup(int(c[0])) + "/" + registry.AEADAlgorithms.Lookup(int(c[1]))
		})
		codes := lo.Map(pairs, func(c []byte, _ int) string {
			return strings.Join(lo.Map(c, func(b byte, _ int) string { return fmt.Sprint(b) }), "/")
		})
		p.line("%s: %s (%s)", name, strings.Join(names, ", "), strings.Join(codes, ", "))
		return
	}
	t := registry.SymmetricAlgorithms
	switch typ {
	case pgp.SIGSUB_PREF_HASH:
		t = registry.HashAlgorithms
	case pgp.SIGSUB_PREF_COMPRESSION:
		t = registry.CompressionAlgorithms
	case pgp.SIGSUB_PREF_AEAD:
		t = registry.AEADAlgorithms
	}
	names := lo.Map(algs, func(a byte, _ int) string { return t.Lookup(int(a)) })
	codes := lo.Map(algs, func(a byte, _ int) string { return fmt.Sprint(a) })
	p.line("%s: %s (%s)", name, strings.Join(names, ", "), strings.Join(codes, ", "))
}

type flagWord struct {
	bit  byte
	word string
}

var keyFlagWords = []flagWord{
	{dump.KeyFlagCertify, "certify"},
	{dump.KeyFlagSign, "sign"},
	{dump.KeyFlagEncryptComms, "encrypt_comm"},
	{dump.KeyFlagEncryptStorage, "encrypt_storage"},
	{dump.KeyFlagSplit, "split"},
	{dump.KeyFlagAuth, "auth"},
	{dump.KeyFlagShared, "shared"},
}

var featureWords = []flagWord{
	{dump.FeatureMDC, "mdc"},
	{dump.FeatureAEAD, "aead"},
	{dump.FeatureV5Keys, "v5 keys"},
	{dump.FeatureSEIPDv2, "SEIPD v2"},
}

// flagWords lists the set bits of v, each followed by a space.
func flagWords(v byte, words []flagWord, none string) string {
	if v == 0 {
		return none
	}
	var b strings.Builder
	for _, w := range words {
		if v&w.bit != 0 {
			b.WriteString(w.word + " ")
		}
	}
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (p *printer) key(k *dump.Key) {
	p.in()
	defer p.out()

	p.line("version: %d", k.Version)
	p.time("creation time", k.Created)
	if k.Version < 4 {
		p.line("v3 validity days: %d", k.ValidDays)
	}
	p.palg(k.Algorithm)
	if k.Version >= 5 {
		p.line("v%d public key material length: %d", k.Version, k.MaterialLen)
	}
	p.line("public key material:")
	p.in()
	p.keyMaterial(k.Material)
	p.out()

	if s := k.Secret; s != nil {
		p.line("secret key material:")
		p.in()
		p.secret(k.Version, s)
		p.out()
	}

	if k.KeyIDErr == nil {
		p.hex("keyid", k.KeyID, false)
	} else {
		p.line("keyid: failed to calculate")
	}
	if k.Fingerprint != nil {
		p.hex("fingerprint", k.Fingerprint, false)
	} else if k.FprErr != nil {
		p.line("fingerprint: failed to calculate")
	}
	if k.Grip != nil {
		p.hex("grip", k.Grip, false)
	} else if k.GripErr != nil {
		p.line("grip: failed to calculate")
	}
}

func (p *printer) keyMaterial(m dump.Material) {
	switch m := m.(type) {
	case *dump.RSAKey:
		p.mpi("rsa n", m.N)
		p.mpi("rsa e", m.E)
	case *dump.DSAKey:
		p.mpi("dsa p", m.P)
		p.mpi("dsa q", m.Q)
		p.mpi("dsa g", m.G)
		p.mpi("dsa y", m.Y)
	case *dump.ElgamalKey:
		p.mpi("eg p", m.P)
		p.mpi("eg g", m.G)
		p.mpi("eg y", m.Y)
	case *dump.ECCKey:
		p.mpi("ecc p", m.P)
		p.line("ecc curve: %s", registry.CurveName(m.OID))
	case *dump.ECDHKey:
		p.mpi("ecdh p", m.P)
		p.line("ecdh curve: %s", registry.CurveName(m.OID))
		p.alg("ecdh hash algorithm", registry.HashAlgorithms, m.KDFHash)
		p.line("ecdh key wrap algorithm: %d", m.WrapAlg)
	case *dump.NativeKey:
		p.vec(m.Name, m.Pub)
	case *dump.CompositeKey:
		p.vec(m.Name+" ecc public key", m.ECC)
		p.vec(m.Name+" pq public key", m.PQ)
	default:
		p.line("unknown public key algorithm")
	}
}

func (p *printer) secret(version byte, s *dump.SecretInfo) {
	p.line("s2k usage: %d", s.Usage)
	if version >= 5 {
		p.line("v%d s2k length: %d", version, s.S2KLen)
	}
	if s.Usage != pgp.S2KU_NONE {
		p.salg(s.SymAlg)
		if s.Usage == pgp.S2KU_AEAD {
			p.alg("aead algorithm", registry.AEADAlgorithms, s.AEADAlg)
		}
		if s.S2K != nil {
			p.s2k(s.S2K)
		}
		if s.S2K == nil || s.S2K.Specifier != pgp.S2K_GNU {
			if s.IV != nil {
				p.hex("cipher iv", s.IV, true)
			} else {
				p.line("cipher iv: unknown algorithm")
			}
		}
	}
	if version == 5 {
		p.line("v5 secret key data length: %d", s.SecretLen)
	}
	if s.Encrypted() {
		p.line("encrypted secret key data: %d bytes", s.DataLen)
	} else {
		p.line("cleartext secret key data: %d bytes", s.DataLen)
	}
}

func (p *printer) s2k(s *pgp.S2K) {
	p.line("s2k specifier: %d", s.Specifier)
	switch s.Specifier {
	case pgp.S2K_GNU:
		if s.Experimental != nil {
			p.hex("Unknown experimental s2k", s.Experimental, true)
			return
		}
		p.line("GPG extension num: %d", s.GNUExtension)
		if s.GNUExtension == pgp.S2K_GNU_SMARTCARD {
			p.hex("card serial number", s.Serial, true)
		}
		return
	case pgp.S2K_ARGON2:
		p.hex("argon2 salt", s.Salt, true)
		p.line("argon2 passes: %d", s.Passes)
		p.line("argon2 parallelism: %d", s.Parallelism)
		p.line("argon2 memory: 2^%d KiB", s.MemoryExp)
		return
	}
	p.alg("s2k hash algorithm", registry.HashAlgorithms, s.Hash)
	if s.Specifier == pgp.S2K_SALTED || s.Specifier == pgp.S2K_ITERATED {
		p.hex("s2k salt", s.Salt, false)
	}
	if s.Specifier == pgp.S2K_ITERATED {
		p.line("s2k iterations: %d (encoded as %d)", s.Iterations(), s.Count)
	}
}

func (p *printer) userID(u *dump.UserID) {
	p.in()
	defer p.out()
	if u.Tag == pgp.PKT_USER_ATTR {
		p.line("id: (%d bytes of data)", len(u.Data))
		return
	}
	p.line("id: %s", u.Data)
}

func (p *printer) pkesk(k *dump.PKESK) {
	p.in()
	defer p.out()

	p.line("version: %d", k.Version)
	switch {
	case k.Version < 6:
		p.hex("key id", k.KeyID, false)
	case len(k.Fingerprint) == 0:
		p.line("fingerprint: anonymous")
	default:
		p.line("key version: %d", k.KeyVersion)
		p.hex("fingerprint", k.Fingerprint, true)
	}
	p.palg(k.Algorithm)
	p.line("encrypted material:")
	p.in()
	defer p.out()

	switch m := k.Material.(type) {
	case *dump.RSASession:
		p.mpi("rsa m", m.M)
	case *dump.ElgamalSession:
		p.mpi("eg g", m.G)
		p.mpi("eg m", m.M)
	case *dump.SM2Session:
		p.mpi("sm2 m", m.M)
	case *dump.ECDHSession:
		p.mpi("ecdh p", m.P)
		if p.opts.DumpMPI {
			p.hex("ecdh m", m.M, true)
		} else {
			p.line("ecdh m: %d bytes", len(m.M))
		}
	case *dump.NativeSession:
		p.vec(m.Name+" ephemeral public key", m.Ephemeral)
		p.vec(m.Name+" encrypted session key", m.Wrapped)
	case *dump.CompositeSession:
		p.vec(m.Name+" ecc ephemeral public key", m.ECC)
		p.vec(m.Name+" kem ciphertext", m.KEM)
		p.vec(m.Name+" encrypted session key", m.Wrapped)
	default:
		p.line("unknown public key algorithm")
	}
}

func (p *printer) skesk(s *dump.SKESK) {
	p.in()
	defer p.out()

	p.line("version: %d", s.Version)
	p.salg(s.SymAlg)
	if s.Version >= 5 {
		p.alg("aead algorithm", registry.AEADAlgorithms, s.AEADAlg)
	}
	p.s2k(s.S2K)
	if s.Version >= 5 {
		p.hex("aead iv", s.IV, true)
	}
	p.hex("encrypted key", s.EncryptedKey, true)
}

func (p *printer) onePass(o *dump.OnePass) {
	p.in()
	defer p.out()

	p.line("version: %d", o.Version)
	p.alg("signature type", registry.SignatureTypes, o.Type)
	p.halg(o.HashAlg)
	p.palg(o.PubAlg)
	if o.Version == 6 {
		p.hex("salt", o.Salt, true)
		p.hex("fingerprint", o.Fingerprint, true)
	} else {
		p.hex("signing key id", o.Signer, false)
	}
	p.line("nested: %d", boolInt(o.Nested))
}

func (p *printer) marker(m *dump.Marker) {
	p.in()
	defer p.out()
	if m.Valid {
		p.line("contents: PGP")
	} else {
		p.line("contents: invalid")
	}
}

func (p *printer) literal(l *dump.Literal) {
	p.line("Literal data packet")
	p.in()
	defer p.out()

	p.line("data format: '%c'", l.Format)
	p.line("filename: %s (len %d)", l.Filename, len(l.Filename))
	p.time("timestamp", l.Timestamp)
	p.line("data bytes: %d", l.DataLen)
}

func (p *printer) compressed(c *dump.Compressed) {
	p.line("Compressed data packet")
	p.in()
	defer p.out()

	p.alg("compression algorithm", registry.CompressionAlgorithms, c.Algorithm)
	p.line("Decompressed contents:")
	p.packets(c.Packets)
}

func (p *printer) encrypted(e *dump.Encrypted) {
	switch e.Tag {
	case pgp.PKT_SE_DATA:
		p.line("Symmetrically-encrypted data packet\n")
	case pgp.PKT_SEIPD:
		p.line("Symmetrically-encrypted integrity protected data packet")
		if e.HasHeader {
			p.in()
			p.line("version: %d", e.Version)
			p.salg(e.SymAlg)
			p.alg("aead algorithm", registry.AEADAlgorithms, e.AEADAlg)
			p.line("chunk size: %d", e.ChunkSize)
			p.hex("salt", e.Salt, true)
			p.out()
		}
		p.line("")
	case pgp.PKT_AEAD_DATA:
		p.line("AEAD-encrypted data packet")
		p.in()
		defer p.out()
		p.line("version: %d", e.Version)
		p.salg(e.SymAlg)
		p.alg("aead algorithm", registry.AEADAlgorithms, e.AEADAlg)
		p.line("chunk size: %d", e.ChunkSize)
		if e.IV != nil {
			p.hex("initialization vector", e.IV, true)
		}
	}
}
