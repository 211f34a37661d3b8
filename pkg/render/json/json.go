// Package json renders a dump result as a JSON array with one object per
// packet.
package json

import (
	"encoding/hex"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"example.com/pgpdump/pkg/dump"
	"example.com/pgpdump/pkg/pgp"
	"example.com/pgpdump/pkg/registry"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

type Options struct {
	// Pretty indents the output.
	Pretty bool
}

type obj = map[string]interface{}

// Render writes res to w. Walker notes have no JSON form and are left out.
func Render(w io.Writer, res *dump.Result, opts Options) error {
	out, err := Marshal(res, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// Marshal returns the JSON form of res.
func Marshal(res *dump.Result, opts Options) ([]byte, error) {
	b := &builder{opts: res.Options}
	arr := b.packets(res.Packets)
	if opts.Pretty {
		return api.MarshalIndent(arr, "", "  ")
	}
	return api.Marshal(arr)
}

type builder struct {
	opts dump.Options
}

func (b *builder) packets(pkts []dump.Packet) []interface{} {
	arr := []interface{}{}
	for i := range pkts {
		if o := b.packet(&pkts[i]); o != nil {
			arr = append(arr, o)
		}
	}
	return arr
}

func (b *builder) packet(pkt *dump.Packet) obj {
	if _, ok := pkt.Record.(*dump.Note); ok {
		return nil
	}
	h := pkt.Header
	hdr := obj{
		"offset":  pkt.Offset,
		"tag":     h.Tag,
		"tag.str": registry.PacketTags.Lookup(int(h.Tag)),
		"raw":     hex.EncodeToString(h.Raw),
	}
	switch {
	case h.Partial:
		hdr["partial"] = true
	case h.Indeterminate:
		hdr["indeterminate"] = true
	default:
		hdr["length"] = h.Length
	}
	o := obj{"header": hdr}
	if pkt.Raw != nil {
		o["raw"] = hex.EncodeToString(pkt.Raw)
	}
	if pkt.Failed {
		o["error"] = pkt.Err.Error()
		if isStructured(pkt.Record) {
			return o
		}
	}

	switch r := pkt.Record.(type) {
	case *dump.Signature:
		b.signature(o, r)
	case *dump.Key:
		b.key(o, r)
	case *dump.UserID:
		if r.Tag == pgp.PKT_USER_ATTR {
			o["userattr"] = hex.EncodeToString(r.Data)
		} else {
			o["userid"] = string(r.Data)
		}
	case *dump.PKESK:
		b.pkesk(o, r)
	case *dump.SKESK:
		b.skesk(o, r)
	case *dump.OnePass:
		b.onePass(o, r)
	case *dump.Marker:
		o["contents"] = lo.Ternary(r.Valid, "PGP", "invalid")
	case *dump.Literal:
		o["format"] = string(rune(r.Format))
		o["filename"] = r.Filename
		o["timestamp"] = r.Timestamp
		o["datalen"] = r.DataLen
	case *dump.Compressed:
		alg(o, "algorithm", registry.CompressionAlgorithms, r.Algorithm)
		o["contents"] = b.packets(r.Packets)
	case *dump.Encrypted:
		if r.HasHeader {
			o["version"] = r.Version
			alg(o, "algorithm", registry.SymmetricAlgorithms, r.SymAlg)
			alg(o, "aead algorithm", registry.AEADAlgorithms, r.AEADAlg)
			o["chunk size"] = r.ChunkSize
			if r.Salt != nil {
				o["salt"] = hex.EncodeToString(r.Salt)
			}
			if r.IV != nil {
				o["aead iv"] = hex.EncodeToString(r.IV)
			}
		}
	}
	return o
}

// isStructured reports whether rec comes from a packet decoded as a whole,
// whose fields are meaningless once decoding failed.
func isStructured(rec dump.Record) bool {
	switch rec.(type) {
	case *dump.Literal, *dump.Compressed, *dump.Encrypted, *dump.Skipped:
		return false
	}
	return true
}

func alg(o obj, name string, t registry.Table, v byte) {
	o[name] = v
	o[name+".str"] = t.Lookup(int(v))
}

func (b *builder) mpi(o obj, name string, m pgp.MPI) {
	o[name+".bits"] = m.BitLen()
	if b.opts.DumpMPI {
		o[name+".raw"] = hex.EncodeToString(m.Bytes)
	}
}

func (b *builder) vec(o obj, name string, v []byte) {
	o[name+".bytes"] = len(v)
	if b.opts.DumpMPI {
		o[name+".raw"] = hex.EncodeToString(v)
	}
}

func (b *builder) signature(o obj, sig *dump.Signature) {
	o["version"] = sig.Version
	alg(o, "type", registry.SignatureTypes, sig.Type)
	if sig.Version < 4 {
		o["creation time"] = sig.Created
		o["signer"] = hex.EncodeToString(sig.Signer)
	}
	alg(o, "algorithm", registry.PublicKeyAlgorithms, sig.PubAlg)
	alg(o, "hash algorithm", registry.HashAlgorithms, sig.HashAlg)
	if sig.Version >= 4 {
		subs := make([]interface{}, 0, len(sig.Subpackets))
		for i := range sig.Subpackets {
			subs = append(subs, b.subpacket(&sig.Subpackets[i]))
		}
		o["subpackets"] = subs
	}
	if sig.Salt != nil {
		o["salt"] = hex.EncodeToString(sig.Salt)
	}
	o["lbits"] = hex.EncodeToString(sig.LBits)

	m := obj{}
	switch v := sig.Material.(type) {
	case *dump.RSASignature:
		b.mpi(m, "s", v.S)
	case *dump.DSASignature:
		b.mpi(m, "r", v.R)
		b.mpi(m, "s", v.S)
	case *dump.ECCSignature:
		b.mpi(m, "r", v.R)
		b.mpi(m, "s", v.S)
	case *dump.ElgamalSignature:
		b.mpi(m, "r", v.R)
		b.mpi(m, "s", v.S)
	case *dump.NativeSignature:
		b.vec(m, "sig", v.Sig)
	case *dump.CompositeSignature:
		b.vec(m, "ecc", v.ECC)
		b.vec(m, "pq", v.PQ)
	case *dump.UnknownMaterial:
		b.vec(m, "unknown", v.Raw)
	}
	o["material"] = m
}

func (b *builder) subpacket(s *dump.Subpacket) obj {
	o := obj{
		"length":   s.Length,
		"hashed":   s.Hashed,
		"critical": s.Critical,
	}
	alg(o, "type", registry.SubpacketTypes, s.Type)
	if b.opts.DumpRaw {
		o["raw"] = hex.EncodeToString(s.Raw)
	}
	switch v := s.Value.(type) {
	case dump.TimeValue:
		o["creation time"] = v.Time
	case dump.ExpirationValue:
		if s.Type == pgp.SIGSUB_KEY_EXPIRY {
			o["key expiration"] = v.Seconds
		} else {
			o["expiration time"] = v.Seconds
		}
	case dump.FlagValue:
		switch s.Type {
		case pgp.SIGSUB_EXPORTABLE:
			o["exportable"] = v.Set
		case pgp.SIGSUB_REVOCABLE:
			o["revocable"] = v.Set
		default:
			o["primary"] = v.Set
		}
	case dump.TrustValue:
		o["amount"] = v.Amount
		o["level"] = v.Level
	case dump.TextValue:
		switch s.Type {
		case pgp.SIGSUB_REGEXP:
			o["regexp"] = v.Text
		case pgp.SIGSUB_SIGNERS_USER_ID:
			o["uid"] = v.Text
		default:
			o["uri"] = v.Text
		}
	case dump.PreferredValue:
		preferred(o, s.Type, v.Algorithms)
	case dump.RevocationKeyValue:
		o["class"] = v.Class
		alg(o, "algorithm", registry.PublicKeyAlgorithms, v.Algorithm)
		o["fingerprint"] = hex.EncodeToString(v.Fingerprint)
	case dump.IssuerKeyIDValue:
		o["issuer keyid"] = hex.EncodeToString(v.KeyID)
	case dump.NotationValue:
		o["human"] = v.HumanReadable
		o["name"] = v.Name
		if v.HumanReadable {
			o["value"] = string(v.Value)
		} else {
			o["value"] = hex.EncodeToString(v.Value)
		}
	case dump.KeyServerPrefsValue:
		o["no-modify"] = v.NoModify
	case dump.KeyFlagsValue:
		o["flags"] = v.Flags
		set := lo.Filter(keyFlagNames, func(f flagName, _ int) bool { return v.Flags&f.bit != 0 })
		o["flags.str"] = lo.Map(set, func(f flagName, _ int) string { return f.name })
	case dump.RevocationReasonValue:
		alg(o, "code", registry.RevocationReasons, v.Code)
		o["message"] = v.Message
	case dump.FeaturesValue:
		o["mdc"] = v.Flags&dump.FeatureMDC != 0
		o["aead"] = v.Flags&dump.FeatureAEAD != 0
		o["v5 keys"] = v.Flags&dump.FeatureV5Keys != 0
		o["seipd v2"] = v.Flags&dump.FeatureSEIPDv2 != 0
	case dump.SignatureTargetValue:
		alg(o, "algorithm", registry.PublicKeyAlgorithms, v.PubAlg)
		alg(o, "hash algorithm", registry.HashAlgorithms, v.HashAlg)
		o["hash"] = hex.EncodeToString(v.Hash)
	case dump.EmbeddedSignatureValue:
		sig := obj{}
		b.signature(sig, v.Signature)
		o["signature"] = sig
	case dump.IssuerFingerprintValue:
		o["fingerprint"] = hex.EncodeToString(v.Fingerprint)
	default:
		o["raw"] = hex.EncodeToString(s.Raw)
	}
	if s.Err != nil {
		o["error"] = s.Err.Error()
	}
	return o
}

func preferred(o obj, typ byte, algs []byte) {
	if typ == pgp.SIGSUB_PREF_AEAD_CIPHERSUITES {
		o["ciphersuites"] = lo.Map(lo.Chunk(algs, 2), func(c []byte, _ int) obj {
			cs := obj{}
			alg(cs, "algorithm", registry.SymmetricAlgorithms, c[0])
			if len(c) > 1 {
				alg(cs, "aead algorithm", registry.AEADAlgorithms, c[1])
			}
			return cs
		})
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
	o["algorithms"] = lo.Map(algs, func(a byte, _ int) int { return int(a) })
	o["algorithms.str"] = lo.Map(algs, func(a byte, _ int) string { return t.Lookup(int(a)) })
}

type flagName struct {
	bit  byte
	name string
}

var keyFlagNames = []flagName{
	{dump.KeyFlagCertify, "certify"},
	{dump.KeyFlagSign, "sign"},
	{dump.KeyFlagEncryptComms, "encrypt_comm"},
	{dump.KeyFlagEncryptStorage, "encrypt_storage"},
	{dump.KeyFlagSplit, "split"},
	{dump.KeyFlagAuth, "auth"},
	{dump.KeyFlagShared, "shared"},
}

func (b *builder) key(o obj, k *dump.Key) {
	o["version"] = k.Version
	o["creation time"] = k.Created
	if k.Version < 4 {
		o["v3 days"] = k.ValidDays
	}
	alg(o, "algorithm", registry.PublicKeyAlgorithms, k.Algorithm)
	if k.Version >= 5 {
		o["v5 public key material length"] = k.MaterialLen
	}

	m := obj{}
	switch v := k.Material.(type) {
	case *dump.RSAKey:
		b.mpi(m, "n", v.N)
		b.mpi(m, "e", v.E)
	case *dump.DSAKey:
		b.mpi(m, "p", v.P)
		b.mpi(m, "q", v.Q)
		b.mpi(m, "g", v.G)
		b.mpi(m, "y", v.Y)
	case *dump.ElgamalKey:
		b.mpi(m, "p", v.P)
		b.mpi(m, "g", v.G)
		b.mpi(m, "y", v.Y)
	case *dump.ECCKey:
		b.mpi(m, "p", v.P)
		m["curve"] = registry.CurveName(v.OID)
	case *dump.ECDHKey:
		b.mpi(m, "p", v.P)
		m["curve"] = registry.CurveName(v.OID)
		alg(m, "hash algorithm", registry.HashAlgorithms, v.KDFHash)
		alg(m, "key wrap algorithm", registry.SymmetricAlgorithms, v.WrapAlg)
	case *dump.NativeKey:
		b.vec(m, "pub", v.Pub)
	case *dump.CompositeKey:
		b.vec(m, "ecc", v.ECC)
		b.vec(m, "pq", v.PQ)
	case *dump.UnknownMaterial:
		b.vec(m, "unknown", v.Raw)
	}
	if s := k.Secret; s != nil {
		b.secret(m, k.Version, s)
	}
	o["material"] = m

	if k.KeyIDErr == nil {
		o["keyid"] = hex.EncodeToString(k.KeyID)
	}
	if k.Fingerprint != nil {
		o["fingerprint"] = hex.EncodeToString(k.Fingerprint)
	}
	if k.Grip != nil {
		o["grip"] = hex.EncodeToString(k.Grip)
	}
}

func (b *builder) secret(m obj, version byte, s *dump.SecretInfo) {
	m["s2k usage"] = s.Usage
	if version >= 5 {
		m["v5 s2k length"] = s.S2KLen
	}
	if s.Usage != pgp.S2KU_NONE {
		alg(m, "symmetric algorithm", registry.SymmetricAlgorithms, s.SymAlg)
		if s.Usage == pgp.S2KU_AEAD {
			alg(m, "aead algorithm", registry.AEADAlgorithms, s.AEADAlg)
		}
		if s.S2K != nil {
			m["s2k"] = s2k(s.S2K)
		}
		if s.IV != nil {
			m["cipher iv"] = hex.EncodeToString(s.IV)
		}
	}
	if version == 5 {
		m["v5 secret key data length"] = s.SecretLen
	}
	m["secret key data length"] = s.DataLen
}

func s2k(s *pgp.S2K) obj {
	o := obj{"specifier": s.Specifier}
	switch s.Specifier {
	case pgp.S2K_GNU:
		if s.Experimental != nil {
			o["unknown experimental"] = hex.EncodeToString(s.Experimental)
			return o
		}
		o["gpg extension"] = s.GNUExtension
		if s.GNUExtension == pgp.S2K_GNU_SMARTCARD {
			o["card serial number"] = hex.EncodeToString(s.Serial)
		}
		return o
	case pgp.S2K_ARGON2:
		o["salt"] = hex.EncodeToString(s.Salt)
		o["passes"] = s.Passes
		o["parallelism"] = s.Parallelism
		o["memory exponent"] = s.MemoryExp
		return o
	}
	alg(o, "hash algorithm", registry.HashAlgorithms, s.Hash)
	if s.Salt != nil {
		o["salt"] = hex.EncodeToString(s.Salt)
	}
	if s.Specifier == pgp.S2K_ITERATED {
		o["iterations"] = s.Iterations()
	}
	return o
}

func (b *builder) pkesk(o obj, k *dump.PKESK) {
	o["version"] = k.Version
	if k.Version < 6 {
		o["keyid"] = hex.EncodeToString(k.KeyID)
	} else if len(k.Fingerprint) > 0 {
		o["key version"] = k.KeyVersion
		o["fingerprint"] = hex.EncodeToString(k.Fingerprint)
	}
	alg(o, "algorithm", registry.PublicKeyAlgorithms, k.Algorithm)

	m := obj{}
	switch v := k.Material.(type) {
	case *dump.RSASession:
		b.mpi(m, "m", v.M)
	case *dump.ElgamalSession:
		b.mpi(m, "g", v.G)
		b.mpi(m, "m", v.M)
	case *dump.SM2Session:
		b.mpi(m, "m", v.M)
	case *dump.ECDHSession:
		b.mpi(m, "p", v.P)
		m["m.bytes"] = len(v.M)
		if b.opts.DumpMPI {
			m["m"] = hex.EncodeToString(v.M)
		}
	case *dump.NativeSession:
		b.vec(m, "ephemeral", v.Ephemeral)
		b.vec(m, "wrapped", v.Wrapped)
	case *dump.CompositeSession:
		b.vec(m, "ecc", v.ECC)
		b.vec(m, "kem", v.KEM)
		b.vec(m, "wrapped", v.Wrapped)
	case *dump.UnknownMaterial:
		b.vec(m, "unknown", v.Raw)
	}
	o["material"] = m
}

func (b *builder) skesk(o obj, s *dump.SKESK) {
	o["version"] = s.Version
	alg(o, "algorithm", registry.SymmetricAlgorithms, s.SymAlg)
	if s.Version >= 5 {
		alg(o, "aead algorithm", registry.AEADAlgorithms, s.AEADAlg)
	}
	if s.S2K != nil {
		o["s2k"] = s2k(s.S2K)
	}
	if s.Version >= 5 {
		o["aead iv"] = hex.EncodeToString(s.IV)
	}
	o["encrypted key"] = hex.EncodeToString(s.EncryptedKey)
}

func (b *builder) onePass(o obj, op *dump.OnePass) {
	o["version"] = op.Version
	alg(o, "type", registry.SignatureTypes, op.Type)
	alg(o, "hash algorithm", registry.HashAlgorithms, op.HashAlg)
	alg(o, "public key algorithm", registry.PublicKeyAlgorithms, op.PubAlg)
	if op.Version == 6 {
		o["salt"] = hex.EncodeToString(op.Salt)
		o["fingerprint"] = hex.EncodeToString(op.Fingerprint)
	} else {
		o["signer"] = hex.EncodeToString(op.Signer)
	}
	o["nested"] = op.Nested
}
