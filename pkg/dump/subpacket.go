package dump

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"example.com/pgpdump/pkg/pgp"
)

// Subpacket is one entry of a signature's hashed or unhashed area.
type Subpacket struct {
	Type     byte
	Critical bool
	Hashed   bool
	// Length counts the body octets, excluding the type octet.
	Length int
	// HeaderLen counts the length octets and the type octet.
	HeaderLen int
	Raw       []byte
	Value     SubpacketValue
	// Err is set when a known subpacket could not be decoded; Value is
	// then a RawValue.
	Err error
}

// SubpacketValue is the decoded body of a subpacket.
type SubpacketValue interface{ isSubpacketValue() }

func (TimeValue) isSubpacketValue()              {}
func (ExpirationValue) isSubpacketValue()        {}
func (FlagValue) isSubpacketValue()              {}
func (TrustValue) isSubpacketValue()             {}
func (TextValue) isSubpacketValue()              {}
func (PreferredValue) isSubpacketValue()         {}
func (RevocationKeyValue) isSubpacketValue()     {}
func (IssuerKeyIDValue) isSubpacketValue()       {}
func (NotationValue) isSubpacketValue()          {}
func (KeyServerPrefsValue) isSubpacketValue()    {}
func (KeyFlagsValue) isSubpacketValue()          {}
func (RevocationReasonValue) isSubpacketValue()  {}
func (FeaturesValue) isSubpacketValue()          {}
func (SignatureTargetValue) isSubpacketValue()   {}
func (EmbeddedSignatureValue) isSubpacketValue() {}
func (IssuerFingerprintValue) isSubpacketValue() {}
func (RawValue) isSubpacketValue()               {}

type TimeValue struct{ Time uint32 }

type ExpirationValue struct{ Seconds uint32 }

type FlagValue struct{ Set bool }

type TrustValue struct{ Level, Amount byte }

type TextValue struct{ Text string }

type PreferredValue struct{ Algorithms []byte }

type RevocationKeyValue struct {
	Class       byte
	Algorithm   byte
	Fingerprint []byte
}

type IssuerKeyIDValue struct{ KeyID []byte }

type NotationValue struct {
	HumanReadable bool
	Flags         []byte
	Name          string
	Value         []byte
}

type KeyServerPrefsValue struct{ NoModify bool }

type KeyFlagsValue struct{ Flags byte }

type RevocationReasonValue struct {
	Code    byte
	Message string
}

type FeaturesValue struct{ Flags byte }

type SignatureTargetValue struct {
	PubAlg  byte
	HashAlg byte
	Hash    []byte
}

type EmbeddedSignatureValue struct{ Signature *Signature }

type IssuerFingerprintValue struct {
	Version     byte
	Fingerprint []byte
}

type RawValue struct{ Data []byte }

// Key flags and feature bits.
const (
	KeyFlagCertify        = 0x01
	KeyFlagSign           = 0x02
	KeyFlagEncryptComms   = 0x04
	KeyFlagEncryptStorage = 0x08
	KeyFlagSplit          = 0x10
	KeyFlagAuth           = 0x20
	KeyFlagShared         = 0x80

	FeatureMDC     = 0x01
	FeatureAEAD    = 0x02
	FeatureV5Keys  = 0x04
	FeatureSEIPDv2 = 0x08
)

var errSubpacketLength = errors.New("wrong subpacket length")

// readSubpackets splits a subpacket area. A header that overruns the area or
// a zero length fails the whole area; a body that does not fit its type only
// marks that subpacket.
func (c *Context) readSubpackets(area []byte, hashed bool) ([]Subpacket, error) {
	var out []Subpacket
	r := pgp.NewBuffer(area)
	for r.Len() > 0 {
		start := r.Offset()
		l, err := readSubpacketLength(r)
		if err != nil {
			return out, err
		}
		if l == 0 {
			return out, r.Errorf("subpacket length", "zero length subpacket")
		}
		hdrLen := r.Offset() - start + 1
		body, err := r.Next("subpacket", int(l))
		if err != nil {
			return out, err
		}
		sp := Subpacket{
			Type:      body[0] & 0x7F,
			Critical:  body[0]&0x80 != 0,
			Hashed:    hashed,
			Length:    int(l) - 1,
			HeaderLen: hdrLen,
			Raw:       body[1:],
		}
		sp.Value, sp.Err = c.decodeSubpacket(sp.Type, sp.Raw)
		if sp.Err != nil {
			c.Log.WithField("subpacket", sp.Type).WithError(sp.Err).Debug("failed to parse subpacket")
			sp.Value = RawValue{Data: sp.Raw}
		}
		out = append(out, sp)
	}
	return out, nil
}

func readSubpacketLength(r *pgp.Buffer) (uint32, error) {
	o, err := r.Byte("subpacket length")
	if err != nil {
		return 0, err
	}
	switch {
	case o < 192:
		return uint32(o), nil
	case o < 255:
		o2, err := r.Byte("subpacket length")
		if err != nil {
			return 0, err
		}
		return (uint32(o)-192)<<8 + uint32(o2) + 192, nil
	default:
		return r.Uint32("subpacket length")
	}
}

func wantLen(b []byte, n int) error {
	if len(b) != n {
		return errors.Wrapf(errSubpacketLength, "have %d, want %d", len(b), n)
	}
	return nil
}

func wantMin(b []byte, n int) error {
	if len(b) < n {
		return errors.Wrapf(errSubpacketLength, "have %d, want at least %d", len(b), n)
	}
	return nil
}

func (c *Context) decodeSubpacket(typ byte, b []byte) (SubpacketValue, error) {
	switch typ {
	case pgp.SIGSUB_CREATION_TIME:
		if err := wantLen(b, 4); err != nil {
			return nil, err
		}
		return TimeValue{Time: binary.BigEndian.Uint32(b)}, nil
	case pgp.SIGSUB_EXPIRATION_TIME, pgp.SIGSUB_KEY_EXPIRY:
		if err := wantLen(b, 4); err != nil {
			return nil, err
		}
		return ExpirationValue{Seconds: binary.BigEndian.Uint32(b)}, nil
	case pgp.SIGSUB_EXPORTABLE, pgp.SIGSUB_REVOCABLE, pgp.SIGSUB_PRIMARY_USER_ID:
		if err := wantLen(b, 1); err != nil {
			return nil, err
		}
		return FlagValue{Set: b[0] != 0}, nil
	case pgp.SIGSUB_TRUST:
		if err := wantLen(b, 2); err != nil {
			return nil, err
		}
		return TrustValue{Level: b[0], Amount: b[1]}, nil
	case pgp.SIGSUB_REGEXP, pgp.SIGSUB_PREF_KEYSERVER, pgp.SIGSUB_POLICY_URI, pgp.SIGSUB_SIGNERS_USER_ID:
		return TextValue{Text: string(b)}, nil
	case pgp.SIGSUB_PREF_SYMMETRIC, pgp.SIGSUB_PREF_HASH, pgp.SIGSUB_PREF_COMPRESSION,
		pgp.SIGSUB_PREF_AEAD, pgp.SIGSUB_PREF_AEAD_CIPHERSUITES:
		return PreferredValue{Algorithms: b}, nil
	case pgp.SIGSUB_REVOCATION_KEY:
		if err := wantLen(b, 22); err != nil {
			return nil, err
		}
		return RevocationKeyValue{Class: b[0], Algorithm: b[1], Fingerprint: b[2:]}, nil
	case pgp.SIGSUB_ISSUER_KEY_ID:
		if err := wantLen(b, 8); err != nil {
			return nil, err
		}
		return IssuerKeyIDValue{KeyID: b}, nil
	case pgp.SIGSUB_NOTATION:
		return decodeNotation(b)
	case pgp.SIGSUB_KEYSERVER_PREFS:
		if err := wantMin(b, 1); err != nil {
			return nil, err
		}
		return KeyServerPrefsValue{NoModify: b[0]&0x80 != 0}, nil
	case pgp.SIGSUB_KEY_FLAGS:
		if err := wantMin(b, 1); err != nil {
			return nil, err
		}
		return KeyFlagsValue{Flags: b[0]}, nil
	case pgp.SIGSUB_REVOCATION_REASON:
		if err := wantMin(b, 1); err != nil {
			return nil, err
		}
		return RevocationReasonValue{Code: b[0], Message: string(b[1:])}, nil
	case pgp.SIGSUB_FEATURES:
		if err := wantMin(b, 1); err != nil {
			return nil, err
		}
		return FeaturesValue{Flags: b[0]}, nil
	case pgp.SIGSUB_SIGNATURE_TARGET:
		if err := wantMin(b, 2); err != nil {
			return nil, err
		}
		return SignatureTargetValue{PubAlg: b[0], HashAlg: b[1], Hash: b[2:]}, nil
	case pgp.SIGSUB_EMBEDDED_SIG:
		return c.decodeEmbedded(b)
	case pgp.SIGSUB_ISSUER_FPR, pgp.SIGSUB_RECIPIENT_FPR:
		if err := wantMin(b, 1); err != nil {
			return nil, err
		}
		want := 32
		if b[0] == 4 {
			want = 20
		}
		if err := wantLen(b[1:], want); err != nil {
			return nil, err
		}
		return IssuerFingerprintValue{Version: b[0], Fingerprint: b[1:]}, nil
	}
	return RawValue{Data: b}, nil
}

func decodeNotation(b []byte) (SubpacketValue, error) {
	if err := wantMin(b, 8); err != nil {
		return nil, err
	}
	nlen := int(binary.BigEndian.Uint16(b[4:6]))
	vlen := int(binary.BigEndian.Uint16(b[6:8]))
	if err := wantLen(b, nlen+vlen+8); err != nil {
		return nil, err
	}
	return NotationValue{
		HumanReadable: b[0]&0x80 != 0,
		Flags:         b[:4],
		Name:          string(b[8 : 8+nlen]),
		Value:         b[8+nlen:],
	}, nil
}

// decodeEmbedded parses a signature nested in a subpacket. It shares the
// nesting bound of compressed data.
func (c *Context) decodeEmbedded(b []byte) (SubpacketValue, error) {
	defer c.leave()
	if !c.enter() {
		c.Log.Warn(ErrTooDeep.Error())
		return nil, ErrTooDeep
	}
	r := pgp.NewBuffer(b)
	sig, err := c.readSignature(r)
	if err != nil {
		return nil, errors.Wrap(err, "embedded signature")
	}
	return EmbeddedSignatureValue{Signature: sig}, nil
}
