package pgp

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"example.com/pgpdump/pkg/crypto/hash"
	"example.com/pgpdump/pkg/registry"
)

var ErrNoDerivation = errors.New("pgp: failed to calculate")

// fingerprintInput returns the hash name and the framed public key body that
// feeds the fingerprint of a v4, v5 or v6 key.
func fingerprintInput(version byte, body []byte) (string, []byte, error) {
	var pre bytes.Buffer
	switch version {
	case 4:
		pre.WriteByte(0x99)
		pre.Write(binary.BigEndian.AppendUint16(nil, uint16(len(body))))
		return "sha1", pre.Bytes(), nil
	case 5:
		pre.WriteByte(0x9A)
	case 6:
		pre.WriteByte(0x9B)
	default:
		return "", nil, fmt.Errorf("%w: no fingerprint for v%d key", ErrNoDerivation, version)
	}
	pre.Write(binary.BigEndian.AppendUint32(nil, uint32(len(body))))
	return "sha256", pre.Bytes(), nil
}

// Fingerprint derives the fingerprint of the public key packet body.
func Fingerprint(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, ErrNoDerivation
	}
	name, pre, err := fingerprintInput(body[0], body)
	if err != nil {
		return nil, err
	}
	return hash.Digest(name, pre, body)
}

// KeyID derives the 8 octet key id of the public key packet body. Version 2
// and 3 ids are the low 64 bits of the RSA modulus.
func KeyID(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, ErrNoDerivation
	}
	switch body[0] {
	case 2, 3:
		r := NewBuffer(body)
		// version, created, validity days
		if _, err := r.Next("key header", 7); err != nil {
			return nil, err
		}
		alg, err := r.Byte("public key algorithm")
		if err != nil {
			return nil, err
		}
		if alg != PKALG_RSA && alg != PKALG_RSA_E && alg != PKALG_RSA_S {
			return nil, fmt.Errorf("%w: v3 key with algorithm %d", ErrNoDerivation, alg)
		}
		n, err := r.MPI("rsa n")
		if err != nil {
			return nil, err
		}
		if len(n.Bytes) < 8 {
			return nil, fmt.Errorf("%w: short rsa modulus", ErrNoDerivation)
		}
		return n.Bytes[len(n.Bytes)-8:], nil
	case 4:
		fp, err := Fingerprint(body)
		if err != nil {
			return nil, err
		}
		return fp[len(fp)-8:], nil
	case 5, 6:
		fp, err := Fingerprint(body)
		if err != nil {
			return nil, err
		}
		return fp[:8], nil
	}
	return nil, fmt.Errorf("%w: unsupported key version %d", ErrNoDerivation, body[0])
}

// Grip computes the libgcrypt keygrip of RSA, DSA and Elgamal public keys.
// params are the public MPIs in wire order.
func Grip(alg byte, params ...MPI) ([]byte, error) {
	h, err := hash.New("sha1")
	if err != nil {
		return nil, err
	}
	var names string
	switch alg {
	case PKALG_RSA, PKALG_RSA_E, PKALG_RSA_S:
		if len(params) < 1 {
			return nil, ErrNoDerivation
		}
		h.Write(gripValue(params[0].Bytes))
		return h.Sum(nil), nil
	case PKALG_DSA:
		names = "pqgy"
	case PKALG_ELGAMAL, PKALG_ELGAMAL_E:
		names = "pgy"
	default:
		return nil, fmt.Errorf("%w: grip for algorithm %d", ErrNoDerivation, alg)
	}
	if len(params) < len(names) {
		return nil, ErrNoDerivation
	}
	for i := range names {
		writeGripPart(h, names[i], gripValue(params[i].Bytes))
	}
	return h.Sum(nil), nil
}

// ECCGrip computes the keygrip of the public point q on curve c: the curve
// parameters p, a, b, g, n and then q. Unlike the integer grips no sign
// octet is added. A compact curve point loses its 0x40 prefix.
func ECCGrip(c registry.Curve, q []byte) ([]byte, error) {
	if c.P == "" || len(q) == 0 {
		return nil, ErrNoDerivation
	}
	h, err := hash.New("sha1")
	if err != nil {
		return nil, err
	}
	parts := []struct {
		name byte
		hex  string
	}{
		{'p', c.P}, {'a', c.A}, {'b', c.B}, {'g', "04" + c.GX + c.GY}, {'n', c.N},
	}
	for _, part := range parts {
		v, err := hex.DecodeString(part.hex)
		if err != nil {
			return nil, fmt.Errorf("%w: curve %s: %v", ErrNoDerivation, c.Name, err)
		}
		writeGripPart(h, part.name, bytes.TrimLeft(v, "\x00"))
	}
	if c.Compact && q[0] == 0x40 {
		q = q[1:]
	}
	writeGripPart(h, 'q', bytes.TrimLeft(q, "\x00"))
	return h.Sum(nil), nil
}

func writeGripPart(w io.Writer, name byte, v []byte) {
	fmt.Fprintf(w, "(1:%c%d:", name, len(v))
	w.Write(v)
	w.Write([]byte(")"))
}

// gripValue strips leading zero octets and prepends one when the top bit is
// set, as a signed S-expression integer.
func gripValue(b []byte) []byte {
	b = bytes.TrimLeft(b, "\x00")
	if len(b) > 0 && b[0]&0x80 != 0 {
		return append([]byte{0}, b...)
	}
	return b
}
