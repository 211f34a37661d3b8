package pgp

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/dh/x448"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/ed448"
)

// NativeKeySize returns the public and secret material sizes of the
// algorithms whose keys are fixed-length octet strings.
func NativeKeySize(alg byte) (pub, sec int, ok bool) {
	switch alg {
	case PKALG_X25519:
		return x25519.Size, x25519.Size, true
	case PKALG_X448:
		return x448.Size, x448.Size, true
	case PKALG_ED25519:
		return ed25519.PublicKeySize, ed25519.SeedSize, true
	case PKALG_ED448:
		return ed448.PublicKeySize, ed448.SeedSize, true
	}
	return 0, 0, false
}

// PublicKeyBodyV6 builds a v6 public key body for a native key:
// version(6) || created(4) || alg(1) || pubMatLen(4) || pubMat
func PublicKeyBodyV6(alg byte, created time.Time, pub []byte) ([]byte, error) {
	size, _, ok := NativeKeySize(alg)
	if !ok {
		return nil, errors.New("unsupported alg for v6 key")
	}
	if len(pub) != size {
		return nil, errors.New("bad public key size")
	}
	b := make([]byte, 0, 1+4+1+4+size)
	b = append(b, 6)
	b = binary.BigEndian.AppendUint32(b, uint32(created.Unix()))
	b = append(b, alg)
	b = binary.BigEndian.AppendUint32(b, uint32(size))
	return append(b, pub...), nil
}

// BuildSecretKeyV6 frames a v6 Secret-Key (tag 5) packet with S2K usage 0:
// the public fields, the usage octet, then the secret material.
func BuildSecretKeyV6(alg byte, created time.Time, pub, priv []byte) ([]byte, error) {
	pubBody, err := PublicKeyBodyV6(alg, created, pub)
	if err != nil {
		return nil, err
	}
	_, need, _ := NativeKeySize(alg)
	if len(priv) != need {
		return nil, errors.New("bad secret size")
	}
	body := make([]byte, 0, len(pubBody)+1+len(priv))
	body = append(body, pubBody...)
	body = append(body, S2KU_NONE)
	body = append(body, priv...)
	return Packet(PKT_SECRET_KEY, body), nil
}
