package dump

import (
	"example.com/pgpdump/pkg/pgp"
)

// readSignature decodes a signature packet body. On failure the partially
// decoded signature is returned with the error.
func (c *Context) readSignature(r *pgp.Buffer) (*Signature, error) {
	sig := &Signature{}
	var err error
	if sig.Version, err = r.Byte("signature version"); err != nil {
		return sig, err
	}
	switch sig.Version {
	case 2, 3:
		err = c.readSignatureV3(r, sig)
	case 4, 5, 6:
		err = c.readSignatureV4(r, sig)
	default:
		return sig, r.Errorf("signature version", "unknown version %d", sig.Version)
	}
	if err != nil {
		return sig, err
	}
	if sig.Material, err = readSignatureMaterial(r, sig.PubAlg); err != nil {
		return sig, err
	}
	return sig, r.Done("signature material")
}

func (c *Context) readSignatureV3(r *pgp.Buffer, sig *Signature) error {
	l, err := r.Byte("hashed length")
	if err != nil {
		return err
	}
	if l != 5 {
		return r.Errorf("hashed length", "v3 hashed length %d", l)
	}
	if sig.Type, err = r.Byte("signature type"); err != nil {
		return err
	}
	if sig.Created, err = r.Uint32("creation time"); err != nil {
		return err
	}
	if sig.Signer, err = r.Next("signing key id", 8); err != nil {
		return err
	}
	if sig.PubAlg, err = r.Byte("public key algorithm"); err != nil {
		return err
	}
	if sig.HashAlg, err = r.Byte("hash algorithm"); err != nil {
		return err
	}
	sig.LBits, err = r.Next("lbits", 2)
	return err
}

func (c *Context) readSignatureV4(r *pgp.Buffer, sig *Signature) error {
	var err error
	if sig.Type, err = r.Byte("signature type"); err != nil {
		return err
	}
	if sig.PubAlg, err = r.Byte("public key algorithm"); err != nil {
		return err
	}
	if sig.HashAlg, err = r.Byte("hash algorithm"); err != nil {
		return err
	}
	for _, hashed := range []bool{true, false} {
		area, err := readArea(r, sig.Version, hashed)
		if err != nil {
			return err
		}
		if hashed {
			sig.HashedLen = len(area)
		} else {
			sig.UnhashedLen = len(area)
		}
		sps, err := c.readSubpackets(area, hashed)
		sig.Subpackets = append(sig.Subpackets, sps...)
		if err != nil {
			return err
		}
	}
	if sig.LBits, err = r.Next("lbits", 2); err != nil {
		return err
	}
	if sig.Version == 6 {
		if sig.Salt, err = r.Prefixed("signature salt"); err != nil {
			return err
		}
	}
	return nil
}

func readArea(r *pgp.Buffer, version byte, hashed bool) ([]byte, error) {
	field := "unhashed subpackets"
	if hashed {
		field = "hashed subpackets"
	}
	var n int
	if version == 6 {
		l, err := r.Uint32(field)
		if err != nil {
			return nil, err
		}
		n = int(l)
	} else {
		l, err := r.Uint16(field)
		if err != nil {
			return nil, err
		}
		n = int(l)
	}
	return r.Next(field, n)
}
