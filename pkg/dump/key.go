package dump

import (
	"example.com/pgpdump/pkg/pgp"
)

// readKey decodes a public or secret key or subkey body and derives its
// identifiers.
func (c *Context) readKey(tag byte, r *pgp.Buffer) (*Key, error) {
	k := &Key{Tag: tag}
	if err := readPublicKey(r, k); err != nil {
		return k, err
	}
	if pgp.IsSecretKeyTag(tag) {
		k.Secret = &SecretInfo{}
		if err := readSecretInfo(r, k.Version, k.Secret); err != nil {
			return k, err
		}
	} else if err := r.Done("public key material"); err != nil {
		return k, err
	}
	c.deriveIDs(k)
	return k, nil
}

func readPublicKey(r *pgp.Buffer, k *Key) error {
	start := r.Offset()
	var err error
	if k.Version, err = r.Byte("key version"); err != nil {
		return err
	}
	if k.Version < 2 || k.Version > 6 {
		return r.Errorf("key version", "unknown version %d", k.Version)
	}
	if k.Created, err = r.Uint32("creation time"); err != nil {
		return err
	}
	if k.Version < 4 {
		if k.ValidDays, err = r.Uint16("v3 validity days"); err != nil {
			return err
		}
	}
	if k.Algorithm, err = r.Byte("public key algorithm"); err != nil {
		return err
	}
	if k.Version >= 5 {
		if k.MaterialLen, err = r.Uint32("public key material length"); err != nil {
			return err
		}
		// bound the material so unknown algorithms only swallow their own octets
		mat, err := r.Next("public key material", int(k.MaterialLen))
		if err != nil {
			return err
		}
		mr := pgp.NewBuffer(mat)
		if k.Material, err = readKeyMaterial(mr, k.Algorithm); err != nil {
			return err
		}
		if err = mr.Done("public key material"); err != nil {
			return err
		}
	} else if k.Material, err = readKeyMaterial(r, k.Algorithm); err != nil {
		return err
	}
	k.PublicBody = r.Since(start)
	return nil
}

func readSecretInfo(r *pgp.Buffer, version byte, s *SecretInfo) error {
	var err error
	if s.Usage, err = r.Byte("s2k usage"); err != nil {
		return err
	}
	if version >= 5 && s.Usage != pgp.S2KU_NONE {
		if s.S2KLen, err = r.Byte("s2k parameters length"); err != nil {
			return err
		}
	}
	paramsStart := r.Offset()
	switch s.Usage {
	case pgp.S2KU_NONE:
	case pgp.S2KU_AEAD, pgp.S2KU_SHA1, pgp.S2KU_CHECKSUM:
		if s.SymAlg, err = r.Byte("symmetric algorithm"); err != nil {
			return err
		}
		if s.Usage == pgp.S2KU_AEAD {
			if s.AEADAlg, err = r.Byte("aead algorithm"); err != nil {
				return err
			}
		}
		if version == 6 && s.Usage != pgp.S2KU_CHECKSUM {
			if _, err = r.Byte("s2k specifier length"); err != nil {
				return err
			}
		}
		if s.S2K, err = pgp.ReadS2K(r); err != nil {
			return err
		}
		if s.S2K.Specifier == pgp.S2K_GNU {
			break
		}
		ivLen := pgp.BlockSize(s.SymAlg)
		switch {
		case version == 5:
			// v5 pads the AEAD nonce to the block size; the IV ends the
			// counted parameters
			ivLen = int(s.S2KLen) - (r.Offset() - paramsStart)
			if ivLen <= 0 {
				return r.Errorf("cipher iv", "s2k parameters length %d too short", s.S2KLen)
			}
		case s.Usage == pgp.S2KU_AEAD:
			ivLen = pgp.AEADNonceSize(s.AEADAlg)
		}
		if ivLen == 0 {
			return r.Errorf("cipher iv", "unknown algorithm")
		}
		if s.IV, err = r.Next("cipher iv", ivLen); err != nil {
			return err
		}
	default:
		// legacy: the usage octet is the symmetric algorithm, keyed by MD5
		s.SymAlg = s.Usage
		ivLen := pgp.BlockSize(s.SymAlg)
		if ivLen == 0 {
			return r.Errorf("cipher iv", "unknown algorithm")
		}
		if s.IV, err = r.Next("cipher iv", ivLen); err != nil {
			return err
		}
	}
	if version == 5 {
		if s.SecretLen, err = r.Uint32("secret key data length"); err != nil {
			return err
		}
	}
	s.DataLen = len(r.Rest())
	return nil
}

func (c *Context) deriveIDs(k *Key) {
	k.KeyID, k.KeyIDErr = pgp.KeyID(k.PublicBody)
	if !c.DumpGrips {
		return
	}
	if k.Version > 3 {
		k.Fingerprint, k.FprErr = pgp.Fingerprint(k.PublicBody)
	}
	k.Grip, k.GripErr = keyGrip(k.Algorithm, k.Material)
}
