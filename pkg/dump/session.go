package dump

import (
	"example.com/pgpdump/pkg/pgp"
)

func readPKESK(r *pgp.Buffer) (*PKESK, error) {
	p := &PKESK{}
	var err error
	if p.Version, err = r.Byte("pkesk version"); err != nil {
		return p, err
	}
	switch p.Version {
	case 3:
		if p.KeyID, err = r.Next("key id", 8); err != nil {
			return p, err
		}
	case 6:
		n, err := r.Byte("recipient length")
		if err != nil {
			return p, err
		}
		if n > 0 {
			if p.KeyVersion, err = r.Byte("key version"); err != nil {
				return p, err
			}
			if p.Fingerprint, err = r.Next("fingerprint", int(n)-1); err != nil {
				return p, err
			}
		}
	default:
		return p, r.Errorf("pkesk version", "unknown version %d", p.Version)
	}
	if p.Algorithm, err = r.Byte("public key algorithm"); err != nil {
		return p, err
	}
	if p.Material, err = readSessionMaterial(r, p.Algorithm); err != nil {
		return p, err
	}
	return p, r.Done("encrypted material")
}

func readSKESK(r *pgp.Buffer) (*SKESK, error) {
	s := &SKESK{}
	var err error
	if s.Version, err = r.Byte("skesk version"); err != nil {
		return s, err
	}
	switch s.Version {
	case 4, 5, 6:
	default:
		return s, r.Errorf("skesk version", "unknown version %d", s.Version)
	}
	if s.Version == 6 {
		if _, err = r.Byte("parameters length"); err != nil {
			return s, err
		}
	}
	if s.SymAlg, err = r.Byte("symmetric algorithm"); err != nil {
		return s, err
	}
	if s.Version >= 5 {
		if s.AEADAlg, err = r.Byte("aead algorithm"); err != nil {
			return s, err
		}
	}
	if s.Version == 6 {
		if _, err = r.Byte("s2k length"); err != nil {
			return s, err
		}
	}
	if s.S2K, err = pgp.ReadS2K(r); err != nil {
		return s, err
	}
	if s.Version >= 5 {
		n := pgp.AEADNonceSize(s.AEADAlg)
		if n == 0 {
			return s, r.Errorf("aead iv", "unknown aead algorithm %d", s.AEADAlg)
		}
		if s.IV, err = r.Next("aead iv", n); err != nil {
			return s, err
		}
	}
	s.EncryptedKey = r.Rest()
	return s, nil
}
