package pgp

// S2K holds the string-to-key parameters of a session key or secret key.
type S2K struct {
	Specifier byte
	Hash      byte
	Salt      []byte
	Count     byte

	// Argon2
	Passes      byte
	Parallelism byte
	MemoryExp   byte

	// GNU extension (specifier 101)
	GNUExtension byte
	Serial       []byte
	Experimental []byte
}

// Iterations decodes the one-octet iteration count of an iterated S2K.
func (s *S2K) Iterations() uint64 {
	c := uint64(s.Count)
	return (16 + (c & 15)) << ((c >> 4) + 6)
}

// ReadS2K parses an S2K specifier and its parameters.
func ReadS2K(r *Buffer) (*S2K, error) {
	spec, err := r.Byte("s2k specifier")
	if err != nil {
		return nil, err
	}
	s := &S2K{Specifier: spec}
	switch spec {
	case S2K_SIMPLE:
		s.Hash, err = r.Byte("s2k hash algorithm")
	case S2K_SALTED:
		if s.Hash, err = r.Byte("s2k hash algorithm"); err != nil {
			return nil, err
		}
		s.Salt, err = r.Next("s2k salt", 8)
	case S2K_ITERATED:
		if s.Hash, err = r.Byte("s2k hash algorithm"); err != nil {
			return nil, err
		}
		if s.Salt, err = r.Next("s2k salt", 8); err != nil {
			return nil, err
		}
		s.Count, err = r.Byte("s2k iterations")
	case S2K_ARGON2:
		if s.Salt, err = r.Next("argon2 salt", 16); err != nil {
			return nil, err
		}
		var p []byte
		if p, err = r.Next("argon2 parameters", 3); err != nil {
			return nil, err
		}
		s.Passes, s.Parallelism, s.MemoryExp = p[0], p[1], p[2]
	case S2K_GNU:
		err = readGNUExtension(r, s)
	default:
		return nil, r.Errorf("s2k specifier", "unknown specifier %d", spec)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func readGNUExtension(r *Buffer, s *S2K) error {
	var err error
	if s.Hash, err = r.Byte("s2k hash algorithm"); err != nil {
		return err
	}
	gnu, err := r.Next("gnu extension", 3)
	if err != nil {
		return err
	}
	if string(gnu) != "GNU" {
		s.Experimental = gnu
		return nil
	}
	if s.GNUExtension, err = r.Byte("gnu extension number"); err != nil {
		return err
	}
	if s.GNUExtension != S2K_GNU_SMARTCARD {
		return nil
	}
	n, err := r.Byte("card serial length")
	if err != nil {
		return err
	}
	if n > 16 {
		return r.Errorf("card serial length", "serial of %d bytes", n)
	}
	s.Serial, err = r.Next("card serial number", int(n))
	return err
}
