package dump

import (
	"example.com/pgpdump/pkg/pgp"
)

const markerContents = "PGP"

func readOnePass(r *pgp.Buffer) (*OnePass, error) {
	o := &OnePass{}
	var err error
	if o.Version, err = r.Byte("one-pass version"); err != nil {
		return o, err
	}
	if o.Version != 3 && o.Version != 6 {
		return o, r.Errorf("one-pass version", "unknown version %d", o.Version)
	}
	if o.Type, err = r.Byte("signature type"); err != nil {
		return o, err
	}
	if o.HashAlg, err = r.Byte("hash algorithm"); err != nil {
		return o, err
	}
	if o.PubAlg, err = r.Byte("public key algorithm"); err != nil {
		return o, err
	}
	if o.Version == 3 {
		if o.Signer, err = r.Next("signing key id", 8); err != nil {
			return o, err
		}
	} else {
		if o.Salt, err = r.Prefixed("salt"); err != nil {
			return o, err
		}
		if o.Fingerprint, err = r.Next("fingerprint", 32); err != nil {
			return o, err
		}
	}
	nested, err := r.Byte("nested")
	if err != nil {
		return o, err
	}
	o.Nested = nested != 0
	return o, r.Done("one-pass signature")
}

func readMarker(r *pgp.Buffer) (*Marker, error) {
	m := &Marker{Valid: string(r.Rest()) == markerContents}
	if !m.Valid {
		return m, r.Errorf("marker", "invalid marker contents")
	}
	return m, nil
}

func readUserID(tag byte, r *pgp.Buffer) (*UserID, error) {
	return &UserID{Tag: tag, Data: r.Rest()}, nil
}
