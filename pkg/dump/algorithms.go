package dump

import (
	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/dh/x448"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/ed448"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"example.com/pgpdump/pkg/pgp"
	"example.com/pgpdump/pkg/registry"
)

// fixedSizes describes an algorithm whose key, signature and session key
// material are fixed-length octet strings rather than MPIs. Composite
// algorithms carry a traditional and a post-quantum part.
type fixedSizes struct {
	name string
	// curve names the registry curve a native key lies on
	curve string

	eccPub, pqPub int
	eccSig, pqSig int
	// session key: ephemeral ECC key and KEM ciphertext
	eccCT, kemCT int
}

var fixedAlgorithms = map[byte]fixedSizes{
	pgp.PKALG_X25519:  {name: "x25519", curve: "Curve25519", eccPub: nativePub(pgp.PKALG_X25519), eccCT: x25519.Size},
	pgp.PKALG_X448:    {name: "x448", curve: "X448", eccPub: nativePub(pgp.PKALG_X448), eccCT: x448.Size},
	pgp.PKALG_ED25519: {name: "ed25519", curve: "Ed25519", eccPub: nativePub(pgp.PKALG_ED25519), eccSig: ed25519.SignatureSize},
	pgp.PKALG_ED448:   {name: "ed448", curve: "Ed448", eccPub: nativePub(pgp.PKALG_ED448), eccSig: ed448.SignatureSize},
	pgp.PKALG_MLDSA65_ED25519: {
		name:   "mldsa65-ed25519",
		eccPub: nativePub(pgp.PKALG_ED25519), pqPub: mldsa65.Scheme().PublicKeySize(),
		eccSig: ed25519.SignatureSize, pqSig: mldsa65.Scheme().SignatureSize(),
	},
	pgp.PKALG_MLDSA87_ED448: {
		name:   "mldsa87-ed448",
		eccPub: nativePub(pgp.PKALG_ED448), pqPub: mldsa87.Scheme().PublicKeySize(),
		eccSig: ed448.SignatureSize, pqSig: mldsa87.Scheme().SignatureSize(),
	},
	pgp.PKALG_SLHDSA_128S: {name: "slhdsa-shake128s", eccPub: 32, eccSig: 7856},
	pgp.PKALG_SLHDSA_128F: {name: "slhdsa-shake128f", eccPub: 32, eccSig: 17088},
	pgp.PKALG_SLHDSA_256S: {name: "slhdsa-shake256s", eccPub: 64, eccSig: 29792},
	pgp.PKALG_MLKEM768_X25519: {
		name:   "mlkem768-x25519",
		eccPub: nativePub(pgp.PKALG_X25519), pqPub: mlkem768.Scheme().PublicKeySize(),
		eccCT: x25519.Size, kemCT: mlkem768.Scheme().CiphertextSize(),
	},
	pgp.PKALG_MLKEM1024_X448: {
		name:   "mlkem1024-x448",
		eccPub: nativePub(pgp.PKALG_X448), pqPub: mlkem1024.Scheme().PublicKeySize(),
		eccCT: x448.Size, kemCT: mlkem1024.Scheme().CiphertextSize(),
	},
}

func nativePub(alg byte) int {
	pub, _, _ := pgp.NativeKeySize(alg)
	return pub
}

func isRSA(alg byte) bool {
	return alg == pgp.PKALG_RSA || alg == pgp.PKALG_RSA_E || alg == pgp.PKALG_RSA_S
}

func isElgamal(alg byte) bool {
	return alg == pgp.PKALG_ELGAMAL || alg == pgp.PKALG_ELGAMAL_E
}

func readSignatureMaterial(r *pgp.Buffer, alg byte) (Material, error) {
	var err error
	switch {
	case isRSA(alg):
		m := &RSASignature{}
		m.S, err = r.MPI("rsa s")
		return m, err
	case alg == pgp.PKALG_DSA:
		m := &DSASignature{}
		if m.R, err = r.MPI("dsa r"); err != nil {
			return nil, err
		}
		m.S, err = r.MPI("dsa s")
		return m, err
	case alg == pgp.PKALG_EDDSA, alg == pgp.PKALG_ECDSA, alg == pgp.PKALG_SM2, alg == pgp.PKALG_ECDH:
		m := &ECCSignature{}
		if m.R, err = r.MPI("ecc r"); err != nil {
			return nil, err
		}
		m.S, err = r.MPI("ecc s")
		return m, err
	case isElgamal(alg):
		m := &ElgamalSignature{}
		if m.R, err = r.MPI("eg r"); err != nil {
			return nil, err
		}
		m.S, err = r.MPI("eg s")
		return m, err
	}
	f, ok := fixedAlgorithms[alg]
	if !ok || f.eccSig == 0 {
		return &UnknownMaterial{Raw: r.Rest()}, nil
	}
	ecc, err := r.Next(f.name+" signature", f.eccSig)
	if err != nil {
		return nil, err
	}
	if f.pqSig == 0 {
		return &NativeSignature{Name: f.name, Sig: ecc}, nil
	}
	pq, err := r.Next(f.name+" signature", f.pqSig)
	if err != nil {
		return nil, err
	}
	return &CompositeSignature{Name: f.name, ECC: ecc, PQ: pq}, nil
}

func readKeyMaterial(r *pgp.Buffer, alg byte) (Material, error) {
	var err error
	switch {
	case isRSA(alg):
		m := &RSAKey{}
		if m.N, err = r.MPI("rsa n"); err != nil {
			return nil, err
		}
		m.E, err = r.MPI("rsa e")
		return m, err
	case alg == pgp.PKALG_DSA:
		m := &DSAKey{}
		for _, p := range []struct {
			dst  *pgp.MPI
			name string
		}{{&m.P, "dsa p"}, {&m.Q, "dsa q"}, {&m.G, "dsa g"}, {&m.Y, "dsa y"}} {
			if *p.dst, err = r.MPI(p.name); err != nil {
				return nil, err
			}
		}
		return m, nil
	case isElgamal(alg):
		m := &ElgamalKey{}
		for _, p := range []struct {
			dst  *pgp.MPI
			name string
		}{{&m.P, "eg p"}, {&m.G, "eg g"}, {&m.Y, "eg y"}} {
			if *p.dst, err = r.MPI(p.name); err != nil {
				return nil, err
			}
		}
		return m, nil
	case alg == pgp.PKALG_ECDSA, alg == pgp.PKALG_EDDSA, alg == pgp.PKALG_SM2:
		m := &ECCKey{}
		if m.OID, err = readCurveOID(r); err != nil {
			return nil, err
		}
		m.P, err = r.MPI("ecc p")
		return m, err
	case alg == pgp.PKALG_ECDH:
		m := &ECDHKey{}
		if m.OID, err = readCurveOID(r); err != nil {
			return nil, err
		}
		if m.P, err = r.MPI("ecdh p"); err != nil {
			return nil, err
		}
		kdf, err := r.Prefixed("ecdh kdf parameters")
		if err != nil {
			return nil, err
		}
		// reserved octet, hash, key wrap algorithm
		if len(kdf) != 3 || kdf[0] != 1 {
			return nil, r.Errorf("ecdh kdf parameters", "unsupported kdf encoding")
		}
		m.KDFHash, m.WrapAlg = kdf[1], kdf[2]
		return m, nil
	}
	f, ok := fixedAlgorithms[alg]
	if !ok {
		return &UnknownMaterial{Raw: r.Rest()}, nil
	}
	ecc, err := r.Next(f.name+" public key", f.eccPub)
	if err != nil {
		return nil, err
	}
	if f.pqPub == 0 {
		return &NativeKey{Name: f.name, Pub: ecc}, nil
	}
	pq, err := r.Next(f.name+" public key", f.pqPub)
	if err != nil {
		return nil, err
	}
	return &CompositeKey{Name: f.name, ECC: ecc, PQ: pq}, nil
}

func readCurveOID(r *pgp.Buffer) ([]byte, error) {
	oid, err := r.Prefixed("curve oid")
	if err != nil {
		return nil, err
	}
	if len(oid) == 0 || len(oid) == 0xFF {
		return nil, r.Errorf("curve oid", "reserved oid length %d", len(oid))
	}
	return oid, nil
}

func readSessionMaterial(r *pgp.Buffer, alg byte) (Material, error) {
	var err error
	switch {
	case isRSA(alg):
		m := &RSASession{}
		m.M, err = r.MPI("rsa m")
		return m, err
	case isElgamal(alg):
		m := &ElgamalSession{}
		if m.G, err = r.MPI("eg g"); err != nil {
			return nil, err
		}
		m.M, err = r.MPI("eg m")
		return m, err
	case alg == pgp.PKALG_SM2:
		m := &SM2Session{}
		m.M, err = r.MPI("sm2 m")
		return m, err
	case alg == pgp.PKALG_ECDH:
		m := &ECDHSession{}
		if m.P, err = r.MPI("ecdh p"); err != nil {
			return nil, err
		}
		m.M, err = r.Prefixed("ecdh m")
		return m, err
	}
	f, ok := fixedAlgorithms[alg]
	if !ok || f.eccCT == 0 {
		return &UnknownMaterial{Raw: r.Rest()}, nil
	}
	eph, err := r.Next(f.name+" ephemeral key", f.eccCT)
	if err != nil {
		return nil, err
	}
	var kem []byte
	if f.kemCT != 0 {
		if kem, err = r.Next(f.name+" kem ciphertext", f.kemCT); err != nil {
			return nil, err
		}
	}
	wrapped, err := r.Prefixed(f.name + " wrapped session key")
	if err != nil {
		return nil, err
	}
	if kem == nil {
		return &NativeSession{Name: f.name, Ephemeral: eph, Wrapped: wrapped}, nil
	}
	return &CompositeSession{Name: f.name, ECC: eph, KEM: kem, Wrapped: wrapped}, nil
}

// keyGrip computes the keygrip of the key material. Composite and unknown
// algorithms have none.
func keyGrip(alg byte, m Material) ([]byte, error) {
	switch m := m.(type) {
	case *RSAKey:
		return pgp.Grip(alg, m.N, m.E)
	case *DSAKey:
		return pgp.Grip(alg, m.P, m.Q, m.G, m.Y)
	case *ElgamalKey:
		return pgp.Grip(alg, m.P, m.G, m.Y)
	case *ECCKey:
		return curveGrip(m.OID, m.P.Bytes)
	case *ECDHKey:
		return curveGrip(m.OID, m.P.Bytes)
	case *NativeKey:
		c, ok := registry.CurveByName(fixedAlgorithms[alg].curve)
		if !ok {
			return nil, pgp.ErrNoDerivation
		}
		return pgp.ECCGrip(c, m.Pub)
	}
	return nil, pgp.ErrNoDerivation
}

func curveGrip(oid, q []byte) ([]byte, error) {
	c, ok := registry.CurveByOID(oid)
	if !ok {
		return nil, pgp.ErrNoDerivation
	}
	return pgp.ECCGrip(c, q)
}
