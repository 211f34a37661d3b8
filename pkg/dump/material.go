package dump

import (
	"example.com/pgpdump/pkg/pgp"
)

// Material is the algorithm specific part of a key, signature or session
// key packet.
type Material interface{ isMaterial() }

func (*RSASignature) isMaterial()       {}
func (*DSASignature) isMaterial()       {}
func (*ECCSignature) isMaterial()       {}
func (*ElgamalSignature) isMaterial()   {}
func (*NativeSignature) isMaterial()    {}
func (*CompositeSignature) isMaterial() {}
func (*RSAKey) isMaterial()             {}
func (*DSAKey) isMaterial()             {}
func (*ElgamalKey) isMaterial()         {}
func (*ECCKey) isMaterial()             {}
func (*ECDHKey) isMaterial()            {}
func (*NativeKey) isMaterial()          {}
func (*CompositeKey) isMaterial()       {}
func (*RSASession) isMaterial()         {}
func (*ElgamalSession) isMaterial()     {}
func (*SM2Session) isMaterial()         {}
func (*ECDHSession) isMaterial()        {}
func (*NativeSession) isMaterial()      {}
func (*CompositeSession) isMaterial()   {}
func (*UnknownMaterial) isMaterial()    {}

type RSASignature struct{ S pgp.MPI }

type DSASignature struct{ R, S pgp.MPI }

// ECCSignature covers ECDSA, EdDSA, SM2 and ECDH-labelled signatures.
type ECCSignature struct{ R, S pgp.MPI }

type ElgamalSignature struct{ R, S pgp.MPI }

// NativeSignature is a fixed-size signature octet string.
type NativeSignature struct {
	Name string
	Sig  []byte
}

type CompositeSignature struct {
	Name string
	ECC  []byte
	PQ   []byte
}

type RSAKey struct{ N, E pgp.MPI }

type DSAKey struct{ P, Q, G, Y pgp.MPI }

type ElgamalKey struct{ P, G, Y pgp.MPI }

type ECCKey struct {
	OID []byte
	P   pgp.MPI
}

type ECDHKey struct {
	OID     []byte
	P       pgp.MPI
	KDFHash byte
	WrapAlg byte
}

type NativeKey struct {
	Name string
	Pub  []byte
}

type CompositeKey struct {
	Name string
	ECC  []byte
	PQ   []byte
}

type RSASession struct{ M pgp.MPI }

type ElgamalSession struct{ G, M pgp.MPI }

type SM2Session struct{ M pgp.MPI }

type ECDHSession struct {
	P pgp.MPI
	M []byte
}

type NativeSession struct {
	Name      string
	Ephemeral []byte
	Wrapped   []byte
}

type CompositeSession struct {
	Name    string
	ECC     []byte
	KEM     []byte
	Wrapped []byte
}

// UnknownMaterial holds the octets of an algorithm the decoder does not
// know.
type UnknownMaterial struct {
	Raw []byte
}
