package registry

import "encoding/hex"

// Unknown is returned for any code a table does not name.
const Unknown = "Unknown"

// Table maps an OpenPGP wire code to its human label.
type Table map[int]string

// Lookup returns the label for code, or Unknown.
func (t Table) Lookup(code int) string {
	if s, ok := t[code]; ok {
		return s
	}
	return Unknown
}

// Lookup is the package level form of Table.Lookup.
func Lookup(t Table, code int) string { return t.Lookup(code) }

var PacketTags = Table{
	0:  "Reserved",
	1:  "Public-Key Encrypted Session Key",
	2:  "Signature",
	3:  "Symmetric-Key Encrypted Session Key",
	4:  "One-Pass Signature",
	5:  "Secret Key",
	6:  "Public Key",
	7:  "Secret Subkey",
	8:  "Compressed Data",
	9:  "Symmetrically Encrypted Data",
	10: "Marker",
	11: "Literal Data",
	12: "Trust",
	13: "User ID",
	14: "Public Subkey",
	15: "reserved2",
	16: "reserved3",
	17: "User Attribute",
	18: "Symmetric Encrypted and Integrity Protected Data",
	19: "Modification Detection Code",
	20: "AEAD Encrypted Data Packet",
}

var SignatureTypes = Table{
	0x00: "Signature of a binary document",
	0x01: "Signature of a canonical text document",
	0x02: "Standalone signature",
	0x10: "Generic User ID certification",
	0x11: "Personal User ID certification",
	0x12: "Casual User ID certification",
	0x13: "Positive User ID certification",
	0x18: "Subkey Binding Signature",
	0x19: "Primary Key Binding Signature",
	0x1F: "Direct-key signature",
	0x20: "Key revocation signature",
	0x28: "Subkey revocation signature",
	0x30: "Certification revocation signature",
	0x40: "Timestamp signature",
	0x50: "Third-Party Confirmation signature",
}

var SubpacketTypes = Table{
	2:  "signature creation time",
	3:  "signature expiration time",
	4:  "exportable certification",
	5:  "trust signature",
	6:  "regular expression",
	7:  "revocable",
	9:  "key expiration time",
	11: "preferred symmetric algorithms",
	12: "revocation key",
	16: "issuer key ID",
	20: "notation data",
	21: "preferred hash algorithms",
	22: "preferred compression algorithms",
	23: "key server preferences",
	24: "preferred key server",
	25: "primary user ID",
	26: "policy URI",
	27: "key flags",
	28: "signer's user ID",
	29: "reason for revocation",
	30: "features",
	31: "signature target",
	32: "embedded signature",
	33: "issuer fingerprint",
	34: "preferred AEAD algorithms",
	35: "intended recipient fingerprint",
	39: "preferred AEAD ciphersuites",
}

var KeyTypes = Table{
	5:  "Secret key",
	6:  "Public key",
	7:  "Secret subkey",
	14: "Public subkey",
}

var PublicKeyAlgorithms = Table{
	1:  "RSA (Encrypt or Sign)",
	2:  "RSA (Encrypt-Only)",
	3:  "RSA (Sign-Only)",
	16: "Elgamal (Encrypt-Only)",
	17: "DSA",
	18: "ECDH",
	19: "ECDSA",
	20: "Elgamal",
	21: "Reserved for DH (X9.42)",
	22: "EdDSA",
	25: "X25519",
	26: "X448",
	27: "Ed25519",
	28: "Ed448",
	30: "ML-DSA-65 + Ed25519",
	31: "ML-DSA-87 + Ed448",
	32: "SLH-DSA-SHAKE-128s",
	33: "SLH-DSA-SHAKE-128f",
	34: "SLH-DSA-SHAKE-256s",
	35: "ML-KEM-768 + X25519",
	36: "ML-KEM-1024 + X448",
	99: "SM2",
}

var SymmetricAlgorithms = Table{
	0:   "Plaintext",
	1:   "IDEA",
	2:   "TripleDES",
	3:   "CAST5",
	4:   "Blowfish",
	7:   "AES-128",
	8:   "AES-192",
	9:   "AES-256",
	10:  "Twofish",
	11:  "Camellia-128",
	12:  "Camellia-192",
	13:  "Camellia-256",
	105: "SM4",
}

var HashAlgorithms = Table{
	1:   "MD5",
	2:   "SHA1",
	3:   "RIPEMD160",
	8:   "SHA256",
	9:   "SHA384",
	10:  "SHA512",
	11:  "SHA224",
	12:  "SHA3-256",
	14:  "SHA3-512",
	105: "SM3",
}

var CompressionAlgorithms = Table{
	0: "Uncompressed",
	1: "ZIP",
	2: "ZLib",
	3: "BZip2",
}

var AEADAlgorithms = Table{
	0: "None",
	1: "EAX",
	2: "OCB",
	3: "GCM",
}

var RevocationReasons = Table{
	0:  "No reason",
	1:  "Superseded",
	2:  "Compromised",
	3:  "Retired",
	32: "No longer valid",
}

// Curve names an elliptic curve and carries the domain parameters a keygrip
// hashes, as big-endian hex. GX and GY are padded to the field size.
type Curve struct {
	Name       string
	P, A, B, N string
	GX, GY     string
	// Compact curves encode public points with a 0x40 prefix octet.
	Compact bool
}

// curves is keyed by the hex form of the DER OID body carried in key packets.
var curves = map[string]Curve{
	"2a8648ce3d030107": {
		Name: "NIST P-256",
		P:    "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		A:    "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
		B:    "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
		GX:   "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		GY:   "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		N:    "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
	},
	"2b81040022": {
		Name: "NIST P-384",
		P:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff",
		A:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000fffffffc",
		B:    "b3312fa7e23ee7e4988e056be3f82d19181d9c6efe8141120314088f5013875ac656398d8a2ed19d2a85c8edd3ec2aef",
		GX:   "aa87ca22be8b05378eb1c71ef320ad746e1d3b628ba79b9859f741e082542a385502f25dbf55296c3a545e3872760ab7",
		GY:   "3617de4a96262c6f5d9e98bf9292dc29f8f41dbd289a147ce9da3113b5f0b8c00a60b1ce1d7e819d7a431d7c90ea0e5f",
		N:    "ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973",
	},
	"2b81040023": {
		Name: "NIST P-521",
		P:    "01ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		A:    "01fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffc",
		B:    "51953eb9618e1c9a1f929a21a0b68540eea2da725b99b315f3b8b489918ef109e156193951ec7e937b1652c0bd3bb1bf073573df883d2c34f1ef451fd46b503f00",
		GX:   "00c6858e06b70404e9cd9e3ecb662395b4429c648139053fb521f828af606b4d3dbaa14b5e77efe75928fe1dc127a2ffa8de3348b3c1856a429bf97e7e31c2e5bd66",
		GY:   "011839296a789a3bc0045c8a5fb42c7d1bd998f54449579b446817afbd17273e662c97ee72995ef42640c550b9013fad0761353c7086a272c24088be94769fd16650",
		N:    "01fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffa51868783bf2f966b7fcc0148f709a5d03bb5c9b8899c47aebb6fb71e91386409",
	},
	"2b2403030208010107": {
		Name: "brainpoolP256r1",
		P:    "a9fb57dba1eea9bc3e660a909d838d726e3bf623d52620282013481d1f6e5377",
		A:    "7d5a0975fc2c3057eef67530417affe7fb8055c126dc5c6ce94a4b44f330b5d9",
		B:    "26dc5c6ce94a4b44f330b5d9bbd77cbf958416295cf7e1ce6bccdc18ff8c07b6",
		GX:   "8bd2aeb9cb7e57cb2c4b482ffc81b7afb9de27e1e3bd23c23a4453bd9ace3262",
		GY:   "547ef835c3dac4fd97f8461a14611dc9c27745132ded8e545c1d54c72f046997",
		N:    "a9fb57dba1eea9bc3e660a909d838d718c397aa3b561a6f7901e0e82974856a7",
	},
	"2b240303020801010b": {
		Name: "brainpoolP384r1",
		P:    "8cb91e82a3386d280f5d6f7e50e641df152f7109ed5456b412b1da197fb71123acd3a729901d1a71874700133107ec53",
		A:    "7bc382c63d8c150c3c72080ace05afa0c2bea28e4fb22787139165efba91f90f8aa5814a503ad4eb04a8c7dd22ce2826",
		B:    "04a8c7dd22ce28268b39b55416f0447c2fb77de107dcd2a62e880ea53eeb62d57cb4390295dbc9943ab78696fa504c11",
		GX:   "1d1c64f068cf45ffa2a63a81b7c13f6b8847a3e77ef14fe3db7fcafe0cbd10e8e826e03436d646aaef87b2e247d4af1e",
		GY:   "8abe1d7520f9c2a45cb1eb8e95cfd55262b70b29feec5864e19c054ff99129280e4646217791811142820341263c5315",
		N:    "8cb91e82a3386d280f5d6f7e50e641df152f7109ed5456b31f166e6cac0425a7cf3ab6af6b7fc3103b883202e9046565",
	},
	"2b240303020801010d": {
		Name: "brainpoolP512r1",
		P:    "aadd9db8dbe9c48b3fd4e6ae33c9fc07cb308db3b3c9d20ed6639cca703308717d4d9b009bc66842aecda12ae6a380e62881ff2f2d82c68528aa6056583a48f3",
		A:    "7830a3318b603b89e2327145ac234cc594cbdd8d3df91610a83441caea9863bc2ded5d5aa8253aa10a2ef1c98b9ac8b57f1117a72bf2c7b9e7c1ac4d77fc94ca",
		B:    "3df91610a83441caea9863bc2ded5d5aa8253aa10a2ef1c98b9ac8b57f1117a72bf2c7b9e7c1ac4d77fc94cadc083e67984050b75ebae5dd2809bd638016f723",
		GX:   "81aee4bdd82ed9645a21322e9c4c6a9385ed9f70b5d916c1b43b62eef4d0098eff3b1f78e2d0d48d50d1687b93b97d5f7c6d5047406a5e688b352209bcb9f822",
		GY:   "7dde385d566332ecc0eabfa9cf7822fdf209f70024a57b1aa000c55b881f8111b2dcde494a5f485e5bca4bd88a2763aed1ca2b2fa8f0540678cd1e0f3ad80892",
		N:    "aadd9db8dbe9c48b3fd4e6ae33c9fc07cb308db3b3c9d20ed6639cca70330870553e5c414ca92619418661197fac10471db1d381085ddaddb58796829ca90069",
	},
	"2b8104000a": {
		Name: "secp256k1",
		P:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		A:    "00",
		B:    "07",
		GX:   "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		GY:   "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		N:    "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
	},
	"2b06010401da470f01": {
		Name:    "Ed25519",
		P:       "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
		A:       "01",
		B:       "2dfc9311d490018c7338bf8688861767ff8ff5b2bebe27548a14b235eca6874a",
		GX:      "216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a",
		GY:      "6666666666666666666666666666666666666666666666666666666666666658",
		N:       "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed",
		Compact: true,
	},
	"2b060104019755010501": {
		Name:    "Curve25519",
		P:       "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
		A:       "01db41",
		B:       "01",
		GX:      "0000000000000000000000000000000000000000000000000000000000000009",
		GY:      "20ae19a1b8a086b4e01edd2c7748d14c923d4d7e6d7c61b229e9c5a27eced3d9",
		N:       "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed",
		Compact: true,
	},
	"2a811ccf5501822d": {
		Name: "SM2 P-256",
		P:    "fffffffeffffffffffffffffffffffffffffffff00000000ffffffffffffffff",
		A:    "fffffffeffffffffffffffffffffffffffffffff00000000fffffffffffffffc",
		B:    "28e9fa9e9d9f5e344d5a9e4bcf6509a7f39789f515ab8f92ddbcbd414d940e93",
		GX:   "32c4ae2c1f1981195f9904466a39c9948fe30bbff2660be1715a4589334c74c7",
		GY:   "bc3736a2f4f6779c59bdcee36b692153d0a9877cc62a474002df32e52139f0a0",
		N:    "fffffffeffffffffffffffffffffffff7203df6b21c6052b53bbf40939d54123",
	},
	"2b6571": {
		Name:    "Ed448",
		P:       "fffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		A:       "01",
		B:       "fffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffffffffffffffffffffffffffffffffffffffffffffffff6756",
		GX:      "4f1970c66bed0ded221d15a622bf36da9e146570470f1767ea6de324a3d3a46412ae1af72ab66511433b80e18b00938e2626a82bc70cc05e",
		GY:      "693f46716eb6bc248876203756c9c7624bea73736ca3984087789c1e05a0c2d73ad3ff1ce67c39c4fdbd132c4ed7c8ad9808795bf230fa14",
		N:       "3fffffffffffffffffffffffffffffffffffffffffffffffffffffff7cca23e9c44edb49aed63690216cc2728dc58f552378c292ab5844f3",
		Compact: true,
	},
	"2b656f": {
		Name:    "X448",
		P:       "fffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		A:       "98a9",
		B:       "01",
		GX:      "0000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000005",
		GY:      "7d235d1295f5b1f66c98ab6e58326fcecbae5d34f55545d060f75dc28df3f6edb8027e2346430d211312c4b150677af76fd7223d457b5b1a",
		N:       "3fffffffffffffffffffffffffffffffffffffffffffffffffffffff7cca23e9c44edb49aed63690216cc2728dc58f552378c292ab5844f3",
		Compact: true,
	},
}

// CurveName returns the name of the curve with the given OID, or "unknown".
func CurveName(oid []byte) string {
	if c, ok := curves[hex.EncodeToString(oid)]; ok {
		return c.Name
	}
	return "unknown"
}

// CurveByOID returns the parameters of the curve with the given OID.
func CurveByOID(oid []byte) (Curve, bool) {
	c, ok := curves[hex.EncodeToString(oid)]
	return c, ok
}

// CurveByName returns the parameters of the named curve.
func CurveByName(name string) (Curve, bool) {
	for _, c := range curves {
		if c.Name == name {
			return c, true
		}
	}
	return Curve{}, false
}
