package pgp

// Packet tags (RFC 9580 section 5).
const (
	PKT_PKESK      = 1
	PKT_SIGNATURE  = 2
	PKT_SKESK      = 3
	PKT_ONE_PASS   = 4
	PKT_SECRET_KEY = 5
	PKT_PUBLIC_KEY = 6
	PKT_SECRET_SUB = 7
	PKT_COMPRESSED = 8
	PKT_SE_DATA    = 9
	PKT_MARKER     = 10
	PKT_LITERAL    = 11
	PKT_TRUST      = 12
	PKT_USER_ID    = 13
	PKT_PUBLIC_SUB = 14
	PKT_USER_ATTR  = 17
	PKT_SEIPD      = 18
	PKT_MDC        = 19
	PKT_AEAD_DATA  = 20
)

// Algorithm IDs (RFC 9580 / IANA OpenPGP registry)
const (
	PKALG_RSA             = 1
	PKALG_RSA_E           = 2
	PKALG_RSA_S           = 3
	PKALG_ELGAMAL_E       = 16
	PKALG_DSA             = 17
	PKALG_ECDH            = 18
	PKALG_ECDSA           = 19
	PKALG_ELGAMAL         = 20
	PKALG_EDDSA           = 22
	PKALG_X25519          = 25
	PKALG_X448            = 26
	PKALG_ED25519         = 27
	PKALG_ED448           = 28
	PKALG_MLDSA65_ED25519 = 30
	PKALG_MLDSA87_ED448   = 31
	PKALG_SLHDSA_128S     = 32
	PKALG_SLHDSA_128F     = 33
	PKALG_SLHDSA_256S     = 34
	PKALG_MLKEM768_X25519 = 35
	PKALG_MLKEM1024_X448  = 36
	PKALG_SM2             = 99
)

const (
	SYM_PLAINTEXT   = 0
	SYM_IDEA        = 1
	SYM_3DES        = 2
	SYM_CAST5       = 3
	SYM_BLOWFISH    = 4
	SYM_AES128      = 7
	SYM_AES192      = 8
	SYM_AES256      = 9
	SYM_TWOFISH     = 10
	SYM_CAMELLIA128 = 11
	SYM_CAMELLIA192 = 12
	SYM_CAMELLIA256 = 13
	SYM_SM4         = 105
)

const (
	HASH_MD5    = 1
	HASH_SHA1   = 2
	HASH_SHA256 = 8
	HASH_SHA512 = 10
)

const (
	COMP_NONE  = 0
	COMP_ZIP   = 1
	COMP_ZLIB  = 2
	COMP_BZIP2 = 3
)

const (
	AEAD_NONE = 0
	AEAD_EAX  = 1
	AEAD_OCB  = 2
	AEAD_GCM  = 3
)

// Signature subpacket types.
const (
	SIGSUB_CREATION_TIME     = 2
	SIGSUB_EXPIRATION_TIME   = 3
	SIGSUB_EXPORTABLE        = 4
	SIGSUB_TRUST             = 5
	SIGSUB_REGEXP            = 6
	SIGSUB_REVOCABLE         = 7
	SIGSUB_KEY_EXPIRY        = 9
	SIGSUB_PREF_SYMMETRIC    = 11
	SIGSUB_REVOCATION_KEY    = 12
	SIGSUB_ISSUER_KEY_ID     = 16
	SIGSUB_NOTATION          = 20
	SIGSUB_PREF_HASH         = 21
	SIGSUB_PREF_COMPRESSION  = 22
	SIGSUB_KEYSERVER_PREFS   = 23
	SIGSUB_PREF_KEYSERVER    = 24
	SIGSUB_PRIMARY_USER_ID   = 25
	SIGSUB_POLICY_URI        = 26
	SIGSUB_KEY_FLAGS         = 27
	SIGSUB_SIGNERS_USER_ID   = 28
	SIGSUB_REVOCATION_REASON = 29
	SIGSUB_FEATURES          = 30
	SIGSUB_SIGNATURE_TARGET  = 31
	SIGSUB_EMBEDDED_SIG      = 32
	SIGSUB_ISSUER_FPR        = 33
	SIGSUB_PREF_AEAD         = 34
	SIGSUB_RECIPIENT_FPR     = 35

	SIGSUB_PREF_AEAD_CIPHERSUITES = 39
)

// S2K specifiers and secret key usage octets.
const (
	S2K_SIMPLE   = 0
	S2K_SALTED   = 1
	S2K_ITERATED = 3
	S2K_ARGON2   = 4
	S2K_GNU      = 101

	S2K_GNU_DUMMY     = 1
	S2K_GNU_SMARTCARD = 2

	S2KU_NONE     = 0
	S2KU_AEAD     = 253
	S2KU_SHA1     = 254
	S2KU_CHECKSUM = 255
)

// BlockSize returns the cipher block size in octets, 0 when unknown.
func BlockSize(sym byte) int {
	switch sym {
	case SYM_IDEA, SYM_3DES, SYM_CAST5, SYM_BLOWFISH:
		return 8
	case SYM_AES128, SYM_AES192, SYM_AES256, SYM_TWOFISH,
		SYM_CAMELLIA128, SYM_CAMELLIA192, SYM_CAMELLIA256, SYM_SM4:
		return 16
	}
	return 0
}

// AEADNonceSize returns the nonce length of an AEAD mode, 0 when unknown.
func AEADNonceSize(aead byte) int {
	switch aead {
	case AEAD_EAX:
		return 16
	case AEAD_OCB:
		return 15
	case AEAD_GCM:
		return 12
	}
	return 0
}

// IsStreamTag reports whether packets with tag carry streamed data.
func IsStreamTag(tag byte) bool {
	switch tag {
	case PKT_COMPRESSED, PKT_SE_DATA, PKT_LITERAL, PKT_SEIPD, PKT_AEAD_DATA:
		return true
	}
	return false
}

// IsSecretKeyTag reports whether tag is a secret key or subkey.
func IsSecretKeyTag(tag byte) bool {
	return tag == PKT_SECRET_KEY || tag == PKT_SECRET_SUB
}
