package dump

import (
	"example.com/pgpdump/pkg/pgp"
)

// Packet is one entry of a dump: a decoded packet or a diagnostic note.
type Packet struct {
	Offset       int64
	Header       pgp.Header
	Raw          []byte
	RawTruncated bool
	Record       Record

	// Failed is set when the body could not be decoded; Record then holds
	// whatever was decoded before the failure.
	Failed bool
	Err    error
}

// Record is the decoded content of a packet.
type Record interface{ isRecord() }

func (*Signature) isRecord()  {}
func (*Key) isRecord()        {}
func (*UserID) isRecord()     {}
func (*PKESK) isRecord()      {}
func (*SKESK) isRecord()      {}
func (*OnePass) isRecord()    {}
func (*Marker) isRecord()     {}
func (*Literal) isRecord()    {}
func (*Compressed) isRecord() {}
func (*Encrypted) isRecord()  {}
func (*Skipped) isRecord()    {}
func (*Note) isRecord()       {}

type Signature struct {
	Version byte
	Type    byte
	// v2 and v3 only
	Created uint32
	Signer  []byte

	PubAlg  byte
	HashAlg byte

	HashedLen   int
	UnhashedLen int
	Subpackets  []Subpacket

	LBits    []byte
	Salt     []byte
	Material Material
}

type Key struct {
	Tag     byte
	Version byte
	Created uint32
	// v2 and v3 only
	ValidDays uint16
	Algorithm byte
	// v5 and v6 only
	MaterialLen uint32
	Material    Material

	Secret *SecretInfo

	// PublicBody is the public key packet body the derived ids hash over.
	PublicBody  []byte
	KeyID       []byte
	KeyIDErr    error
	Fingerprint []byte
	FprErr      error
	Grip        []byte
	GripErr     error
}

// SecretInfo describes how secret key material is protected. The material
// itself is counted, never decoded.
type SecretInfo struct {
	Usage     byte
	S2KLen    byte
	SymAlg    byte
	AEADAlg   byte
	S2K       *pgp.S2K
	IV        []byte
	SecretLen uint32
	DataLen   int
}

// Encrypted reports whether the material is protected by a passphrase.
func (s *SecretInfo) Encrypted() bool { return s.Usage != pgp.S2KU_NONE }

type UserID struct {
	Tag  byte
	Data []byte
}

type PKESK struct {
	Version byte
	KeyID   []byte
	// v6 only; an empty fingerprint is an anonymous recipient
	KeyVersion  byte
	Fingerprint []byte

	Algorithm byte
	Material  Material
}

type SKESK struct {
	Version      byte
	SymAlg       byte
	AEADAlg      byte
	S2K          *pgp.S2K
	IV           []byte
	EncryptedKey []byte
}

type OnePass struct {
	Version byte
	Type    byte
	HashAlg byte
	PubAlg  byte
	Signer  []byte
	// v6 only
	Salt        []byte
	Fingerprint []byte
	Nested      bool
}

type Marker struct {
	Valid bool
}

type Literal struct {
	Format    byte
	Filename  string
	Timestamp uint32
	DataLen   int64
}

type Compressed struct {
	Algorithm byte
	Packets   []Packet
}

type Encrypted struct {
	Tag     byte
	Version byte
	// SEIPD v2 and AEAD packets
	HasHeader bool
	SymAlg    byte
	AEADAlg   byte
	ChunkSize byte
	Salt      []byte
	IV        []byte
	DataLen   int64
}

type Skipped struct {
	Tag     byte
	Unknown bool
}

// Note is a diagnostic emitted by the walker, never by the input.
type Note struct {
	Text string
}
