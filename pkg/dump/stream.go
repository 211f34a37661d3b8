package dump

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"example.com/pgpdump/pkg/compress"
	"example.com/pgpdump/pkg/pgp"
)

// readHead reads a fixed-size field from the start of a streamed body.
func readHead(body io.Reader, field string, n int) ([]byte, error) {
	b := make([]byte, n)
	got, err := io.ReadFull(body, b)
	if err != nil {
		return nil, &pgp.DecodeError{Field: field, Want: n, Have: got}
	}
	return b, nil
}

func readLiteral(body io.Reader) (*Literal, error) {
	lit := &Literal{}
	h, err := readHead(body, "literal header", 2)
	if err != nil {
		return lit, err
	}
	lit.Format = h[0]
	name, err := readHead(body, "filename", int(h[1]))
	if err != nil {
		return lit, err
	}
	lit.Filename = string(name)
	ts, err := readHead(body, "timestamp", 4)
	if err != nil {
		return lit, err
	}
	lit.Timestamp = binary.BigEndian.Uint32(ts)
	lit.DataLen, err = io.Copy(io.Discard, body)
	return lit, err
}

// readCompressed decompresses the body and walks the packets inside it with
// the same counters as the enclosing stream.
func (c *Context) readCompressed(body io.Reader) (*Compressed, error) {
	comp := &Compressed{}
	h, err := readHead(body, "compression algorithm", 1)
	if err != nil {
		return comp, err
	}
	comp.Algorithm = h[0]
	zr, err := compress.NewReader(comp.Algorithm, body)
	if err != nil {
		return comp, errors.WithStack(err)
	}
	defer zr.Close()
	return comp, c.walk(NewSource(zr), &comp.Packets)
}

func readEncrypted(tag byte, body io.Reader) (*Encrypted, error) {
	enc := &Encrypted{Tag: tag}
	var err error
	switch tag {
	case pgp.PKT_SEIPD:
		err = readSEIPDHeader(body, enc)
	case pgp.PKT_AEAD_DATA:
		err = readAEADHeader(body, enc)
	}
	if err != nil {
		return enc, err
	}
	enc.DataLen, err = io.Copy(io.Discard, body)
	return enc, err
}

func readSEIPDHeader(body io.Reader, enc *Encrypted) error {
	v, err := readHead(body, "seipd version", 1)
	if err != nil {
		return err
	}
	enc.Version = v[0]
	switch enc.Version {
	case 1:
		return nil
	case 2:
	default:
		return &pgp.DecodeError{Field: "seipd version", Msg: "unknown version"}
	}
	h, err := readHead(body, "seipd header", 3+32)
	if err != nil {
		return err
	}
	enc.HasHeader = true
	enc.SymAlg, enc.AEADAlg, enc.ChunkSize = h[0], h[1], h[2]
	enc.Salt = h[3:]
	return nil
}

func readAEADHeader(body io.Reader, enc *Encrypted) error {
	h, err := readHead(body, "aead header", 4)
	if err != nil {
		return err
	}
	enc.Version, enc.SymAlg, enc.AEADAlg, enc.ChunkSize = h[0], h[1], h[2], h[3]
	enc.HasHeader = true
	if enc.Version != 1 {
		return &pgp.DecodeError{Field: "aead version", Msg: "unknown version"}
	}
	n := pgp.AEADNonceSize(enc.AEADAlg)
	if n == 0 {
		return &pgp.DecodeError{Field: "aead iv", Msg: "unknown aead algorithm"}
	}
	enc.IV, err = readHead(body, "aead iv", n)
	return err
}
