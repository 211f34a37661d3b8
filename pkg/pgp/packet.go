package pgp

import (
	"bytes"
	"encoding/binary"
)

// writeNewFormatHeader builds a RFC 9580 new-format packet header.
func writeNewFormatHeader(tag byte, bodyLen int) []byte {
	first := 0xC0 | int(tag&0x3F)
	var hdr bytes.Buffer
	hdr.WriteByte(byte(first))
	writeNewFormatLength(&hdr, bodyLen)
	return hdr.Bytes()
}

func writeNewFormatLength(hdr *bytes.Buffer, bodyLen int) {
	if bodyLen < 192 {
		hdr.WriteByte(byte(bodyLen))
	} else if bodyLen <= 8383 {
		bodyLen -= 192
		hdr.WriteByte(byte(192 + (bodyLen >> 8)))
		hdr.WriteByte(byte(bodyLen & 0xFF))
	} else {
		hdr.WriteByte(0xFF)
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(bodyLen))
		hdr.Write(l[:])
	}
}

// Packet frames body as a new-format packet with a definite length.
func Packet(tag byte, body []byte) []byte {
	h := writeNewFormatHeader(tag, len(body))
	out := make([]byte, 0, len(h)+len(body))
	out = append(out, h...)
	out = append(out, body...)
	return out
}

// PartialPacket frames body as a new-format packet split into partial chunks
// of 1<<chunkBits octets. The final chunk uses a definite length.
func PartialPacket(tag byte, body []byte, chunkBits uint) []byte {
	if chunkBits < 9 || chunkBits > 30 {
		chunkBits = 9
	}
	chunk := 1 << chunkBits
	var out bytes.Buffer
	out.WriteByte(0xC0 | tag&0x3F)
	for len(body) > chunk {
		out.WriteByte(byte(224 + chunkBits))
		out.Write(body[:chunk])
		body = body[chunk:]
	}
	writeNewFormatLength(&out, len(body))
	out.Write(body)
	return out.Bytes()
}

// OldPacket frames body with an old-format header. lenType selects the
// length field width (0, 1, 2) or an indeterminate length (3).
func OldPacket(tag byte, body []byte, lenType byte) []byte {
	out := []byte{0x80 | (tag&0x0F)<<2 | lenType&3}
	switch lenType & 3 {
	case 0:
		out = append(out, byte(len(body)))
	case 1:
		out = binary.BigEndian.AppendUint16(out, uint16(len(body)))
	case 2:
		out = binary.BigEndian.AppendUint32(out, uint32(len(body)))
	}
	return append(out, body...)
}
