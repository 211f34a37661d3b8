package dump

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"example.com/pgpdump/pkg/pgp"
)

const (
	noteTooDeep       = "too many OpenPGP packet layers, stopping."
	noteTooManyStream = "too many OpenPGP stream packets, stopping."
)

// walk decodes packets from src until it is exhausted or a bound is hit,
// appending them to out.
func (c *Context) walk(src *Source, out *[]Packet) error {
	if src.EOF() {
		return nil
	}
	defer c.leave()
	if !c.enter() {
		c.Log.WithField("offset", src.Offset()).Warn(ErrTooDeep.Error())
		*out = append(*out, Packet{Offset: src.Offset(), Record: &Note{Text: noteTooDeep}})
		return nil
	}

	for !src.EOF() {
		h, err := src.PeekHeader()
		if err != nil {
			return err
		}
		pkt := Packet{Offset: src.Offset(), Header: h}
		fields := logrus.Fields{"offset": pkt.Offset, "tag": h.Tag}
		if c.DumpRaw {
			c.capture(src, &pkt)
		}
		if _, err := src.Discard(h.Len()); err != nil {
			return errors.Wrapf(err, "packet header at offset %d", pkt.Offset)
		}

		if pgp.IsStreamTag(h.Tag) {
			c.streams++
		}
		body := pgp.NewBodyReader(src, h)
		derr := c.dispatch(&pkt, body)
		if errors.Is(derr, ErrTooManyFailures) {
			*out = append(*out, pkt)
			return derr
		}
		if _, err := io.Copy(io.Discard, body); err != nil && derr == nil {
			derr = errors.Wrap(err, "packet body")
		}

		if derr != nil {
			pkt.Failed, pkt.Err = true, derr
		}
		*out = append(*out, pkt)

		if derr != nil {
			if err := c.fail(derr, fields); err != nil {
				return err
			}
		} else if s, ok := pkt.Record.(*Skipped); ok && s.Unknown {
			c.Log.WithFields(fields).Debug("skipping unknown packet")
			if err := c.fail(errors.Errorf("unknown packet tag %d", h.Tag), fields); err != nil {
				return err
			}
		}

		if c.streams > MaxStreamPackets {
			if !c.halted {
				c.halted = true
				c.Log.WithFields(fields).Warn("too many OpenPGP stream packets during the dump")
				*out = append(*out, Packet{Offset: src.Offset(), Record: &Note{Text: noteTooManyStream}})
			}
			return nil
		}
	}
	return nil
}

// dispatch decodes one packet body by tag.
func (c *Context) dispatch(pkt *Packet, body io.Reader) error {
	tag := pkt.Header.Tag
	switch tag {
	case pgp.PKT_SIGNATURE:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return c.readSignature(r)
		})
	case pgp.PKT_SECRET_KEY, pgp.PKT_PUBLIC_KEY, pgp.PKT_SECRET_SUB, pgp.PKT_PUBLIC_SUB:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return c.readKey(tag, r)
		})
	case pgp.PKT_USER_ID, pgp.PKT_USER_ATTR:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return readUserID(tag, r)
		})
	case pgp.PKT_PKESK:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return readPKESK(r)
		})
	case pgp.PKT_SKESK:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return readSKESK(r)
		})
	case pgp.PKT_ONE_PASS:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return readOnePass(r)
		})
	case pgp.PKT_MARKER:
		return c.structured(pkt, body, func(r *pgp.Buffer) (Record, error) {
			return readMarker(r)
		})
	case pgp.PKT_SE_DATA, pgp.PKT_SEIPD, pgp.PKT_AEAD_DATA:
		enc, err := readEncrypted(tag, body)
		pkt.Record = enc
		return err
	case pgp.PKT_COMPRESSED:
		comp, err := c.readCompressed(body)
		pkt.Record = comp
		return err
	case pgp.PKT_LITERAL:
		lit, err := readLiteral(body)
		pkt.Record = lit
		return err
	case pgp.PKT_TRUST, pgp.PKT_MDC:
		pkt.Record = &Skipped{Tag: tag}
		return nil
	default:
		pkt.Record = &Skipped{Tag: tag, Unknown: true}
		return nil
	}
}

// structured reads a whole packet body into memory and decodes it.
func (c *Context) structured(pkt *Packet, body io.Reader, decode func(*pgp.Buffer) (Record, error)) error {
	h := pkt.Header
	if !h.Partial && !h.Indeterminate && h.Length > MaxPacketSize {
		return errors.Wrapf(ErrTooLarge, "%d bytes", h.Length)
	}
	b, err := io.ReadAll(io.LimitReader(body, MaxPacketSize+1))
	if err != nil {
		return errors.Wrap(err, "packet body")
	}
	if len(b) > MaxPacketSize {
		return errors.Wrapf(ErrTooLarge, "more than %d bytes", MaxPacketSize)
	}
	rec, err := decode(pgp.NewBuffer(b))
	pkt.Record = rec
	return err
}

// capture attaches a bounded preview of the packet body.
func (c *Context) capture(src *Source, pkt *Packet) {
	h := pkt.Header
	hl := h.Len()
	limit := c.RawLimit
	if limit > sourceBufferSize-pgp.MaxHeaderSize {
		limit = sourceBufferSize - pgp.MaxHeaderSize
	}
	n := limit
	part := h.Partial || h.Indeterminate || h.Length > int64(limit)
	if !part {
		n = int(h.Length)
	}
	b, err := src.Peek(hl + n)
	if err != nil || len(b) < hl {
		return
	}
	pkt.Raw = append([]byte(nil), b[hl:]...)
	pkt.RawTruncated = part || int64(len(pkt.Raw)) < h.Length
}
