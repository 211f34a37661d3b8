// Package dump decodes an OpenPGP packet stream into a tree of records
// without verifying or decrypting anything.
package dump

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"example.com/pgpdump/pkg/armor"
)

// Result is the outcome of one dump.
type Result struct {
	Cleartext bool
	Armored   bool
	// ArmorType is the armor block type, e.g. "PGP MESSAGE".
	ArmorType string
	Empty     bool
	Packets   []Packet

	// Options are the options the dump ran with; renderers honour the
	// same flags.
	Options Options
}

// Dump decodes every packet readable from r. On a fatal error the packets
// decoded so far are returned along with it.
func Dump(r io.Reader, opts Options) (*Result, error) {
	return NewContext(opts).Dump(r)
}

// Dump runs one dump with fresh counters.
func (c *Context) Dump(r io.Reader) (*Result, error) {
	c.depth, c.streams, c.failures, c.halted = 0, 0, 0, false

	res := &Result{Options: c.Options}
	src := NewSource(r)
	head, err := src.Peek(armor.PeekSize)
	if err != nil {
		return res, errors.Wrap(err, "read input")
	}
	if armor.IsCleartext(head) {
		res.Cleartext = true
		if !skipCleartext(src) {
			c.Log.Error(ErrBadCleartext.Error())
			return res, ErrBadCleartext
		}
		if head, err = src.Peek(armor.PeekSize); err != nil {
			return res, errors.Wrap(err, "read input")
		}
	}
	if armor.IsArmored(head) {
		body, typ, err := armor.Decode(src)
		if err != nil {
			c.Log.WithError(err).Error(ErrBadArmor.Error())
			return res, errors.Wrap(ErrBadArmor, err.Error())
		}
		res.Armored, res.ArmorType = true, typ
		src = NewSource(body)
	}
	if src.EOF() {
		res.Empty = true
		return res, nil
	}
	err = c.walk(src, &res.Packets)
	return res, err
}

// skipCleartext advances src to the armored signature that follows the
// signed text.
func skipCleartext(src *Source) bool {
	const window = 4095
	for !src.EOF() {
		buf, err := src.Peek(window)
		if err != nil || len(buf) <= len(armor.SignatureBegin) {
			return false
		}
		if i := bytes.Index(buf, []byte(armor.SignatureBegin)); i >= 0 {
			// keep the signature line, drop the newline before it
			_, err = src.Discard(i + 1)
			return err == nil
		}
		if _, err = src.Discard(len(buf) - len(armor.SignatureBegin) + 1); err != nil {
			return false
		}
	}
	return false
}
