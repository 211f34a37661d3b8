package dump

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// MaxNestingLevel bounds compressed data and embedded signature recursion.
	MaxNestingLevel = 32
	// MaxStreamPackets bounds literal, compressed and encrypted packets.
	MaxStreamPackets = 16
	// MaxErrorPackets bounds unknown and undecodable packets.
	MaxErrorPackets = 64

	// MaxPacketSize caps the body of a structured packet read into memory.
	MaxPacketSize = 1 << 20

	DefaultRawLimit = 1024
)

var (
	ErrTooManyFailures = errors.New("too many packet dump errors")
	ErrBadCleartext    = errors.New("malformed cleartext signed data")
	ErrBadArmor        = errors.New("failed to parse armored data")
	ErrTooDeep         = errors.New("too many OpenPGP nested layers during the dump")
	ErrTooLarge        = errors.New("packet too large to dump")
)

// Options selects what a dump records beyond the decoded fields.
type Options struct {
	// DumpRaw attaches a preview of every packet body and subpacket.
	DumpRaw bool
	// DumpMPI asks renderers to print MPI and octet string contents, not
	// only their sizes.
	DumpMPI bool
	// DumpGrips derives fingerprints and keygrips.
	DumpGrips bool
	// RawLimit is the preview size in octets, DefaultRawLimit when zero.
	RawLimit int

	Log logrus.FieldLogger
}

// Context carries the counters of one dump invocation.
type Context struct {
	Options

	depth    int
	streams  int
	failures int
	halted   bool
}

func NewContext(opts Options) *Context {
	if opts.RawLimit <= 0 {
		opts.RawLimit = DefaultRawLimit
	}
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}
	return &Context{Options: opts}
}

// Failures returns the number of packets that could not be decoded.
func (c *Context) Failures() int { return c.failures }

// enter increments the nesting depth, reporting false past MaxNestingLevel.
// The caller must call leave either way.
func (c *Context) enter() bool {
	c.depth++
	return c.depth <= MaxNestingLevel
}

func (c *Context) leave() { c.depth-- }

func (c *Context) fail(err error, fields logrus.Fields) error {
	c.Log.WithFields(fields).WithError(err).Debug("failed to process packet")
	c.failures++
	if c.failures > MaxErrorPackets {
		c.Log.WithFields(fields).Warn("too many packet dump errors")
		return errors.Wrapf(ErrTooManyFailures, "%d failures", c.failures)
	}
	return nil
}
