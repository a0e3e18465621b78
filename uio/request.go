package uio

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Mode selects which operation a Request performs. Exactly one
// operation runs per process invocation; the modes do not compose.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeMonitor
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeMonitor:
		return "monitor"
	case ModeList:
		return "list"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Request is a validated operation against one UIO device, built by
// the command-line layer and consumed as-is by Dispatch.
type Request struct {
	Mode       Mode
	Device     string // path to the UIO device file
	Region     int    // memory region to map; must be 0
	Width      int    // register word width in bytes; must be 4
	Count      int    // number of words to read
	Addr       uint32 // byte offset of the first word
	Value      uint32 // word to store (ModeWrite only)
	SingleShot bool   // stop after the first interrupt (ModeMonitor only)
}

// Validate rejects parameter combinations the core does not support.
// It never touches the device: unsupported requests fail before any
// I/O is attempted.
func (r *Request) Validate() error {
	if r.Region != 0 {
		return fmt.Errorf("%w: region %d (only region 0 is supported)", ErrUnsupported, r.Region)
	}
	if r.Width != WordWidth {
		return fmt.Errorf("%w: width %d (only %d-byte words are supported)", ErrUnsupported, r.Width, WordWidth)
	}
	return nil
}

// mapLength is the smallest mapping that covers every word the
// request will touch, measured from the start of the region.
func (r *Request) mapLength() int {
	return int(r.Addr) + r.Count*r.Width
}

// Dispatch validates req and performs its operation, writing register
// values and interrupt events to out. Progress messages go to log,
// which may be nil. Any acquired mapping or file handle is released
// before Dispatch returns, on success and on error alike.
func Dispatch(req Request, out io.Writer, log *logrus.Entry) error {
	if err := req.Validate(); err != nil {
		return err
	}

	switch req.Mode {
	case ModeList:
		return fmt.Errorf("%w: device listing", ErrUnsupported)

	case ModeMonitor:
		m, err := OpenMonitor(req.Device)
		if err != nil {
			return err
		}
		defer m.Close()

		if log != nil {
			log.Infof("Waiting for interrupts on %s", req.Device)
		}
		return m.Run(req.SingleShot, func(ev Event) {
			fmt.Fprintf(out, "[%d.%03d] interrupt: %d\n", ev.Time.Unix(), ev.Time.Nanosecond()/1e6, ev.Count)
		})

	case ModeRead:
		dev, err := Open(req.Device, req.Region, req.mapLength())
		if err != nil {
			return err
		}
		defer dev.Close()

		words, err := dev.ReadWords(req.Addr, req.Width, req.Count)
		if err != nil {
			return err
		}
		for _, w := range words {
			fmt.Fprintf(out, "0x%08x\t%08x\n", w.Addr, w.Value)
		}
		return nil

	case ModeWrite:
		dev, err := Open(req.Device, req.Region, req.mapLength())
		if err != nil {
			return err
		}
		defer dev.Close()

		return dev.WriteWord(req.Addr, req.Width, req.Value)
	}

	return fmt.Errorf("%w: mode %v", ErrUnsupported, req.Mode)
}
