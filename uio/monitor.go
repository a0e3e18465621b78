package uio

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/BertoldVdb/go-misc/closeflag"
	"golang.org/x/sys/unix"
)

// irqAck is the value written to the device file to acknowledge the
// previous interrupt and re-arm delivery: the UIO driver interprets
// the 4 bytes as an enable flag.
const irqAck = 1

// Event is one observed interrupt: the driver's cumulative interrupt
// count and the wall-clock time the wait returned. Successive counts
// are non-decreasing (the counter is maintained by the kernel).
type Event struct {
	Count uint32
	Time  time.Time
}

// Monitor waits for interrupts on a UIO device file. It uses the raw
// file descriptor only, never a memory mapping: interrupt delivery is
// a read/write protocol at offset 0 of the file itself.
type Monitor struct {
	file  *os.File
	close closeflag.CloseFlag
}

// OpenMonitor opens the device file at path for interrupt monitoring.
func OpenMonitor(path string) (*Monitor, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDeviceOpen, path, err)
	}

	m := &Monitor{file: file}
	m.close.CloseFunc = m.file.Close
	return m, nil
}

// Wait acknowledges the previous interrupt and blocks until the
// driver reports the next one.
//
// The acknowledgment write always completes before the wait read
// begins; re-arming after waiting instead would lose interrupts that
// arrive between iterations. The wait read suspends the calling
// goroutine in the kernel's wait queue until an interrupt occurs;
// there is no timeout and no built-in cancellation.
func (m *Monitor) Wait() (Event, error) {
	fd := int(m.file.Fd())

	var ack [4]byte
	binary.LittleEndian.PutUint32(ack[:], irqAck)
	n, err := unix.Pwrite(fd, ack[:], 0)
	if err != nil {
		return Event{}, fmt.Errorf("%w: clearing device file: %v", ErrIO, err)
	}
	if n != len(ack) {
		return Event{}, fmt.Errorf("%w: clearing device file: wrote %d of %d bytes", ErrIO, n, len(ack))
	}

	var buf [4]byte
	n, err = unix.Pread(fd, buf[:], 0)
	now := time.Now()
	if err != nil {
		return Event{}, fmt.Errorf("%w: reading from device file: %v", ErrIO, err)
	}
	if n != len(buf) {
		return Event{}, fmt.Errorf("%w: reading from device file: read %d of %d bytes", ErrIO, n, len(buf))
	}

	return Event{Count: binary.LittleEndian.Uint32(buf[:]), Time: now}, nil
}

// Run waits for interrupts in a loop, passing each Event to report.
// With singleShot set it returns nil after the first event. Otherwise
// it loops until the process is terminated externally, or until Close
// is called, which stops the loop at the next iteration boundary
// (Close never interrupts a Wait already blocked in the kernel).
func (m *Monitor) Run(singleShot bool, report func(Event)) error {
	for {
		ev, err := m.Wait()
		if err != nil {
			return err
		}
		report(ev)

		if singleShot {
			return nil
		}

		select {
		case <-m.close.Chan():
			return nil
		default:
		}
	}
}

// Close releases the device file. It is safe to call more than once;
// the file is closed exactly once.
func (m *Monitor) Close() error {
	err := m.close.Close()
	if err == closeflag.ErrorClosed {
		return nil
	}
	return err
}
