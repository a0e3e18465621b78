// Access to hardware registers exposed by the Linux UIO subsystem.
//
// A UIO device file (/dev/uioN) stands for one hardware interrupt
// source together with one or more memory-mappable register regions.
// Registers are reached by mmap()ing the device file MAP_SHARED and
// coercing offsets in the returned []byte into uint32 pointers, using
// unsafe.Pointer(); interrupts are reached through a separate
// read/write protocol on the raw file descriptor (see monitor.go).
//
// Register words are read and written in the host's native byte
// order: the mapping is a live image of the hardware registers, not a
// wire format. All unsafe pointer work is confined to this package;
// callers see only offset-based word access.
//
// Accessing an offset that is not backed by real hardware is outside
// the recoverable-error model: the kernel reports it as a fatal
// signal (typically SIGBUS), which this package neither catches nor
// retries.
package uio

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// WordWidth is the only register access width this package
	// supports, in bytes.
	WordWidth = 4
)

// Device is an open UIO device file together with a shared mapping of
// its first memory region.
type Device struct {
	file   *os.File
	mem    []byte
	region int
}

// Word is one register value together with its byte offset from the
// start of the mapped region.
type Word struct {
	Addr  uint32
	Value uint32
}

// Open opens the UIO device file at path and maps length bytes of
// memory region over it, read/write and shared.
//
// Only region 0 is supported: with UIO the mmap offset is not a byte
// offset but a region selector (region N is requested by passing
// N*pagesize), and this package does not implement that encoding for
// nonzero regions. A nonzero region fails before any file is opened.
//
// length must cover the highest offset that will be accessed, i.e. at
// least addr + count*WordWidth for the accesses the caller plans.
func Open(path string, region int, length int) (*Device, error) {
	if region != 0 {
		return nil, fmt.Errorf("%w: region %d (only region 0 is supported)", ErrUnsupported, region)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDeviceOpen, path, err)
	}

	// NOTE: the offset argument selects the region, it is not a
	// normal file offset. Region 0 is offset 0.
	mem, err := unix.Mmap(int(file.Fd()), 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %v", ErrMapping, err)
	}

	return &Device{file: file, mem: mem, region: region}, nil
}

// Size returns the length of the mapped region in bytes.
func (d *Device) Size() int {
	return len(d.mem)
}

// Close unmaps the register region and closes the device file, in
// that order. It is safe to call more than once and after a partial
// Open.
func (d *Device) Close() error {
	if d.file == nil {
		return nil
	}
	err := unix.Munmap(d.mem)
	d.mem = nil
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	d.file = nil
	return err
}

// ReadWords reads count register words starting at byte offset addr,
// advancing by width between words. It returns exactly count
// (address, value) pairs in ascending address order.
//
// width must be WordWidth; any other width fails with ErrUnsupported
// before the mapping is touched.
func (d *Device) ReadWords(addr uint32, width int, count int) ([]Word, error) {
	if width != WordWidth {
		return nil, fmt.Errorf("%w: width %d (only %d-byte words are supported)", ErrUnsupported, width, WordWidth)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative word count %d", ErrUnsupported, count)
	}

	words := make([]Word, 0, count)
	for i := 0; i < count; i++ {
		value := *(*uint32)(unsafe.Pointer(&d.mem[addr]))
		words = append(words, Word{Addr: addr, Value: value})
		addr += uint32(width)
	}
	return words, nil
}

// WriteWord stores value as one register word at byte offset addr.
// There is no multi-word write.
//
// width must be WordWidth; any other width fails with ErrUnsupported
// before the mapping is touched.
func (d *Device) WriteWord(addr uint32, width int, value uint32) error {
	if width != WordWidth {
		return fmt.Errorf("%w: width %d (only %d-byte words are supported)", ErrUnsupported, width, WordWidth)
	}

	*(*uint32)(unsafe.Pointer(&d.mem[addr])) = value
	return nil
}
