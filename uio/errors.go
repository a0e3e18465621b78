package uio

import "errors"

// Every failure in this package wraps exactly one of these sentinel
// errors; match them with errors.Is. None of them is retryable: the
// tool reports the error and exits.
var (
	// ErrUnsupported is returned for requests the tool knows about
	// but does not implement: nonzero memory regions, word widths
	// other than 4 bytes, negative word counts, and device listing.
	ErrUnsupported = errors.New("not yet implemented")

	// ErrDeviceOpen is returned when the device file cannot be
	// opened. It wraps the underlying OS error text.
	ErrDeviceOpen = errors.New("couldn't open UIO device file")

	// ErrMapping is returned when the register region cannot be
	// mmap()ed over the device file.
	ErrMapping = errors.New("couldn't map device memory")

	// ErrIO is returned when a read or write on the raw device
	// file (the interrupt ack/wait protocol) transfers fewer bytes
	// than required.
	ErrIO = errors.New("short transfer on device file")
)
