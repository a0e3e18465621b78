package main

// uioctl manipulates a userspace-I/O (UIO) device: read register
// words from it, write a register word to it, or wait for its
// interrupts. One operation per invocation.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jbrzusto/uioctl/uio"
)

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(),
			"Usage: uioctl [options] [-l]\n"+
				"       uioctl [options] -m /dev/uioX\n"+
				"       uioctl [options] /dev/uioX <addr> [<value>]\n"+
				"\n"+
				"Functions:\n"+
				"  monitor (-m) the device for interrupts\n"+
				"  list (-l) all devices and their mappings\n"+
				"  read words from <addr>\n"+
				"  write <value> to <addr> (will zero-pad word width)\n"+
				"\n"+
				"The device path may be omitted (read and monitor only) when\n"+
				"uioctl.toml configures a default device.\n"+
				"\n"+
				"Options:\n")
		fs.PrintDefaults()
	}
}

// parseNum accepts decimal, octal and 0x-prefixed hex, like strtoul
// with base 0.
func parseNum(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	return uint32(v), err
}

func argErr(msg string) int {
	fmt.Fprintf(os.Stderr, "uioctl: %s; try -h\n", msg)
	return 1
}

func run(argv []string, out io.Writer) int {
	cfg := loadConfig()

	fs := flag.NewFlagSet("uioctl", flag.ContinueOnError)
	region := fs.Int("r", cfg.Region, "select the device's memory region to map")
	width := fs.Int("w", cfg.Width, "word size (in bytes)")
	count := fs.Int("n", cfg.Count, "number of words to read (in words)")
	monitor := fs.Bool("m", false, "monitor the device for interrupts")
	single := fs.Bool("x", false, "exit with success after the first interrupt (implies -m mode)")
	list := fs.Bool("l", false, "list all devices and their mappings")
	loglevel := fs.Int("loglevel", int(logrus.InfoLevel), "the loglevel to use. Valid values are from 0 to 6. Higher values output more information")
	fs.Usage = usage(fs)

	switch err := fs.Parse(argv); err {
	case nil:
	case flag.ErrHelp:
		return 0
	default:
		return 1
	}

	if *count < 1 {
		return argErr(fmt.Sprintf("bad word count %d", *count))
	}

	log := getLogger(logrus.Level(*loglevel))

	req := uio.Request{
		Device: cfg.Device,
		Region: *region,
		Width:  *width,
		Count:  *count,
	}

	// The first positional is always the device path when enough
	// arguments are given; the configured default device is used
	// only when the device is the one argument missing.
	args := fs.Args()

	switch {
	case *list:
		req.Mode = uio.ModeList

	case *monitor || *single:
		req.Mode = uio.ModeMonitor
		req.SingleShot = *single
		switch {
		case len(args) == 1:
			req.Device = args[0]
		case len(args) == 0 && req.Device != "":
		default:
			return argErr("wrong number of arguments")
		}

	default:
		var addrArg, valueArg string
		haveValue := false
		switch {
		case len(args) == 3:
			req.Device, addrArg, valueArg = args[0], args[1], args[2]
			haveValue = true
		case len(args) == 2:
			req.Device, addrArg = args[0], args[1]
		case len(args) == 1 && req.Device != "":
			addrArg = args[0]
		default:
			return argErr("wrong number of arguments")
		}

		addr, err := parseNum(addrArg)
		if err != nil {
			return argErr(fmt.Sprintf("bad address %q", addrArg))
		}
		req.Addr = addr
		req.Mode = uio.ModeRead
		if haveValue {
			value, err := parseNum(valueArg)
			if err != nil {
				return argErr(fmt.Sprintf("bad value %q", valueArg))
			}
			req.Mode = uio.ModeWrite
			req.Value = value
		}
	}

	if err := uio.Dispatch(req, out, log); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
