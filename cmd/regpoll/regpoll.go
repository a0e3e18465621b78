package main

// Show one or more UIO registers at repeated intervals.
//
// Usage:
//
//    regpoll N /dev/uioX ADDR [COUNT]
//
// where
//  - N is the number of milliseconds to wait between burst reads of
//    the registers
//  - ADDR is the byte offset of the first register
//  - COUNT is the number of words to read in each burst (default 1)

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jbrzusto/uioctl/uio"
)

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "regpoll: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 4 || len(os.Args) > 5 {
		die("usage: regpoll N /dev/uioX ADDR [COUNT]")
	}

	interval, err := strconv.Atoi(os.Args[1])
	if err != nil || interval < 1 {
		die("bad interval %q", os.Args[1])
	}
	addr, err := strconv.ParseUint(os.Args[3], 0, 32)
	if err != nil {
		die("bad address %q", os.Args[3])
	}
	count := 1
	if len(os.Args) == 5 {
		count, err = strconv.Atoi(os.Args[4])
		if err != nil || count < 1 {
			die("bad count %q", os.Args[4])
		}
	}

	dev, err := uio.Open(os.Args[2], 0, int(addr)+count*uio.WordWidth)
	if err != nil {
		die("%v", err)
	}
	defer dev.Close()

	for {
		words, err := dev.ReadWords(uint32(addr), uio.WordWidth, count)
		if err != nil {
			die("%v", err)
		}
		for _, w := range words {
			fmt.Printf("0x%08x=%08x ", w.Addr, w.Value)
		}
		fmt.Println()
		time.Sleep(time.Duration(interval) * time.Millisecond)
	}
}
