package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"strings"
	"testing"
)

func check(t *testing.T, condition bool, reason ...interface{}) {
	if !condition {
		t.Error(reason...)
		t.FailNow()
	}
}

// inTempDir moves the test into a fresh directory so that loadConfig
// sees exactly the config file the test writes (or none at all).
func inTempDir(t *testing.T) func() {
	dir, err := ioutil.TempDir("", "uioctl-test-")
	check(t, err == nil, "tempdir:", err)
	old, err := os.Getwd()
	check(t, err == nil, "getwd:", err)
	check(t, os.Chdir(dir) == nil, "chdir")
	return func() {
		os.Chdir(old)
		os.RemoveAll(dir)
	}
}

// makeDeviceFile creates a regular file standing in for a UIO device
// node, named relative to the current directory.
func makeDeviceFile(t *testing.T, name string, length int) string {
	check(t, ioutil.WriteFile(name, make([]byte, length), 0644) == nil,
		"creating device file")
	return name
}

func writeConfig(t *testing.T, body string) {
	check(t, ioutil.WriteFile("uioctl.toml", []byte(body), 0644) == nil,
		"writing config file")
}

func TestLoadConfigBuiltins(t *testing.T) {
	defer inTempDir(t)()

	cfg := loadConfig()
	check(t, cfg.Device == "", "unexpected default device:", cfg.Device)
	check(t, cfg.Region == 0, "unexpected default region:", cfg.Region)
	check(t, cfg.Width == 4, "unexpected default width:", cfg.Width)
	check(t, cfg.Count == 1, "unexpected default count:", cfg.Count)
}

func TestLoadConfigFile(t *testing.T) {
	defer inTempDir(t)()

	writeConfig(t, "[uioctl]\ndevice = \"/dev/uio7\"\ncount = 5\n")

	cfg := loadConfig()
	check(t, cfg.Device == "/dev/uio7", "device not taken from config:", cfg.Device)
	check(t, cfg.Count == 5, "count not taken from config:", cfg.Count)
	// Keys absent from the file keep their built-in defaults.
	check(t, cfg.Region == 0, "region default lost:", cfg.Region)
	check(t, cfg.Width == 4, "width default lost:", cfg.Width)
}

func TestRunFlagOverridesConfig(t *testing.T) {
	defer inTempDir(t)()

	dev := makeDeviceFile(t, "uio0", 16)
	writeConfig(t, "[uioctl]\ndevice = \""+dev+"\"\ncount = 4\n")

	var out bytes.Buffer
	status := run([]string{"-n", "2", "0x0"}, &out)
	check(t, status == 0, "exit status:", status)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	check(t, len(lines) == 2, "-n did not override configured count:", out.String())
}

func TestRunConfigDefaultDevice(t *testing.T) {
	defer inTempDir(t)()

	dev := makeDeviceFile(t, "uio0", 8)
	writeConfig(t, "[uioctl]\ndevice = \""+dev+"\"\n")

	var out bytes.Buffer
	status := run([]string{"0x4"}, &out)
	check(t, status == 0, "exit status:", status)
	check(t, strings.HasPrefix(out.String(), "0x00000004\t"), "wrong output:", out.String())
}

func TestRunRelativeDevicePath(t *testing.T) {
	defer inTempDir(t)()

	makeDeviceFile(t, "uio0", 8)

	var out bytes.Buffer
	status := run([]string{"uio0", "0x0"}, &out)
	check(t, status == 0, "relative device path rejected, status:", status)
	check(t, strings.HasPrefix(out.String(), "0x00000000\t"), "wrong output:", out.String())
}

func TestRunWriteThenRead(t *testing.T) {
	defer inTempDir(t)()

	makeDeviceFile(t, "uio0", 8)

	var out bytes.Buffer
	status := run([]string{"uio0", "0x4", "0xcafed00d"}, &out)
	check(t, status == 0, "write status:", status)
	check(t, out.Len() == 0, "write produced output:", out.String())

	status = run([]string{"uio0", "0x4"}, &out)
	check(t, status == 0, "read status:", status)
	check(t, out.String() == "0x00000004\tcafed00d\n", "wrong output:", out.String())
}

func TestRunSingleShotMonitor(t *testing.T) {
	defer inTempDir(t)()

	makeDeviceFile(t, "uio0", 4)

	var out bytes.Buffer
	status := run([]string{"-x", "uio0"}, &out)
	check(t, status == 0, "monitor status:", status)
	check(t, strings.Contains(out.String(), "interrupt: 1"), "wrong output:", out.String())
}

func TestRunNegativeCount(t *testing.T) {
	defer inTempDir(t)()

	makeDeviceFile(t, "uio0", 16)

	var out bytes.Buffer
	status := run([]string{"-n", "-3", "uio0", "0x0"}, &out)
	check(t, status == 1, "negative count not rejected, status:", status)
	check(t, out.Len() == 0, "output produced for negative count:", out.String())

	status = run([]string{"-n", "0", "uio0", "0x0"}, &out)
	check(t, status == 1, "zero count not rejected, status:", status)
}

func TestRunArgumentErrors(t *testing.T) {
	defer inTempDir(t)()

	makeDeviceFile(t, "uio0", 8)

	for _, argv := range [][]string{
		{},                            // no device, no config default
		{"uio0"},                      // device but no address
		{"uio0", "0x0", "1", "2"},     // too many positionals
		{"uio0", "zzz"},               // bad address
		{"uio0", "0x0", "zzz"},        // bad value
		{"-m", "uio0", "0x0"},         // monitor takes no address
		{"-m"},                        // monitor with no device
	} {
		var out bytes.Buffer
		status := run(argv, &out)
		check(t, status == 1, "accepted bad arguments:", argv)
	}
}
