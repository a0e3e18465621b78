package main

// this file contains all the code that directly uses the viper package

import (
	"github.com/spf13/viper"

	"github.com/jbrzusto/uioctl/uio"
)

// toolConfig holds defaults for the command-line options. Values not
// present in the config file keep their built-in defaults.
type toolConfig struct {
	Device string // default device file; positional argument overrides
	Region int    // default memory region
	Width  int    // default word size, bytes
	Count  int    // default number of words to read
}

// loadConfig reads defaults from a TOML-formatted file called
// 'uioctl.toml', looked for first in /etc and then in the current
// directory, for convenience. A missing or unreadable config file is
// not an error: the built-in defaults are returned unchanged.
func loadConfig() toolConfig {
	cfg := toolConfig{
		Region: 0,
		Width:  uio.WordWidth,
		Count:  1,
	}

	viper.SetConfigName("uioctl") // name of config file (without extension)
	viper.AddConfigPath("/etc")
	viper.AddConfigPath(".") // optionally look for config in the working directory
	if err := viper.ReadInConfig(); err != nil {
		return cfg
	}
	viper.UnmarshalKey("uioctl", &cfg)
	return cfg
}
