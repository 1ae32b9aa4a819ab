// Package config defines the command line and configuration file layout.
package config

import "github.com/Alia5/keyview/internal/cmd"

// Log configures logging for every command.
type Log struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"KEYVIEW_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" type:"path" env:"KEYVIEW_LOG_FILE"`
	RawFile string `help:"Write raw report packets to this file" type:"path" env:"KEYVIEW_LOG_RAW_FILE"`
}

type CLI struct {
	ConfigFile string `name:"config" help:"Configuration file (json, yaml or toml)" type:"path" env:"KEYVIEW_CONFIG"`
	Log        Log    `embed:"" prefix:"log."`

	View    cmd.View          `cmd:"" default:"withargs" help:"Show a keymap and highlight the keys being pressed"`
	Parse   cmd.Parse         `cmd:"" help:"Parse a keymap and print the resulting layout"`
	Last    cmd.Last          `cmd:"" help:"Show or clear the remembered keymap"`
	Relay   cmd.Relay         `cmd:"" help:"Forward reports from a local source to remote viewers"`
	Sources cmd.Sources       `cmd:"" help:"List the available report sources"`
	Config  cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}
