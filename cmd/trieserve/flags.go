package main

import (
	"github.com/inconshreveable/log15"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML config file (optional, defaults apply if absent)",
	}
	tcpAddrFlag = cli.StringFlag{
		Name:  "tcp-addr",
		Usage: "override the msgpack TCP listen address",
	}
	httpAddrFlag = cli.StringFlag{
		Name:  "http-addr",
		Usage: "override the HTTP listen address",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(log15.LvlInfo),
		Usage: "log verbosity (0=crit .. 4=debug)",
	}

	csvFileFlag = cli.StringFlag{
		Name:  "file",
		Usage: "CSV file to load",
	}
	csvDictionaryFlag = cli.StringFlag{
		Name:  "dictionary",
		Usage: "name of the dictionary to load rows into",
	}
	csvHasHeadersFlag = cli.BoolTFlag{
		Name:  "has-headers",
		Usage: "treat the first CSV row as attribute names (default true)",
	}
)
