package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"flashloan-program/internal/config"
	"flashloan-program/pkg/logger"

	"github.com/zeromicro/go-zero/core/logx"
)

var configFile = flag.String("f", "etc/flashloan.yaml", "the config file")

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: flashloan [-f config] <command> [flags]

commands:
  encode init|execute|flashloan   print hex instruction data
  decode <hex>                    decode instruction data
  state <hex>                     decode a program state record
  pda                             derive the program authority
  rent -size N                    rent-exempt minimum for N bytes
  simulate                        run Initialize on the local runtime
  config                          print the effective config
`)
}

func main() {
	exitCode := 0
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			exitCode = 2
		}
		os.Exit(exitCode)
	}()

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		exitCode = 2
		return
	}

	c := config.MustLoad(*configFile)
	logger.Setup(c.LogConf.ToLogOption())

	if err := run(context.Background(), c, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		exitCode = 1
	}
}
