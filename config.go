// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/go-socks/socks"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "btcprobe.log"
	defaultTimeout     = time.Second * 10
)

var (
	defaultLogDir = filepath.Join(btcprobeHomeDir(), defaultLogDirname)
)

// config defines the configuration options for btcprobe.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion bool          `short:"V" long:"version" description:"Display version information and exit"`
	Port        uint16        `short:"p" long:"port" description:"Port to connect to on each resolved address (default: 8333, testnet: 18333)"`
	Timeout     time.Duration `short:"t" long:"timeout" description:"Timeout for each handshake attempt.  Valid time units are {s, m, h}"`
	Proxy       string        `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser   string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass   string        `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	TestNet3    bool          `long:"testnet" description:"Use the test network"`
	SimNet      bool          `long:"simnet" description:"Use the simulation test network"`
	LogDir      string        `long:"logdir" description:"Directory to log output"`
	DebugLevel  string        `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	dial   func(network, address string, timeout time.Duration) (net.Conn, error)
	lookup func(host string) ([]net.IP, error)
}

// btcprobeHomeDir returns an OS appropriate home directory for btcprobe.
func btcprobeHomeDir() string {
	// Search for Windows APPDATA first.  This won't exist on POSIX OSes.
	appData := os.Getenv("APPDATA")
	if appData != "" {
		return filepath.Join(appData, "Btcprobe")
	}

	// Fall back to standard HOME directory that works for most POSIX OSes.
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".btcprobe")
	}

	// In the worst case, use the current directory.
	return "."
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(btcprobeHomeDir())
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig initializes and parses the config using command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Parse CLI options and overwrite/add any specified options
//
// It returns the parsed config along with any remaining command line
// arguments, which are the DNS seeds to probe.
func loadConfig() (*config, []string, error) {
	// Default config.
	cfg := config{
		Timeout:    defaultTimeout,
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	funcName := "loadConfig"
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if cfg.ShowVersion {
		fmt.Println(appName, "version", version())
		os.Exit(0)
	}

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	activeNetParams = &mainNetParams
	if cfg.TestNet3 {
		numNets++
		activeNetParams = &testNet3Params
	}
	if cfg.SimNet {
		numNets++
		activeNetParams = &simNetParams
	}
	if numNets > 1 {
		str := "%s: the testnet and simnet params can't be used " +
			"together -- choose one of the two"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Use the default port for the active network when none is specified.
	if cfg.Port == 0 {
		cfg.Port = activeNetParams.defaultPort
	}

	// Don't allow unbounded or absurdly small handshake timeouts.
	if cfg.Timeout < time.Second {
		str := "%s: the timeout option may not be less than 1s -- " +
			"parsed [%v]"
		err := fmt.Errorf(str, funcName, cfg.Timeout)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %v", funcName, err.Error())
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Setup dial and DNS resolution functions depending on the specified
	// options.  The default is to use the standard net.DialTimeout and
	// net.LookupIP functions.  When a proxy is specified, the dial
	// function is set to the proxy specific dial function.
	cfg.dial = net.DialTimeout
	cfg.lookup = net.LookupIP
	if cfg.Proxy != "" {
		_, _, err := net.SplitHostPort(cfg.Proxy)
		if err != nil {
			str := "%s: proxy address '%s' is invalid: %v"
			err := fmt.Errorf(str, funcName, cfg.Proxy, err)
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}

		proxy := &socks.Proxy{
			Addr:     cfg.Proxy,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
		cfg.dial = proxy.DialTimeout
	}

	return &cfg, remainingArgs, nil
}
