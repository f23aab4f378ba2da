// Command jwstool generates RSA keys and encodes, decodes and inspects
// signed tokens from the command line.
//
// Usage:
//
//	jwstool keygen -name NAME [-out DIR] [-bits 2048] [-password P]
//	jwstool encode -claims '{json}' [-alg HS256] [-secret S | -key PRIV.pem] [-ttl 5m] [-nbf RFC3339]
//	jwstool decode [-secret S | -key PUB.pem] TOKEN
//	jwstool inspect TOKEN
//
// Defaults come from JWSTOOL_* environment variables and an optional .env
// file in the working directory. Logs go to stderr; results go to stdout.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/cybergodev/jws/internal/logging"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usageText = `usage: jwstool <command> [flags]

commands:
  keygen   generate an RSA key pair and write it as PEM files
  encode   sign claims into a token
  decode   verify a token and print its claims
  inspect  print the unverified header of a token
`

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, env.ToMap(os.Environ())))
}

// usageError marks failures caused by how the tool was invoked.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type command func(app *app, args []string) error

var commands = map[string]command{
	"keygen":  runKeygen,
	"encode":  runEncode,
	"decode":  runDecode,
	"inspect": runInspect,
}

// app carries what every command needs.
type app struct {
	cfg    config
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, environ map[string]string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usageText)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usageText)
		return exitUsage
	}

	cfg, err := loadConfig(environ)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	logger, _, err := logging.New(logging.Config{
		Environment: logging.Environment(cfg.Env),
		Level:       cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	a := &app{
		cfg:    cfg,
		log:    logger.With(zap.String("command", args[0])),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	if err := cmd(a, args[1:]); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "jwstool %s: %v\n", args[0], err)
			return exitUsage
		}
		a.log.Error("command failed", zap.Error(err))
		fmt.Fprintf(stderr, "jwstool %s: %v\n", args[0], err)
		return exitFailure
	}

	return exitOK
}
