// Command symfetch downloads Blissymbolics PNG assets by symbol id into a
// local directory or an object storage bucket.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitStorageError     = 5
	ExitValidationFailed = 7
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Per-task download
// failures are reported in the summary and do not change the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp(stdout, stderr).RunContext(ctx, args)
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	// Anything else comes from flag parsing.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitInvalidArgs
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "symfetch",
		Usage:     "download Blissymbolics PNG assets by symbol id",
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are mapped by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			fetchCommand(),
			idsCommand(),
			validateCommand(),
		},
	}
}

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
