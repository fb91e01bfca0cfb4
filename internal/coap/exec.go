package coap

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBinary is the libcoap command-line client built with DTLS support
const DefaultBinary = "coap-client"

// execGrace is added on top of the coap-client -B timeout before the process is killed
const execGrace = 2 * time.Second

// runFunc executes a binary and returns its stdout and stderr
type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecTransport sends requests by running the coap-client binary once per request
type ExecTransport struct {
	binary string
	run    runFunc
}

// NewExecTransport creates a transport backed by the given coap-client binary
func NewExecTransport(binary string) *ExecTransport {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ExecTransport{
		binary: binary,
		run:    runCommand,
	}
}

// Binary returns the coap-client path in use
func (t *ExecTransport) Binary() string {
	return t.binary
}

// Args builds the coap-client argument list for a request
func (t *ExecTransport) Args(creds Credentials, req Request) []string {
	args := []string{
		"-m", strings.ToLower(string(req.Method)),
		"-u", creds.Identity,
		"-k", creds.Key,
	}
	if req.Timeout > 0 {
		secs := int(math.Ceil(req.Timeout.Seconds()))
		args = append(args, "-B", strconv.Itoa(secs))
	}
	if len(req.Payload) > 0 {
		args = append(args, "-e", string(req.Payload))
	}
	return append(args, URI(creds.Host, req.Path))
}

// Send runs coap-client and returns its standard output
func (t *ExecTransport) Send(ctx context.Context, creds Credentials, req Request) ([]byte, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout+execGrace)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := t.run(ctx, t.binary, t.Args(creds, req)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &TransportError{
			Method:     req.Method,
			Path:       req.Path,
			Diagnostic: diagnostic(stderr, stdout),
			Err:        err,
		}
	}

	log.Debug().
		Str("method", string(req.Method)).
		Str("path", req.Path).
		Int("bytes", len(stdout)).
		Dur("took", time.Since(start)).
		Msg("coap-client request done")

	return stdout, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = errors.New(exitErr.String())
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

func diagnostic(stderr, stdout []byte) string {
	parts := make([]string, 0, 2)
	for _, b := range [][]byte{stderr, stdout} {
		if s := strings.TrimSpace(string(b)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
