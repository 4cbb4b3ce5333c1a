package dump

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Reader returns the raw `wg show <interface> dump` output of an interface.
type Reader interface {
	ReadDump(ctx context.Context, interfaceName string) (string, error)
}

// Runner abstracts command execution, so the reader can be tested without a WireGuard interface.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// OSRunner executes commands on the host.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CommandReader queries the interface with the wg tool.
type CommandReader struct {
	log    *zap.Logger
	runner Runner
	binary string
}

func NewCommandReader(log *zap.Logger, runner Runner, binary string) *CommandReader {
	return &CommandReader{
		log:    log.Named("wg_command"),
		runner: runner,
		binary: binary,
	}
}

func (r *CommandReader) ReadDump(ctx context.Context, interfaceName string) (string, error) {
	args := []string{"show", interfaceName, "dump"}
	command := strings.Join(append([]string{r.binary}, args...), " ")
	log := r.log.With(zap.String("command", command))

	stdout, stderr, err := r.runner.Run(ctx, r.binary, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", scrape.ProcessError(command, ctxErr)
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", scrape.ProcessError(command, err)
		}

		// The exit code is not interpreted, whatever got printed is still used
		log.Warn("Status query exited abnormally",
			zap.Int("exit_code", exitErr.ExitCode()),
			zap.String("stderr", strings.TrimSpace(string(stderr))),
		)
	}

	log.Debug("Read interface dump", zap.Int("bytes", len(stdout)))
	return string(stdout), nil
}
