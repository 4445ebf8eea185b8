package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/audio"
)

// waitDelay bounds how long Wait blocks on output pipes after the process
// has been killed, so a grandchild holding stderr cannot stall the request.
const waitDelay = 5 * time.Second

// runCommand executes name with args under timeout. On expiry the process is
// killed and a timeout error is returned. stdout is discarded; a bounded
// tail of stderr is attached to failures.
func runCommand(ctx context.Context, backend string, timeout time.Duration, name string, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return newError(backend, CodeCanceled, ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return newError(backend, CodeTimeout, fmt.Errorf("%s did not finish within %s", name, timeout))
	default:
		return newError(backend, CodeExec, fmt.Errorf("%w, stderr: %s", err, audio.Tail(stderr.String(), 1024)))
	}
}
