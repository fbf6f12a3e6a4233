package tunectl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one external command invocation.
type Cmd struct {
	Path   string
	Args   []string
	Env    map[string]string // additional env vars, merged over os.Environ
	Dir    string            // working directory
	Stream bool              // if true, stream stdout/err line by line
}

// String renders the command the way it would appear on a shell prompt.
// Env values are never included; only names they are bound to.
func (c Cmd) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// RunCmd executes c and blocks until it exits. The child's exit status is
// the sole success signal; no retry or recovery happens here.
func RunCmd(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	log.Debug().Str("cmd", c.String()).Msg("exec")
	if c.Stream {
		stdout, _ := cmd.StdoutPipe()
		stderr, _ := cmd.StderrPipe()
		if err := cmd.Start(); err != nil {
			return err
		}
		go stream(c.Path, stdout)
		go stream(c.Path, stderr)
		return cmd.Wait()
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// runStage wraps RunCmd with stage naming so a failure reports which step of
// the pipeline died, and honors dry-run by printing argv instead of running.
func runStage(ctx context.Context, opts *Config, stage string, c Cmd) error {
	if opts != nil && opts.DryRun {
		fmt.Println(c.String())
		return nil
	}
	if err := RunCmd(ctx, c); err != nil {
		return fmt.Errorf("%s: %s: %w", stage, c.Path, err)
	}
	return nil
}

func stream(prefix string, r io.Reader) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		log.Info().Str("from", prefix).Msg(s.Text())
	}
}
