package firefox

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/lotas/tabstash/internal/applog"
)

// Launcher opens URLs by asking Firefox for a new window. It is used when
// the extension is not connected.
type Launcher struct {
	Binary  string // defaults to the platform's Firefox executable
	Profile string // passed with -P when set
}

func (l Launcher) binary() string {
	if l.Binary != "" {
		return l.Binary
	}
	if runtime.GOOS == "darwin" {
		return "/Applications/Firefox.app/Contents/MacOS/firefox"
	}
	return "firefox"
}

func (l Launcher) args(urls []string) []string {
	var args []string
	if l.Profile != "" {
		args = append(args, "-P", l.Profile)
	}
	if len(urls) > 0 {
		args = append(args, "--new-window", urls[0])
		args = append(args, urls[1:]...)
	}
	return args
}

// OpenURLs starts Firefox with urls. The first URL opens a new window and
// the rest follow as tabs. It does not wait for the browser to exit.
func (l Launcher) OpenURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, l.binary(), l.args(urls)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.binary(), err)
	}
	applog.Info("firefox.launch", "urls", len(urls), "pid", cmd.Process.Pid)
	go cmd.Wait()
	return nil
}
