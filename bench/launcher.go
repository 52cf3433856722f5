package bench

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Sample is what one workload instance reports through /usr/bin/time
type Sample struct {
	Real      float64 // elapsed wall clock seconds
	Forced    float64 // involuntary context switches
	Voluntary float64 // voluntary context switches
	Signals   float64 // signals delivered
}

// Launcher runs one instance of a workload to completion
type Launcher interface {
	Launch(ctx context.Context, argv []string) (Sample, error)
}

// killGrace is how long Launch still waits for the output pipes of a cancelled
// command to close
const killGrace = time.Second

// ExecLauncher runs the workload as a child process.
// Its standard output is discarded, the timing line is read from standard error.
// The child leads its own process group: when ctx is done the whole group is
// killed, including the workload forked by time and chrt.
type ExecLauncher struct{}

func (ExecLauncher) Launch(ctx context.Context, argv []string) (Sample, error) {
	if len(argv) == 0 {
		return Sample{}, fmt.Errorf("empty command line")
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = ioutil.Discard
	cmd.Stderr = &stderr
	killGroupOnCancel(cmd)
	cmd.WaitDelay = killGrace
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Sample{}, ctx.Err()
		}
		return Sample{}, fmt.Errorf("%s: %w (%s)", argv[0], err, lastLine(stderr.String()))
	}
	return ParseTimeLine(lastLine(stderr.String()))
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// ParseTimeLine parses a line printed by /usr/bin/time with TimeFormat
func ParseTimeLine(line string) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Sample{}, fmt.Errorf("expected 4 timing fields, got %q", line)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("bad timing line %q: %w", line, err)
		}
		v[i] = n
	}
	return Sample{Real: v[0], Forced: v[1], Voluntary: v[2], Signals: v[3]}, nil
}
