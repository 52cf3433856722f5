package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner runs an external command to completion
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the command as a child process
func ExecRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Governor switches the cpufreq governor of every CPU through cpufreq-set
type Governor struct {
	CPUs int
	Tool string
	Run  Runner
}

func NewGovernor(cpus int) *Governor {
	return &Governor{
		CPUs: cpus,
		Tool: "cpufreq-set",
		Run:  ExecRunner,
	}
}

// Set selects governor gov on all CPUs, stopping at the first failure
func (g *Governor) Set(ctx context.Context, gov string) error {
	if gov == "" {
		return fmt.Errorf("empty governor")
	}
	for c := 0; c < g.CPUs; c++ {
		if err := g.Run(ctx, g.Tool, "-c", strconv.Itoa(c), "-g", gov); err != nil {
			return fmt.Errorf("failed to set governor %q on cpu%d: %w", gov, c, err)
		}
	}
	log.Debugf("governor %q set on %d cpus", gov, g.CPUs)
	return nil
}
