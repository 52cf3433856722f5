// Package platform describes the host a benchmark runs on and controls its
// CPU frequency scaling.
package platform

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"
)

const (
	DefaultProcRoot = procfs.DefaultMountPoint
	DefaultSysRoot  = sysfs.DefaultMountPoint
)

// Info describes the host
type Info struct {
	CPUs           int
	Model          string
	HyperThreading bool
	Kernel         string
	Governor       string // cpufreq governor of cpu0, empty without cpufreq
	Frequency      uint64 // current frequency of cpu0 [kHz], 0 when unknown
}

// Describe reads the host description from the proc and sys filesystems mounted
// at procRoot and sysRoot. A host without cpufreq support is not an error.
func Describe(procRoot, sysRoot string) (Info, error) {
	var info Info

	proc, err := procfs.NewFS(procRoot)
	if err != nil {
		return info, err
	}
	cpus, err := proc.CPUInfo()
	if err != nil {
		return info, fmt.Errorf("failed to read cpuinfo: %w", err)
	}
	info.CPUs = len(cpus)
	if len(cpus) > 0 {
		info.Model = cpus[0].ModelName
		info.HyperThreading = cpus[0].CPUCores > 0 && cpus[0].Siblings > cpus[0].CPUCores
	}

	release, err := ioutil.ReadFile(filepath.Join(procRoot, "sys", "kernel", "osrelease"))
	if err != nil {
		return info, fmt.Errorf("failed to read kernel release: %w", err)
	}
	info.Kernel = strings.TrimSpace(string(release))

	sys, err := sysfs.NewFS(sysRoot)
	if err != nil {
		return info, err
	}
	freqs, err := sys.SystemCpufreq()
	if err != nil {
		return info, fmt.Errorf("failed to read cpufreq: %w", err)
	}
	for _, f := range freqs {
		if f.Name != "0" {
			continue
		}
		info.Governor = f.Governor
		switch {
		case f.ScalingCurrentFrequency != nil:
			info.Frequency = *f.ScalingCurrentFrequency
		case f.CpuinfoCurrentFrequency != nil:
			info.Frequency = *f.CpuinfoCurrentFrequency
		}
	}
	return info, nil
}

// Fields returns the description as ordered key/value pairs, for report banners
func (i Info) Fields() [][2]string {
	governor := i.Governor
	if governor == "" {
		governor = "n/a"
	}
	freq := "n/a"
	if i.Frequency > 0 {
		freq = fmt.Sprintf("%d", i.Frequency)
	}
	ht := "no"
	if i.HyperThreading {
		ht = "yes"
	}
	return [][2]string{
		{"Number of CPUs", fmt.Sprintf("%d", i.CPUs)},
		{"CPU model", i.Model},
		{"Hyper-threading", ht},
		{"Kernel", i.Kernel},
		{"CPUfreq governor", governor},
		{"CPUfreq frequency (kHz)", freq},
	}
}
