package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cbs-sched/schedtools/platform"
	"github.com/cbs-sched/schedtools/report"
	"github.com/cbs-sched/schedtools/stats"
)

// DataFileName returns the name of the data file of test t started at now
func DataFileName(t Test, now time.Time) string {
	return fmt.Sprintf("test_%s_%s_%s.dat", t.Policy, now.Format("20060102_150405"), t.Label)
}

// banner keys parsed back by ReadDataFile
const (
	bannerBenchmark = "Benchmark"
	bannerScheduler = "Scheduler"
)

// WriteBanner writes the banner describing the test and the host
func WriteBanner(w io.Writer, t Test, host platform.Info, now time.Time) error {
	cpus := "all"
	if !t.TargetCPUs.Empty() {
		cpus = t.TargetCPUs.String()
	}
	fields := []report.Field{
		{Key: bannerBenchmark, Value: t.Label},
		{Value: t.Description},
		{Key: bannerScheduler, Value: t.Policy},
		{Key: "Command", Value: t.Command},
		{Key: "Max instances", Value: t.Instances},
		{Key: "Number of runs", Value: t.Runs},
		{Key: "Target CPUs", Value: cpus},
	}
	if t.Description == "" {
		fields = append(fields[:1], fields[2:]...)
	}
	for _, f := range host.Fields() {
		fields = append(fields, report.Field{Key: f[0], Value: f[1]})
	}
	fields = append(fields, report.Field{Key: "Test date", Value: now.Format("2006-01-02 15:04:05")})

	return report.WriteBanner(w, fields)
}

// WriteHeader writes the banner followed by the column header of the data rows
func WriteHeader(w io.Writer, t Test, host platform.Info, now time.Time) error {
	if err := WriteBanner(w, t, host, now); err != nil {
		return err
	}
	header := report.FullHeader("insts", Columns)
	_, err := fmt.Fprintf(w, "%s\n%s\n", header, report.Rule(header))
	return err
}

// FormatRow returns the data file row of r
func FormatRow(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%7d ", r.Instances)
	for _, c := range Columns {
		b.WriteString(report.Full(r.Stats[c.Label], c.Precision))
	}
	return strings.TrimRight(b.String(), " ")
}

// FormatBrief returns the console row of r
func FormatBrief(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%7d ", r.Instances)
	for _, c := range Columns {
		b.WriteString(report.Brief(r.Stats[c.Label], c.Precision))
	}
	return strings.TrimRight(b.String(), " ")
}

// ReadDataFile loads a data file written by the runner.
// The test label and policy are recovered from the banner, the statistics from
// the rows. Snapshots read back carry no sample count.
func ReadDataFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	rep := Report{DataFile: path}
	nfields := 1 + 6*len(Columns)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			readBannerLine(&rep.Test, text)
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != nfields {
			return Report{}, fmt.Errorf("%s:%d: expected %d fields, got %d", path, line, nfields, len(fields))
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return Report{}, fmt.Errorf("%s:%d: bad number of instances: %w", path, line, err)
		}
		res := Result{Instances: n, Stats: make(map[string]stats.Snapshot, len(Columns))}
		for i, c := range Columns {
			var v [6]float64
			for j := range v {
				v[j], err = strconv.ParseFloat(fields[1+6*i+j], 64)
				if err != nil {
					return Report{}, fmt.Errorf("%s:%d: bad %s value: %w", path, line, c.Label, err)
				}
			}
			res.Stats[c.Label] = stats.Snapshot{Mean: v[0], Variance: v[1], StdDev: v[2], StdErr: v[3], CI95: v[4], CI99: v[5]}
		}
		rep.Results = append(rep.Results, res)
	}
	if err := scanner.Err(); err != nil {
		return Report{}, err
	}
	if rep.Test.Label == "" {
		rep.Test.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return rep, nil
}

// readBannerLine picks the test label and policy from a "# Key : value" line.
// Untagged lines such as the description start with more than one space and are ignored.
func readBannerLine(t *Test, line string) {
	if !strings.HasPrefix(line, "# ") || strings.HasPrefix(line, "#  ") {
		return
	}
	parts := strings.SplitN(line[2:], " : ", 2)
	if len(parts) != 2 {
		return
	}
	value := strings.TrimSpace(parts[1])
	switch strings.TrimSpace(parts[0]) {
	case bannerBenchmark:
		t.Label = value
	case bannerScheduler:
		if p, err := ParsePolicy(value); err == nil {
			t.Policy = p
		}
	}
}
