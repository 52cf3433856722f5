package util

import (
	"fmt"
	"strconv"
	"strings"
)

// CPUList is a set of CPU ids in the kernel's list format ("0-3,6,8-9"),
// as accepted by taskset -c. It implements flag.Value.
type CPUList []int

// ParseCPUList parses a kernel cpu list. An empty string yields an empty list.
func ParseCPUList(s string) (CPUList, error) {
	var l CPUList
	err := l.Set(s)
	return l, err
}

func (l *CPUList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if idx := strings.IndexByte(part, '-'); idx >= 0 {
			lo, hi = part[:idx], part[idx+1:]
		}
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return fmt.Errorf("invalid cpu %q in list %q", lo, value)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return fmt.Errorf("invalid cpu %q in list %q", hi, value)
		}
		if from < 0 || to < from {
			return fmt.Errorf("invalid cpu range %q in list %q", part, value)
		}
		for c := from; c <= to; c++ {
			*l = append(*l, c)
		}
	}
	return nil
}

// String renders the list back in compact range form
func (l *CPUList) String() string {
	if l == nil || len(*l) == 0 {
		return ""
	}
	var b strings.Builder
	cpus := *l
	for i := 0; i < len(cpus); {
		j := i
		for j+1 < len(cpus) && cpus[j+1] == cpus[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if j == i {
			fmt.Fprintf(&b, "%d", cpus[i])
		} else {
			fmt.Fprintf(&b, "%d-%d", cpus[i], cpus[j])
		}
		i = j + 1
	}
	return b.String()
}

// Empty reports whether no cpu is selected
func (l CPUList) Empty() bool {
	return len(l) == 0
}
