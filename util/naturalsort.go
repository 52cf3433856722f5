package util

import "strconv"

// NaturalSortStringSlice sorts task and CPU names so that embedded numbers compare
// numerically: "wlg-2" sorts before "wlg-10" and "cpu9" before "cpu10".
type NaturalSortStringSlice []string

func (ss NaturalSortStringSlice) Len() int           { return len(ss) }
func (ss NaturalSortStringSlice) Less(i, j int) bool { return NaturalLess(ss[i], ss[j]) }
func (ss NaturalSortStringSlice) Swap(i, j int)      { ss[i], ss[j] = ss[j], ss[i] }

// NaturalLess compares s and t chunk by chunk, where a chunk is a maximal run of
// either digits or non-digits. Digit chunks compare by value, others bytewise.
func NaturalLess(s, t string) bool {
	i, j := 0, 0
	for i < len(s) && j < len(t) {
		a, nextI := chunk(s, i)
		b, nextJ := chunk(t, j)
		if c := compareChunks(a, b); c != 0 {
			return c < 0
		}
		i, j = nextI, nextJ
	}
	// the shorter string sorts first
	return i == len(s) && j < len(t)
}

func chunk(s string, pos int) (string, int) {
	digits := IsDigit(s[pos])
	end := pos + 1
	for end < len(s) && IsDigit(s[end]) == digits {
		end++
	}
	return s[pos:end], end
}

func compareChunks(a, b string) int {
	if a == b {
		return 0
	}
	if IsDigit(a[0]) && IsDigit(b[0]) {
		an, errA := strconv.ParseUint(a, 10, 64)
		bn, errB := strconv.ParseUint(b, 10, 64)
		if errA == nil && errB == nil && an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
		// same value with different zero padding: shorter first
		if len(a) != len(b) {
			return len(a) - len(b)
		}
	}
	if a < b {
		return -1
	}
	return 1
}

// IsDigit reports whether b is an ASCII digit
func IsDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
