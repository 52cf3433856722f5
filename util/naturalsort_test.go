package util

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func genTaskName(i int) string {
	return fmt.Sprintf("hb_tx_%03d_%02d-%d", i/10, i%10, 30000+i)
}

func TestNaturalSort(t *testing.T) {
	numNames := 2000
	ordered := make([]string, 0, numNames)
	for i := 0; i < numNames; i++ {
		ordered = append(ordered, genTaskName(i))
	}
	shuffled := make([]string, numNames)
	copy(shuffled, ordered)
	r := rand.New(rand.NewSource(1))
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	cases := []struct {
		in     []string
		sorted []string
	}{
		{
			[]string{"wlg-3818", "hb_ctl-32254", "wlg-382"},
			[]string{"hb_ctl-32254", "wlg-382", "wlg-3818"},
		},
		{
			[]string{"cpu10", "cpu2", "cpu1", "cpu"},
			[]string{"cpu", "cpu1", "cpu2", "cpu10"},
		},
		{
			[]string{"task00030", "task0003d", "task0003"},
			[]string{"task0003", "task0003d", "task00030"},
		},
		{
			[]string{"t07", "t7"},
			[]string{"t7", "t07"},
		},
		{
			shuffled,
			ordered,
		},
	}
	for i, c := range cases {
		sorted := make([]string, len(c.in))
		copy(sorted, c.in)
		sort.Sort(NaturalSortStringSlice(sorted))

		for j := range sorted {
			if sorted[j] != c.sorted[j] {
				t.Fatalf("case %d: mismatch at pos %d. Expected %s but got %s", i, j, c.sorted[j], sorted[j])
			}
		}
	}
}

func BenchmarkNaturalSort_1000(b *testing.B) {
	input := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		input = append(input, genTaskName(i))
	}
	rand.Shuffle(len(input), func(i, j int) { input[i], input[j] = input[j], input[i] })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sort.Sort(NaturalSortStringSlice(input))
	}
}
