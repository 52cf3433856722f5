package bench

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spenczar/tdigest"
)

// Stat tracks the distribution of the task times of one test, across all runs
// and numbers of instances.
type Stat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
	td    *tdigest.TDigest
	mut   *sync.Mutex
}

func NewStat(name string) *Stat {
	return &Stat{
		Name: name,
		td:   tdigest.New(),
		mut:  &sync.Mutex{},
	}
}

func (s *Stat) Add(dur time.Duration) {
	s.mut.Lock()
	s.Count++
	s.Total += dur
	if dur > s.Max {
		s.Max = dur
	}
	s.td.Add(float64(dur), 1)
	s.mut.Unlock()
}

// Quantile returns the estimated q quantile, or 0 when nothing was added
func (s *Stat) Quantile(q float64) time.Duration {
	s.mut.Lock()
	defer s.mut.Unlock()
	if s.Count == 0 {
		return 0
	}
	return time.Duration(s.td.Quantile(q))
}

// Report writes the stat as aligned columns
func (s *Stat) Report(w io.Writer) error {
	s.mut.Lock()
	var mean time.Duration
	if s.Count > 0 {
		mean = time.Duration(float64(s.Total) / float64(s.Count))
	}
	count, max := s.Count, s.Max
	s.mut.Unlock()

	const fmtstr = "Test\t%s\n" +
		"Tasks\t[total]\t%d\n" +
		"Task times\t[mean, 50, 95, 99, max]\t%s, %s, %s, %s, %s\n"

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.StripEscape)
	_, err := fmt.Fprintf(tw, fmtstr,
		s.Name,
		count,
		mean, s.Quantile(0.50), s.Quantile(0.95), s.Quantile(0.99), max,
	)
	if err != nil {
		return err
	}
	return tw.Flush()
}
