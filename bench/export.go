package bench

import (
	"github.com/prometheus/client_golang/prometheus"
)

var metricHelp = map[string]string{
	TaskTime:  "Average and 99% confidence of the elapsed time of one instance, in seconds.",
	RunTime:   "Average and 99% confidence of the wall time of a run, in seconds.",
	Forced:    "Average and 99% confidence of the involuntary context switches of one instance.",
	Voluntary: "Average and 99% confidence of the voluntary context switches of one instance.",
	Signals:   "Average and 99% confidence of the signals delivered to one instance.",
}

var metricNames = map[string]string{
	TaskTime:  "task_time_seconds",
	RunTime:   "run_time_seconds",
	Forced:    "forced_switches",
	Voluntary: "voluntary_switches",
	Signals:   "signals",
}

// ExportTextfile writes the result with the most instances of every report in
// the Prometheus text format, e.g. for the node exporter textfile collector.
// Reports without results are left out.
func ExportTextfile(path string, reports []Report) error {
	reg := prometheus.NewRegistry()

	instances := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "schedbench",
		Name:      "instances",
		Help:      "Number of concurrent instances of the exported result.",
	}, []string{"test", "policy"})
	unfairness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "schedbench",
		Name:      "unfairness",
		Help:      "1 - task time / run time of the exported result.",
	}, []string{"test", "policy"})
	reg.MustRegister(instances, unfairness)

	gauges := make(map[string]*prometheus.GaugeVec, len(Columns))
	for _, c := range Columns {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "schedbench",
			Name:      metricNames[c.Label],
			Help:      metricHelp[c.Label],
		}, []string{"test", "policy", "stat"})
		reg.MustRegister(g)
		gauges[c.Label] = g
	}

	for _, rep := range reports {
		last, ok := rep.Last()
		if !ok {
			continue
		}
		test, policy := rep.Test.Label, string(rep.Test.Policy)
		instances.WithLabelValues(test, policy).Set(float64(last.Instances))
		unfairness.WithLabelValues(test, policy).Set(last.Unfairness())
		for label, g := range gauges {
			s := last.Stats[label]
			g.WithLabelValues(test, policy, "avg").Set(s.Mean)
			g.WithLabelValues(test, policy, "c99").Set(s.CI99)
		}
	}
	return prometheus.WriteToTextfile(path, reg)
}
