package logger

import (
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2013, 5, 2, 14, 3, 4, 5000000, time.UTC)
	cases := []struct {
		name string
		f    TextFormatter
		msg  string
		data log.Fields
		exp  string
	}{
		{
			name: "plain",
			f:    TextFormatter{},
			msg:  "starting run",
			exp:  "2013-05-02 14:03:04.005 [INFO] starting run\n",
		},
		{
			name: "module and sorted fields",
			f:    TextFormatter{DisableTimestamp: true, ModuleName: "bench"},
			msg:  "run done",
			data: log.Fields{"run": 3, "label": "PerfPIPE"},
			exp:  "[INFO] [bench] run done label=PerfPIPE run=3\n",
		},
		{
			name: "quoted values",
			f:    TextFormatter{DisableTimestamp: true, QuoteEmptyFields: true},
			msg:  "failed",
			data: log.Fields{"cmd": "perf bench", "error": errors.New("exit status 1"), "empty": ""},
			exp:  "[INFO] failed cmd=\"perf bench\" empty=\"\" error=\"exit status 1\"\n",
		},
	}
	for _, c := range cases {
		entry := &log.Entry{
			Time:    ts,
			Level:   log.InfoLevel,
			Message: c.msg,
			Data:    c.data,
		}
		out, err := c.f.Format(entry)
		if err != nil {
			t.Fatalf("case %q: unexpected error %s", c.name, err)
		}
		if string(out) != c.exp {
			t.Errorf("case %q: expected %q, got %q", c.name, c.exp, string(out))
		}
	}
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	if err := Configure("test", "chatty", nil); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
