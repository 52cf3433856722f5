package main

import "github.com/cbs-sched/schedtools/cmd/sched-plot/cmd"

func main() {
	cmd.Execute()
}
