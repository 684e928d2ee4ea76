//go:build linux

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
)

// countCycles runs solve under a CPU cycle counter. When the counter can not
// be opened (perf_event_paranoid, containers) the run still happens, uncounted.
func countCycles(solve func() error) (err error) {
	var (
		ran bool
		pv  *perf.ProfileValue
	)
	pv, err = perf.CPUCycles(func() error {
		ran = true
		return solve()
	})
	switch {
	case ran && err != nil:
		return
	case !ran:
		logger.Warnf("hardware counters unavailable: %v", err)
		return solve()
	}
	logger.Infof("CPU cycles = %d, time enabled = %dns", pv.Value, pv.TimeEnabled)
	return
}
