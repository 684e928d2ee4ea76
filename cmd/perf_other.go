//go:build !linux

package cmd

func countCycles(solve func() error) error {
	logger.Warnf("hardware counters are only available on linux")
	return solve()
}
