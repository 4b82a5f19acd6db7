package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// Profile path the monitor cannot write to, so runs never leave a profile behind.
const unwritableProfile = "/nonexistent/sonorium/profile.ini"

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectMeasured returns a comparator verifying that the "key: value" line for key holds a measurement.
func expectMeasured(key string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		prefix := key + ":"

		for line := range strings.SplitSeq(stdout, "\n") {
			value, found := strings.CutPrefix(strings.TrimSpace(line), prefix)
			if !found {
				continue
			}

			if strings.Contains(value, "-inf") {
				testing.Log(fmt.Sprintf("expected %q to be measured, got %q", key, strings.TrimSpace(value)))
				testing.Fail()
			}

			return
		}

		testing.Log(fmt.Sprintf("expected key %q not found in output:\n%s", key, stdout))
		testing.Fail()
	}
}
