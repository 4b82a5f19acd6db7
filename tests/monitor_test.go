package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"

	"github.com/farcloser/sonorium/tests/testutils"
)

func TestMonitorCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "monitor without arguments fails",
			Command:     test.Command("monitor"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "fast replay renders the panel",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"monitor",
					"--realtime=false",
					"--config", unwritableProfile,
					data.Labels().Get("file"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("[A] track 0"),
						expectContains("Integrated"),
						expectContains("Peak"),
					),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestConfigCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "missing profile shows defaults",
			Command:     test.Command("config", "show", "--config", unwritableProfile),
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("#0000FF"),
						expectContains("thresholds"),
					),
				}
			},
		},
		{
			Description: "init into an unwritable location fails",
			Command:     test.Command("config", "init", "--config", unwritableProfile),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
	}

	testCase.Run(t)
}
