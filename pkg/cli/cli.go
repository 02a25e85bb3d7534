// Package cli provides the command-line interface for mobiletest.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// errCasesFailed makes the process exit non-zero after the summary is printed.
var errCasesFailed = errors.New("one or more cases failed")

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable debug logging",
		EnvVars: []string{"MOBILETEST_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file instead of the run output directory",
		EnvVars: []string{"MOBILETEST_LOG_FILE"},
	},
}

// Shared command flags.
var (
	platformFlag = &cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "Platform to run on (android, ios)",
		Value:   "android",
		EnvVars: []string{"MOBILETEST_PLATFORM"},
	}
	configDirFlag = &cli.StringFlag{
		Name:    "config-dir",
		Usage:   "Directory holding settings.yaml and <platform>.yaml (default: <home>/config)",
		EnvVars: []string{"MOBILETEST_CONFIG_DIR"},
	}
	wireMockURLFlag = &cli.StringFlag{
		Name:    "wiremock-url",
		Usage:   "WireMock base URL (default: wiremock.base_url from settings)",
		EnvVars: []string{"MOBILETEST_WIREMOCK_URL"},
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "mobiletest",
		Usage:   "Run the mobile login UI test suite against Appium and WireMock",
		Version: Version,
		Description: `mobiletest drives the app under test through an Appium server while a
WireMock server stands in for the backend.

Examples:
  mobiletest run --platform android
  mobiletest run --platform ios --tags smoke --output ./reports
  mobiletest config show --platform ios
  mobiletest wiremock load wiremock/mappings/login_success.json`,
		Flags:  GlobalFlags,
		Before: setupLogging,
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			runCommand,
			configCommand,
			wireMockCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := newApp().Run(os.Args); err != nil {
		if !errors.Is(err, errCasesFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	if path := c.String("log-file"); path != "" {
		if err := logger.Init(path); err != nil {
			return err
		}
	} else if c.Bool("verbose") {
		logger.InitWriter(c.App.ErrWriter)
	}
	logger.SetVerbose(c.Bool("verbose"))
	return nil
}
