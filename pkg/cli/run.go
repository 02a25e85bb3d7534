package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
	"github.com/devicelab-dev/mobile-login-tests/pkg/report"
	"github.com/devicelab-dev/mobile-login-tests/pkg/suite"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock"
)

// openSession is replaced in tests.
var openSession suite.Opener = suite.OpenAppium

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Run the login cases on a device",
	Description: `Run the login cases, one fresh Appium session per case. WireMock is reset
before every case and each case loads the stubs it needs.

Reports are written to the output directory:
  - Default: <home>/reports/<timestamp>/
  - With --output: <output>/<timestamp>/
  - With --output and --flatten: <output>/

Examples:
  mobiletest run
  mobiletest run --platform ios --tags smoke
  mobiletest run --explicit-wait 30s --output ./reports --flatten`,
	Flags: []cli.Flag{
		platformFlag,
		configDirFlag,
		wireMockURLFlag,
		&cli.StringSliceFlag{
			Name:  "tags",
			Usage: "Only run cases with any of these tags (smoke, regression)",
		},
		&cli.StringFlag{
			Name:    "mappings",
			Usage:   "WireMock mappings directory (default: wiremock.mappings_dir from settings)",
			EnvVars: []string{"MOBILETEST_MAPPINGS_DIR"},
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output directory for reports and artifacts",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "Don't create timestamp subfolder (requires --output)",
		},
		&cli.DurationFlag{
			Name:  "explicit-wait",
			Usage: "Override timeouts.explicit_wait for element waits",
		},
	},
	Action: runCases,
}

// RunConfig holds everything a run needs, resolved from flags and settings.
type RunConfig struct {
	Platform     string
	ConfigDir    string
	WireMockURL  string
	MappingsDir  string
	OutputDir    string
	Tags         []string
	ExplicitWait time.Duration
	Settings     *config.Settings
}

func runCases(c *cli.Context) error {
	cfg, err := resolveRunConfig(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if !c.IsSet("log-file") {
		logPath := filepath.Join(cfg.OutputDir, "mobiletest.log")
		if err := logger.Init(logPath); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Warning: Failed to initialize logger: %v\n", err)
		}
	}

	logger.Info("=== Run started ===")
	logger.Info("Platform: %s", cfg.Platform)
	logger.Info("Config dir: %s", cfg.ConfigDir)
	logger.Info("Appium: %s", cfg.Settings.ServerURL())
	logger.Info("WireMock: %s (mappings %s)", cfg.WireMockURL, cfg.MappingsDir)
	logger.Info("Output directory: %s", cfg.OutputDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := c.App.Writer
	runner := suite.NewRunner(suite.RunnerConfig{
		Settings:     cfg.Settings,
		WireMock:     wiremock.NewClient(cfg.WireMockURL),
		MappingsDir:  cfg.MappingsDir,
		OutputDir:    cfg.OutputDir,
		Tags:         cfg.Tags,
		Open:         openSession,
		ExplicitWait: cfg.ExplicitWait,
		OnCaseStart: func(idx, total int, name string) {
			fmt.Fprintf(out, "[%d/%d] %s ... ", idx+1, total, name)
		},
		OnCaseEnd: func(r core.CaseResult) {
			fmt.Fprintf(out, "%s (%s)\n", strings.ToUpper(r.Status.String()), formatDuration(r.Duration))
			if r.Error != "" {
				fmt.Fprintf(out, "      %s\n", r.Error)
			}
		},
	})
	result := runner.Run(ctx, suite.LoginCases())

	if err := writeReports(cfg.OutputDir, result); err != nil {
		logger.Error("write reports: %v", err)
		return err
	}
	printSummary(out, result, cfg.OutputDir)

	if !result.Success() {
		return errCasesFailed
	}
	return nil
}

func resolveRunConfig(c *cli.Context) (*RunConfig, error) {
	platform, err := config.NormalizePlatform(c.String("platform"))
	if err != nil {
		return nil, err
	}

	configDir := c.String("config-dir")
	if configDir == "" {
		configDir = config.GetConfigDir()
	}
	settings, err := config.LoadMerged(configDir, platform)
	if err != nil {
		return nil, err
	}

	outputDir, err := resolveOutputDir(c.String("output"), c.Bool("flatten"))
	if err != nil {
		return nil, err
	}

	wireMockURL := c.String("wiremock-url")
	if wireMockURL == "" {
		wireMockURL = settings.WireMockURL()
	}

	return &RunConfig{
		Platform:     platform,
		ConfigDir:    configDir,
		WireMockURL:  wireMockURL,
		MappingsDir:  resolveMappingsDir(c.String("mappings"), settings),
		OutputDir:    outputDir,
		Tags:         c.StringSlice("tags"),
		ExplicitWait: c.Duration("explicit-wait"),
		Settings:     settings,
	}, nil
}

// resolveMappingsDir prefers the flag, then wiremock.mappings_dir (relative
// to home), then <home>/wiremock/mappings.
func resolveMappingsDir(flag string, settings *config.Settings) string {
	if flag != "" {
		return flag
	}
	if dir := settings.WireMock.MappingsDir; dir != "" {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(config.GetHome(), dir)
	}
	return config.GetMappingsDir()
}

func resolveOutputDir(output string, flatten bool) (string, error) {
	if flatten && output == "" {
		return "", fmt.Errorf("--flatten requires --output to be specified")
	}

	baseDir := output
	if baseDir == "" {
		baseDir = config.GetReportsDir()
	}

	if flatten {
		return filepath.Clean(baseDir), nil
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(baseDir, timestamp), nil
}

func writeReports(dir string, result *core.SuiteResult) error {
	if err := report.WriteJSON(dir, result); err != nil {
		return err
	}
	if err := report.WriteAllure(dir, result); err != nil {
		return err
	}
	return report.WriteJUnit(filepath.Join(dir, "junit.xml"), result)
}

func printSummary(w io.Writer, result *core.SuiteResult, outputDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d cases: %d passed, %d failed, %d errored, %d skipped in %s\n",
		result.Total, result.Passed, result.Failed, result.Errored, result.Skipped,
		formatDuration(result.Duration))
	fmt.Fprintf(w, "Reports: %s\n", outputDir)
}

func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}
