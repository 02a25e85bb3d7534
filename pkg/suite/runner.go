package suite

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock"
)

// RunnerConfig configures the case runner.
type RunnerConfig struct {
	Name        string            // Suite name for reports
	Settings    *config.Settings  // Merged platform settings
	WireMock    *wiremock.Client  // Reset before each case; nil skips the reset
	MappingsDir string            // Where cases load mapping files from
	OutputDir   string            // Artifact directory ("" = no artifacts)
	Tags        []string          // Run only cases with any of these tags
	Open        Opener            // Session factory (default OpenAppium)

	// Wait overrides; zero uses the configured explicit wait and the
	// default polling interval.
	ExplicitWait time.Duration
	PollInterval time.Duration

	// Live progress callbacks
	OnCaseStart func(idx, total int, name string)
	OnCaseEnd   func(result core.CaseResult)
}

// Runner executes cases sequentially, each in its own session.
type Runner struct {
	config RunnerConfig
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Name == "" {
		cfg.Name = "login"
	}
	if cfg.Open == nil {
		cfg.Open = OpenAppium
	}
	if cfg.ExplicitWait <= 0 {
		cfg.ExplicitWait = cfg.Settings.ExplicitWait()
	}
	return &Runner{config: cfg}
}

// Run executes the selected cases. Cancelling ctx skips the cases that
// have not started yet.
func (r *Runner) Run(ctx context.Context, cases []Case) *core.SuiteResult {
	selected := Select(cases, r.config.Tags...)

	result := &core.SuiteResult{
		Name:      r.config.Name,
		RunID:     uuid.NewString(),
		Platform:  r.config.Settings.Platform,
		StartTime: time.Now(),
		Cases:     make([]core.CaseResult, len(selected)),
	}
	log := logger.WithFields(map[string]interface{}{"run": result.RunID, "platform": result.Platform})
	log.Infof("running %d of %d cases (tags %v)", len(selected), len(cases), r.config.Tags)

	for i, c := range selected {
		if ctx.Err() != nil {
			result.Cases[i] = core.CaseResult{
				Name:     c.Name,
				Tags:     c.Tags,
				Platform: result.Platform,
				Status:   core.StatusSkipped,
				Error:    "run cancelled",
			}
			continue
		}

		if r.config.OnCaseStart != nil {
			r.config.OnCaseStart(i, len(selected), c.Name)
		}
		result.Cases[i] = r.runCase(c)
		if r.config.OnCaseEnd != nil {
			r.config.OnCaseEnd(result.Cases[i])
		}
	}

	result.Duration = time.Since(result.StartTime)
	result.ComputeSummary()
	log.Infof("done in %s: %d passed, %d failed, %d errored, %d skipped",
		result.Duration.Round(time.Millisecond), result.Passed, result.Failed, result.Errored, result.Skipped)
	return result
}

func (r *Runner) runCase(c Case) (res core.CaseResult) {
	res = core.CaseResult{
		Name:      c.Name,
		Tags:      c.Tags,
		Platform:  r.config.Settings.Platform,
		StartTime: time.Now(),
		Status:    core.StatusRunning,
	}
	log := logger.WithFields(map[string]interface{}{"case": c.Name})
	defer func() {
		res.Duration = time.Since(res.StartTime)
		log.Infof("%s (%s)", res.Status, res.Duration.Round(time.Millisecond))
	}()

	session, err := r.config.Open(r.config.Settings)
	if err != nil {
		log.Errorf("open session: %v", err)
		res.SetError(err)
		return res
	}
	defer func() {
		if err := session.Disconnect(); err != nil {
			log.Warnf("close session: %v", err)
		}
	}()
	res.PlatformInfo = session.PlatformInfo()

	if r.config.WireMock != nil {
		if err := r.config.WireMock.Reset(); err != nil {
			res.SetError(fmt.Errorf("reset wiremock: %w", err))
			return res
		}
	}

	env := newEnv(session, r.config.WireMock, r.config.Settings, r.config.MappingsDir,
		r.config.ExplicitWait, r.config.PollInterval)
	res.SetError(runSafely(c, env))
	if res.Error != "" {
		log.Warnf("%s", res.Error)
	}

	r.capture(session, &res)
	return res
}

// runSafely turns a panicking case into an error.
func runSafely(c Case, env *Env) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("case %s panicked: %v", c.Name, p)
		}
	}()
	return c.Run(env)
}

func (r *Runner) capture(session Session, res *core.CaseResult) {
	if r.config.OutputDir == "" {
		return
	}
	cfg := r.config.Settings.ArtifactConfig()
	if !cfg.ShouldCapture(res.Status, res.Category) {
		return
	}

	dir := filepath.Join(r.config.OutputDir, "artifacts")
	attachments, err := core.CaptureArtifacts(session, cfg, dir, res.Name)
	if err != nil {
		logger.Warn("capture artifacts for %s: %v", res.Name, err)
	}
	res.Attachments = attachments
}
