package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/config"
	"github.com/yaklabco/prhdesc/pkg/engine"
	"github.com/yaklabco/prhdesc/pkg/enrich"
	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/metrics"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

// session is the configuration and rule sources shared by every command.
type session struct {
	cfg     *config.Config
	loaded  *configloader.LoadResult
	env     sources.Env
	workDir string
	color   string
	logger  *log.Logger
}

// newSession loads configuration for cmd, applying overrides from its flags.
func newSession(cmd *cobra.Command, overrides *configloader.Overrides) (*session, error) {
	ctx := commandContext(cmd)
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Overrides:    overrides,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}

	color, err := cmd.Flags().GetString("color")
	if err != nil {
		color = "auto"
	}

	env := sources.DefaultEnv()
	env.WorkingDir = workDir

	return &session{
		cfg:     loaded.Config,
		loaded:  loaded,
		env:     env,
		workDir: workDir,
		color:   color,
		logger:  logger,
	}, nil
}

// reload re-reads configuration with the same options. The session is left
// unchanged when loading fails.
func (s *session) reload(ctx context.Context, overrides *configloader.Overrides) error {
	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   s.workDir,
		ExplicitPath: s.loaded.Paths.Explicit,
		Overrides:    overrides,
	})
	if err != nil {
		return err
	}
	for _, warning := range loaded.Warnings {
		s.logger.Warn(warning)
	}
	s.loaded = loaded
	s.cfg = loaded.Config
	return nil
}

// sources resolves the rule folders from the current configuration.
func (s *session) sources() []sources.Source {
	srcs := sources.Resolve(sources.ResolveOptions{
		RulesFolder:    s.cfg.RulesFolder,
		BundledDir:     s.cfg.BundledDir,
		DisableBundled: s.cfg.DisableBundled,
		Env:            s.env,
	})
	for _, src := range srcs {
		s.logger.Debug("rule source",
			logging.FieldIdentity, src.Identity,
			logging.FieldFolder, src.Location(),
		)
	}
	return srcs
}

// fallback is the rule source used when the configured ones hold no rule
// file. Disabling the bundle disables the fallback too.
func (s *session) fallback() *sources.Source {
	if s.cfg.DisableBundled {
		return nil
	}
	bundled := sources.Bundled()
	return &bundled
}

// buildIndex builds the description index for srcs.
func (s *session) buildIndex(ctx context.Context, srcs []sources.Source) (*index.Index, error) {
	ix, err := index.NewBuilder(s.logger).WithFallback(s.fallback()).Build(ctx, srcs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	report := ix.Report()
	s.logger.Debug("index built",
		logging.FieldKeys, report.Keys,
		logging.FieldEntries, report.Entries,
		logging.FieldFailedFiles, report.FailedFiles,
	)
	return ix, nil
}

// engine creates the lint engine adapter from configuration.
func (s *session) engine() engine.Engine {
	return engine.NewTextlint(engine.Options{
		Command: s.cfg.Engine.Command,
		Args:    s.cfg.Engine.Args,
		Timeout: s.cfg.Engine.Timeout,
		Logger:  s.logger,
	})
}

// pipeline wires the index holder, enricher and checker together.
type pipeline struct {
	holder   *index.Holder
	enricher *enrich.Enricher
	checker  *check.Checker
}

func (s *session) newPipeline(srcs func() []sources.Source, m *metrics.Metrics) *pipeline {
	holder := index.NewHolder(nil)
	enricher := enrich.New(holder, enrich.Options{Logger: s.logger, Metrics: m})
	return &pipeline{
		holder:   holder,
		enricher: enricher,
		checker:  s.newChecker(enricher, srcs, m),
	}
}

// newChecker builds a checker from the current engine and fallback settings.
func (s *session) newChecker(enricher *enrich.Enricher, srcs func() []sources.Source, m *metrics.Metrics) *check.Checker {
	return check.New(check.Options{
		Engine:   s.engine(),
		Enricher: enricher,
		Sources:  srcs,
		Fallback: s.fallback(),
		Logger:   s.logger,
		Metrics:  m,
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
