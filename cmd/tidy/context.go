package main

import (
	"io"
	"log/slog"

	"tidy/internal/config"
	"tidy/internal/logging"
	"tidy/internal/organizer"
)

// commandContext carries persistent flag values and the lazily loaded
// configuration shared by all subcommands.
type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string
	jsonFlag      *bool

	cfg        *config.Config
	configPath string
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		jsonFlag:      jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = path
	return cfg, nil
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// newLogger builds the run logger: stderr plus any extra file paths (the
// per-target tidy.log on real runs). Flags override config values. The
// returned closer releases the log files and must be closed on every exit
// path.
func (c *commandContext) newLogger(extraPaths ...string) (*slog.Logger, io.Closer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if *c.logLevelFlag != "" {
		level = *c.logLevelFlag
	}
	format := cfg.Logging.Format
	if *c.logFormatFlag != "" {
		format = *c.logFormatFlag
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      format,
		OutputPaths: append([]string{"stderr"}, extraPaths...),
	})
}

// categoryMap builds the organizer's validated mapping from the loaded
// configuration rules.
func (c *commandContext) categoryMap() (*organizer.CategoryMap, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	rules := make([]organizer.Rule, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		rules = append(rules, organizer.Rule{Name: rule.Name, Extensions: rule.Extensions})
	}
	return organizer.NewCategoryMap(rules)
}
