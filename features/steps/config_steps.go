//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	dir        string
	configPath string
	cfg        *config.Config
	setErr     error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "config-feature-")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			dir:        dir,
			configPath: filepath.Join(dir, "config", "config.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil {
			os.RemoveAll(SharedConfigContext.dir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, iSetTo)
	ctx.Step(`^"([^"]*)" should be "([^"]*)"$`, keyShouldBe)
	ctx.Step(`^I should receive an invalid value error$`, iShouldReceiveAnInvalidValueError)
}

func noConfigurationFileExists() error {
	if _, err := os.Stat(SharedConfigContext.configPath); !os.IsNotExist(err) {
		return fmt.Errorf("expected no config at %s", SharedConfigContext.configPath)
	}
	return nil
}

func iLoadTheConfiguration() error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func iSetTo(key, value string) error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	c.setErr = config.NewConfigManager(cfg, c.configPath).Set(key, value)
	return nil
}

func keyShouldBe(key, want string) error {
	c := SharedConfigContext
	got, err := config.NewConfigManager(c.cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", key, want, got)
	}
	return nil
}

func iShouldReceiveAnInvalidValueError() error {
	if !errors.Is(SharedConfigContext.setErr, config.ErrInvalidValue) {
		return fmt.Errorf("expected invalid value error, got %v", SharedConfigContext.setErr)
	}
	return nil
}
