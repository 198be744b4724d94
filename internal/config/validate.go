package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable for a transfer run.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateWorker(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.APIID <= 0 {
		return errors.New("telegram.api_id is required. Set TELEGRAM_API_ID or edit the config file (create with 'courier config init')")
	}
	if strings.TrimSpace(c.Telegram.APIHash) == "" {
		return errors.New("telegram.api_hash is required. Set TELEGRAM_API_HASH or edit the config file")
	}
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return errors.New("telegram.bot_token is required. Set TELEGRAM_BOT_TOKEN or edit the config file")
	}
	return nil
}

func (c *Config) validateBackend() error {
	if strings.TrimSpace(c.Backend.APIURL) == "" {
		return errors.New("backend.api_url is required. Set API_URL or edit the config file")
	}
	if _, err := url.Parse(c.Backend.APIURL); err != nil {
		return fmt.Errorf("backend.api_url: %w", err)
	}
	if strings.TrimSpace(c.Backend.AdminToken) == "" {
		return errors.New("backend.admin_token is required. Set ADMIN_TOKEN or edit the config file")
	}
	return nil
}

func (c *Config) validateWorker() error {
	if strings.TrimSpace(c.Worker.URL) == "" {
		return errors.New("worker.url is required. Set WORKER_URL or edit the config file")
	}
	if _, err := url.Parse(c.Worker.URL); err != nil {
		return fmt.Errorf("worker.url: %w", err)
	}
	return nil
}
