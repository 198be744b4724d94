package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEndpoints()
	c.normalizeTransfer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = ExpandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEndpoints() {
	c.Backend.APIURL = strings.TrimRight(strings.TrimSpace(c.Backend.APIURL), "/")
	c.Worker.URL = strings.TrimRight(strings.TrimSpace(c.Worker.URL), "/")
	if c.Worker.RequestTimeout <= 0 {
		c.Worker.RequestTimeout = defaultWorkerTimeout
	}
}

// normalizeTransfer clamps tuning knobs to the ranges the backend tolerates.
func (c *Config) normalizeTransfer() {
	if c.Transfer.MaxItemsPerRun < 1 {
		c.Transfer.MaxItemsPerRun = 1
	}
	if c.Transfer.UploadPartSizeKB < 64 {
		c.Transfer.UploadPartSizeKB = 64
	}
	if c.Transfer.UploadPartSizeKB > 512 {
		c.Transfer.UploadPartSizeKB = 512
	}
	if c.Transfer.ProgressStepPercent < 1 {
		c.Transfer.ProgressStepPercent = 1
	}
	if c.Transfer.ProgressStepPercent > 25 {
		c.Transfer.ProgressStepPercent = 25
	}
	if c.Transfer.UploadMaxRetries < 1 {
		c.Transfer.UploadMaxRetries = defaultUploadMaxRetries
	}
	if c.Transfer.ItemCooldownSeconds < 0 {
		c.Transfer.ItemCooldownSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
