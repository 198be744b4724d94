package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc resolves one environment variable, mirroring os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// applyEnv overlays the operational environment variables onto the config.
// The names match the ones the deployment already exports, so the job works
// as a drop-in inside existing CI secrets.
func (c *Config) applyEnv(lookup LookupFunc) error {
	if value, ok := lookup("TELEGRAM_API_ID"); ok {
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("TELEGRAM_API_ID: %w", err)
		}
		c.Telegram.APIID = id
	}
	setString(lookup, "TELEGRAM_API_HASH", &c.Telegram.APIHash)
	setString(lookup, "TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString(lookup, "TELEGRAM_SESSION", &c.Telegram.SessionString)
	setString(lookup, "API_URL", &c.Backend.APIURL)
	setString(lookup, "ADMIN_TOKEN", &c.Backend.AdminToken)
	setString(lookup, "WORKER_URL", &c.Worker.URL)

	if err := setInt(lookup, "MAX_ITEMS_PER_RUN", &c.Transfer.MaxItemsPerRun); err != nil {
		return err
	}
	if err := setInt(lookup, "UPLOAD_PART_SIZE_KB", &c.Transfer.UploadPartSizeKB); err != nil {
		return err
	}
	if err := setInt(lookup, "UPLOAD_PROGRESS_STEP_PERCENT", &c.Transfer.ProgressStepPercent); err != nil {
		return err
	}
	if err := setInt(lookup, "UPLOAD_MAX_RETRIES", &c.Transfer.UploadMaxRetries); err != nil {
		return err
	}
	if value, ok := lookup("ITEM_COOLDOWN_SECONDS"); ok {
		seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("ITEM_COOLDOWN_SECONDS: %w", err)
		}
		c.Transfer.ItemCooldownSeconds = seconds
	}

	setString(lookup, "COURIER_WORK_DIR", &c.Paths.WorkDir)
	setString(lookup, "COURIER_LOG_DIR", &c.Paths.LogDir)
	setString(lookup, "COURIER_LOG_LEVEL", &c.Logging.Level)
	setString(lookup, "COURIER_LOG_FORMAT", &c.Logging.Format)
	return nil
}

func setString(lookup LookupFunc, key string, dst *string) {
	if value, ok := lookup(key); ok {
		*dst = strings.TrimSpace(value)
	}
}

func setInt(lookup LookupFunc, key string, dst *int) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = parsed
	return nil
}
