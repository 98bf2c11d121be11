package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateCSV(); err != nil {
		return err
	}
	if err := c.validateCFP(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Upload && c.Pipeline.Tag {
		return errors.New("pipeline.upload and pipeline.tag are mutually exclusive")
	}
	if c.Pipeline.Year < 0 {
		return errors.New("pipeline.year must not be negative")
	}
	return nil
}

func (c *Config) validateCSV() error {
	if strings.TrimSpace(c.CSV.Path) == "" {
		return errors.New("csv.path must be set")
	}
	cols := map[string]int{
		"csv.columns.title":      c.CSV.Columns.Title,
		"csv.columns.speakers":   c.CSV.Columns.Speakers,
		"csv.columns.room":       c.CSV.Columns.Room,
		"csv.columns.start":      c.CSV.Columns.Start,
		"csv.columns.end":        c.CSV.Columns.End,
		"csv.columns.id":         c.CSV.Columns.ID,
		"csv.columns.stream_url": c.CSV.Columns.StreamURL,
	}
	seen := make(map[int]string, len(cols))
	for name, idx := range cols {
		if idx < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
		if other, dup := seen[idx]; dup {
			return fmt.Errorf("%s and %s both map to column %d", name, other, idx)
		}
		seen[idx] = name
	}
	return nil
}

func (c *Config) validateCFP() error {
	needsCFP := c.Pipeline.Upload || c.Pipeline.Tag
	if !needsCFP {
		return nil
	}
	if c.CFP.BaseURL == "" {
		return errors.New("cfp.base_url must be set when pipeline.upload or pipeline.tag is enabled")
	}
	if c.CFP.EventID == "" {
		return errors.New("cfp.event_id must be set when pipeline.upload or pipeline.tag is enabled")
	}
	switch c.CFP.Mode {
	case "batch", "pertalk":
	default:
		return fmt.Errorf("cfp.mode must be \"batch\" or \"pertalk\", got %q", c.CFP.Mode)
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if !c.Pipeline.Upload && !c.Pipeline.Tag {
		return nil
	}
	if !strings.Contains(c.YouTube.TitleTemplate, "${title}") {
		return errors.New("youtube.title_template must contain the ${title} placeholder")
	}
	switch c.YouTube.PrivacyStatus {
	case "private", "public", "unlisted":
	default:
		return fmt.Errorf("youtube.privacy_status must be private, public, or unlisted, got %q", c.YouTube.PrivacyStatus)
	}
	if c.YouTube.TokenFile == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/talkcut/config.toml"
		}
		return fmt.Errorf("youtube.token_file is required for upload/tag. Edit %s (create with 'talkcut config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
