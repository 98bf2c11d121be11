package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCSV(); err != nil {
		return err
	}
	c.normalizeCFP()
	c.normalizePipeline()
	c.normalizeYouTube()
	if err := c.normalizeAssets(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VideosDir, err = expandPath(c.Paths.VideosDir); err != nil {
		return fmt.Errorf("paths.videos_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCSV() error {
	var err error
	c.CSV.Path = strings.TrimSpace(c.CSV.Path)
	if c.CSV.Path != "" {
		if c.CSV.Path, err = expandPath(c.CSV.Path); err != nil {
			return fmt.Errorf("csv.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCFP() {
	if c.CFP.APIKey == "" {
		if value, ok := os.LookupEnv("CFP_API_KEY"); ok {
			c.CFP.APIKey = strings.TrimSpace(value)
		}
	}
	c.CFP.Mode = strings.ToLower(strings.TrimSpace(c.CFP.Mode))
	if c.CFP.Mode == "" {
		c.CFP.Mode = defaultCFPMode
	}
	c.CFP.BaseURL = strings.TrimRight(strings.TrimSpace(c.CFP.BaseURL), "/")
	c.CFP.EventID = strings.TrimSpace(c.CFP.EventID)
	if c.CFP.RequestTimeout <= 0 {
		c.CFP.RequestTimeout = defaultCFPRequestTimeout
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.Year == 0 {
		c.Pipeline.Year = time.Now().Year()
	}
	rooms := make([]string, 0, len(c.Pipeline.Rooms))
	for _, room := range c.Pipeline.Rooms {
		room = strings.TrimSpace(room)
		if room != "" {
			rooms = append(rooms, room)
		}
	}
	c.Pipeline.Rooms = rooms
}

func (c *Config) normalizeYouTube() {
	c.YouTube.CategoryID = strings.TrimSpace(c.YouTube.CategoryID)
	if c.YouTube.CategoryID == "" {
		c.YouTube.CategoryID = defaultCategoryID
	}
	c.YouTube.License = strings.TrimSpace(c.YouTube.License)
	if c.YouTube.License == "" {
		c.YouTube.License = defaultLicense
	}
	c.YouTube.PrivacyStatus = strings.ToLower(strings.TrimSpace(c.YouTube.PrivacyStatus))
	if c.YouTube.PrivacyStatus == "" {
		c.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
	if strings.TrimSpace(c.YouTube.TitleTemplate) == "" {
		c.YouTube.TitleTemplate = defaultTitleTemplate
	}
	c.YouTube.SpeakerConjunction = strings.TrimSpace(c.YouTube.SpeakerConjunction)
	if c.YouTube.SpeakerConjunction == "" {
		c.YouTube.SpeakerConjunction = defaultSpeakerConjunction
	}
	c.YouTube.TokenFile = strings.TrimSpace(c.YouTube.TokenFile)
}

func (c *Config) normalizeAssets() error {
	var err error
	c.Assets.Intro = strings.TrimSpace(c.Assets.Intro)
	if c.Assets.Intro != "" {
		if c.Assets.Intro, err = expandPath(c.Assets.Intro); err != nil {
			return fmt.Errorf("assets.intro: %w", err)
		}
	}
	c.Assets.Outro = strings.TrimSpace(c.Assets.Outro)
	if c.Assets.Outro != "" {
		if c.Assets.Outro, err = expandPath(c.Assets.Outro); err != nil {
			return fmt.Errorf("assets.outro: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Downloader = strings.TrimSpace(c.Tools.Downloader)
	if c.Tools.Downloader == "" {
		c.Tools.Downloader = defaultDownloaderBinary
	}
	c.Tools.DownloadExt = strings.TrimPrefix(strings.TrimSpace(c.Tools.DownloadExt), ".")
	if c.Tools.DownloadExt == "" {
		c.Tools.DownloadExt = defaultDownloadExt
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFmpegArgs) == "" {
		c.Tools.FFmpegArgs = defaultFFmpegArgs
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
