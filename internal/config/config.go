package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"talkcut/internal/textutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	VideosDir string `toml:"videos_dir"`
	LogDir    string `toml:"log_dir"`
}

// Pipeline contains the stage toggles and the room allow-list.
//
// Upload and Tag are mutually exclusive: tagging retrofits metadata onto
// videos that were uploaded outside the pipeline.
type Pipeline struct {
	Download bool     `toml:"download"`
	Extract  bool     `toml:"extract"`
	Upload   bool     `toml:"upload"`
	Tag      bool     `toml:"tag"`
	Rooms    []string `toml:"rooms"`
	Year     int      `toml:"year"`
}

// Columns maps spreadsheet column indices to talk fields. The export layout
// changes between deployments, so the mapping is configuration, not code.
type Columns struct {
	Title     int `toml:"title"`
	Speakers  int `toml:"speakers"`
	Room      int `toml:"room"`
	Start     int `toml:"start"`
	End       int `toml:"end"`
	ID        int `toml:"id"`
	StreamURL int `toml:"stream_url"`
}

// CSV contains the spreadsheet export settings.
type CSV struct {
	Path       string  `toml:"path"`
	SkipHeader bool    `toml:"skip_header"`
	Columns    Columns `toml:"columns"`
}

// CFP contains configuration for the call-for-papers data source.
type CFP struct {
	// Mode selects the transport: "batch" fetches the whole event once,
	// "pertalk" queries one talk at a time.
	Mode           string `toml:"mode"`
	BaseURL        string `toml:"base_url"`
	EventID        string `toml:"event_id"`
	APIKey         string `toml:"api_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// YouTube contains upload defaults and metadata templating settings.
type YouTube struct {
	CategoryID         string `toml:"category_id"`
	License            string `toml:"license"`
	PrivacyStatus      string `toml:"privacy_status"`
	TitleTemplate      string `toml:"title_template"`
	SpeakerConjunction string `toml:"speaker_conjunction"`
	Playlist           string `toml:"playlist"`
	TokenFile          string `toml:"token_file"`
}

// Assets contains optional intro/outro clips composited around each talk.
type Assets struct {
	Intro string `toml:"intro"`
	Outro string `toml:"outro"`
}

// Tools contains the external binary settings.
type Tools struct {
	Downloader     string   `toml:"downloader"`
	DownloaderArgs []string `toml:"downloader_args"`
	DownloadExt    string   `toml:"download_ext"`
	FFmpeg         string   `toml:"ffmpeg"`
	// FFmpegArgs is the argument template applied per talk. Placeholders:
	// {input} {start} {end} {duration} {fadeOutStart} {intro} {outro} {output}.
	FFmpegArgs string `toml:"ffmpeg_args"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for talkcut.
//
// Configuration sections by subsystem:
//   - Paths: working and log directories
//   - Pipeline: stage toggles, processed rooms, conference year
//   - CSV: spreadsheet location and column layout
//   - CFP: call-for-papers endpoint and transport mode
//   - YouTube: upload defaults, title template, playlist
//   - Assets: intro/outro clips
//   - Tools: downloader and ffmpeg binaries and argument templates
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Pipeline Pipeline `toml:"pipeline"`
	CSV      CSV      `toml:"csv"`
	CFP      CFP      `toml:"cfp"`
	YouTube  YouTube  `toml:"youtube"`
	Assets   Assets   `toml:"assets"`
	Tools    Tools    `toml:"tools"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/talkcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("talkcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.VideosDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RoomDir returns the working directory for one room's stream and clips.
// The room name comes straight from the spreadsheet, so it is sanitized
// before becoming a path component.
func (c *Config) RoomDir(room string) string {
	return filepath.Join(c.Paths.VideosDir, textutil.SanitizeFileName(room))
}

// StreamPath returns where the room's downloaded stream lives.
func (c *Config) StreamPath(room string) string {
	return filepath.Join(c.RoomDir(room), textutil.SanitizeFileName(room)+"."+c.Tools.DownloadExt)
}

// RoomAllowed reports whether the room passes the configured allow-list.
// An empty list allows every room.
func (c *Config) RoomAllowed(room string) bool {
	if len(c.Pipeline.Rooms) == 0 {
		return true
	}
	for _, allowed := range c.Pipeline.Rooms {
		if allowed == room {
			return true
		}
	}
	return false
}

// NeedsCFP reports whether the configured stages require CFP data.
func (c *Config) NeedsCFP() bool {
	return c.Pipeline.Upload || c.Pipeline.Tag
}

// DownloaderBinary returns the stream downloader executable name.
func (c *Config) DownloaderBinary() string {
	if strings.TrimSpace(c.Tools.Downloader) != "" {
		return c.Tools.Downloader
	}
	return "yt-dlp"
}

// FFmpegBinary returns the ffmpeg executable name used for clip extraction.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Tools.FFmpeg) != "" {
		return c.Tools.FFmpeg
	}
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
