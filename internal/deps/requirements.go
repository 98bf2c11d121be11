package deps

import "talkcut/internal/config"

// Requirements lists the external binaries the configured pipeline stages
// need. Disabled stages downgrade their tools to optional so a tag-only run
// does not demand a downloader.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.DownloaderBinary(),
			Description: "Downloads each room's recorded stream",
			Optional:    !cfg.Pipeline.Download,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Cuts per-talk clips out of the room stream",
			Optional:    !cfg.Pipeline.Extract,
		},
		{
			Name:        "FFprobe",
			Command:     "ffprobe",
			Description: "Inspects downloaded streams when debugging cuts",
			Optional:    true,
		},
	}
}
