package config

const (
	defaultVideosDir          = "~/.local/share/talkcut/videos"
	defaultLogDir             = "~/.local/share/talkcut/logs"
	defaultCSVPath            = "talks.csv"
	defaultCFPMode            = "batch"
	defaultCFPRequestTimeout  = 30
	defaultCategoryID         = "28" // Science & Technology
	defaultLicense            = "youtube"
	defaultPrivacyStatus      = "private"
	defaultTitleTemplate      = "BDX I/O ${year} - ${title} - ${speakers}"
	defaultSpeakerConjunction = "et"
	defaultDownloaderBinary   = "yt-dlp"
	defaultDownloadExt        = "mp4"
	defaultFFmpegBinary       = "ffmpeg"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// defaultFFmpegArgs cuts the talk out of the stream and fades the tail second
// to black. Intro/outro compositing belongs in a custom template since it
// depends on the asset formats.
const defaultFFmpegArgs = "-y -i {input} -ss {start} -to {end} -vf fade=t=out:st={fadeOutStart}:d=1 {output}"

// Default returns a Config populated with repository defaults. Column indices
// mirror the spreadsheet export layout used by the conference team.
func Default() Config {
	return Config{
		Paths: Paths{
			VideosDir: defaultVideosDir,
			LogDir:    defaultLogDir,
		},
		Pipeline: Pipeline{},
		CSV: CSV{
			Path:       defaultCSVPath,
			SkipHeader: true,
			Columns: Columns{
				Title:     0,
				Speakers:  1,
				Room:      3,
				Start:     4,
				End:       5,
				ID:        6,
				StreamURL: 7,
			},
		},
		CFP: CFP{
			Mode:           defaultCFPMode,
			RequestTimeout: defaultCFPRequestTimeout,
		},
		YouTube: YouTube{
			CategoryID:         defaultCategoryID,
			License:            defaultLicense,
			PrivacyStatus:      defaultPrivacyStatus,
			TitleTemplate:      defaultTitleTemplate,
			SpeakerConjunction: defaultSpeakerConjunction,
		},
		Tools: Tools{
			Downloader:  defaultDownloaderBinary,
			DownloadExt: defaultDownloadExt,
			FFmpeg:      defaultFFmpegBinary,
			FFmpegArgs:  defaultFFmpegArgs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
