package youtube

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"talkcut/internal/config"
	"talkcut/internal/services"
)

// Metadata is the publishable description of one talk video.
type Metadata struct {
	Title         string
	Description   string
	CategoryID    string
	License       string
	PrivacyStatus string
	Tags          []string
}

// UploadedVideo is one entry from the channel's uploads playlist.
type UploadedVideo struct {
	ID    string
	Title string
}

// Publisher defines the video platform operations the pipeline consumes.
type Publisher interface {
	Insert(ctx context.Context, meta Metadata, mediaPath string) (string, error)
	Update(ctx context.Context, videoID string, meta Metadata) error
	CreatePlaylist(ctx context.Context, title string) (string, error)
	AddToPlaylist(ctx context.Context, playlistID, videoID string, position int64) error
	ListUploaded(ctx context.Context) ([]UploadedVideo, error)
}

// Service implements Publisher against the YouTube Data API v3.
type Service struct {
	api *youtube.Service
}

// NewService builds an authenticated client from the configured credentials
// file.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	api, err := youtube.NewService(ctx,
		option.WithCredentialsFile(cfg.YouTube.TokenFile),
		option.WithScopes(youtube.YoutubeScope))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "new-service",
			"create youtube client", err)
	}
	return &Service{api: api}, nil
}

// BuildVideo assembles the API payload for an insert or update.
func BuildVideo(meta Metadata) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			CategoryId:  meta.CategoryID,
			Tags:        meta.Tags,
		},
		Status: &youtube.VideoStatus{
			License:       meta.License,
			PrivacyStatus: meta.PrivacyStatus,
		},
	}
}

// Insert uploads the clip and returns the new video id.
func (s *Service) Insert(ctx context.Context, meta Metadata, mediaPath string) (string, error) {
	media, err := os.Open(mediaPath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "youtube", "insert",
			fmt.Sprintf("open clip %s", mediaPath), err)
	}
	defer media.Close()

	call := s.api.Videos.Insert([]string{"snippet", "status"}, BuildVideo(meta)).
		Media(media).
		Context(ctx)
	video, err := call.Do()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "youtube", "insert", meta.Title, err)
	}
	return video.Id, nil
}

// Update rewrites the metadata of an existing video.
func (s *Service) Update(ctx context.Context, videoID string, meta Metadata) error {
	payload := BuildVideo(meta)
	payload.Id = videoID
	if _, err := s.api.Videos.Update([]string{"snippet", "status"}, payload).Context(ctx).Do(); err != nil {
		return services.Wrap(services.ErrExternalTool, "youtube", "update", videoID, err)
	}
	return nil
}

// CreatePlaylist creates a private playlist and returns its id.
func (s *Service) CreatePlaylist(ctx context.Context, title string) (string, error) {
	playlist := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{Title: title},
		Status:  &youtube.PlaylistStatus{PrivacyStatus: "private"},
	}
	created, err := s.api.Playlists.Insert([]string{"snippet", "status"}, playlist).Context(ctx).Do()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "youtube", "create-playlist", title, err)
	}
	return created.Id, nil
}

// AddToPlaylist inserts the video at an explicit position. Position mirrors
// the talk's start-time order within its room, which is how manually
// uploaded videos line up with the schedule.
func (s *Service) AddToPlaylist(ctx context.Context, playlistID, videoID string, position int64) error {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			Position:   position,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}
	if _, err := s.api.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return services.Wrap(services.ErrExternalTool, "youtube", "add-to-playlist", videoID, err)
	}
	return nil
}

// ListUploaded walks the channel's uploads playlist page by page.
func (s *Service) ListUploaded(ctx context.Context) ([]UploadedVideo, error) {
	channels, err := s.api.Channels.List([]string{"contentDetails"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "youtube", "list-uploaded",
			"resolve uploads playlist", err)
	}
	if len(channels.Items) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "youtube", "list-uploaded",
			"no channel for the authenticated account", nil)
	}
	playlistID := channels.Items[0].ContentDetails.RelatedPlaylists.Uploads

	var videos []UploadedVideo
	pageToken := ""
	for {
		resp, err := s.api.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(50).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "youtube", "list-uploaded",
				"page uploads playlist", err)
		}
		for _, item := range resp.Items {
			video := UploadedVideo{ID: item.ContentDetails.VideoId}
			if item.Snippet != nil {
				video.Title = item.Snippet.Title
			}
			videos = append(videos, video)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return videos, nil
		}
	}
}

// FindByTitle locates the uploaded video whose platform title equals the
// talk's filename-derived identifier. Manual uploads keep the clip's file
// stem as the title, which is what makes tag mode possible.
func FindByTitle(videos []UploadedVideo, title string) (UploadedVideo, bool) {
	for _, video := range videos {
		if video.Title == title {
			return video, true
		}
	}
	return UploadedVideo{}, false
}

var _ Publisher = (*Service)(nil)
