package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"talkcut/internal/cfp"
	"talkcut/internal/config"
	"talkcut/internal/ledger"
	"talkcut/internal/logging"
	"talkcut/internal/metadata"
	"talkcut/internal/plan"
	"talkcut/internal/schedule"
	"talkcut/internal/services"
	"talkcut/internal/services/ffmpeg"
	"talkcut/internal/services/streamdl"
	"talkcut/internal/services/youtube"
	"talkcut/internal/talk"
)

// Summary reports what one run did.
type Summary struct {
	RunID     string
	Rooms     int
	Talks     int
	Rejected  int
	Completed int
	Failed    int
	Review    int
	Skipped   int
}

// Option overrides a collaborator, mainly for tests.
type Option func(*Runner)

// WithDownloader replaces the stream downloader.
func WithDownloader(client streamdl.Client) Option {
	return func(r *Runner) { r.downloader = client }
}

// WithExtractor replaces the clip encoder.
func WithExtractor(client ffmpeg.Client) Option {
	return func(r *Runner) { r.extractor = client }
}

// WithSource replaces the CFP source.
func WithSource(source cfp.Source) Option {
	return func(r *Runner) { r.source = source }
}

// WithPublisher replaces the video platform client.
func WithPublisher(publisher youtube.Publisher) Option {
	return func(r *Runner) { r.publisher = publisher }
}

// Runner drives the whole batch: parse, schedule, then one room at a time
// download, extract, resolve, and publish. Only one logical thread of
// control exists; collaborators are called synchronously in schedule order.
type Runner struct {
	cfg    *config.Config
	store  *ledger.Store
	logger *slog.Logger

	downloader streamdl.Client
	extractor  ffmpeg.Client
	source     cfp.Source
	publisher  youtube.Publisher

	lockPath string
	lock     *flock.Flock
}

// New constructs a runner with collaborators built from configuration.
func New(cfg *config.Config, store *ledger.Store, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("pipeline requires config, store, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "talkcut.lock")
	runner := &Runner{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(runner)
	}

	if runner.downloader == nil {
		runner.downloader = streamdl.NewCLI(
			streamdl.WithBinary(cfg.DownloaderBinary()),
			streamdl.WithExtraArgs(cfg.Tools.DownloaderArgs),
			streamdl.WithExtension(cfg.Tools.DownloadExt),
		)
	}
	if runner.extractor == nil {
		runner.extractor = ffmpeg.NewCLI(
			ffmpeg.WithBinary(cfg.FFmpegBinary()),
			ffmpeg.WithArgsTemplate(cfg.Tools.FFmpegArgs),
		)
	}
	if runner.source == nil && cfg.NeedsCFP() {
		client := &http.Client{Timeout: time.Duration(cfg.CFP.RequestTimeout) * time.Second}
		source, err := cfp.NewSource(cfg, client, logger)
		if err != nil {
			return nil, err
		}
		runner.source = source
	}

	return runner, nil
}

// Run executes the configured stages over every scheduled room. The run
// lock rejects concurrent invocations; a second talkcut run against the
// same working tree would race the downloader and the ledger.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another run holds %s", r.lockPath)
	}
	defer func() {
		if unlockErr := r.lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	summary := &Summary{RunID: uuid.NewString()}
	logger := r.logger.With(logging.String(logging.FieldRunID, summary.RunID))
	ctx = services.WithRunID(ctx, summary.RunID)

	parser := talk.NewParser(r.cfg, logger)
	result, err := parser.ParseFile(r.cfg.CSV.Path)
	if err != nil {
		return nil, err
	}
	summary.Rejected = len(result.Rejections)
	summary.Talks = len(result.Records)

	rooms := schedule.GroupByRoom(result.Records, logger)
	summary.Rooms = len(rooms)
	logger.Info("schedule built",
		logging.Int("rooms", len(rooms)),
		logging.Int("talks", len(result.Records)),
		logging.Int("rejected", len(result.Rejections)))

	publisher, err := r.ensurePublisher(ctx)
	if err != nil {
		return nil, err
	}

	var resolver *metadata.Resolver
	if r.cfg.NeedsCFP() {
		resolver = metadata.NewResolver(r.cfg, r.source, logger)
	}

	var uploaded []youtube.UploadedVideo
	if r.cfg.Pipeline.Tag {
		uploaded, err = publisher.ListUploaded(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("uploaded videos listed", logging.Int("count", len(uploaded)))
	}

	planner := plan.NewPlanner(r.cfg.Assets.Intro, r.cfg.Assets.Outro)

	for _, room := range rooms {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.processRoom(ctx, logger, summary, room, planner, resolver, publisher, uploaded); err != nil {
			return summary, err
		}
	}

	logger.Info("run finished",
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("review", summary.Review),
		logging.Int("skipped", summary.Skipped))
	return summary, nil
}

func (r *Runner) processRoom(
	ctx context.Context,
	logger *slog.Logger,
	summary *Summary,
	room schedule.RoomSchedule,
	planner *plan.Planner,
	resolver *metadata.Resolver,
	publisher youtube.Publisher,
	uploaded []youtube.UploadedVideo,
) error {
	roomLogger := logger.With(logging.String(logging.FieldRoom, room.Room))
	ctx = services.WithRoom(ctx, room.Room)
	roomDir := r.cfg.RoomDir(room.Room)

	streamPath := r.cfg.StreamPath(room.Room)
	if r.cfg.Pipeline.Download {
		path, err := r.downloader.Download(ctx, room.StreamURL, roomDir, room.Room)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "download", room.Room, "fetch room stream", err)
		}
		streamPath = path
		roomLogger.Info("room stream ready", logging.String("path", streamPath))
	}

	playlistID := ""
	if publisher != nil && r.cfg.YouTube.Playlist != "" {
		id, err := publisher.CreatePlaylist(ctx, r.playlistTitle(room.Room))
		if err != nil {
			return err
		}
		playlistID = id
		roomLogger.Info("playlist created", logging.String("playlist_id", playlistID))
	}

	for position, rec := range room.Talks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.processTalk(ctx, roomLogger, summary, rec, int64(position), streamPath, playlistID, planner, resolver, publisher, uploaded); err != nil {
			return err
		}
	}
	return nil
}

// processTalk runs the per-talk stages. Recoverable problems (planning,
// resolution, matching) mark the talk and return nil so the batch continues;
// collaborator failures propagate and stop the run.
func (r *Runner) processTalk(
	ctx context.Context,
	logger *slog.Logger,
	summary *Summary,
	rec talk.Record,
	position int64,
	streamPath, playlistID string,
	planner *plan.Planner,
	resolver *metadata.Resolver,
	publisher youtube.Publisher,
	uploaded []youtube.UploadedVideo,
) error {
	talkLogger := logger.With(logging.String(logging.FieldTalkID, rec.ID))
	ctx = services.WithTalkID(ctx, rec.ID)

	item, err := r.store.Register(ctx, summary.RunID, rec.ID, rec.Room, rec.Title)
	if err != nil {
		return err
	}
	if item.Status == ledger.StatusCompleted {
		talkLogger.Info("talk already completed, skipping")
		summary.Skipped++
		return nil
	}

	req, err := planner.Plan(streamPath, rec)
	if err != nil {
		r.markFailure(ctx, talkLogger, summary, item, err)
		return nil
	}
	rec.Output = req.OutputPath
	item.OutputPath = req.OutputPath
	item.Status = ledger.StatusPlanned
	if err := r.store.Update(ctx, item); err != nil {
		return err
	}

	if r.cfg.Pipeline.Extract {
		if _, err := r.extractor.Extract(ctx, req); err != nil {
			r.markFailure(ctx, talkLogger, summary, item, err)
			return services.Wrap(services.ErrExternalTool, "extract", rec.ID, "cut clip", err)
		}
		item.Status = ledger.StatusExtracted
		if err := r.store.Update(ctx, item); err != nil {
			return err
		}
		talkLogger.Info("clip extracted", logging.String("path", req.OutputPath))
	}

	if resolver == nil {
		item.Status = ledger.StatusCompleted
		summary.Completed++
		return r.store.Update(ctx, item)
	}

	resolved, err := resolver.Resolve(ctx, &rec)
	if err != nil {
		if errors.Is(err, services.ErrExternalTool) {
			r.markFailure(ctx, talkLogger, summary, item, err)
			return err
		}
		r.markFailure(ctx, talkLogger, summary, item, err)
		return nil
	}
	item.ResolvedTitle = resolved.Title
	item.TitleTruncated = resolved.TitleTruncated
	if resolved.TitleTruncated {
		talkLogger.Warn("title truncated", logging.String("title", resolved.Title))
	}

	meta := youtube.Metadata{
		Title:         resolved.Title,
		Description:   resolved.Description,
		CategoryID:    r.cfg.YouTube.CategoryID,
		License:       r.cfg.YouTube.License,
		PrivacyStatus: r.cfg.YouTube.PrivacyStatus,
	}

	videoID := ""
	switch {
	case r.cfg.Pipeline.Upload:
		videoID, err = publisher.Insert(ctx, meta, req.OutputPath)
		if err != nil {
			r.markFailure(ctx, talkLogger, summary, item, err)
			return err
		}
		item.Status = ledger.StatusUploaded
		talkLogger.Info("video uploaded", logging.String("video_id", videoID))
	case r.cfg.Pipeline.Tag:
		match, ok := youtube.FindByTitle(uploaded, rec.ID)
		if !ok {
			matchErr := services.Wrap(services.ErrNotFound, "tag", rec.ID,
				"no uploaded video titled after the talk id", nil)
			r.markFailure(ctx, talkLogger, summary, item, matchErr)
			return nil
		}
		if err := publisher.Update(ctx, match.ID, meta); err != nil {
			r.markFailure(ctx, talkLogger, summary, item, err)
			return err
		}
		videoID = match.ID
		item.Status = ledger.StatusTagged
		talkLogger.Info("video tagged", logging.String("video_id", videoID))
	}
	item.VideoID = videoID
	if err := r.store.Update(ctx, item); err != nil {
		return err
	}

	if playlistID != "" && videoID != "" {
		if err := publisher.AddToPlaylist(ctx, playlistID, videoID, position); err != nil {
			r.markFailure(ctx, talkLogger, summary, item, err)
			return err
		}
	}

	item.Status = ledger.StatusCompleted
	summary.Completed++
	return r.store.Update(ctx, item)
}

// ensurePublisher builds the real YouTube client unless one was injected or
// neither upload nor tag mode needs it.
func (r *Runner) ensurePublisher(ctx context.Context) (youtube.Publisher, error) {
	if r.publisher != nil {
		return r.publisher, nil
	}
	if !r.cfg.Pipeline.Upload && !r.cfg.Pipeline.Tag {
		return nil, nil
	}
	service, err := youtube.NewService(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	r.publisher = service
	return service, nil
}

func (r *Runner) playlistTitle(room string) string {
	title := r.cfg.YouTube.Playlist
	title = strings.ReplaceAll(title, "${room}", room)
	title = strings.ReplaceAll(title, "${year}", strconv.Itoa(r.cfg.Pipeline.Year))
	return title
}

func (r *Runner) markFailure(ctx context.Context, logger *slog.Logger, summary *Summary, item *ledger.Item, err error) {
	status := services.FailureStatus(err)
	item.Status = status
	item.ErrorMessage = err.Error()
	if status == ledger.StatusReview {
		summary.Review++
		logger.Warn("talk needs review", logging.Error(err))
	} else {
		summary.Failed++
		logger.Error("talk failed", logging.Error(err))
	}
	if updateErr := r.store.Update(ctx, item); updateErr != nil {
		logger.Error("failed to persist talk status", logging.Error(updateErr))
	}
}
