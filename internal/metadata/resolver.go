package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"talkcut/internal/cfp"
	"talkcut/internal/config"
	"talkcut/internal/logging"
	"talkcut/internal/services"
	"talkcut/internal/talk"
	"talkcut/internal/textutil"
)

// TitleLimit bounds the rendered template while "${title}" is still in it:
// the platform allows 100 characters, plus the 8 of the placeholder itself.
const TitleLimit = 108

const titlePlaceholder = "${title}"

// Resolved is the publishable metadata for one talk. Speakers holds the
// joined display names, not the raw spreadsheet text.
type Resolved struct {
	Title          string
	Description    string
	Speakers       string
	TitleTruncated bool
}

// Resolver merges spreadsheet fields with CFP data and renders the final
// title and description for upload.
type Resolver struct {
	source      cfp.Source
	template    string
	conjunction string
	year        int
	logger      *slog.Logger
}

func NewResolver(cfg *config.Config, source cfp.Source, logger *slog.Logger) *Resolver {
	return &Resolver{
		source:      source,
		template:    cfg.YouTube.TitleTemplate,
		conjunction: cfg.YouTube.SpeakerConjunction,
		year:        cfg.Pipeline.Year,
		logger:      logging.NewComponentLogger(logger, "metadata"),
	}
}

// Resolve looks the talk up in the CFP and renders its metadata. A missing
// CFP entry falls back to the spreadsheet fields; an unresolvable speaker
// reference is fatal because misattribution is worse than failure. Any other
// CFP error propagates unchanged.
func (r *Resolver) Resolve(ctx context.Context, rec *talk.Record) (*Resolved, error) {
	entry, err := r.source.LookupTalk(ctx, rec.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			r.logger.Warn("talk missing from cfp, using spreadsheet fields",
				logging.String(logging.FieldTalkID, rec.ID))
			return r.render(rec.Title, rec.Title, rec.Speakers), nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entry.Speakers))
	for _, uid := range entry.Speakers {
		speaker, err := r.source.LookupSpeaker(ctx, uid)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return nil, services.Wrap(services.ErrNotFound, "metadata", "resolve",
					fmt.Sprintf("talk %s references unknown speaker %s", rec.ID, uid), nil)
			}
			return nil, err
		}
		names = append(names, textutil.Capitalize(speaker.DisplayName))
	}
	speakers := textutil.JoinNames(names, r.conjunction)

	description := textutil.MarkdownToDescription(entry.Abstract)
	if description == "" {
		description = entry.Title
	}
	return r.render(entry.Title, description, speakers), nil
}

// render substitutes the year and speaker placeholders, then fits the talk
// title into whatever room the platform limit leaves. Truncation is recorded
// rather than hidden so operators can audit shortened titles.
func (r *Resolver) render(title, description, speakers string) *Resolved {
	partial := strings.ReplaceAll(r.template, "${year}", strconv.Itoa(r.year))
	partial = strings.ReplaceAll(partial, "${speakers}", speakers)

	base := len([]rune(partial))
	titleRunes := []rune(title)
	truncated := false
	if base+len(titleRunes) > TitleLimit {
		keep := TitleLimit - base - 1
		if keep < 0 {
			keep = 0
		}
		title = string(titleRunes[:keep]) + "…"
		truncated = true
		r.logger.Warn("title truncated to fit platform limit",
			logging.String("title", title))
	}

	full := strings.ReplaceAll(partial, titlePlaceholder, title)
	return &Resolved{
		Title:          textutil.EscapeHTML(full),
		Description:    description,
		Speakers:       speakers,
		TitleTruncated: truncated,
	}
}
