package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"scribe/internal/artifact"
	"scribe/internal/autosave"
	"scribe/internal/content"
	"scribe/internal/fallback"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/stage"
)

// ResearchProvider generates the research artifact for a keyword.
type ResearchProvider interface {
	GenerateResearch(ctx context.Context, keyword, websiteText string) (*artifact.Research, error)
}

// BlogProvider generates the blog artifact from research findings.
type BlogProvider interface {
	GenerateBlog(ctx context.Context, keyword string, research *artifact.Research) (*artifact.Blog, error)
}

// ImageProvider generates stage imagery from the blog post.
type ImageProvider interface {
	GenerateImages(ctx context.Context, keyword string, blog *artifact.Blog) (*artifact.Images, error)
}

// SocialProvider generates platform captions from the blog post.
type SocialProvider interface {
	GenerateSocial(ctx context.Context, keyword string, blog *artifact.Blog) (*artifact.Social, error)
}

// WebsiteReader extracts readable text from a URL for research grounding.
type WebsiteReader interface {
	ReadableText(ctx context.Context, rawURL string) (string, error)
}

// ScriptInput feeds the podcast script fallback chain.
type ScriptInput struct {
	Keyword string
	Blog    *artifact.Blog
}

// SpeechInput feeds the speech synthesis fallback chain.
type SpeechInput struct {
	ItemID  string
	Podcast *artifact.Podcast
}

// ScriptChain is the ordered fallback over podcast script providers.
type ScriptChain = fallback.Chain[ScriptInput, *artifact.Podcast]

// SpeechChain is the ordered fallback over speech synthesis providers.
type SpeechChain = fallback.Chain[SpeechInput, *artifact.Audio]

// Options wires the providers and policies into a Generator.
type Options struct {
	Research ResearchProvider
	Blog     BlogProvider
	Script   *ScriptChain
	Speech   *SpeechChain
	Images   ImageProvider
	Social   SocialProvider

	// Website is optional; when set, items created with a website URL get
	// their research grounded in that site's text.
	Website WebsiteReader

	// SoftTimeout is how long a provider call may run before a warning is
	// logged. It never cancels the call. Zero disables the watch.
	SoftTimeout time.Duration

	Logger *slog.Logger
}

// Generator orchestrates stage generation for content items: prerequisite
// gating, provider invocation, and save-on-generate.
type Generator struct {
	store *content.Store
	saves *autosave.Coordinator
	opts  Options

	logger *slog.Logger
}

// NewGenerator constructs a Generator backed by the given store.
func NewGenerator(store *content.Store, saves *autosave.Coordinator, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{
		store:  store,
		saves:  saves,
		opts:   opts,
		logger: logger,
	}
}

// GenerateResearch runs the research stage for an item. When the item was
// created with a website URL and a reader is wired, findings are grounded in
// the site's text; fetch failures degrade to ungrounded research.
func (g *Generator) GenerateResearch(ctx context.Context, itemID string) (*artifact.Research, error) {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	websiteText := ""
	if item.Website != "" && g.opts.Website != nil {
		text, fetchErr := g.opts.Website.ReadableText(ctx, item.Website)
		if fetchErr != nil {
			g.logger.Warn("website fetch failed, research proceeds ungrounded",
				logging.String(logging.FieldContentID, item.ID),
				logging.String("website", item.Website),
				logging.Error(fetchErr),
			)
		} else {
			websiteText = text
		}
	}

	stop := g.watchSlow(item.ID, stage.Research)
	research, err := g.opts.Research.GenerateResearch(ctx, item.Keyword, websiteText)
	stop()
	if err != nil {
		return nil, g.reportFailure(item.ID, stage.Research, err)
	}

	g.persist(ctx, item.ID, stage.Research, research)
	return research, nil
}

// GenerateBlog runs the blog stage. Research must exist.
func (g *Generator) GenerateBlog(ctx context.Context, itemID string) (*artifact.Blog, error) {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireArtifact(item, stage.Blog); err != nil {
		return nil, err
	}

	var research artifact.Research
	if err := decodeArtifact(item, stage.Research, &research); err != nil {
		return nil, err
	}

	stop := g.watchSlow(item.ID, stage.Blog)
	blog, err := g.opts.Blog.GenerateBlog(ctx, item.Keyword, &research)
	stop()
	if err != nil {
		return nil, g.reportFailure(item.ID, stage.Blog, err)
	}

	g.persist(ctx, item.ID, stage.Blog, blog)
	return blog, nil
}

// GeneratePodcastScript runs the podcast script stage through the script
// fallback chain. Blog must exist.
func (g *Generator) GeneratePodcastScript(ctx context.Context, itemID string) (*artifact.Podcast, error) {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireArtifact(item, stage.PodcastScript); err != nil {
		return nil, err
	}

	var blog artifact.Blog
	if err := decodeArtifact(item, stage.Blog, &blog); err != nil {
		return nil, err
	}

	stop := g.watchSlow(item.ID, stage.PodcastScript)
	podcast, err := g.opts.Script.Invoke(ctx, ScriptInput{Keyword: item.Keyword, Blog: &blog})
	stop()
	if err != nil {
		return nil, g.reportFailure(item.ID, stage.PodcastScript, err)
	}

	g.persist(ctx, item.ID, stage.PodcastScript, podcast)
	return podcast, nil
}

// GenerateAudio synthesizes speech for the podcast script through the
// speech fallback chain. The result is a side-artifact: it never changes
// the item's navigable stage.
func (g *Generator) GenerateAudio(ctx context.Context, itemID string) (*artifact.Audio, error) {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireArtifact(item, stage.Audio); err != nil {
		return nil, err
	}

	var podcast artifact.Podcast
	if err := decodeArtifact(item, stage.PodcastScript, &podcast); err != nil {
		return nil, err
	}

	stop := g.watchSlow(item.ID, stage.Audio)
	audio, err := g.opts.Speech.Invoke(ctx, SpeechInput{ItemID: item.ID, Podcast: &podcast})
	stop()
	if err != nil {
		return nil, g.reportFailure(item.ID, stage.Audio, err)
	}

	g.persist(ctx, item.ID, stage.Audio, audio)
	return audio, nil
}

// GenerateImages runs the images stage. Blog must exist.
func (g *Generator) GenerateImages(ctx context.Context, itemID string) (*artifact.Images, error) {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireArtifact(item, stage.Images); err != nil {
		return nil, err
	}

	var blog artifact.Blog
	if err := decodeArtifact(item, stage.Blog, &blog); err != nil {
		return nil, err
	}

	stop := g.watchSlow(item.ID, stage.Images)
	images, err := g.opts.Images.GenerateImages(ctx, item.Keyword, &blog)
	stop()
	if err != nil {
		return nil, g.reportFailure(item.ID, stage.Images, err)
	}

	g.persist(ctx, item.ID, stage.Images, images)
	return images, nil
}

// GenerateSocial runs the social stage. Blog must exist.
func (g *Generator) GenerateSocial(ctx context.Context, itemID string) (*artifact.Social, error) {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireArtifact(item, stage.Social); err != nil {
		return nil, err
	}

	var blog artifact.Blog
	if err := decodeArtifact(item, stage.Blog, &blog); err != nil {
		return nil, err
	}

	stop := g.watchSlow(item.ID, stage.Social)
	social, err := g.opts.Social.GenerateSocial(ctx, item.Keyword, &blog)
	stop()
	if err != nil {
		return nil, g.reportFailure(item.ID, stage.Social, err)
	}

	g.persist(ctx, item.ID, stage.Social, social)
	return social, nil
}

// Complete marks the item finished. At least the blog must exist.
func (g *Generator) Complete(ctx context.Context, itemID string) error {
	item, err := g.store.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.StageData.Has(stage.Blog) {
		return &MissingPrerequisiteError{Target: stage.Complete, Missing: stage.Blog}
	}
	if err := g.store.SetStage(ctx, itemID, stage.Complete); err != nil {
		return err
	}
	g.logger.Info("content marked complete",
		logging.String(logging.FieldContentID, itemID),
	)
	return nil
}

// FlushPending retries artifacts whose auto-save previously failed.
func (g *Generator) FlushPending(ctx context.Context) int {
	return g.saves.Flush(ctx)
}

// persist marshals the artifact and hands it to the auto-save coordinator.
// Persistence failure is absorbed there; generation output is never lost to
// a storage error.
func (g *Generator) persist(ctx context.Context, itemID string, st stage.Stage, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		g.logger.Error("encode artifact failed",
			logging.String(logging.FieldContentID, itemID),
			logging.String(logging.FieldStage, string(st)),
			logging.Error(err),
		)
		return
	}
	g.saves.OnGenerated(ctx, itemID, st, raw)
	g.logger.Info("stage generated",
		logging.String(logging.FieldEventType, "stage_generated"),
		logging.String(logging.FieldContentID, itemID),
		logging.String(logging.FieldStage, string(st)),
	)
}

func (g *Generator) reportFailure(itemID string, st stage.Stage, err error) error {
	g.logger.Error("stage generation failed",
		logging.String(logging.FieldEventType, "stage_failed"),
		logging.String(logging.FieldContentID, itemID),
		logging.String(logging.FieldStage, string(st)),
		logging.String("user_message", services.UserMessage(err)),
		logging.Error(err),
	)
	return err
}

// watchSlow arms a timer that logs a warning if generation outlives the
// soft timeout. The in-flight call is never cancelled.
func (g *Generator) watchSlow(itemID string, st stage.Stage) func() {
	if g.opts.SoftTimeout <= 0 {
		return func() {}
	}
	started := time.Now()
	timer := time.AfterFunc(g.opts.SoftTimeout, func() {
		g.logger.Warn("generation taking longer than expected",
			logging.String(logging.FieldEventType, "stage_slow"),
			logging.String(logging.FieldContentID, itemID),
			logging.String(logging.FieldStage, string(st)),
			logging.Duration("elapsed", time.Since(started)),
		)
	})
	return func() { timer.Stop() }
}

// requireArtifact enforces the prerequisite map before any provider call.
func requireArtifact(item *content.Item, target stage.Stage) error {
	prereq, ok := stage.Prerequisite(target)
	if !ok {
		return nil
	}
	if !item.StageData.Has(prereq) {
		return &MissingPrerequisiteError{Target: target, Missing: prereq}
	}
	return nil
}

func decodeArtifact(item *content.Item, st stage.Stage, target any) error {
	raw, ok := item.StageData[st]
	if !ok {
		return &MissingPrerequisiteError{Target: st, Missing: st}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode stored %s artifact: %w", st, err)
	}
	return nil
}
