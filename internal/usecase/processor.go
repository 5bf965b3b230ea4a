package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"VideoSummarizer/internal/catalog"
	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/infrastructure/probe"
	"VideoSummarizer/internal/ports"
	"VideoSummarizer/internal/videourl"
)

const defaultScrapTimeout = 2 * time.Minute

// ProcessorDeps wires all driven adapters into the processing run.
type ProcessorDeps struct {
	Backend      ports.Backend
	Probe        ports.PageProbe
	Repository   ports.RunRepository
	Notifier     ports.Notifier
	Recorder     ports.RunRecorder
	Catalog      catalog.Catalog
	Policy       Policy
	ScrapTimeout time.Duration
	Clock        ports.Clock
	Logger       *slog.Logger
	NewRunID     func() string
}

// Processor runs the scrape-then-analyze workflow for one video at a time.
// Each Process call owns its own tracker and aggregator; nothing is shared
// between runs, so a Processor may serve concurrent calls.
type Processor struct {
	backend      ports.Backend
	probe        ports.PageProbe
	repository   ports.RunRepository
	notifier     ports.Notifier
	recorder     ports.RunRecorder
	catalog      catalog.Catalog
	policy       Policy
	scrapTimeout time.Duration
	clock        ports.Clock
	logger       *slog.Logger
	newRunID     func() string
}

// NewProcessor constructs the orchestration component.
func NewProcessor(deps ProcessorDeps) *Processor {
	p := &Processor{
		backend:      deps.Backend,
		probe:        deps.Probe,
		repository:   deps.Repository,
		notifier:     deps.Notifier,
		recorder:     deps.Recorder,
		catalog:      deps.Catalog,
		policy:       deps.Policy,
		scrapTimeout: deps.ScrapTimeout,
		clock:        deps.Clock,
		logger:       deps.Logger,
		newRunID:     deps.NewRunID,
	}
	if p.scrapTimeout <= 0 {
		p.scrapTimeout = defaultScrapTimeout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.newRunID == nil {
		p.newRunID = uuid.NewString
	}
	if len(p.catalog.ModelIDs()) == 0 {
		p.catalog = catalog.Defaults()
	}
	if p.policy == (Policy{}) {
		p.policy = DefaultPolicy()
	}
	return p
}

// run is the mutable state of a single Process call.
type run struct {
	id         string
	url        string
	started    time.Time
	tracker    *Tracker
	phase      domain.PipelineStep
	videoInfo  *domain.VideoInfo
	transcript *string
	outcome    StreamOutcome
}

// Process validates the URL, scrapes, streams the analysis and returns the
// terminal result. It never returns an error: failures are carried in Result.Error.
func (p *Processor) Process(ctx context.Context, videoURL string, opts catalog.Options, observer Observer) domain.Result {
	r := &run{
		id:      p.newRunID(),
		url:     strings.TrimSpace(videoURL),
		started: p.clock(),
		tracker: NewTracker(p.clock, observer),
		phase:   domain.StepScraping,
	}
	logger := p.logger.With("run_id", r.id, "url", r.url)

	if r.url == "" {
		return p.fail(ctx, r, &domain.APIError{Message: domain.MsgEmptyURL, Type: domain.ErrorValidation}, logger)
	}
	if !videourl.IsValid(r.url) {
		return p.fail(ctx, r, &domain.APIError{
			Message: domain.MsgInvalidURL,
			Type:    domain.ErrorValidation,
			Details: r.url,
		}, logger)
	}

	resolved, err := p.catalog.ResolveOptions(opts)
	if err != nil {
		return p.fail(ctx, r, &domain.APIError{
			Message: domain.MsgValidation,
			Type:    domain.ErrorValidation,
			Details: err.Error(),
		}, logger)
	}

	if p.backend == nil {
		return p.fail(ctx, r, &domain.APIError{Message: domain.MsgBackendOffline, Type: domain.ErrorNetwork}, logger)
	}

	if apiErr := p.scrap(ctx, r, logger); apiErr != nil {
		return p.fail(ctx, r, apiErr, logger)
	}

	if apiErr := p.analyze(ctx, r, resolved); apiErr != nil {
		return p.fail(ctx, r, apiErr, logger)
	}

	return p.finish(ctx, r, nil, logger)
}

func (p *Processor) scrap(ctx context.Context, r *run, logger *slog.Logger) *domain.APIError {
	r.tracker.Emit(domain.ProgressEvent{
		Step:     domain.StepScraping,
		StepName: "Scraping Video",
		Status:   domain.StatusProcessing,
		Message:  "Extracting video info and transcript...",
	})

	scrapCtx, cancel := context.WithTimeout(ctx, p.scrapTimeout)
	defer cancel()

	scraped, err := p.backend.Scrap(scrapCtx, r.url)
	if err != nil {
		if errors.Is(scrapCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return &domain.APIError{
				Message: fmt.Sprintf("Request timed out after %d seconds. The operation may still be processing on the server.",
					int(p.scrapTimeout.Seconds())),
				Type:    domain.ErrorProcessing,
				Details: fmt.Sprintf("Timeout set to %dms for endpoint: /scrap", p.scrapTimeout.Milliseconds()),
			}
		}
		return domain.AsAPIError(err)
	}

	info := scraped.VideoInfo
	if info.URL == "" {
		info.URL = r.url
	}
	if p.probe != nil && probe.NeedsProbe(info) {
		if probed, err := p.probe.Probe(ctx, r.url); err != nil {
			logger.Warn("watch page probe failed", "error", err)
		} else {
			info = probe.Enrich(info, probed)
		}
	}

	transcript := scraped.Transcript
	r.videoInfo = &info
	r.transcript = &transcript

	r.tracker.Emit(domain.ProgressEvent{
		Step:     domain.StepScraping,
		StepName: "Scraping Video",
		Status:   domain.StatusCompleted,
		Message:  "Video scraped: " + info.Title,
		Data: &domain.ProgressData{
			VideoInfo:  &info,
			Transcript: &transcript,
		},
		ProcessingTime: scraped.ProcessingTime,
	})
	logger.Debug("video scraped", "title", info.Title, "transcript_len", len(transcript))
	return nil
}

func (p *Processor) analyze(ctx context.Context, r *run, opts catalog.Options) *domain.APIError {
	r.phase = domain.StepAnalyzing
	r.tracker.Emit(domain.ProgressEvent{
		Step:     domain.StepAnalyzing,
		StepName: "AI Analysis",
		Status:   domain.StatusProcessing,
		Message:  "Generating AI summary and analysis...",
	})

	req := domain.AnalysisRequest{
		Content:        r.url,
		ContentType:    domain.ContentURL,
		AnalysisModel:  opts.AnalysisModel,
		QualityModel:   opts.QualityModel,
		TargetLanguage: opts.TargetLanguage,
		FastMode:       opts.FastMode,
	}
	if r.transcript != nil && strings.TrimSpace(*r.transcript) != "" {
		req.Content = *r.transcript
		req.ContentType = domain.ContentTranscript
	}
	if req.TargetLanguage == catalog.AutoLanguage {
		req.TargetLanguage = ""
	}

	body, err := p.backend.StreamSummarize(ctx, req)
	if err != nil {
		return domain.AsAPIError(err)
	}
	defer body.Close()

	agg := NewAggregator(r.tracker, p.policy, p.clock, p.recorder, r.started)
	r.outcome = agg.Consume(body)
	return r.outcome.Err
}

func (p *Processor) fail(ctx context.Context, r *run, apiErr *domain.APIError, logger *slog.Logger) domain.Result {
	total := formatSeconds(p.clock().Sub(r.started))

	stepName := "Scraping Video"
	if r.phase != domain.StepScraping {
		stepName = "Processing"
	}

	r.tracker.NoteBatch("❌ Error: "+apiErr.Message, "Total time: "+total)
	r.tracker.deliver(domain.ProgressEvent{
		Step:     r.phase,
		StepName: stepName,
		Status:   domain.StatusError,
		Message:  apiErr.Message,
		Error:    apiErr,
	})

	return p.finish(ctx, r, apiErr, logger)
}

func (p *Processor) finish(ctx context.Context, r *run, apiErr *domain.APIError, logger *slog.Logger) domain.Result {
	finished := p.clock()
	elapsed := finished.Sub(r.started)

	result := domain.Result{
		RunID:           r.id,
		URL:             r.url,
		Success:         apiErr == nil,
		Analysis:        r.outcome.Analysis,
		Quality:         r.outcome.Quality,
		TotalTime:       formatSeconds(elapsed),
		Elapsed:         elapsed,
		IterationCount:  r.outcome.IterationCount,
		ChunksProcessed: r.outcome.ChunksProcessed,
		Logs:            r.tracker.Logs(),
		Timeline:        r.tracker.Snapshot().Entries,
		FinishedAt:      finished,
	}
	if r.videoInfo != nil {
		info := *r.videoInfo
		result.VideoInfo = &info
	}
	if r.transcript != nil {
		tr := *r.transcript
		result.Transcript = &tr
	}
	if apiErr != nil {
		errCopy := *apiErr
		result.Error = &errCopy
	}

	if p.recorder != nil {
		p.recorder.ObserveRun(result)
	}

	// Persistence and notification outlive a cancelled run.
	sideCtx := context.WithoutCancel(ctx)
	if p.repository != nil {
		if err := p.repository.SaveRun(sideCtx, result.Record()); err != nil {
			logger.Warn("save run failed", "error", err)
		}
	}
	if result.Success && p.notifier != nil {
		if err := p.notifier.PublishDigest(sideCtx, BuildDigest(result)); err != nil {
			logger.Warn("publish digest failed", "error", err)
		}
	}

	if result.Success {
		logger.Info("run finished",
			"elapsed", result.TotalTime,
			"chunks", result.ChunksProcessed,
			"iterations", result.IterationCount,
		)
	} else {
		logger.Warn("run failed",
			"elapsed", result.TotalTime,
			"error_type", result.Error.Type,
			"error", result.Error.Message,
		)
	}

	return result
}
