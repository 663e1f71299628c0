package job

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	appanalysis "github.com/shailu9/MediaInfoApi/application/analysis"
	"github.com/shailu9/MediaInfoApi/application/archive"
	appmedia "github.com/shailu9/MediaInfoApi/application/media"
	appnotif "github.com/shailu9/MediaInfoApi/application/notification"
	"github.com/shailu9/MediaInfoApi/application/probe"
	"github.com/shailu9/MediaInfoApi/domain/job"
	"github.com/shailu9/MediaInfoApi/domain/media"
	"github.com/shailu9/MediaInfoApi/domain/notification"
	"github.com/shailu9/MediaInfoApi/infrastructure/config"
	"github.com/shailu9/MediaInfoApi/infrastructure/filesystem"
)

// Outcome carries what a job execution produced. ArtifactPath and
// ArchiveURL survive even when a later step fails.
type Outcome struct {
	Result       json.RawMessage
	ArtifactPath string
	ArchiveURL   string
}

// Executor runs a job's work and reports what it produced
// This seam lets the worker pool be tested without ffmpeg
type Executor interface {
	Execute(ctx context.Context, j *job.Job) (*Outcome, error)
}

// PipelineExecutor dispatches jobs to the application services and runs
// the optional post-steps: archival to remote storage, then a completion
// email. Archive and notify may be nil to disable those steps.
type PipelineExecutor struct {
	probe     *probe.Service
	trim      *appmedia.TrimService
	extract   *appmedia.ExtractService
	silence   *appanalysis.SilenceService
	template  *appanalysis.TemplateService
	workspace *filesystem.Workspace
	archive   *archive.Service
	notify    *appnotif.Service
	cfg       *config.Config
}

// NewPipelineExecutor creates a new pipeline executor
func NewPipelineExecutor(
	probeSvc *probe.Service,
	trimSvc *appmedia.TrimService,
	extractSvc *appmedia.ExtractService,
	silenceSvc *appanalysis.SilenceService,
	templateSvc *appanalysis.TemplateService,
	workspace *filesystem.Workspace,
	archiveSvc *archive.Service,
	notifySvc *appnotif.Service,
	cfg *config.Config,
) *PipelineExecutor {
	return &PipelineExecutor{
		probe:     probeSvc,
		trim:      trimSvc,
		extract:   extractSvc,
		silence:   silenceSvc,
		template:  templateSvc,
		workspace: workspace,
		archive:   archiveSvc,
		notify:    notifySvc,
		cfg:       cfg,
	}
}

var _ Executor = (*PipelineExecutor)(nil)

// Execute runs the job's kind-specific pipeline
func (e *PipelineExecutor) Execute(ctx context.Context, j *job.Job) (*Outcome, error) {
	switch j.Kind {
	case job.KindProbe:
		return e.executeProbe(ctx, j)
	case job.KindTrim:
		return e.executeTrim(ctx, j)
	case job.KindExtractAudio:
		return e.executeExtract(ctx, j)
	case job.KindSilenceScan:
		return e.executeSilence(ctx, j)
	case job.KindTemplateScan:
		return e.executeTemplate(ctx, j)
	default:
		return nil, fmt.Errorf("%w: %q", job.ErrUnknownKind, j.Kind)
	}
}

type probeDoc struct {
	ReportID string        `json:"report_id"`
	Source   string        `json:"source"`
	Report   *media.Report `json:"report"`
}

func (e *PipelineExecutor) executeProbe(ctx context.Context, j *job.Job) (*Outcome, error) {
	record, err := e.probe.Probe(ctx, j.Source)
	if err != nil {
		return nil, err
	}

	result, err := json.Marshal(probeDoc{
		ReportID: record.ID.String(),
		Source:   record.Source,
		Report:   record.Report,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode probe report: %w", err)
	}

	return &Outcome{Result: result}, nil
}

type trimDoc struct {
	Artifact     string `json:"artifact"`
	RangeSeconds int    `json:"range_seconds"`
}

func (e *PipelineExecutor) executeTrim(ctx context.Context, j *job.Job) (*Outcome, error) {
	params, err := job.ParseTrimParams(j.Params)
	if err != nil {
		return nil, err
	}

	scratch, err := e.workspace.JobDir(j.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare scratch dir: %w", err)
	}
	defer e.workspace.Cleanup(scratch)

	res, err := e.trim.Trim(ctx, appmedia.TrimInput{
		Source:    j.Source,
		StartTime: params.Start,
		EndTime:   params.End,
		OutputDir: scratch,
	})
	if err != nil {
		return nil, err
	}

	artifactPath, err := e.publish(res.OutputPath)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{ArtifactPath: artifactPath}
	outcome.Result, err = json.Marshal(trimDoc{
		Artifact:     artifactPath,
		RangeSeconds: res.RangeSeconds,
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to encode trim result: %w", err)
	}

	if err := e.postProcess(ctx, j, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

type extractDoc struct {
	Artifact string `json:"artifact"`
	Bitrate  string `json:"bitrate"`
}

func (e *PipelineExecutor) executeExtract(ctx context.Context, j *job.Job) (*Outcome, error) {
	params, err := job.ParseExtractParams(j.Params)
	if err != nil {
		return nil, err
	}

	scratch, err := e.workspace.JobDir(j.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare scratch dir: %w", err)
	}
	defer e.workspace.Cleanup(scratch)

	res, err := e.extract.Extract(ctx, appmedia.ExtractInput{
		Source:    j.Source,
		Bitrate:   params.Bitrate,
		StartTime: params.Start,
		EndTime:   params.End,
		OutputDir: scratch,
	})
	if err != nil {
		return nil, err
	}

	artifactPath, err := e.publish(res.OutputPath)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{ArtifactPath: artifactPath}
	outcome.Result, err = json.Marshal(extractDoc{
		Artifact: artifactPath,
		Bitrate:  res.Bitrate,
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to encode extraction result: %w", err)
	}

	if err := e.postProcess(ctx, j, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

type segmentDoc struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

type silenceDoc struct {
	Source       string       `json:"source"`
	NoiseDB      float64      `json:"noise_db"`
	MinDuration  float64      `json:"min_duration"`
	Segments     []segmentDoc `json:"segments"`
	TotalSilence float64      `json:"total_silence"`
}

func (e *PipelineExecutor) executeSilence(ctx context.Context, j *job.Job) (*Outcome, error) {
	params, err := job.ParseSilenceParams(j.Params)
	if err != nil {
		return nil, err
	}

	res, err := e.silence.Scan(ctx, appanalysis.SilenceInput{
		Source:      j.Source,
		NoiseDB:     params.NoiseDB,
		MinDuration: params.MinDuration,
	})
	if err != nil {
		return nil, err
	}

	doc := silenceDoc{
		Source:       res.Source,
		NoiseDB:      res.NoiseDB,
		MinDuration:  res.MinDuration,
		Segments:     make([]segmentDoc, 0, len(res.Segments)),
		TotalSilence: res.TotalSilence,
	}
	for _, seg := range res.Segments {
		doc.Segments = append(doc.Segments, segmentDoc{
			Start:    seg.Start,
			End:      seg.End,
			Duration: seg.Duration(),
		})
	}

	result, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode silence result: %w", err)
	}
	return &Outcome{Result: result}, nil
}

type templateDoc struct {
	Found          bool    `json:"found"`
	Timestamp      string  `json:"timestamp,omitempty"`
	OffsetSeconds  float64 `json:"offset_seconds"`
	Confidence     float64 `json:"confidence"`
	FramesAnalyzed int     `json:"frames_analyzed"`
}

func (e *PipelineExecutor) executeTemplate(ctx context.Context, j *job.Job) (*Outcome, error) {
	params, err := job.ParseTemplateParams(j.Params)
	if err != nil {
		return nil, err
	}

	match, err := e.template.Scan(ctx, appanalysis.TemplateInput{
		Source:         j.Source,
		Template:       params.Template,
		FrameInterval:  params.FrameInterval,
		MatchThreshold: params.MatchThreshold,
	})
	if err != nil {
		return nil, err
	}

	doc := templateDoc{
		Found:          match.Found,
		OffsetSeconds:  match.OffsetSeconds,
		Confidence:     match.Confidence,
		FramesAnalyzed: match.FramesAnalyzed,
	}
	if match.Found {
		doc.Timestamp = match.Timestamp.String()
	}

	result, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template result: %w", err)
	}
	return &Outcome{Result: result}, nil
}

// publish moves a finished artifact out of its scratch dir into the
// configured output dir
func (e *PipelineExecutor) publish(scratchPath string) (string, error) {
	if err := os.MkdirAll(e.cfg.Paths.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	dst := filepath.Join(e.cfg.Paths.OutputDir, filepath.Base(scratchPath))
	if err := filesystem.MoveFile(scratchPath, dst); err != nil {
		return "", fmt.Errorf("failed to move artifact: %w", err)
	}
	return dst, nil
}

// postProcess runs the config-gated steps after an artifact is produced.
// A failure here fails the job but the artifact is kept.
func (e *PipelineExecutor) postProcess(ctx context.Context, j *job.Job, outcome *Outcome) error {
	if outcome.ArtifactPath == "" {
		return nil
	}

	if e.archive != nil {
		uploaded, err := e.archive.Archive(ctx, outcome.ArtifactPath)
		if err != nil {
			return fmt.Errorf("archive step failed: %w", err)
		}
		outcome.ArchiveURL = uploaded.ShareableURL
	}

	if e.notify != nil && outcome.ArchiveURL != "" {
		if err := e.sendNotification(j, outcome); err != nil {
			return fmt.Errorf("notification step failed: %w", err)
		}
	}

	return nil
}

func (e *PipelineExecutor) sendNotification(j *job.Job, outcome *Outcome) error {
	lookup := config.NewRecipientLookup(e.cfg)

	var to []notification.Recipient
	for _, key := range e.cfg.Email.Notify {
		r, err := lookup.ResolveOne(key)
		if err != nil {
			return fmt.Errorf("failed to resolve recipient %q: %w", key, err)
		}
		to = append(to, r)
	}
	if len(to) == 0 {
		return nil
	}

	return e.notify.Send(appnotif.SendRequest{
		To:           to,
		CC:           lookup.DefaultCCs(),
		KindLabel:    kindLabel(j.Kind),
		SourceName:   filepath.Base(j.Source),
		ArtifactName: filepath.Base(outcome.ArtifactPath),
		ArtifactURL:  outcome.ArchiveURL,
		FinishedAt:   time.Now(),
	})
}

// kindLabel is the human wording used in notification emails
func kindLabel(k job.Kind) string {
	switch k {
	case job.KindProbe:
		return "Probe"
	case job.KindExtractAudio:
		return "Audio extraction"
	case job.KindTrim:
		return "Trim"
	case job.KindSilenceScan:
		return "Silence scan"
	case job.KindTemplateScan:
		return "Template scan"
	}
	return string(k)
}
