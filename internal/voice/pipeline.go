package voice

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"yudai-tasks-backend/internal/tasks"
)

// Stage is where a pipeline run currently is. A run moves strictly forward;
// Failed is terminal and reachable from any stage before Done.
type Stage int

const (
	StageIdle Stage = iota
	StageTranscribing
	StageExtracting
	StageParsing
	StagePersisting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageTranscribing:
		return "transcribing"
	case StageExtracting:
		return "extracting"
	case StageParsing:
		return "parsing"
	case StagePersisting:
		return "persisting"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type Extractor interface {
	ExtractTasks(ctx context.Context, transcript string) (string, error)
}

type TaskWriter interface {
	CreateTaskBatch(ctx context.Context, userID int, listID string, names []string, createdAt time.Time) (tasks.BatchReport, error)
}

// Pipeline chains transcription, task extraction, parsing and persistence.
// Each run is one linear pass; concurrent runs share nothing but the store.
type Pipeline struct {
	STT   Transcriber
	LLM   Extractor
	Store TaskWriter

	// CallTimeout bounds each external call so a stuck upstream fails the
	// run instead of hanging it. Zero means no bound beyond the caller's
	// context.
	CallTimeout time.Duration
}

func NewPipeline(stt Transcriber, llm Extractor, store TaskWriter, callTimeout time.Duration) *Pipeline {
	return &Pipeline{STT: stt, LLM: llm, Store: store, CallTimeout: callTimeout}
}

type Input struct {
	Audio    io.Reader
	Filename string
	UserID   int
	ListID   string
}

type Result struct {
	Stage      Stage
	Transcript string
	Completion string
	Names      []string
	Report     tasks.BatchReport
}

// Empty reports the recognized "nothing said" outcome: the run finished but
// produced no completion.
func (r *Result) Empty() bool {
	return r.Completion == ""
}

func (p *Pipeline) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.CallTimeout > 0 {
		return context.WithTimeout(ctx, p.CallTimeout)
	}
	return context.WithCancel(ctx)
}

// Run executes the full pipeline. The returned Result is never nil and its
// Stage tells how far the run got when err != nil.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	res := &Result{Stage: StageTranscribing}

	sttCtx, cancel := p.callCtx(ctx)
	transcript, err := p.STT.Transcribe(sttCtx, in.Audio, in.Filename)
	cancel()
	if err != nil {
		res.Stage = StageFailed
		return res, err
	}
	res.Transcript = transcript

	if transcript == "" {
		// Nothing said. Not a failure; the extractor is never invoked.
		res.Stage = StageDone
		return res, nil
	}

	res.Stage = StageExtracting
	llmCtx, cancel := p.callCtx(ctx)
	completion, err := p.LLM.ExtractTasks(llmCtx, transcript)
	cancel()
	if err != nil {
		res.Stage = StageFailed
		return res, err
	}
	res.Completion = completion

	res.Stage = StageParsing
	res.Names = ParseTaskList(completion)

	// An empty parse is valid: zero tasks get persisted and the raw
	// completion is still the caller's result.
	res.Stage = StagePersisting
	report, err := p.Store.CreateTaskBatch(ctx, in.UserID, in.ListID, res.Names, time.Now().UTC())
	res.Report = report
	if err != nil {
		res.Stage = StageFailed
		return res, fmt.Errorf("persist tasks: %w", err)
	}

	for _, f := range report.Failed {
		log.Printf("[WARN] voice task write failed user_id=%d list_id=%s: %v", in.UserID, in.ListID, f.Err)
	}
	if len(res.Names) > 0 && len(report.Created) == 0 {
		res.Stage = StageFailed
		return res, fmt.Errorf("persist tasks: all %d writes failed", len(res.Names))
	}

	res.Stage = StageDone
	return res, nil
}
