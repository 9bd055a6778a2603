package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
)

// State is a node of the extraction state machine.
type State string

const (
	StateTryOCR              State = "try_ocr"
	StateTryPrimaryChat      State = "try_primary_chat"
	StateEvaluatePlaceholder State = "evaluate_placeholder"
	StateTryFallback         State = "try_fallback"
	StateDone                State = "done"
)

// Session is the mutable state of one SmartExtract run.
type Session struct {
	Request extract.Request
	State   State
	Primary extract.Result // primary chat result, once tried
	Result  extract.Result // terminal result, valid when State == StateDone
	Trace   []State        // states visited, in order
}

// NewSession starts a run at TryOCR or TryPrimaryChat depending on the strategy.
func NewSession(req extract.Request) *Session {
	s := &Session{Request: req, State: StateTryPrimaryChat}
	if req.Strategy.UseOCR {
		s.State = StateTryOCR
	}
	return s
}

// Processor chooses among the OCR, primary chat and fallback chat extractors.
type Processor struct {
	logger   *slog.Logger
	ocr      extract.Extractor
	primary  extract.Extractor
	fallback extract.Extractor
}

func NewProcessor(logger *slog.Logger, ocr, primary, fallback extract.Extractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, ocr: ocr, primary: primary, fallback: fallback}
}

// SmartExtract runs the machine to completion and returns its terminal result.
//
//	TryOCR              ok -> Done (OCR result)      fail -> TryPrimaryChat
//	TryPrimaryChat      ok -> EvaluatePlaceholder    fail -> TryFallback | Done (primary error)
//	EvaluatePlaceholder flagged -> TryFallback       else -> Done (primary result)
//	TryFallback         -> Done (fallback result, success or not)
//
// The fallback extractor is entered at most once and only when the strategy allows it.
func (p *Processor) SmartExtract(ctx context.Context, req extract.Request) extract.Result {
	start := time.Now()
	s := NewSession(req)
	for s.State != StateDone {
		p.Step(ctx, s)
	}

	log := common.LoggerFrom(ctx, p.logger)
	log.Info("pipeline.done",
		"trace", s.Trace,
		"failed", s.Result.Failed(),
		"method", s.Result.Method(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return s.Result
}

// Step performs the transition out of s.State. It is a no-op once Done.
func (p *Processor) Step(ctx context.Context, s *Session) {
	if s.State == StateDone {
		return
	}
	s.Trace = append(s.Trace, s.State)
	log := common.LoggerFrom(ctx, p.logger).With("state", s.State)

	switch s.State {
	case StateTryOCR:
		res := p.call(ctx, p.ocr, "ocr", s.Request)
		if !res.Failed() {
			p.finish(s, res)
			return
		}
		log.Warn("pipeline.ocr.failed", "error", res.ErrorMessage(), "next", StateTryPrimaryChat)
		s.State = StateTryPrimaryChat

	case StateTryPrimaryChat:
		s.Primary = p.call(ctx, p.primary, "primary", s.Request)
		switch {
		case !s.Primary.Failed() && s.Request.Strategy.Fallback:
			s.State = StateEvaluatePlaceholder
		case !s.Primary.Failed():
			p.finish(s, s.Primary)
		case s.Request.Strategy.Fallback:
			log.Warn("pipeline.primary.failed", "error", s.Primary.ErrorMessage(), "next", StateTryFallback)
			log.Info("pipeline.fallback.attempt", "reason", "primary_failed")
			s.State = StateTryFallback
		default:
			log.Warn("pipeline.primary.failed", "error", s.Primary.ErrorMessage(), "fallback", "disabled")
			p.finish(s, s.Primary)
		}

	case StateEvaluatePlaceholder:
		first, last := ResolveName(s.Primary.Fields())
		if IsPlaceholderName(first, last) {
			log.Info("pipeline.fallback.attempt", "reason", "placeholder_name", "first_name", first, "last_name", last)
			s.State = StateTryFallback
			return
		}
		log.Debug("pipeline.placeholder.clear", "has_first", first != "", "has_last", last != "")
		p.finish(s, s.Primary)

	case StateTryFallback:
		res := p.call(ctx, p.fallback, "fallback", s.Request)
		if res.Failed() {
			log.Warn("pipeline.fallback.failed", "error", res.ErrorMessage())
		}
		p.finish(s, res)

	default:
		log.Error("pipeline.unknown_state")
		p.finish(s, extract.Fail("internal error: unknown extraction state "+string(s.State), ""))
	}
}

func (p *Processor) finish(s *Session, res extract.Result) {
	s.Result = res
	s.State = StateDone
}

func (p *Processor) call(ctx context.Context, e extract.Extractor, name string, req extract.Request) extract.Result {
	if e == nil {
		return extract.Fail(name+" extractor not configured", "")
	}
	return e.Extract(ctx, req)
}
