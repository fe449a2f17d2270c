package sim

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/grayscan/grayscan/sim/trace"
)

// Blended score weights. Empirically chosen; changing them reorders every
// queue and invalidates recorded baselines.
const (
	vitalityWeight = 0.7
	specialWeight  = 0.3
)

// ScanState is the scanner's lifecycle state.
type ScanState string

const (
	ScanIdle     ScanState = "idle"
	ScanScanning ScanState = "scanning"
)

// Candidate is one evaluated parameter set in the ranked queue.
type Candidate struct {
	ID                string        `json:"id"`
	Params            Params        `json:"params"`
	Metrics           MetricsVector `json:"metrics"`
	Assessment        Assessment    `json:"assessment"`
	SpecialLikelihood float64       `json:"specialLikelihood"`
	BlendedScore      float64       `json:"blendedScore"`
}

// ScanProgressFunc receives the scan completion fraction in [0,1],
// monotonically non-decreasing across one scan.
type ScanProgressFunc func(fraction float64)

// BookmarkSink receives bookmark-creation events when a candidate is
// adopted. Implemented by the external bookmark collaborator.
type BookmarkSink interface {
	CreateBookmark(payload BookmarkPayload)
}

// CanvasController receives replay requests: load these parameters into the
// live simulation and restart. Implemented by the external canvas
// collaborator.
type CanvasController interface {
	LoadParameters(p Params, resolution int)
}

// BookmarkPayload is the adopt event emitted to the bookmark collaborator.
type BookmarkPayload struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Params     Params        `json:"params"`
	Resolution int           `json:"resolution"`
	Timestamp  time.Time     `json:"timestamp"`
	Metrics    MetricsVector `json:"metrics"`
}

// Scanner is the candidate search loop: it samples parameter sets, runs
// them through the evaluator, scores the results and maintains the ranked,
// size-bounded queue. Single-threaded and cooperative; it yields between
// batches so progress and cancellation are observable.
type Scanner struct {
	cfg   ScanConfig
	eval  *Evaluator
	model *SpecialModel
	store *FeedbackStore
	rng   *rand.Rand
	trace *trace.ScanTrace

	state ScanState
	queue []Candidate
}

// NewScanner wires the search loop to its collaborators. tr may be nil to
// disable decision tracing.
func NewScanner(cfg ScanConfig, eval *Evaluator, model *SpecialModel, store *FeedbackStore, rng *PartitionedRNG, tr *trace.ScanTrace) *Scanner {
	return &Scanner{
		cfg:   cfg,
		eval:  eval,
		model: model,
		store: store,
		rng:   rng.ForSubsystem(SubsystemSampling),
		trace: tr,
		state: ScanIdle,
	}
}

// State returns the scanner's current lifecycle state.
func (s *Scanner) State() ScanState {
	return s.state
}

// Queue returns a copy of the ranked candidate queue.
func (s *Scanner) Queue() []Candidate {
	out := make([]Candidate, len(s.queue))
	copy(out, s.queue)
	return out
}

// Scan runs bounded batches of candidate evaluation until the visible queue
// reaches the target size or the batch ceiling is hit. A request while
// already scanning is a silent no-op that returns the current queue.
// Cancellation is observed between candidates: the in-flight evaluation
// finishes, completed candidates are merged and reported, and the scanner
// returns to Idle with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, onProgress ScanProgressFunc) ([]Candidate, error) {
	if s.state == ScanScanning {
		return s.Queue(), nil
	}
	s.state = ScanScanning
	defer func() { s.state = ScanIdle }()

	progress := newProgressReporter(onProgress)

	s.normalizeQueue()
	visible := len(VisibleCandidates(s.queue, s.cfg.VisibleThreshold))
	if visible >= s.cfg.TargetVisible {
		logrus.Debugf("scan: visible queue already at %d/%d, nothing to do", visible, s.cfg.TargetVisible)
		progress.report(1)
		return s.Queue(), nil
	}

	batches := int(math.Ceil(float64(s.cfg.TargetVisible-visible) / float64(s.cfg.BatchSize)))
	if batches > s.cfg.MaxBatches {
		batches = s.cfg.MaxBatches
	}
	logrus.Infof("scan: %d visible of %d target, issuing up to %d batches of %d", visible, s.cfg.TargetVisible, batches, s.cfg.BatchSize)

	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return s.Queue(), err
		}

		batch := make([]Params, s.cfg.BatchSize)
		strategies := make([]Strategy, s.cfg.BatchSize)
		specials := s.store.Specials()
		for i := range batch {
			batch[i], strategies[i] = SampleCandidate(s.rng, specials)
		}

		evals, err := s.eval.Evaluate(ctx, batch, nil)
		s.mergeBatch(b, evals, strategies)
		if err != nil {
			logrus.Infof("scan: cancelled during batch %d with %d candidates completed", b+1, len(evals))
			return s.Queue(), err
		}

		visible = len(VisibleCandidates(s.queue, s.cfg.VisibleThreshold))
		progress.report(float64(b+1) / float64(batches))
		logrus.Debugf("scan: batch %d/%d complete, %d visible", b+1, batches, visible)
		if visible >= s.cfg.TargetVisible {
			break
		}
	}

	progress.report(1)
	return s.Queue(), nil
}

// mergeBatch scores a batch of evaluations, merges them into the queue,
// re-sorts, trims to the queue bound and applies the auto-tag policy.
func (s *Scanner) mergeBatch(batch int, evals []Evaluation, strategies []Strategy) {
	fresh := make([]Candidate, 0, len(evals))
	for i, ev := range evals {
		assessment := Classify(ev.Average)
		likelihood := s.model.Score(ev.Average, ev.Params)
		c := Candidate{
			ID:                uuid.NewString(),
			Params:            ev.Params,
			Metrics:           ev.Average,
			Assessment:        assessment,
			SpecialLikelihood: likelihood,
			BlendedScore:      blend(assessment.Score, likelihood),
		}
		fresh = append(fresh, c)

		autoLabel := s.autoTag(c)
		s.trace.RecordCandidate(trace.CandidateRecord{
			CandidateID:       c.ID,
			Batch:             batch,
			Strategy:          string(strategies[i]),
			Category:          string(assessment.Category),
			VitalityScore:     assessment.Score,
			SpecialLikelihood: likelihood,
			BlendedScore:      c.BlendedScore,
			AutoLabel:         string(autoLabel),
		})
	}

	s.queue = append(s.queue, fresh...)
	sortCandidates(s.queue)
	if len(s.queue) > s.cfg.MaxQueue {
		s.queue = s.queue[:s.cfg.MaxQueue]
	}
}

// autoTag applies the threshold policy to one candidate and returns the
// label written, or "" when the candidate is left undecided. The store's
// overwrite rules keep user and curated labels authoritative.
func (s *Scanner) autoTag(c Candidate) Label {
	if !s.cfg.AutoTag {
		return ""
	}
	switch {
	case c.SpecialLikelihood >= s.cfg.SpecialThreshold:
		s.store.AutoTag(c.ID, LabelSpecial, c.Params, c.Metrics, c.Assessment.Category, c.BlendedScore)
		return LabelSpecial
	case c.SpecialLikelihood <= s.cfg.NormalThreshold:
		s.store.AutoTag(c.ID, LabelNormal, c.Params, c.Metrics, c.Assessment.Category, c.BlendedScore)
		return LabelNormal
	}
	return ""
}

// normalizeQueue fills in score fields for queued candidates that predate
// the current model or classifier (an unassessed candidate has an empty
// category), then restores ranked order.
func (s *Scanner) normalizeQueue() {
	for i := range s.queue {
		c := &s.queue[i]
		if c.Assessment.Category == "" {
			c.Assessment = Classify(c.Metrics)
			c.SpecialLikelihood = s.model.Score(c.Metrics, c.Params)
		}
		c.BlendedScore = blend(c.Assessment.Score, c.SpecialLikelihood)
	}
	sortCandidates(s.queue)
}

// Discard removes a candidate from the queue. Returns false for unknown ids.
func (s *Scanner) Discard(id string) bool {
	for i, c := range s.queue {
		if c.ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Adopt removes the candidate from the queue and emits a bookmark-creation
// event carrying its parameters, metrics and the evaluation resolution.
func (s *Scanner) Adopt(id, name string, sink BookmarkSink) bool {
	for i, c := range s.queue {
		if c.ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			if sink != nil {
				sink.CreateBookmark(BookmarkPayload{
					ID:         c.ID,
					Name:       name,
					Params:     c.Params,
					Resolution: s.eval.Resolution,
					Timestamp:  time.Now(),
					Metrics:    c.Metrics,
				})
			}
			return true
		}
	}
	return false
}

// Replay signals the canvas collaborator to load the candidate's
// parameters and restart. The queue is not mutated.
func (s *Scanner) Replay(id string, canvas CanvasController) bool {
	for _, c := range s.queue {
		if c.ID == id {
			if canvas != nil {
				canvas.LoadParameters(c.Params, s.eval.Resolution)
			}
			return true
		}
	}
	return false
}

// Label writes a user verdict for a queued candidate, superseding any
// existing feedback record regardless of provenance.
func (s *Scanner) Label(id string, label Label, note string) bool {
	for _, c := range s.queue {
		if c.ID == id {
			s.store.LabelUser(id, label, c.Params, c.Metrics, c.Assessment.Category, c.BlendedScore, note)
			return true
		}
	}
	return false
}

// VisibleCandidates is the threshold-based visibility projection over the
// ranked queue. Pure function; the queue itself is never filtered in place.
func VisibleCandidates(queue []Candidate, threshold float64) []Candidate {
	out := make([]Candidate, 0, len(queue))
	for _, c := range queue {
		if c.BlendedScore >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// UndecidedCandidates is the focus projection: queued candidates with no
// feedback label yet, in ranked order.
func UndecidedCandidates(queue []Candidate, store *FeedbackStore) []Candidate {
	out := make([]Candidate, 0, len(queue))
	for _, c := range queue {
		if _, ok := store.Get(c.ID); !ok {
			out = append(out, c)
		}
	}
	return out
}

func blend(vitality, likelihood float64) float64 {
	return vitalityWeight*vitality + specialWeight*likelihood
}

func sortCandidates(queue []Candidate) {
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].BlendedScore > queue[j].BlendedScore
	})
}

// progressReporter clamps reported fractions to be monotonically
// non-decreasing across one scan.
type progressReporter struct {
	fn   ScanProgressFunc
	last float64
}

func newProgressReporter(fn ScanProgressFunc) *progressReporter {
	return &progressReporter{fn: fn}
}

func (p *progressReporter) report(frac float64) {
	if frac < p.last {
		frac = p.last
	}
	if frac > 1 {
		frac = 1
	}
	p.last = frac
	if p.fn != nil {
		p.fn(frac)
	}
}
