package match

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/thomasandersen77/candidate-match/internal/ai"
	"github.com/thomasandersen77/candidate-match/internal/scoring"
	"github.com/thomasandersen77/candidate-match/internal/skills"
)

// Params bounds one matching computation.
type Params struct {
	// PoolLimit caps the candidate pool read from the repository.
	PoolLimit int
	// MinCandidates is the shortlist floor for graceful widening.
	MinCandidates int
	// BatchSize is the AI batch size; the shortlist is shrunk to at most
	// this many candidates before the single ranking call.
	BatchSize int
	// Workers bounds the background trigger pool.
	Workers int
}

// Service is the matching orchestrator. Construct with NewService; all
// collaborators are explicit.
type Service struct {
	projects  ProjectRequestReader
	pool      CandidatePoolReader
	quality   QualityScoreReader
	artifacts ArtifactResolver
	ranker    Ranker
	store     RunStore
	extractor *skills.Extractor
	log       *zap.Logger
	params    Params

	// inflight dedupes concurrent computations per project request so a
	// re-trigger while a run is in flight does not double the AI spend.
	inflight singleflight.Group
	sem      *semaphore.Weighted
}

// NewService wires the orchestrator.
func NewService(
	projects ProjectRequestReader,
	pool CandidatePoolReader,
	quality QualityScoreReader,
	artifacts ArtifactResolver,
	ranker Ranker,
	store RunStore,
	extractor *skills.Extractor,
	log *zap.Logger,
	params Params,
) *Service {
	if params.Workers <= 0 {
		params.Workers = 4
	}
	return &Service{
		projects:  projects,
		pool:      pool,
		quality:   quality,
		artifacts: artifacts,
		ranker:    ranker,
		store:     store,
		extractor: extractor,
		log:       log,
		params:    params,
		sem:       semaphore.NewWeighted(int64(params.Workers)),
	}
}

// TriggerMatching starts a matching computation in the background and
// returns immediately. Failures are logged and swallowed: either a
// complete new MatchRun is persisted, or none is. Concurrent triggers for
// the same project request share one in-flight computation.
func (s *Service) TriggerMatching(projectRequestID int64, forceRecompute bool) {
	go func() {
		ctx := context.Background()
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer s.sem.Release(1)

		key := strconv.FormatInt(projectRequestID, 10)
		_, err, shared := s.inflight.Do(key, func() (any, error) {
			return s.ComputeAndPersist(ctx, projectRequestID, forceRecompute)
		})
		if shared {
			s.log.Debug("joined in-flight matching run",
				zap.Int64("project_request_id", projectRequestID))
		}
		if err != nil {
			s.log.Error("background matching failed",
				zap.Int64("project_request_id", projectRequestID),
				zap.Bool("force_recompute", forceRecompute),
				zap.Error(err))
		}
	}()
}

// ComputeAndPersist runs the synchronous matching pipeline for one
// project request and persists a new MatchRun. With forceRecompute=false
// an existing result short-circuits the computation; with true the prior
// runs are replaced atomically.
func (s *Service) ComputeAndPersist(ctx context.Context, projectRequestID int64, forceRecompute bool) ([]CandidateResult, error) {
	if !forceRecompute {
		existing, err := s.store.LatestRun(ctx, projectRequestID)
		if err != nil {
			return nil, fmt.Errorf("check existing match run: %w", err)
		}
		if existing != nil {
			s.log.Info("reusing existing match result",
				zap.Int64("project_request_id", projectRequestID),
				zap.Int("candidates", len(existing.Results)))
			return existing.Results, nil
		}
	}

	project, err := s.projects.ProjectRequest(ctx, projectRequestID)
	if err != nil {
		return nil, err
	}

	requiredSkills := s.requiredSkills(project)

	pool, err := s.selectPool(ctx, requiredSkills)
	if err != nil {
		return nil, fmt.Errorf("select candidate pool: %w", err)
	}

	run := NewMatchRun(projectRequestID)

	if len(pool) == 0 {
		s.log.Info("candidate pool is empty, persisting empty match run",
			zap.Int64("project_request_id", projectRequestID))
		if err := s.store.SaveRun(ctx, run, forceRecompute); err != nil {
			return nil, fmt.Errorf("persist match run: %w", err)
		}
		return run.Results, nil
	}

	s.attachQualityScores(ctx, pool)

	shortlist := scoring.SelectShortlist(pool, requiredSkills, s.params.MinCandidates, s.params.BatchSize)
	batch := s.resolveArtifacts(ctx, shortlist)

	if len(batch) > 0 {
		ranked := s.ranker.Rank(ctx,
			strconv.FormatInt(projectRequestID, 10),
			describeProject(project),
			batch,
			s.params.BatchSize)
		run.Results = s.toResults(ranked, shortlist, run.CreatedAt)
	}

	if err := s.store.SaveRun(ctx, run, forceRecompute); err != nil {
		return nil, fmt.Errorf("persist match run: %w", err)
	}

	s.log.Info("match run persisted",
		zap.Int64("project_request_id", projectRequestID),
		zap.String("match_run_id", run.ID.String()),
		zap.Int("pool_size", len(pool)),
		zap.Int("shortlist_size", len(shortlist)),
		zap.Int("ranked", len(run.Results)))

	return run.Results, nil
}

// MatchesForProject returns the most recent run's top candidates joined
// with live consultant names, or nil when no run exists. It never
// triggers a computation.
func (s *Service) MatchesForProject(ctx context.Context, projectRequestID int64, limit int) (*Result, error) {
	run, err := s.store.LatestRun(ctx, projectRequestID)
	if err != nil {
		return nil, fmt.Errorf("load match run: %w", err)
	}
	if run == nil {
		return nil, nil
	}

	top := run.TopCandidates(limit)

	ids := make([]int64, 0, len(top))
	for _, c := range top {
		ids = append(ids, c.ConsultantID)
	}
	names, err := s.pool.DisplayNames(ctx, ids)
	if err != nil {
		s.log.Warn("failed to resolve consultant names", zap.Error(err))
		names = nil
	}

	result := &Result{
		ProjectRequestID: projectRequestID,
		ComputedAt:       run.CreatedAt,
		Candidates:       make([]MatchedCandidate, 0, len(top)),
	}
	for _, c := range top {
		result.Candidates = append(result.Candidates, MatchedCandidate{
			ConsultantID:   c.ConsultantID,
			ConsultantName: names[c.ConsultantID],
			MatchScore:     c.MatchScore,
			Explanation:    c.Explanation,
		})
	}
	return result, nil
}

// Status reports whether a match result exists for the project request.
func (s *Service) Status(ctx context.Context, projectRequestID int64) (string, error) {
	run, err := s.store.LatestRun(ctx, projectRequestID)
	if err != nil {
		return "", fmt.Errorf("load match run: %w", err)
	}
	if run == nil {
		return StatusPending, nil
	}
	return StatusCompleted, nil
}

// requiredSkills unions the project's declared skills with skills
// extracted from its free-text fields.
func (s *Service) requiredSkills(project *ProjectRequest) []string {
	texts := []string{project.Title, project.Summary}
	for _, req := range project.Requirements {
		texts = append(texts, req.Text)
	}
	extracted := s.extractor.Extract(texts...)
	declared := s.extractor.Normalize(project.Skills)

	seen := make(map[string]struct{}, len(extracted)+len(declared))
	merged := make([]string, 0, len(extracted)+len(declared))
	for _, list := range [][]string{declared, extracted} {
		for _, skill := range list {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			merged = append(merged, skill)
		}
	}
	return merged
}

func (s *Service) selectPool(ctx context.Context, requiredSkills []string) ([]scoring.CandidateSnapshot, error) {
	if len(requiredSkills) > 0 {
		return s.pool.FindBySkills(ctx, requiredSkills, s.params.PoolLimit)
	}
	return s.pool.ActiveWithCV(ctx, s.params.PoolLimit)
}

// attachQualityScores decorates snapshots with CV-quality scores. A
// failed lookup degrades every candidate to "unscored" rather than
// failing the run.
func (s *Service) attachQualityScores(ctx context.Context, pool []scoring.CandidateSnapshot) {
	ids := make([]int64, 0, len(pool))
	for _, snap := range pool {
		ids = append(ids, snap.ID)
	}
	qualities, err := s.quality.QualityScores(ctx, ids)
	if err != nil {
		s.log.Warn("CV-quality lookup failed, scoring with neutral quality", zap.Error(err))
		return
	}
	for i := range pool {
		if q, ok := qualities[pool[i].ID]; ok {
			quality := q
			pool[i].Quality = &quality
		}
	}
}

// resolveArtifacts maps the shortlist to AI batch candidates. An upload
// failure excludes that single candidate from the run, it never aborts
// the run.
func (s *Service) resolveArtifacts(ctx context.Context, shortlist []scoring.ScoredCandidate) []ai.BatchCandidate {
	batch := make([]ai.BatchCandidate, 0, len(shortlist))
	for _, scored := range shortlist {
		ref, err := s.artifacts.Resolve(ctx, scored.Snapshot)
		if err != nil {
			s.log.Warn("excluding candidate from run: artifact resolution failed",
				zap.Int64("consultant_id", scored.Snapshot.ID),
				zap.Error(err))
			continue
		}
		batch = append(batch, ai.BatchCandidate{
			ConsultantID: scored.Snapshot.ID,
			Name:         scored.Snapshot.Name,
			ArtifactRef:  ref,
			CVText:       scored.Snapshot.CVText,
		})
	}
	return batch
}

// toResults converts provider entries (integer scores 0-100) into
// persisted CandidateResults with scores normalized to [0,1]. Entries
// referencing consultants that were not part of the shortlist are
// dropped.
func (s *Service) toResults(ranked []ai.RankedCandidate, shortlist []scoring.ScoredCandidate, createdAt time.Time) []CandidateResult {
	considered := make(map[int64]struct{}, len(shortlist))
	for _, scored := range shortlist {
		considered[scored.Snapshot.ID] = struct{}{}
	}

	results := make([]CandidateResult, 0, len(ranked))
	for _, entry := range ranked {
		if _, ok := considered[entry.ConsultantID]; !ok {
			s.log.Warn("dropping ranked entry for consultant outside this run",
				zap.Int64("consultant_id", entry.ConsultantID))
			continue
		}
		explanation := strings.TrimSpace(strings.Join(entry.Reasons, " "))
		if explanation == "" {
			explanation = noExplanation
		}
		results = append(results, CandidateResult{
			ID:           uuid.New(),
			ConsultantID: entry.ConsultantID,
			MatchScore:   normalizeScore(entry.Score),
			Explanation:  explanation,
			CreatedAt:    createdAt,
		})
	}
	return results
}

// normalizeScore maps a provider score in [0,100] to a decimal clamped to
// [0,1].
func normalizeScore(score int) float64 {
	normalized := float64(score) / 100.0
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// describeProject renders the project request for the ranking prompt,
// marking MUST and SHOULD requirements.
func describeProject(project *ProjectRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer: %s\n", project.CustomerName)
	fmt.Fprintf(&b, "Title: %s\n", project.Title)
	if project.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", project.Summary)
	}
	if project.StartDate != "" || project.EndDate != "" {
		fmt.Fprintf(&b, "Timeline: %s - %s\n", project.StartDate, project.EndDate)
	}
	if len(project.Requirements) > 0 {
		b.WriteString("Requirements:\n")
		for _, req := range project.Requirements {
			level := "SHOULD"
			if req.MustHave {
				level = "MUST"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", level, req.Text)
		}
	}
	return b.String()
}
