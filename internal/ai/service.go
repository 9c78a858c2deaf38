// Package ai implements the evaluator and generator ports on top of a text model
// that answers in JSON.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/usecase"
)

// Generator produces one JSON document for a system instruction and a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, system, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("empty model response")

// Service turns prompts into typed domain values.
type Service struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewService wraps gen. A zero timeout disables the per-call deadline.
func NewService(gen Generator, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, timeout: timeout, logger: logger.With(zap.String("component", "ai"))}
}

var _ usecase.AIService = (*Service)(nil)

func (s *Service) EvaluateConcept(ctx context.Context, problem string) (domain.Evaluation, error) {
	var out domain.Evaluation
	if err := s.ask(ctx, "evaluate_concept", conceptPrompt(problem), &out); err != nil {
		return domain.Evaluation{}, err
	}
	status, err := domain.ParseEvaluationStatus(string(out.Status))
	if err != nil {
		return domain.Evaluation{}, err
	}
	out.Status = status
	return out, nil
}

func (s *Service) EvaluateTargetAudience(ctx context.Context, problem, segment, description string, challenges []string) (domain.TargetAudienceEvaluation, error) {
	var out domain.TargetAudienceEvaluation
	err := s.ask(ctx, "evaluate_target_audience", audiencePrompt(problem, segment, description, challenges), &out)
	return out, err
}

func (s *Service) EvaluateValueProposition(ctx context.Context, problem string, audiences []domain.TargetAudienceState) (domain.ValueProposition, error) {
	var out domain.ValueProposition
	err := s.ask(ctx, "evaluate_value_proposition", valuePropositionPrompt(problem, audiences), &out)
	return out, err
}

func (s *Service) AnalyzeCompetitors(ctx context.Context, problem, marketExistence string) (domain.CompetitorAnalysis, error) {
	var out domain.CompetitorAnalysis
	err := s.ask(ctx, "analyze_competitors", competitorPrompt(problem, marketExistence), &out)
	return out, err
}

func (s *Service) GenerateSocialMediaCampaigns(ctx context.Context, brief usecase.CampaignBrief) (domain.SocialMediaCampaigns, error) {
	var out domain.SocialMediaCampaigns
	if err := s.ask(ctx, "generate_social_media_campaigns", campaignPrompt(brief), &out); err != nil {
		return domain.SocialMediaCampaigns{}, err
	}
	out.CreatedAt = time.Now().UTC()
	return out, nil
}

func (s *Service) ask(ctx context.Context, op, prompt string, out any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.gen.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		s.logger.Warn("model call failed", zap.String("op", op), zap.Duration("took", time.Since(started)), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := decodeJSON(raw, out); err != nil {
		s.logger.Warn("undecodable model response", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("model call finished", zap.String("op", op), zap.Duration("took", time.Since(started)))
	return nil
}

// decodeJSON accepts a bare JSON object or one wrapped in a markdown code fence.
func decodeJSON(raw string, out any) error {
	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}
	if body == "" {
		return ErrEmptyResponse
	}
	if start, end := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}'); start > 0 && end > start {
		body = body[start : end+1]
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}
