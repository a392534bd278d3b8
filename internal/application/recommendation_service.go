package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/internal/infrastructure/completion"
)

var (
	// ErrRecommendationUnavailable wraps every recommender failure; callers
	// are not expected to tell network, auth and parse failures apart.
	ErrRecommendationUnavailable = errors.New("recommendations unavailable")

	ErrNoJSONArray          = errors.New("no JSON array in completion")
	ErrRecommendationSchema = errors.New("recommendations do not match expected shape")
)

const (
	DefaultCompletionModel       = "hyperion"
	DefaultCompletionTemperature = 0.7
	DefaultRecommendationCity    = "Charlotte, NC"
)

// Completer performs one external text-completion call.
type Completer interface {
	Complete(ctx context.Context, in completion.Request) (string, error)
}

type RecommendationService struct {
	Completer   Completer
	Model       string
	Temperature float64
	Timeout     time.Duration
	City        string
	Logger      *logrus.Logger
}

func NewRecommendationService(c Completer, model string, temperature float64, timeout time.Duration, city string, logger *logrus.Logger) *RecommendationService {
	if model == "" {
		model = DefaultCompletionModel
	}
	if city == "" {
		city = DefaultRecommendationCity
	}
	return &RecommendationService{
		Completer:   c,
		Model:       model,
		Temperature: temperature,
		Timeout:     timeout,
		City:        city,
		Logger:      logger,
	}
}

var numberPrinter = message.NewPrinter(language.English)

// BuildPrompt renders the instruction text for in. Equal inputs give equal prompts.
func (s *RecommendationService) BuildPrompt(in entity.RecommendationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a neighborhood recommendation AI for %s. ", s.City)
	b.WriteString("Based on the following user profile, recommend the top 3 neighborhoods that would be the best fit. ")
	b.WriteString("For each neighborhood, provide: name, match score (0-100), 3-4 key highlights, median home price, and a brief description.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Household Size: %d\n", in.HouseholdSize)
	fmt.Fprintf(&b, "- Children: %d\n", in.NumberOfChildren)
	b.WriteString(numberPrinter.Sprintf("- Annual Income: $%d\n", in.AnnualIncome))
	fmt.Fprintf(&b, "- Safety Priority: %d/10\n", in.Priorities.Safety)
	fmt.Fprintf(&b, "- Walkability Priority: %d/10\n", in.Priorities.Walkability)
	fmt.Fprintf(&b, "- Family-Friendly Priority: %d/10\n", in.Priorities.FamilyFriendly)
	fmt.Fprintf(&b, "- Nightlife Priority: %d/10\n", in.Priorities.Nightlife)
	fmt.Fprintf(&b, "- Quiet Environment Priority: %d/10\n\n", in.Priorities.Quiet)
	b.WriteString(`Return ONLY a valid JSON array with exactly 3 neighborhood objects in this format:
[
  {
    "name": "Neighborhood Name",
    "matchScore": 95,
    "highlights": ["Highlight 1", "Highlight 2", "Highlight 3"],
    "medianPrice": "$450,000",
    "description": "Brief description"
  }
]`)
	return b.String()
}

// Recommend makes a single completion call and returns exactly three validated
// records. There is no retry; a timeout follows the same failure path as any
// other upstream error.
func (s *RecommendationService) Recommend(ctx context.Context, in entity.RecommendationInput) ([]entity.NeighborhoodRecommendation, error) {
	if s.Completer == nil {
		return nil, fmt.Errorf("%w: completion client not configured", ErrRecommendationUnavailable)
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	metricCompletionCalls.Add(1)
	started := time.Now()
	content, err := s.Completer.Complete(ctx, completion.Request{
		Prompt:      s.BuildPrompt(in),
		Model:       s.Model,
		Temperature: s.Temperature,
	})
	if err != nil {
		metricCompletionFailures.Add(1)
		s.logFailure(err, started)
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}

	recs, err := ExtractRecommendations(content)
	if err != nil {
		metricCompletionFailures.Add(1)
		s.logFailure(err, started)
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}
	if s.Logger != nil {
		s.Logger.WithField("elapsed_ms", time.Since(started).Milliseconds()).Debug("recommendations generated")
	}
	return recs, nil
}

func (s *RecommendationService) logFailure(err error, started time.Time) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).
		WithField("elapsed_ms", time.Since(started).Milliseconds()).
		Warn("recommendation request failed")
}

// Greedy on purpose: spans from the first '[' to the last ']'.
var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

type rawRecommendation struct {
	Name        *string  `json:"name" validate:"required,min=1"`
	MatchScore  *int     `json:"matchScore" validate:"required,gte=0,lte=100"`
	Highlights  []string `json:"highlights" validate:"required,min=1,dive,required"`
	MedianPrice *string  `json:"medianPrice" validate:"required"`
	Description *string  `json:"description" validate:"required"`
}

// ExtractRecommendations pulls the first array literal out of free text and
// checks it has exactly three well-formed records.
func ExtractRecommendations(content string) ([]entity.NeighborhoodRecommendation, error) {
	match := jsonArrayPattern.FindString(content)
	if match == "" {
		return nil, ErrNoJSONArray
	}

	var raw []rawRecommendation
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, fmt.Errorf("parse completion json: %w", err)
	}
	if len(raw) != entity.RecommendationCount {
		return nil, fmt.Errorf("%w: got %d records, want %d", ErrRecommendationSchema, len(raw), entity.RecommendationCount)
	}

	out := make([]entity.NeighborhoodRecommendation, 0, len(raw))
	for i, r := range raw {
		if err := entity.ShapeValidator().Struct(r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrRecommendationSchema, i, err)
		}
		out = append(out, entity.NeighborhoodRecommendation{
			Name:        *r.Name,
			MatchScore:  *r.MatchScore,
			Highlights:  append([]string{}, r.Highlights...),
			MedianPrice: *r.MedianPrice,
			Description: *r.Description,
		})
	}
	return out, nil
}
