package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/internal/infrastructure/completion"
)

type stubCompleter struct {
	mu       sync.Mutex
	content  string
	err      error
	calls    int
	requests []completion.Request
	// block waits for ctx to end before returning, to exercise timeouts.
	block bool
}

func (s *stubCompleter) Complete(ctx context.Context, in completion.Request) (string, error) {
	s.mu.Lock()
	s.calls++
	s.requests = append(s.requests, in)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.content, s.err
}

func (s *stubCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error)  { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error    { return f.err }
func (f failingStore) Clear(context.Context, string) error          { return f.err }
func (f failingStore) Take(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) SetTTL(context.Context, string, []byte, time.Duration) error {
	return f.err
}

var errStoreDown = errors.New("store down")

type recordingNotifier struct {
	mu     sync.Mutex
	owners []string
	err    error
}

func (r *recordingNotifier) ProfileCompleted(_ context.Context, owner string, _ entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, owner)
	return r.err
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (r *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, body)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const validCompletion = `Here are my picks:
[
  {"name": "Myers Park", "matchScore": 92, "highlights": ["Tree-lined streets", "Top schools", "Quiet"], "medianPrice": "$850,000", "description": "Leafy and calm."},
  {"name": "NoDa", "matchScore": 81, "highlights": ["Arts district", "Breweries"], "medianPrice": "$420,000", "description": "Creative hub."},
  {"name": "Ballantyne", "matchScore": 77, "highlights": ["Corporate park", "Golf"], "medianPrice": "$610,000", "description": "Suburban comfort."}
]
Enjoy!`

func completeProfile() entity.Profile {
	p := entity.NewProfile()
	p.Name = "Ada Lovelace"
	p.Email = "ada@example.com"
	p.Password = "hunter2"
	p.HouseholdSize = 3
	p.Children = 1
	p.SchoolNeeds = []string{"Elementary"}
	p.Income = 120000
	p.Education = "masters"
	p.Gender = "female"
	p.Ethnicity = "prefer-not"
	return p
}
