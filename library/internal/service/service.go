package service

import (
	"time"

	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/auth"
	"go.uber.org/zap"
)

// Config holds the lending rules.
type Config struct {
	LoanPeriod time.Duration `envconfig:"LOAN_PERIOD" default:"336h"`
	FinePerDay float64       `envconfig:"FINE_PER_DAY" default:"1.00"`
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	tokens    *auth.TokenManager
	publisher EventPublisher
	cfg       Config
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func NewService(repo repository.Repository, tokens *auth.TokenManager, cfg Config, log *zap.Logger, opts ...Option) *Service {
	if cfg.LoanPeriod <= 0 {
		cfg.LoanPeriod = 14 * 24 * time.Hour
	}
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		tokens:    tokens,
		publisher: NoopPublisher{},
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
