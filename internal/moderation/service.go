package moderation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

const (
	wordCacheKey = "moderation:words"
	wordCacheTTL = 10 * time.Minute
)

// Service maintains the restricted word list and screens free text
// against it. The folded word set is cached in Redis and invalidated
// on every list change.
type Service struct {
	repo  RepositoryPort
	cache *redis.Client
	audit *shared.AuditLogger
}

func NewService(repo RepositoryPort, cache *redis.Client, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, cache: cache, audit: audit}
}

// Fold normalizes a term for matching: NFKC composition followed by
// Unicode case folding, so SH0FY0R and shofyor compare equal across
// Latin and Cyrillic spellings with odd casing.
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

func (s *Service) Add(ctx context.Context, actor shared.Principal, word string) (RestrictedWord, error) {
	folded := Fold(word)
	if folded == "" {
		return RestrictedWord{}, httpx.ErrValidation
	}
	w, err := s.repo.Add(ctx, folded, actor.ID)
	if err != nil {
		return RestrictedWord{}, err
	}
	s.invalidate(ctx)
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "RESTRICTED_WORD_ADDED",
			Entity:   "restricted_word",
			EntityID: w.ID,
			Details:  map[string]any{"word": folded},
		})
	}
	return w, nil
}

func (s *Service) Remove(ctx context.Context, actor shared.Principal, id string) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "RESTRICTED_WORD_REMOVED",
			Entity:   "restricted_word",
			EntityID: id,
		})
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]RestrictedWord, error) {
	return s.repo.List(ctx)
}

// Screen checks text against the restricted list. A word matches when
// its folded form appears as a token of the folded text.
func (s *Service) Screen(ctx context.Context, text string) (ScreenResult, error) {
	words, err := s.words(ctx)
	if err != nil {
		return ScreenResult{}, err
	}
	tokens := map[string]bool{}
	for _, tok := range strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !isWordRune(r)
	}) {
		tokens[tok] = true
	}

	var matches []string
	for _, w := range words {
		if tokens[w] {
			matches = append(matches, w)
		}
	}
	return ScreenResult{Allowed: len(matches) == 0, Matches: matches}, nil
}

// words returns the folded word set, serving from Redis when possible.
func (s *Service) words(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, wordCacheKey).Bytes(); err == nil {
			var cached []string
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}
	words, err := s.repo.Words(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(words); err == nil {
			s.cache.Set(ctx, wordCacheKey, raw, wordCacheTTL)
		}
	}
	return words, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Del(ctx, wordCacheKey)
	}
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '\'', r == '-':
		return true
	default:
		// folded text still carries non-Latin letters
		return r > 127
	}
}
