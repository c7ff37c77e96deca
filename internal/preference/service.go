package preference

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"kriptomarket/internal/i18n"
	"kriptomarket/internal/log"
)

// Service reads and writes the language preference.
type Service struct {
	store Store
	// mu serializes read-modify-write toggles within the process.
	mu sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Language returns the persisted language, or i18n.Default when nothing or
// an unsupported value is stored.
func (s *Service) Language(ctx context.Context) (i18n.Language, error) {
	v, ok, err := s.store.Get(ctx, KeyLanguage)
	if err != nil {
		return i18n.Default, err
	}
	if !ok {
		return i18n.Default, nil
	}
	lang, err := i18n.Parse(v)
	if err != nil {
		log.Warnw("ignoring stored language", "value", v, "error", err)
		return i18n.Default, nil
	}
	return lang, nil
}

// SetLanguage persists lang.
func (s *Service) SetLanguage(ctx context.Context, lang i18n.Language) error {
	if !lang.Valid() {
		return errors.Wrapf(i18n.ErrUnsupportedLanguage, "%q", lang)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Set(ctx, KeyLanguage, string(lang))
}

// ToggleLanguage flips en and so and persists the result.
func (s *Service) ToggleLanguage(ctx context.Context) (i18n.Language, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.Language(ctx)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	if err := s.store.Set(ctx, KeyLanguage, string(next)); err != nil {
		return cur, err
	}
	return next, nil
}

func (s *Service) Close() error {
	return s.store.Close()
}
