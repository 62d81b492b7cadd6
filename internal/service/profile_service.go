package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/rs/zerolog"
)

var welcomeSeen = json.RawMessage(`"true"`)

// ProfileService handles onboarding state and the local profile document
type ProfileService struct {
	store  domain.KVStore
	images *ImageService
	logger zerolog.Logger

	mu sync.Mutex
}

// NewProfileService creates a new ProfileService
func NewProfileService(store domain.KVStore, images *ImageService, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		images: images,
		logger: logger.With().Str("component", "profile").Logger(),
	}
}

// HasSeenWelcome reports whether the welcome flow was completed
func (s *ProfileService) HasSeenWelcome(ctx context.Context) (bool, error) {
	raw, err := s.store.Get(ctx, domain.KeyHasSeenWelcome)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var flag any
	if err := json.Unmarshal(raw, &flag); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid onboarding flag")
		return false, nil
	}
	switch v := flag.(type) {
	case bool:
		return v, nil
	case string:
		return v == "true", nil
	default:
		return false, nil
	}
}

// CompleteWelcome marks the welcome flow as done
func (s *ProfileService) CompleteWelcome(ctx context.Context) error {
	return s.store.Set(ctx, domain.KeyHasSeenWelcome, welcomeSeen)
}

// ResetWelcome forgets the flag so the welcome flow shows again
func (s *ProfileService) ResetWelcome(ctx context.Context) error {
	return s.store.Remove(ctx, domain.KeyHasSeenWelcome)
}

// GetProfile returns the stored profile, or an empty one
func (s *ProfileService) GetProfile(ctx context.Context) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// UpdateName sets the display name
func (s *ProfileService) UpdateName(ctx context.Context, name string) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.Profile{}, domain.ErrNameTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.loadLocked(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	profile.Name = name
	return profile, s.saveLocked(ctx, profile)
}

// UploadAvatar stores a JPEG thumbnail of the uploaded picture
func (s *ProfileService) UploadAvatar(ctx context.Context, data []byte, filename string) (domain.Profile, error) {
	thumb, err := s.images.Thumbnail(data, filename)
	if err != nil {
		return domain.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.loadLocked(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	profile.Avatar = base64.StdEncoding.EncodeToString(thumb)
	return profile, s.saveLocked(ctx, profile)
}

// DeleteAvatar removes the stored picture
func (s *ProfileService) DeleteAvatar(ctx context.Context) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.loadLocked(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile.Avatar == "" {
		return profile, nil
	}
	profile.Avatar = ""
	return profile, s.saveLocked(ctx, profile)
}

func (s *ProfileService) loadLocked(ctx context.Context) (domain.Profile, error) {
	raw, err := s.store.Get(ctx, domain.KeyProfile)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return domain.Profile{}, nil
	}
	if err != nil {
		return domain.Profile{}, err
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		s.logger.Warn().Err(err).Msg("Stored profile is invalid, starting over")
		return domain.Profile{}, nil
	}
	return profile, nil
}

func (s *ProfileService) saveLocked(ctx context.Context, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.store.Set(ctx, domain.KeyProfile, raw)
}
