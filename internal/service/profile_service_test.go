package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfile() (*ProfileService, *testutil.MockKVStore) {
	store := testutil.NewMockKVStore()
	return NewProfileService(store, NewImageService(0), zerolog.Nop()), store
}

func TestProfileService_WelcomeFlag(t *testing.T) {
	svc, store := setupProfile()
	ctx := context.Background()

	seen, err := svc.HasSeenWelcome(ctx)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, svc.CompleteWelcome(ctx))
	raw, _ := store.Value(domain.KeyHasSeenWelcome)
	assert.Equal(t, `"true"`, string(raw))
	seen, err = svc.HasSeenWelcome(ctx)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, svc.ResetWelcome(ctx))
	_, ok := store.Value(domain.KeyHasSeenWelcome)
	assert.False(t, ok)

	// Resetting twice is fine
	require.NoError(t, svc.ResetWelcome(ctx))
}

func TestProfileService_WelcomeFlagAcceptsBool(t *testing.T) {
	svc, store := setupProfile()
	store.Put(domain.KeyHasSeenWelcome, `true`)

	seen, err := svc.HasSeenWelcome(context.Background())
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestProfileService_WelcomeFlagReadError(t *testing.T) {
	svc, store := setupProfile()
	store.GetErr = errors.New("offline")

	_, err := svc.HasSeenWelcome(context.Background())
	assert.Error(t, err)
}

func TestProfileService_UpdateName(t *testing.T) {
	svc, _ := setupProfile()
	ctx := context.Background()

	_, err := svc.UpdateName(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.UpdateName(ctx, strings.Repeat("a", domain.MaxNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	profile, err := svc.UpdateName(ctx, "  Juan ")
	require.NoError(t, err)
	assert.Equal(t, "Juan", profile.Name)

	got, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.Name)
}

func TestProfileService_Avatar(t *testing.T) {
	svc, _ := setupProfile()
	ctx := context.Background()
	_, err := svc.UpdateName(ctx, "Juan")
	require.NoError(t, err)

	data, filename := createTestImage(200, 200, "png")
	profile, err := svc.UploadAvatar(ctx, data, filename)
	require.NoError(t, err)
	assert.Equal(t, "Juan", profile.Name)

	thumb, err := base64.StdEncoding.DecodeString(profile.Avatar)
	require.NoError(t, err)
	assert.NotEmpty(t, thumb)

	profile, err = svc.DeleteAvatar(ctx)
	require.NoError(t, err)
	assert.Empty(t, profile.Avatar)
	assert.Equal(t, "Juan", profile.Name)
}

func TestProfileService_AvatarValidation(t *testing.T) {
	svc, store := setupProfile()

	data, _ := createTestImage(200, 200, "png")
	_, err := svc.UploadAvatar(context.Background(), data, "avatar.gif")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, 0, store.SetCount(domain.KeyProfile))
}

func TestProfileService_InvalidStoredProfile(t *testing.T) {
	svc, store := setupProfile()
	store.Put(domain.KeyProfile, `[1,2,3]`)

	profile, err := svc.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{}, profile)
}
