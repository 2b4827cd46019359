package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/pagemd"
	main "github.com/fwojciec/pagemd/cmd/pagemd"
	"github.com/fwojciec/pagemd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints every preference in key order", func(t *testing.T) {
		t.Parallel()

		prefs := &mock.PreferenceService{
			FindPreferencesFn: func(context.Context) (*pagemd.Preferences, error) {
				return pagemd.DefaultPreferences(), nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Preferences: prefs}

		err := (&main.ConfigShowCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "converter = native\nextractor = selector\noutput_dir = .\nrender = false\ntimeout = 10s\n", stdout.String())
	})

	t.Run("returns error when preferences cannot be read", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database is locked")
		prefs := &mock.PreferenceService{
			FindPreferencesFn: func(context.Context) (*pagemd.Preferences, error) {
				return nil, dbErr
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Preferences: prefs}

		err := (&main.ConfigShowCmd{}).Run(deps)

		assert.Equal(t, dbErr, err)
	})
}

func TestConfigSetCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves a parsed value", func(t *testing.T) {
		t.Parallel()

		var got pagemd.PreferencesUpdate
		prefs := &mock.PreferenceService{
			UpdatePreferencesFn: func(_ context.Context, upd pagemd.PreferencesUpdate) (*pagemd.Preferences, error) {
				got = upd
				p := pagemd.DefaultPreferences()
				upd.Apply(p)
				return p, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Preferences: prefs}

		err := (&main.ConfigSetCmd{Key: "timeout", Value: "1m"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Timeout)
		assert.Equal(t, "1m0s", got.Timeout.String())
		assert.Equal(t, "timeout = 1m0s\n", stdout.String())
	})

	t.Run("rejects unknown keys without saving", func(t *testing.T) {
		t.Parallel()

		prefs := &mock.PreferenceService{
			UpdatePreferencesFn: func(context.Context, pagemd.PreferencesUpdate) (*pagemd.Preferences, error) {
				t.Fatal("UpdatePreferences should not be called")
				return nil, nil
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Preferences: prefs}

		err := (&main.ConfigSetCmd{Key: "colour", Value: "blue"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
	})

	t.Run("returns validation errors", func(t *testing.T) {
		t.Parallel()

		prefs := &mock.PreferenceService{
			UpdatePreferencesFn: func(context.Context, pagemd.PreferencesUpdate) (*pagemd.Preferences, error) {
				return nil, pagemd.Errorf(pagemd.EINVALID, "unknown extractor %q", "magic")
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Preferences: prefs}

		err := (&main.ConfigSetCmd{Key: "extractor", Value: "magic"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, pagemd.ErrorMessage(err), "unknown extractor")
	})
}
