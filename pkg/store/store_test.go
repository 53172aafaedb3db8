package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/edc15p-tool/pkg/models"
)

func backends(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		BackendMemory: func() Store { return NewMemory() },
		BackendPebble: func() Store {
			s, err := OpenPebble(filepath.Join(t.TempDir(), "cells"))
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func() Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "cells.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestKeyRoundTrip(t *testing.T) {
	assert.Equal(t, "IQ_1", Key(models.IQ, 0))
	assert.Equal(t, "TIdeg_21", Key(models.TIdeg, 20))

	row, col, err := ParseKey("TIms_7")
	require.NoError(t, err)
	assert.Equal(t, models.TIms, row)
	assert.Equal(t, 6, col)

	for _, bad := range []string{"", "IQ", "IQ_", "_3", "IQ_0", "IQ_x", "Nope_3"} {
		_, _, err := ParseKey(bad)
		assert.Error(t, err, "key %q", bad)
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			_, ok, err := s.LoadCell("IQ_1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.SaveCell("IQ_1", "55"))
			require.NoError(t, s.SaveCell("Boost_1", "2.74"))
			require.NoError(t, s.SaveCell("IQ_1", "56.5"))

			v, ok, err := s.LoadCell("IQ_1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "56.5", v)

			keys, err := s.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"Boost_1", "IQ_1"}, keys)

			require.NoError(t, s.DeleteCell("IQ_1"))
			require.NoError(t, s.DeleteCell("IQ_1"))
			_, ok, err = s.LoadCell("IQ_1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, Clear(s))
			keys, err = s.Keys()
			require.NoError(t, err)
			assert.Empty(t, keys)

			assert.True(t, strings.HasPrefix(Describe(name, s), name+" store: 0 cells"))
		})
	}
}

func TestClosedStore(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			require.NoError(t, s.Close())
			assert.ErrorIs(t, s.SaveCell("IQ_1", "1"), ErrClosed)
			_, _, err := s.LoadCell("IQ_1")
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestPebblePersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cells")
	s, err := OpenPebble(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveCell("SOI_4", "-3.00"))
	require.NoError(t, s.Close())

	s, err = OpenPebble(dir)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.LoadCell("SOI_4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "-3.00", v)

	size, err := s.SizeOnDisk()
	require.NoError(t, err)
	assert.Greater(t, size, uint64(0))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", "")
	assert.Error(t, err)

	s, err := Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
}
