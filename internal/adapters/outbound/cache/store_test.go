package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := New(t.TempDir(), 0)

	require.NoError(t, store.Save("uniprot", "P25025", []byte(`{"primaryAccession":"P25025"}`)))

	loaded, err := store.Load("uniprot", "P25025")
	require.NoError(t, err)
	assert.JSONEq(t, `{"primaryAccession":"P25025"}`, string(loaded))
}

func TestStore_KeysAreCaseInsensitive(t *testing.T) {
	store := New(t.TempDir(), 0)
	require.NoError(t, store.Save("uniprot", "Q3UG50", []byte(`{}`)))

	loaded, err := store.Load("uniprot", "q3ug50")
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.FileExists(t, filepath.Join(store.Dir(), "uniprot", "q3ug50.json"))
}

func TestStore_LoadNonExistent(t *testing.T) {
	store := New(t.TempDir(), 0)

	loaded, err := store.Load("uniprot", "missing")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_ExpiredEntryIsMissing(t *testing.T) {
	store := New(t.TempDir(), time.Hour)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return start }
	require.NoError(t, store.Save("uniprot", "P1", []byte(`{}`)))

	store.now = func() time.Time { return start.Add(59 * time.Minute) }
	loaded, err := store.Load("uniprot", "P1")
	require.NoError(t, err)
	assert.NotNil(t, loaded)

	store.now = func() time.Time { return start.Add(2 * time.Hour) }
	loaded, err = store.Load("uniprot", "P1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_CorruptEntryIsMissing(t *testing.T) {
	store := New(t.TempDir(), 0)
	path := filepath.Join(store.Dir(), "uniprot", "bad.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not json{{{"), 0644))

	loaded, err := store.Load("uniprot", "bad")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Invalidate(t *testing.T) {
	store := New(t.TempDir(), 0)
	require.NoError(t, store.Save("uniprot", "P1", []byte(`{}`)))

	require.NoError(t, store.Invalidate("uniprot", "P1"))
	loaded, err := store.Load("uniprot", "P1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, store.Invalidate("uniprot", "P1"), "removing twice is fine")
}
