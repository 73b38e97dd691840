package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "quadlet-forge.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecord(user, name string) *UnitRecord {
	return &UnitRecord{
		Name:      name,
		Kind:      "container",
		User:      user,
		Path:      "/home/" + user + "/.config/containers/systemd/" + name,
		SHA256:    "0b7e",
		RunID:     "run-1",
		WrittenAt: time.Now().UTC(),
	}
}

// TestOpenCreatesStateDirectory tests that missing parent directories are created
func TestOpenCreatesStateDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	s, err := Open(path)
	assert.NoError(t, err)
	assert.NoError(t, s.Close())
}

// TestSaveAndGetUnit tests the unit record round trip
func TestSaveAndGetUnit(t *testing.T) {
	s := testStore(t)

	record := testRecord("deploy", "caddy.container")
	assert.NoError(t, s.SaveUnit(record))

	got, err := s.GetUnit("deploy/caddy.container")
	assert.NoError(t, err)
	assert.Equal(t, record.Name, got.Name)
	assert.Equal(t, record.User, got.User)
	assert.Equal(t, record.Path, got.Path)

	_, err = s.GetUnit("deploy/missing.container")
	assert.Error(t, err)
}

// TestUnitKeyScopedByUser tests that two users may record the same file name
func TestUnitKeyScopedByUser(t *testing.T) {
	s := testStore(t)

	assert.NoError(t, s.SaveUnit(testRecord("deploy", "caddy.container")))
	assert.NoError(t, s.SaveUnit(testRecord("ops", "caddy.container")))

	records, err := s.ListUnits()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
}

// TestRecordRun tests the atomic run-plus-records write
func TestRecordRun(t *testing.T) {
	s := testStore(t)

	run := &Run{ID: "run-1", Distro: "fedora", StartedAt: time.Now().UTC(), UnitCount: 2}
	records := []*UnitRecord{
		testRecord("deploy", "caddy.container"),
		testRecord("deploy", "app.network"),
	}
	assert.NoError(t, s.RecordRun(run, records))

	runs, err := s.ListRuns()
	assert.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, "fedora", runs[0].Distro)
	assert.Equal(t, 2, runs[0].UnitCount)

	units, err := s.ListUnits()
	assert.NoError(t, err)
	assert.Len(t, units, 2)
}

// TestStaleUnits tests detection of records the current build no longer produces
func TestStaleUnits(t *testing.T) {
	s := testStore(t)

	assert.NoError(t, s.SaveUnit(testRecord("deploy", "caddy.container")))
	assert.NoError(t, s.SaveUnit(testRecord("deploy", "old.container")))

	current := map[string]struct{}{
		"deploy/caddy.container": {},
	}
	stale, err := s.StaleUnits(current)
	assert.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.Equal(t, "old.container", stale[0].Name)
}

// TestDeleteUnits tests batch record removal
func TestDeleteUnits(t *testing.T) {
	s := testStore(t)

	assert.NoError(t, s.SaveUnit(testRecord("deploy", "caddy.container")))
	assert.NoError(t, s.SaveUnit(testRecord("deploy", "old.container")))

	err := s.DeleteUnits([]string{"deploy/old.container", "deploy/never-existed.pod"})
	assert.NoError(t, err)

	records, err := s.ListUnits()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "caddy.container", records[0].Name)
}

// TestPersistenceAcrossReopen tests that records survive close and reopen
func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	assert.NoError(t, err)
	assert.NoError(t, s.SaveUnit(testRecord("deploy", "caddy.container")))
	assert.NoError(t, s.Close())

	s, err = Open(path)
	assert.NoError(t, err)
	defer s.Close()

	records, err := s.ListUnits()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}
