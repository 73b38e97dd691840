/*
Package store persists generation state in BoltDB.

Generation itself is pure: the same manifest always produces the same unit
text, and nothing in the core consults the store. The store exists for the
bookkeeping around generation: knowing what an earlier run wrote so the CLI
can list it, and so a later run can remove unit files the manifest no longer
produces.

# Schema

Two buckets, JSON-encoded values:

	Bucket: "units"
	Key:    "{user}/{unit file name}"       e.g. "deploy/caddy.container"
	Value: {
		name:       "caddy.container",
		kind:       "container",
		user:       "deploy",
		path:       "/home/deploy/.config/containers/systemd/caddy.container",
		sha256:     "…",
		run_id:     "…",
		written_at: "2026-03-09T10:00:00Z",
	}

	Bucket: "runs"
	Key:    run id
	Value: {
		id:         "…",
		distro:     "fedora",
		started_at: "2026-03-09T10:00:00Z",
		unit_count: 4,
	}

Keys are user-scoped because two users may legitimately receive a unit with
the same file name.

# Usage Example

	s, err := store.Open(statePath)
	if err != nil {
		return err
	}
	defer s.Close()

	// after writing units
	err = s.RecordRun(run, records)

	// finding leftovers from earlier manifests
	stale, err := s.StaleUnits(currentKeys)
	for _, record := range stale {
		os.Remove(record.Path)
	}
	err = s.DeleteUnits(staleKeys)

BoltDB takes an exclusive file lock, so concurrent invocations against the
same state file queue up rather than corrupt it.
*/
package store
