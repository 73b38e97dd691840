/*
Package writer installs generated unit artifacts onto the filesystem.

The writer joins each artifact's home-relative install directory against a
root, creates the directory chain and writes the unit text with a trailing
newline. It never diffs against or talks to a live systemd; it only writes
files, and generation owns its output tree, so existing files are replaced
without ceremony.

# Layout Modes

Normal mode preserves the per-kind install layout under a user's home:

	/home/deploy/
	├── .config/containers/systemd/
	│   ├── app.network
	│   ├── data.volume
	│   └── caddy.container
	└── .config/systemd/user/
	    └── caddy.socket

Flatten mode writes everything directly into the root, which suits
inspect-in-one-directory workflows:

	./out/
	├── app.network
	├── data.volume
	├── caddy.container
	└── caddy.socket

# Usage Example

	w := writer.New("/home/deploy")
	written, err := w.Write(units.Artifacts)
	if err != nil {
		return err
	}
	for _, f := range written {
		fmt.Println(f.Path, f.SHA256)
	}

Dry-run mode resolves paths and content hashes without touching the
filesystem, so callers can record or display what a real run would do:

	w.DryRun = true

Each WrittenFile carries the SHA-256 of the bytes on disk; the store keeps
these hashes so later runs can tell generated files from hand-edited ones.
*/
package writer
