package quadlet

import "strings"

// SELinux relabel suffixes for volume mounts. A private label gives the
// mount to exactly one container; a shared label lets several containers
// mount the same path.
const (
	LabelPrivate = "Z"
	LabelShared  = "z"
)

// VolumeConfig describes either a managed named volume or a bind mount.
// Setting HostPath selects the bind-mount form, which podman references by
// path and never generates a unit file for.
type VolumeConfig struct {
	Name      string
	MountPath string // absolute path inside the container
	HostPath  string // optional absolute host path for bind mounts
	Label     string // "", LabelPrivate or LabelShared
}

// Volume is a storage resource mounted by containers and pods
type Volume struct {
	cfg VolumeConfig
}

// CreateVolume validates cfg and returns the volume resource
func CreateVolume(cfg VolumeConfig) (*Volume, error) {
	if cfg.Name == "" {
		return nil, newError(ErrInvalidResourceConfig, "volume name must not be empty")
	}
	if !strings.HasPrefix(cfg.MountPath, "/") {
		return nil, newError(ErrInvalidResourceConfig, "volume %q: mount path %q must be absolute", cfg.Name, cfg.MountPath)
	}
	if cfg.HostPath != "" && !strings.HasPrefix(cfg.HostPath, "/") {
		return nil, newError(ErrInvalidResourceConfig, "volume %q: host path %q must be absolute", cfg.Name, cfg.HostPath)
	}
	switch cfg.Label {
	case "", LabelPrivate, LabelShared:
	default:
		return nil, newError(ErrInvalidResourceConfig, "volume %q: label %q must be %q or %q", cfg.Name, cfg.Label, LabelPrivate, LabelShared)
	}
	return &Volume{cfg: cfg}, nil
}

func (v *Volume) Name() string { return v.cfg.Name }

func (v *Volume) Kind() Kind { return KindVolume }

// Config returns a copy of the validated configuration
func (v *Volume) Config() VolumeConfig { return v.cfg }

func (v *Volume) UnitFileName() string { return unitFileName(v.cfg.Name, KindVolume) }

func (v *Volume) InstallDir() string { return QuadletInstallDir }

// Managed reports whether podman manages the volume. Bind mounts are plain
// host directories and install nothing.
func (v *Volume) Managed() bool { return v.cfg.HostPath == "" }

// Source is the left-hand side of a Volume= line: the host path for bind
// mounts, the .volume unit reference otherwise
func (v *Volume) Source() string {
	if !v.Managed() {
		return v.cfg.HostPath
	}
	return v.UnitFileName()
}

// MountSpec is the right-hand side of a Volume= line: the container path
// with the relabel suffix when one is set
func (v *Volume) MountSpec() string {
	if v.cfg.Label == "" {
		return v.cfg.MountPath
	}
	return v.cfg.MountPath + ":" + v.cfg.Label
}

// mountLine is the full Volume= value for this volume
func (v *Volume) mountLine() string {
	return v.Source() + ":" + v.MountSpec()
}

// UnitFile renders the .volume quadlet. Bind mounts fail with
// ErrVolumeNotManaged since podman expects no unit for them.
func (v *Volume) UnitFile() (string, error) {
	if !v.Managed() {
		return "", newError(ErrVolumeNotManaged, "volume %q binds host path %s and has no unit file", v.cfg.Name, v.cfg.HostPath)
	}
	u := newUnit()
	u.set("Volume", "VolumeName", v.cfg.Name)
	return u.render(), nil
}

// checkMountConflict rejects a new volume whose mount path collides with an
// already attached one. Two mounts may share a path only when both carry the
// shared label.
func checkMountConflict(attached []*Volume, next *Volume, code ErrorCode, owner Kind, ownerName string) error {
	for _, prev := range attached {
		if prev.cfg.MountPath != next.cfg.MountPath {
			continue
		}
		if prev.cfg.Label == LabelShared && next.cfg.Label == LabelShared {
			continue
		}
		return newError(code, "%s %q: volumes %q and %q both mount %s without shared labels",
			owner, ownerName, prev.cfg.Name, next.cfg.Name, next.cfg.MountPath)
	}
	return nil
}
