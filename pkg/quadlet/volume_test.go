package quadlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCreateVolume tests config validation in the volume factory
func TestCreateVolume(t *testing.T) {
	tests := []struct {
		name     string
		cfg      VolumeConfig
		wantCode ErrorCode
	}{
		{
			name: "managed volume",
			cfg:  VolumeConfig{Name: "data", MountPath: "/var/lib/data"},
		},
		{
			name: "managed volume with private label",
			cfg:  VolumeConfig{Name: "data", MountPath: "/var/lib/data", Label: "Z"},
		},
		{
			name: "bind mount with shared label",
			cfg:  VolumeConfig{Name: "conf", MountPath: "/etc/caddy", HostPath: "/srv/caddy", Label: "z"},
		},
		{
			name:     "empty name",
			cfg:      VolumeConfig{MountPath: "/var/lib/data"},
			wantCode: ErrInvalidResourceConfig,
		},
		{
			name:     "empty mount path",
			cfg:      VolumeConfig{Name: "data"},
			wantCode: ErrInvalidResourceConfig,
		},
		{
			name:     "relative mount path",
			cfg:      VolumeConfig{Name: "data", MountPath: "var/lib/data"},
			wantCode: ErrInvalidResourceConfig,
		},
		{
			name:     "relative host path",
			cfg:      VolumeConfig{Name: "data", MountPath: "/var/lib/data", HostPath: "srv/data"},
			wantCode: ErrInvalidResourceConfig,
		},
		{
			name:     "unknown label",
			cfg:      VolumeConfig{Name: "data", MountPath: "/var/lib/data", Label: "ro"},
			wantCode: ErrInvalidResourceConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volume, err := CreateVolume(tt.cfg)
			if tt.wantCode != "" {
				assert.Nil(t, volume)
				assert.Equal(t, tt.wantCode, CodeOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.cfg.Name, volume.Name())
			assert.Equal(t, KindVolume, volume.Kind())
		})
	}
}

// TestVolumeDerivedFields tests Source, MountSpec and Managed across both forms
func TestVolumeDerivedFields(t *testing.T) {
	tests := []struct {
		name        string
		cfg         VolumeConfig
		wantManaged bool
		wantSource  string
		wantSpec    string
	}{
		{
			name:        "managed unlabeled",
			cfg:         VolumeConfig{Name: "data", MountPath: "/var/lib/data"},
			wantManaged: true,
			wantSource:  "data.volume",
			wantSpec:    "/var/lib/data",
		},
		{
			name:        "managed private",
			cfg:         VolumeConfig{Name: "data", MountPath: "/var/lib/data", Label: "Z"},
			wantManaged: true,
			wantSource:  "data.volume",
			wantSpec:    "/var/lib/data:Z",
		},
		{
			name:        "bind mount shared",
			cfg:         VolumeConfig{Name: "conf", MountPath: "/etc/caddy", HostPath: "/srv/caddy", Label: "z"},
			wantManaged: false,
			wantSource:  "/srv/caddy",
			wantSpec:    "/etc/caddy:z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volume, err := CreateVolume(tt.cfg)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantManaged, volume.Managed())
			assert.Equal(t, tt.wantSource, volume.Source())
			assert.Equal(t, tt.wantSpec, volume.MountSpec())
		})
	}
}

// TestVolumeUnitFile tests the rendered .volume quadlet text
func TestVolumeUnitFile(t *testing.T) {
	volume, err := CreateVolume(VolumeConfig{Name: "data", MountPath: "/var/lib/data", Label: "Z"})
	assert.NoError(t, err)

	text, err := volume.UnitFile()
	assert.NoError(t, err)
	assert.Equal(t, `[Volume]
VolumeName=data`, text)
}

// TestBindMountHasNoUnitFile tests that bind mounts refuse to render
func TestBindMountHasNoUnitFile(t *testing.T) {
	bind, err := CreateVolume(VolumeConfig{Name: "conf", MountPath: "/etc/caddy", HostPath: "/srv/caddy"})
	assert.NoError(t, err)
	assert.False(t, bind.Managed())

	text, err := bind.UnitFile()
	assert.Empty(t, text)
	assert.Equal(t, ErrVolumeNotManaged, CodeOf(err))
}

// TestVolumeInstall tests unit file naming and install location
func TestVolumeInstall(t *testing.T) {
	volume, err := CreateVolume(VolumeConfig{Name: "data", MountPath: "/var/lib/data"})
	assert.NoError(t, err)
	assert.Equal(t, "data.volume", volume.UnitFileName())
	assert.Equal(t, ".config/containers/systemd", volume.InstallDir())
}
