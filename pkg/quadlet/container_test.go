package quadlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testNetwork(t *testing.T, name string) *Network {
	t.Helper()
	network, err := CreateNetwork(NetworkConfig{Name: name, Subnet: "10.89.0.0/24", Gateway: "10.89.0.1"})
	assert.NoError(t, err)
	return network
}

func testVolume(t *testing.T, name, mountPath, label string) *Volume {
	t.Helper()
	volume, err := CreateVolume(VolumeConfig{Name: name, MountPath: mountPath, Label: label})
	assert.NoError(t, err)
	return volume
}

func testContainer(t *testing.T, name string) *Container {
	t.Helper()
	container, err := CreateContainer(ContainerConfig{Name: name, Image: "docker.io/" + name + ":latest"})
	assert.NoError(t, err)
	return container
}

// TestCreateContainer tests config validation in the container factory
func TestCreateContainer(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ContainerConfig
		wantCode ErrorCode
	}{
		{
			name: "valid config",
			cfg:  ContainerConfig{Name: "caddy", Image: "docker.io/caddy:latest"},
		},
		{
			name: "with description",
			cfg:  ContainerConfig{Name: "caddy", Image: "docker.io/caddy:latest", Description: "Reverse proxy"},
		},
		{
			name:     "empty name",
			cfg:      ContainerConfig{Image: "docker.io/caddy:latest"},
			wantCode: ErrInvalidResourceConfig,
		},
		{
			name:     "empty image",
			cfg:      ContainerConfig{Name: "caddy"},
			wantCode: ErrInvalidResourceConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := CreateContainer(tt.cfg)
			if tt.wantCode != "" {
				assert.Nil(t, container)
				assert.Equal(t, tt.wantCode, CodeOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.cfg.Name, container.Name())
			assert.Equal(t, KindContainer, container.Kind())
		})
	}
}

// TestContainerUnitFile tests the rendered .container quadlet for a
// container on a network with a published port
func TestContainerUnitFile(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))
	assert.NoError(t, caddy.ExposePort(PortMapping{External: 80, Internal: 80}))

	text, err := caddy.UnitFile()
	assert.NoError(t, err)
	assert.Equal(t, `[Container]
ContainerName=caddy
Image=docker.io/caddy:latest
Network=app.network
Port=80:80`, text)
}

// TestContainerUnitFileDeterministic tests that rendering twice yields
// byte-identical text
func TestContainerUnitFileDeterministic(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))
	assert.NoError(t, caddy.ExposePort(PortMapping{External: 80, Internal: 80}))

	first, err := caddy.UnitFile()
	assert.NoError(t, err)
	second, err := caddy.UnitFile()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestContainerUnitFileDescription tests that a description renders as a
// [Unit] section ahead of [Container]
func TestContainerUnitFileDescription(t *testing.T) {
	caddy, err := CreateContainer(ContainerConfig{
		Name:        "caddy",
		Image:       "docker.io/caddy:latest",
		Description: "Reverse proxy",
	})
	assert.NoError(t, err)
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))

	text, err := caddy.UnitFile()
	assert.NoError(t, err)
	assert.Equal(t, `[Unit]
Description=Reverse proxy

[Container]
ContainerName=caddy
Image=docker.io/caddy:latest
Network=app.network`, text)
}

// TestContainerUnitFileVolumeLine tests the Volume= line for a managed
// volume with a private label
func TestContainerUnitFileVolumeLine(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))
	assert.NoError(t, caddy.AddVolume(testVolume(t, "data", "/var/lib/data", "Z")))

	text, err := caddy.UnitFile()
	assert.NoError(t, err)
	assert.Contains(t, text, "Volume=data.volume:/var/lib/data:Z")
}

// TestContainerUnitFileBindMountLine tests the Volume= line for a bind mount
func TestContainerUnitFileBindMountLine(t *testing.T) {
	conf, err := CreateVolume(VolumeConfig{Name: "conf", MountPath: "/etc/caddy", HostPath: "/srv/caddy", Label: "z"})
	assert.NoError(t, err)

	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))
	assert.NoError(t, caddy.AddVolume(conf))

	text, err := caddy.UnitFile()
	assert.NoError(t, err)
	assert.Contains(t, text, "Volume=/srv/caddy:/etc/caddy:z")
}

// TestContainerNeedsNetworkOrPod tests that a container with neither
// refuses to render
func TestContainerNeedsNetworkOrPod(t *testing.T) {
	caddy := testContainer(t, "caddy")

	text, err := caddy.UnitFile()
	assert.Empty(t, text)
	assert.Equal(t, ErrContainerMissingDependency, CodeOf(err))
}

// TestContainerDuplicateNetwork tests that joining the same network twice fails
func TestContainerDuplicateNetwork(t *testing.T) {
	app := testNetwork(t, "app")
	caddy := testContainer(t, "caddy")

	assert.NoError(t, caddy.AddToNetwork(app))
	err := caddy.AddToNetwork(app)
	assert.Equal(t, ErrContainerDuplicateNetwork, CodeOf(err))
	assert.Len(t, caddy.Dependencies().Networks, 1)
}

// TestContainerDuplicatePort tests that a second mapping with the same
// external port fails and names the container and the port
func TestContainerDuplicatePort(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.ExposePort(PortMapping{External: 80, Internal: 80}))

	err := caddy.ExposePort(PortMapping{External: 80, Internal: 8080})
	assert.Equal(t, ErrContainerDuplicatePort, CodeOf(err))
	assert.Contains(t, err.Error(), "caddy")
	assert.Contains(t, err.Error(), "80")
	assert.Len(t, caddy.Dependencies().Ports, 1)
}

// TestContainerPortRange tests port range validation on attach
func TestContainerPortRange(t *testing.T) {
	caddy := testContainer(t, "caddy")

	err := caddy.ExposePort(PortMapping{External: 0, Internal: 80})
	assert.Equal(t, ErrInvalidResourceConfig, CodeOf(err))

	err = caddy.ExposePort(PortMapping{External: 80, Internal: 70000})
	assert.Equal(t, ErrInvalidResourceConfig, CodeOf(err))
}

// TestContainerVolumeMountConflicts tests the mount path exclusivity rules
func TestContainerVolumeMountConflicts(t *testing.T) {
	tests := []struct {
		name       string
		firstLabel string
		nextLabel  string
		wantCode   ErrorCode
	}{
		{name: "shared plus shared", firstLabel: "z", nextLabel: "z"},
		{name: "private plus private", firstLabel: "Z", nextLabel: "Z", wantCode: ErrContainerVolumeMountConflict},
		{name: "private plus shared", firstLabel: "Z", nextLabel: "z", wantCode: ErrContainerVolumeMountConflict},
		{name: "shared plus private", firstLabel: "z", nextLabel: "Z", wantCode: ErrContainerVolumeMountConflict},
		{name: "unlabeled plus unlabeled", firstLabel: "", nextLabel: "", wantCode: ErrContainerVolumeMountConflict},
		{name: "unlabeled plus shared", firstLabel: "", nextLabel: "z", wantCode: ErrContainerVolumeMountConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caddy := testContainer(t, "caddy")
			assert.NoError(t, caddy.AddVolume(testVolume(t, "first", "/shared", tt.firstLabel)))

			err := caddy.AddVolume(testVolume(t, "next", "/shared", tt.nextLabel))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				assert.Len(t, caddy.Dependencies().Volumes, 2)
				return
			}
			assert.Equal(t, tt.wantCode, CodeOf(err))
			assert.Len(t, caddy.Dependencies().Volumes, 1)
		})
	}
}

// TestContainerDistinctMountPaths tests that different paths never conflict
func TestContainerDistinctMountPaths(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddVolume(testVolume(t, "data", "/var/lib/data", "Z")))
	assert.NoError(t, caddy.AddVolume(testVolume(t, "cache", "/var/cache", "Z")))
	assert.Len(t, caddy.Dependencies().Volumes, 2)
}

// TestContainerNetworkPodExclusion tests both orderings of the network/pod
// mutual exclusion
func TestContainerNetworkPodExclusion(t *testing.T) {
	t.Run("network first blocks pod", func(t *testing.T) {
		caddy := testContainer(t, "caddy")
		assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))

		pod, err := CreatePod(PodConfig{Name: "web"})
		assert.NoError(t, err)
		err = pod.AddContainer(caddy)
		assert.Equal(t, ErrContainerNetworkConflict, CodeOf(err))
		assert.Empty(t, pod.Dependencies().Containers)
	})

	t.Run("pod first blocks network", func(t *testing.T) {
		caddy := testContainer(t, "caddy")
		pod, err := CreatePod(PodConfig{Name: "web"})
		assert.NoError(t, err)
		assert.NoError(t, pod.AddContainer(caddy))

		err = caddy.AddToNetwork(testNetwork(t, "app"))
		assert.Equal(t, ErrContainerNetworkConflict, CodeOf(err))
		assert.Empty(t, caddy.Dependencies().Networks)
	})
}

// TestContainerOverwrite tests that Overwrite replaces the prior list
// instead of appending
func TestContainerOverwrite(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "db"), Overwrite()))

	deps := caddy.Dependencies()
	assert.Len(t, deps.Networks, 1)
	assert.Equal(t, "db", deps.Networks[0].Name())

	assert.NoError(t, caddy.ExposePort(PortMapping{External: 80, Internal: 80}))
	assert.NoError(t, caddy.ExposePort(PortMapping{External: 80, Internal: 8080}, Overwrite()))
	deps = caddy.Dependencies()
	assert.Len(t, deps.Ports, 1)
	assert.Equal(t, 8080, deps.Ports[0].Internal)
}

// TestContainerOverwriteKeepsExclusion tests that Overwrite does not bypass
// the network/pod exclusion
func TestContainerOverwriteKeepsExclusion(t *testing.T) {
	caddy := testContainer(t, "caddy")
	pod, err := CreatePod(PodConfig{Name: "web"})
	assert.NoError(t, err)
	assert.NoError(t, pod.AddContainer(caddy))

	err = caddy.AddToNetwork(testNetwork(t, "app"), Overwrite())
	assert.Equal(t, ErrContainerNetworkConflict, CodeOf(err))
}

// TestContainerDependenciesSnapshot tests that the snapshot is isolated
// from later mutations
func TestContainerDependenciesSnapshot(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "app")))

	deps := caddy.Dependencies()
	assert.NoError(t, caddy.AddToNetwork(testNetwork(t, "db")))
	assert.Len(t, deps.Networks, 1)
	assert.Len(t, caddy.Dependencies().Networks, 2)
}

// TestContainerInstall tests unit file naming and install location
func TestContainerInstall(t *testing.T) {
	caddy := testContainer(t, "caddy")
	assert.Equal(t, "caddy.container", caddy.UnitFileName())
	assert.Equal(t, ".config/containers/systemd", caddy.InstallDir())
}
