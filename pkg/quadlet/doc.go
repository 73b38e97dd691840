/*
Package quadlet models podman resources and renders them as systemd unit
files in the quadlet dialect.

The package covers five resource kinds: containers, pods, networks, volumes
and sockets. Each resource knows its unit file name, its install directory
and how to render its own unit text. Containers and pods are builders that
accumulate dependencies on the other kinds; networks, volumes and sockets are
immutable once created. Rendering is deterministic: the same resource state
always produces byte-identical unit text.

# Architecture

Generation flows from validated configs through builders into artifacts:

	┌───────────────────── RESOURCE MODEL ──────────────────────┐
	│                                                            │
	│  ┌──────────────────────────────────────────┐             │
	│  │              Factories                    │             │
	│  │  CreateNetwork / CreateVolume             │             │
	│  │  CreateSocket / CreateContainer           │             │
	│  │  CreatePod                                │             │
	│  │  - Validate config shape                  │             │
	│  │  - Reject bad subnets, ports, labels      │             │
	│  └──────────────────┬───────────────────────┘             │
	│                     │                                      │
	│  ┌──────────────────▼───────────────────────┐             │
	│  │              Builders                     │             │
	│  │  Container: AddToNetwork, ExposePort,     │             │
	│  │             AddVolume                     │             │
	│  │  Pod:       AddToNetwork, AddContainer,   │             │
	│  │             ExposePort, AddVolume         │             │
	│  │  - Validate before mutating               │             │
	│  │  - Enforce network/pod exclusivity        │             │
	│  │  - Enforce port and mount uniqueness      │             │
	│  └──────────────────┬───────────────────────┘             │
	│                     │                                      │
	│  ┌──────────────────▼───────────────────────┐             │
	│  │              Rendering                    │             │
	│  │  UnitFile() per resource                  │             │
	│  │  - INI sections in insertion order        │             │
	│  │  - Repeated keys for list settings        │             │
	│  │  - Single blank line between sections     │             │
	│  └──────────────────┬───────────────────────┘             │
	│                     │                                      │
	│  ┌──────────────────▼───────────────────────┐             │
	│  │              Artifacts                    │             │
	│  │  NewArtifact(resource)                    │             │
	│  │  - FileName: caddy.container              │             │
	│  │  - OutputDir: install directory           │             │
	│  │  - Contents: unit file text               │             │
	│  └──────────────────────────────────────────┘             │
	└────────────────────────────────────────────────────────────┘

# Resource Kinds

Quadlet units install into the podman systemd generator's search path,
sockets into the systemd user directory:

	Kind       Unit file        Install directory
	container  name.container   ~/.config/containers/systemd
	pod        name.pod         ~/.config/containers/systemd
	network    name.network     ~/.config/containers/systemd
	volume     name.volume      ~/.config/containers/systemd
	socket     name.socket      ~/.config/systemd/user

Bind-mount volumes are the exception: podman references them by host path,
so they have no unit file and UnitFile fails with ErrVolumeNotManaged.

# Usage Examples

Rendering a container on a network:

	network, err := quadlet.CreateNetwork(quadlet.NetworkConfig{
		Name:    "app",
		Subnet:  "10.89.0.0/24",
		Gateway: "10.89.0.1",
	})
	if err != nil {
		return err
	}

	caddy, err := quadlet.CreateContainer(quadlet.ContainerConfig{
		Name:  "caddy",
		Image: "docker.io/caddy:latest",
	})
	if err != nil {
		return err
	}

	if err := caddy.AddToNetwork(network); err != nil {
		return err
	}
	if err := caddy.ExposePort(quadlet.PortMapping{External: 80, Internal: 80}); err != nil {
		return err
	}

	text, err := caddy.UnitFile()
	// [Container]
	// ContainerName=caddy
	// Image=docker.io/caddy:latest
	// Network=app.network
	// Port=80:80

Grouping containers in a pod:

	pod, _ := quadlet.CreatePod(quadlet.PodConfig{Name: "web"})
	_ = pod.AddToNetwork(network)
	_ = pod.ExposePort(quadlet.PortMapping{External: 8080, Internal: 80})

	if err := pod.AddContainer(caddy); err != nil {
		// fails: caddy already joins a network directly
	}

Looking resources up through a registry:

	networks, err := quadlet.NewRegistry(quadlet.KindNetwork, []*quadlet.Network{appNet, dbNet})
	if err != nil {
		return err
	}
	picked, err := networks.Use("app", "db")

Replacing instead of appending:

	_ = caddy.ExposePort(quadlet.PortMapping{External: 443, Internal: 443}, quadlet.Overwrite())

# Invariants

The builders enforce the relationships podman itself would reject at run
time, so misconfigurations surface while generating rather than on the host:

  - A container joins networks directly or lives in a pod, never both
  - A container belongs to at most one pod
  - External ports are unique per container, and unique across a pod and
    all of its member containers
  - Two volumes may share a mount path only when both carry the shared
    "z" label
  - A container renders only with a network or pod attached; a pod renders
    only with a network and a container attached

Every violation returns *Error with a stable ErrorCode, so callers can
match on codes without parsing messages:

	if quadlet.CodeOf(err) == quadlet.ErrPodPortInUse {
		...
	}

# Design Patterns

Validate-then-mutate:

	Attach methods run every check before touching state. A rejected
	call leaves the builder exactly as it was, so callers may recover
	from an error and keep building.

Typed string enums:

	Kind and ErrorCode are string types with const values, giving
	readable wire and log output while keeping switch statements total.

Weak references:

	A container in a pod holds a Ref{Name, Kind}, not the *Pod itself.
	Rendering needs only the unit file name, and the one-way pointer
	keeps the ownership graph acyclic.

# Thread Safety

Networks, volumes and sockets are immutable after creation and safe to share
across goroutines. Container and Pod builders assume a single writer;
generation pipelines build each user's resources in one goroutine.

# See Also

  - pkg/manifest for the YAML front end that drives these builders
  - pkg/writer for installing artifacts under a home directory
  - pkg/store for tracking written units between runs
*/
package quadlet
