package manifest

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cam-mcevenue/quadlet-forge/pkg/log"
	"github.com/cam-mcevenue/quadlet-forge/pkg/quadlet"
)

// UserUnits is the generation result for one unix user: every artifact the
// user's selections reference, dependencies included, in install order
type UserUnits struct {
	User      string
	Artifacts []quadlet.Artifact
}

// Assembler turns a validated manifest into per-user artifact lists. All
// builder invariants surface here, before anything touches the filesystem.
type Assembler struct {
	manifest *Manifest
	logger   zerolog.Logger
}

// NewAssembler creates an assembler for one manifest
func NewAssembler(m *Manifest) *Assembler {
	return &Assembler{
		manifest: m,
		logger:   log.WithComponent("assembler"),
	}
}

// build holds the fully attached resource registries for one manifest
type build struct {
	networks   *quadlet.Registry[*quadlet.Network]
	volumes    *quadlet.Registry[*quadlet.Volume]
	containers *quadlet.Registry[*quadlet.Container]
	pods       *quadlet.Registry[*quadlet.Pod]
	sockets    *quadlet.Registry[*quadlet.Socket]
}

// Assemble builds every resource, applies all attachments and resolves each
// user's selections into artifacts. Users appear in manifest order.
func (a *Assembler) Assemble() ([]UserUnits, error) {
	b, err := a.buildResources()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(a.manifest.Users))
	units := make([]UserUnits, 0, len(a.manifest.Users))
	for _, spec := range a.manifest.Users {
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("user %q is listed twice", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		resolved, err := a.assembleUser(spec, b)
		if err != nil {
			return nil, err
		}
		units = append(units, resolved)
	}
	return units, nil
}

// buildResources runs factories and attachments in dependency order:
// networks and volumes first, then containers, then pods and sockets
func (a *Assembler) buildResources() (*build, error) {
	m := a.manifest

	networks := make([]*quadlet.Network, 0, len(m.Networks))
	for _, spec := range m.Networks {
		network, err := quadlet.CreateNetwork(quadlet.NetworkConfig{
			Name:          spec.Name,
			Subnet:        spec.Subnet,
			Gateway:       spec.Gateway,
			Driver:        spec.Driver,
			StrictGateway: spec.StrictGateway,
		})
		if err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}
	networkReg, err := quadlet.NewRegistry(quadlet.KindNetwork, networks)
	if err != nil {
		return nil, err
	}

	volumes := make([]*quadlet.Volume, 0, len(m.Volumes))
	for _, spec := range m.Volumes {
		volume, err := quadlet.CreateVolume(quadlet.VolumeConfig{
			Name:      spec.Name,
			MountPath: spec.MountPath,
			HostPath:  spec.HostPath,
			Label:     spec.Label,
		})
		if err != nil {
			return nil, err
		}
		volumes = append(volumes, volume)
	}
	volumeReg, err := quadlet.NewRegistry(quadlet.KindVolume, volumes)
	if err != nil {
		return nil, err
	}

	containers := make([]*quadlet.Container, 0, len(m.Containers))
	for _, spec := range m.Containers {
		container, err := a.buildContainer(spec, networkReg, volumeReg)
		if err != nil {
			return nil, err
		}
		containers = append(containers, container)
	}
	containerReg, err := quadlet.NewRegistry(quadlet.KindContainer, containers)
	if err != nil {
		return nil, err
	}

	pods := make([]*quadlet.Pod, 0, len(m.Pods))
	for _, spec := range m.Pods {
		pod, err := a.buildPod(spec, networkReg, volumeReg, containerReg)
		if err != nil {
			return nil, err
		}
		pods = append(pods, pod)
	}
	podReg, err := quadlet.NewRegistry(quadlet.KindPod, pods)
	if err != nil {
		return nil, err
	}

	sockets := make([]*quadlet.Socket, 0, len(m.Sockets))
	for _, spec := range m.Sockets {
		socket, err := quadlet.CreateSocket(quadlet.SocketConfig{
			Name:    spec.Name,
			Service: spec.Service,
			Ports:   spec.Ports,
		})
		if err != nil {
			return nil, err
		}
		sockets = append(sockets, socket)
	}
	socketReg, err := quadlet.NewRegistry(quadlet.KindSocket, sockets)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Int("networks", networkReg.Len()).
		Int("volumes", volumeReg.Len()).
		Int("containers", containerReg.Len()).
		Int("pods", podReg.Len()).
		Int("sockets", socketReg.Len()).
		Msg("resources built")

	return &build{
		networks:   networkReg,
		volumes:    volumeReg,
		containers: containerReg,
		pods:       podReg,
		sockets:    socketReg,
	}, nil
}

func (a *Assembler) buildContainer(spec ContainerSpec, networkReg *quadlet.Registry[*quadlet.Network], volumeReg *quadlet.Registry[*quadlet.Volume]) (*quadlet.Container, error) {
	container, err := quadlet.CreateContainer(quadlet.ContainerConfig{
		Name:        spec.Name,
		Image:       spec.Image,
		Description: spec.Description,
	})
	if err != nil {
		return nil, err
	}

	networks, err := networkReg.Use(spec.Networks...)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", spec.Name, err)
	}
	for _, network := range networks {
		if err := container.AddToNetwork(network); err != nil {
			return nil, err
		}
	}

	for _, portSpec := range spec.Ports {
		port, err := parsePort(portSpec)
		if err != nil {
			return nil, fmt.Errorf("container %q: %w", spec.Name, err)
		}
		if err := container.ExposePort(port); err != nil {
			return nil, err
		}
	}

	volumes, err := volumeReg.Use(spec.Volumes...)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", spec.Name, err)
	}
	for _, volume := range volumes {
		if err := container.AddVolume(volume); err != nil {
			return nil, err
		}
	}
	return container, nil
}

func (a *Assembler) buildPod(spec PodSpec, networkReg *quadlet.Registry[*quadlet.Network], volumeReg *quadlet.Registry[*quadlet.Volume], containerReg *quadlet.Registry[*quadlet.Container]) (*quadlet.Pod, error) {
	pod, err := quadlet.CreatePod(quadlet.PodConfig{
		Name:        spec.Name,
		Description: spec.Description,
	})
	if err != nil {
		return nil, err
	}

	networks, err := networkReg.Use(spec.Networks...)
	if err != nil {
		return nil, fmt.Errorf("pod %q: %w", spec.Name, err)
	}
	for _, network := range networks {
		if err := pod.AddToNetwork(network); err != nil {
			return nil, err
		}
	}

	for _, portSpec := range spec.Ports {
		port, err := parsePort(portSpec)
		if err != nil {
			return nil, fmt.Errorf("pod %q: %w", spec.Name, err)
		}
		if err := pod.ExposePort(port); err != nil {
			return nil, err
		}
	}

	volumes, err := volumeReg.Use(spec.Volumes...)
	if err != nil {
		return nil, fmt.Errorf("pod %q: %w", spec.Name, err)
	}
	for _, volume := range volumes {
		if err := pod.AddVolume(volume); err != nil {
			return nil, err
		}
	}

	// members last, so pod-level ports are in place for the collision check
	members, err := containerReg.Use(spec.Containers...)
	if err != nil {
		return nil, fmt.Errorf("pod %q: %w", spec.Name, err)
	}
	for _, member := range members {
		if err := pod.AddContainer(member); err != nil {
			return nil, err
		}
	}
	return pod, nil
}

// assembleUser resolves one user's selections and expands their dependency
// closure so every referenced unit ships alongside
func (a *Assembler) assembleUser(spec UserSpec, b *build) (UserUnits, error) {
	pods, err := b.pods.Use(spec.Pods...)
	if err != nil {
		return UserUnits{}, fmt.Errorf("user %q: %w", spec.Name, err)
	}
	containers, err := b.containers.Use(spec.Containers...)
	if err != nil {
		return UserUnits{}, fmt.Errorf("user %q: %w", spec.Name, err)
	}
	sockets, err := b.sockets.Use(spec.Sockets...)
	if err != nil {
		return UserUnits{}, fmt.Errorf("user %q: %w", spec.Name, err)
	}

	set := newArtifactSet()
	for _, pod := range pods {
		if err := set.addPod(pod, b); err != nil {
			return UserUnits{}, fmt.Errorf("user %q: %w", spec.Name, err)
		}
	}
	for _, container := range containers {
		if err := set.addContainer(container, b); err != nil {
			return UserUnits{}, fmt.Errorf("user %q: %w", spec.Name, err)
		}
	}
	for _, socket := range sockets {
		if err := set.addSocket(socket); err != nil {
			return UserUnits{}, fmt.Errorf("user %q: %w", spec.Name, err)
		}
	}

	a.logger.Debug().
		Str("user", spec.Name).
		Int("artifacts", len(set.artifacts)).
		Msg("user units assembled")

	return UserUnits{User: spec.Name, Artifacts: set.artifacts}, nil
}

// artifactSet accumulates rendered artifacts for one user, deduplicating by
// install path so shared dependencies ship once
type artifactSet struct {
	rendered  map[string]struct{}
	artifacts []quadlet.Artifact
}

func newArtifactSet() *artifactSet {
	return &artifactSet{rendered: make(map[string]struct{})}
}

// mark records the resource and reports whether it was new
func (s *artifactSet) mark(r quadlet.Resource) bool {
	key := r.InstallDir() + "/" + r.UnitFileName()
	if _, ok := s.rendered[key]; ok {
		return false
	}
	s.rendered[key] = struct{}{}
	return true
}

func (s *artifactSet) render(r quadlet.Resource) error {
	artifact, err := quadlet.NewArtifact(r)
	if err != nil {
		return err
	}
	s.artifacts = append(s.artifacts, artifact)
	return nil
}

func (s *artifactSet) addNetwork(n *quadlet.Network) error {
	if !s.mark(n) {
		return nil
	}
	return s.render(n)
}

// addVolume ships managed volumes only; bind mounts are host paths with no
// unit file
func (s *artifactSet) addVolume(v *quadlet.Volume) error {
	if !v.Managed() {
		return nil
	}
	if !s.mark(v) {
		return nil
	}
	return s.render(v)
}

func (s *artifactSet) addContainer(c *quadlet.Container, b *build) error {
	if !s.mark(c) {
		return nil
	}
	deps := c.Dependencies()
	if deps.Pod != nil {
		if pod, ok := b.pods.Get(deps.Pod.Name); ok {
			if err := s.addPod(pod, b); err != nil {
				return err
			}
		}
	}
	for _, network := range deps.Networks {
		if err := s.addNetwork(network); err != nil {
			return err
		}
	}
	for _, volume := range deps.Volumes {
		if err := s.addVolume(volume); err != nil {
			return err
		}
	}
	return s.render(c)
}

func (s *artifactSet) addPod(p *quadlet.Pod, b *build) error {
	if !s.mark(p) {
		return nil
	}
	deps := p.Dependencies()
	for _, network := range deps.Networks {
		if err := s.addNetwork(network); err != nil {
			return err
		}
	}
	for _, volume := range deps.Volumes {
		if err := s.addVolume(volume); err != nil {
			return err
		}
	}
	if err := s.render(p); err != nil {
		return err
	}
	for _, member := range deps.Containers {
		if err := s.addContainer(member, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *artifactSet) addSocket(sock *quadlet.Socket) error {
	if !s.mark(sock) {
		return nil
	}
	return s.render(sock)
}
