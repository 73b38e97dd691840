package quadlet

// ContainerConfig describes a container before any dependencies attach
type ContainerConfig struct {
	Name        string
	Image       string // full image reference, e.g. "docker.io/library/caddy:latest"
	Description string // optional [Unit] Description
}

// Container accumulates references to networks, volumes, ports and at most
// one pod, then renders them as a .container quadlet. Attach methods
// validate before they mutate: a rejected call leaves the container exactly
// as it was. Builders are not safe for concurrent use.
type Container struct {
	cfg      ContainerConfig
	networks []*Network
	volumes  []*Volume
	ports    []PortMapping
	pod      *Ref
}

// CreateContainer validates cfg and returns an empty container builder
func CreateContainer(cfg ContainerConfig) (*Container, error) {
	if cfg.Name == "" {
		return nil, newError(ErrInvalidResourceConfig, "container name must not be empty")
	}
	if cfg.Image == "" {
		return nil, newError(ErrInvalidResourceConfig, "container %q: image must not be empty", cfg.Name)
	}
	return &Container{cfg: cfg}, nil
}

func (c *Container) Name() string { return c.cfg.Name }

func (c *Container) Kind() Kind { return KindContainer }

// Config returns a copy of the static configuration
func (c *Container) Config() ContainerConfig { return c.cfg }

func (c *Container) UnitFileName() string { return unitFileName(c.cfg.Name, KindContainer) }

func (c *Container) InstallDir() string { return QuadletInstallDir }

// AddToNetwork joins the container to a network. Containers inside a pod
// inherit the pod's networks and must not join any directly.
func (c *Container) AddToNetwork(n *Network, opts ...AttachOption) error {
	if c.pod != nil {
		return newError(ErrContainerNetworkConflict,
			"container %q belongs to pod %q and inherits its networks", c.cfg.Name, c.pod.Name)
	}
	if applyAttachOptions(opts).overwrite {
		c.networks = []*Network{n}
		return nil
	}
	for _, prev := range c.networks {
		if prev.Name() == n.Name() {
			return newError(ErrContainerDuplicateNetwork,
				"container %q already joins network %q", c.cfg.Name, n.Name())
		}
	}
	c.networks = append(c.networks, n)
	return nil
}

// ExposePort publishes a port mapping. External ports must be unique per
// container.
func (c *Container) ExposePort(p PortMapping, opts ...AttachOption) error {
	if err := checkPortRange(p); err != nil {
		return err
	}
	if applyAttachOptions(opts).overwrite {
		c.ports = []PortMapping{p}
		return nil
	}
	for _, prev := range c.ports {
		if prev.External == p.External {
			return newError(ErrContainerDuplicatePort,
				"container %q already exposes external port %d", c.cfg.Name, p.External)
		}
	}
	c.ports = append(c.ports, p)
	return nil
}

// AddVolume mounts a volume. Mount paths must not collide unless both
// volumes carry the shared label.
func (c *Container) AddVolume(v *Volume, opts ...AttachOption) error {
	if applyAttachOptions(opts).overwrite {
		c.volumes = []*Volume{v}
		return nil
	}
	if err := checkMountConflict(c.volumes, v, ErrContainerVolumeMountConflict, KindContainer, c.cfg.Name); err != nil {
		return err
	}
	c.volumes = append(c.volumes, v)
	return nil
}

// joinPod records the owning pod. Only Pod.AddContainer calls this, after
// its own checks pass.
func (c *Container) joinPod(ref Ref) error {
	if c.pod != nil {
		return newError(ErrContainerPodConflict,
			"container %q already belongs to pod %q", c.cfg.Name, c.pod.Name)
	}
	if len(c.networks) > 0 {
		return newError(ErrContainerNetworkConflict,
			"container %q joins networks directly and cannot move into pod %q", c.cfg.Name, ref.Name)
	}
	c.pod = &ref
	return nil
}

// leavePod clears the pod reference when an overwrite displaces the
// container from its pod
func (c *Container) leavePod() {
	c.pod = nil
}

// ContainerDependencies is a point-in-time copy of everything attached to a
// container
type ContainerDependencies struct {
	Networks []*Network
	Volumes  []*Volume
	Ports    []PortMapping
	Pod      *Ref
}

// Dependencies snapshots the current attachments in insertion order
func (c *Container) Dependencies() ContainerDependencies {
	deps := ContainerDependencies{
		Networks: append([]*Network(nil), c.networks...),
		Volumes:  append([]*Volume(nil), c.volumes...),
		Ports:    append([]PortMapping(nil), c.ports...),
	}
	if c.pod != nil {
		ref := *c.pod
		deps.Pod = &ref
	}
	return deps
}

// UnitFile renders the .container quadlet. A container must reach the
// outside world through at least one network or its pod before it renders.
func (c *Container) UnitFile() (string, error) {
	if len(c.networks) == 0 && c.pod == nil {
		return "", newError(ErrContainerMissingDependency,
			"container %q needs a network or a pod before rendering", c.cfg.Name)
	}
	u := newUnit()
	if c.cfg.Description != "" {
		u.set("Unit", "Description", c.cfg.Description)
	}
	u.set("Container", "ContainerName", c.cfg.Name)
	u.set("Container", "Image", c.cfg.Image)
	for _, n := range c.networks {
		u.set("Container", "Network", n.UnitFileName())
	}
	if c.pod != nil {
		u.set("Container", "Pod", c.pod.UnitFileName())
	}
	for _, p := range c.ports {
		u.set("Container", "Port", p.String())
	}
	for _, v := range c.volumes {
		u.set("Container", "Volume", v.mountLine())
	}
	return u.render(), nil
}
