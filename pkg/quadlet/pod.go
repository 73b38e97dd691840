package quadlet

// PodConfig describes a pod before any dependencies attach
type PodConfig struct {
	Name        string
	Description string // optional [Unit] Description
}

// Pod groups containers behind shared networks, ports and volumes. Member
// containers render a Pod= back-reference instead of their own Network=
// lines. Attach methods validate before they mutate. Builders are not safe
// for concurrent use.
type Pod struct {
	cfg        PodConfig
	networks   []*Network
	containers []*Container
	volumes    []*Volume
	ports      []PortMapping
}

// CreatePod validates cfg and returns an empty pod builder
func CreatePod(cfg PodConfig) (*Pod, error) {
	if cfg.Name == "" {
		return nil, newError(ErrInvalidResourceConfig, "pod name must not be empty")
	}
	return &Pod{cfg: cfg}, nil
}

func (p *Pod) Name() string { return p.cfg.Name }

func (p *Pod) Kind() Kind { return KindPod }

// Config returns a copy of the static configuration
func (p *Pod) Config() PodConfig { return p.cfg }

func (p *Pod) UnitFileName() string { return unitFileName(p.cfg.Name, KindPod) }

func (p *Pod) InstallDir() string { return QuadletInstallDir }

// AddToNetwork joins the pod to a network. All member containers share it.
func (p *Pod) AddToNetwork(n *Network, opts ...AttachOption) error {
	if applyAttachOptions(opts).overwrite {
		p.networks = []*Network{n}
		return nil
	}
	for _, prev := range p.networks {
		if prev.Name() == n.Name() {
			return newError(ErrPodDuplicateNetwork,
				"pod %q already joins network %q", p.cfg.Name, n.Name())
		}
	}
	p.networks = append(p.networks, n)
	return nil
}

// AddContainer claims the container for this pod. The container must not
// belong to another pod or join networks of its own, and its ports must not
// collide with ports the pod already publishes.
func (p *Pod) AddContainer(c *Container, opts ...AttachOption) error {
	overwrite := applyAttachOptions(opts).overwrite
	if !overwrite {
		for _, prev := range p.containers {
			if prev.Name() == c.Name() {
				return newError(ErrPodDuplicateContainer,
					"pod %q already contains container %q", p.cfg.Name, c.Name())
			}
		}
	}
	for _, cp := range c.ports {
		for _, pp := range p.ports {
			if cp.External == pp.External {
				return newError(ErrPodPortInUse,
					"pod %q already publishes external port %d wanted by container %q", p.cfg.Name, pp.External, c.Name())
			}
		}
	}
	member := false
	for _, prev := range p.containers {
		if prev == c {
			member = true
			break
		}
	}
	if !member {
		if err := c.joinPod(Ref{Name: p.cfg.Name, Kind: KindPod}); err != nil {
			return err
		}
	}
	if overwrite {
		for _, prev := range p.containers {
			if prev != c {
				prev.leavePod()
			}
		}
		p.containers = []*Container{c}
		return nil
	}
	p.containers = append(p.containers, c)
	return nil
}

// ExposePort publishes a pod-level port mapping. External ports must be
// unique across the pod and every member container.
func (p *Pod) ExposePort(pm PortMapping, opts ...AttachOption) error {
	if err := checkPortRange(pm); err != nil {
		return err
	}
	overwrite := applyAttachOptions(opts).overwrite
	if !overwrite {
		for _, prev := range p.ports {
			if prev.External == pm.External {
				return newError(ErrPodDuplicatePort,
					"pod %q already exposes external port %d", p.cfg.Name, pm.External)
			}
		}
	}
	for _, c := range p.containers {
		for _, cp := range c.ports {
			if cp.External == pm.External {
				return newError(ErrPodPortInUse,
					"pod %q: external port %d is already mapped by container %q", p.cfg.Name, pm.External, c.Name())
			}
		}
	}
	if overwrite {
		p.ports = []PortMapping{pm}
		return nil
	}
	p.ports = append(p.ports, pm)
	return nil
}

// AddVolume mounts a volume at pod level. Mount paths must not collide
// unless both volumes carry the shared label.
func (p *Pod) AddVolume(v *Volume, opts ...AttachOption) error {
	if applyAttachOptions(opts).overwrite {
		p.volumes = []*Volume{v}
		return nil
	}
	if err := checkMountConflict(p.volumes, v, ErrPodVolumeMountConflict, KindPod, p.cfg.Name); err != nil {
		return err
	}
	p.volumes = append(p.volumes, v)
	return nil
}

// PodDependencies is a point-in-time copy of everything attached to a pod
type PodDependencies struct {
	Networks   []*Network
	Containers []*Container
	Volumes    []*Volume
	Ports      []PortMapping
}

// Dependencies snapshots the current attachments in insertion order
func (p *Pod) Dependencies() PodDependencies {
	return PodDependencies{
		Networks:   append([]*Network(nil), p.networks...),
		Containers: append([]*Container(nil), p.containers...),
		Volumes:    append([]*Volume(nil), p.volumes...),
		Ports:      append([]PortMapping(nil), p.ports...),
	}
}

// UnitFile renders the .pod quadlet. A pod must hold at least one network
// and one container before it renders.
func (p *Pod) UnitFile() (string, error) {
	if len(p.networks) == 0 || len(p.containers) == 0 {
		return "", newError(ErrPodMissingDependency,
			"pod %q needs at least one network and one container before rendering", p.cfg.Name)
	}
	u := newUnit()
	if p.cfg.Description != "" {
		u.set("Unit", "Description", p.cfg.Description)
	}
	u.set("Pod", "PodName", p.cfg.Name)
	for _, n := range p.networks {
		u.set("Pod", "Network", n.UnitFileName())
	}
	for _, pm := range p.ports {
		u.set("Pod", "Port", pm.String())
	}
	for _, v := range p.volumes {
		u.set("Pod", "Volume", v.mountLine())
	}
	return u.render(), nil
}
