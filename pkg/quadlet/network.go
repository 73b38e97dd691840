package quadlet

import "net/netip"

// DefaultNetworkDriver is used when a network config leaves Driver empty
const DefaultNetworkDriver = "bridge"

// NetworkConfig describes a podman network unit
type NetworkConfig struct {
	Name    string
	Subnet  string // CIDR, e.g. "10.89.0.0/24"
	Gateway string // IP address for the bridge gateway
	Driver  string // defaults to DefaultNetworkDriver

	// StrictGateway additionally requires Gateway to lie inside Subnet.
	// Podman rejects out-of-subnet gateways when it loads the unit, so the
	// toggle only moves that failure to build time.
	StrictGateway bool
}

// Network is a shared network resource. It is immutable after creation;
// containers and pods reference it but never modify it.
type Network struct {
	cfg NetworkConfig
}

// CreateNetwork validates cfg and returns the network resource
func CreateNetwork(cfg NetworkConfig) (*Network, error) {
	if cfg.Name == "" {
		return nil, newError(ErrInvalidResourceConfig, "network name must not be empty")
	}
	subnet, err := netip.ParsePrefix(cfg.Subnet)
	if err != nil {
		return nil, newError(ErrInvalidResourceConfig, "network %q: subnet %q is not valid CIDR notation", cfg.Name, cfg.Subnet)
	}
	gateway, err := netip.ParseAddr(cfg.Gateway)
	if err != nil {
		return nil, newError(ErrInvalidResourceConfig, "network %q: gateway %q is not a valid IP address", cfg.Name, cfg.Gateway)
	}
	if cfg.StrictGateway && !subnet.Contains(gateway) {
		return nil, newError(ErrNetworkGatewayNotInSubnet, "network %q: gateway %s is outside subnet %s", cfg.Name, gateway, subnet)
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultNetworkDriver
	}
	return &Network{cfg: cfg}, nil
}

func (n *Network) Name() string { return n.cfg.Name }

func (n *Network) Kind() Kind { return KindNetwork }

// Config returns a copy of the validated configuration
func (n *Network) Config() NetworkConfig { return n.cfg }

func (n *Network) UnitFileName() string { return unitFileName(n.cfg.Name, KindNetwork) }

func (n *Network) InstallDir() string { return QuadletInstallDir }

// UnitFile renders the .network quadlet
func (n *Network) UnitFile() (string, error) {
	u := newUnit()
	u.set("Network", "NetworkName", n.cfg.Name)
	u.set("Network", "Driver", n.cfg.Driver)
	u.set("Network", "Subnet", n.cfg.Subnet)
	u.set("Network", "Gateway", n.cfg.Gateway)
	return u.render(), nil
}
