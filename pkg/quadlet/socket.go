package quadlet

import (
	"fmt"
	"strings"
)

// SocketConfig describes a systemd user socket that activates a generated
// container service on first connection
type SocketConfig struct {
	Name string

	// Service is the unit the socket activates, without the .service
	// suffix. Quadlet generates a service per container, so this is
	// normally a container name.
	Service string

	// Ports are the TCP ports to listen on
	Ports []int
}

// Socket is a socket-activation resource. Unlike quadlet units it installs
// into the systemd user directory.
type Socket struct {
	cfg SocketConfig
}

// CreateSocket validates cfg and returns the socket resource
func CreateSocket(cfg SocketConfig) (*Socket, error) {
	if cfg.Name == "" {
		return nil, newError(ErrInvalidResourceConfig, "socket name must not be empty")
	}
	if cfg.Service == "" {
		return nil, newError(ErrInvalidResourceConfig, "socket %q: service must not be empty", cfg.Name)
	}
	if strings.HasSuffix(cfg.Service, ".service") {
		return nil, newError(ErrInvalidResourceConfig, "socket %q: service %q must not carry the .service suffix", cfg.Name, cfg.Service)
	}
	if len(cfg.Ports) == 0 {
		return nil, newError(ErrInvalidResourceConfig, "socket %q: at least one port is required", cfg.Name)
	}
	seen := make(map[int]struct{}, len(cfg.Ports))
	for _, port := range cfg.Ports {
		if port < 1 || port > 65535 {
			return nil, newError(ErrInvalidResourceConfig, "socket %q: port %d is outside 1-65535", cfg.Name, port)
		}
		if _, dup := seen[port]; dup {
			return nil, newError(ErrInvalidResourceConfig, "socket %q: port %d is listed twice", cfg.Name, port)
		}
		seen[port] = struct{}{}
	}
	return &Socket{cfg: cfg}, nil
}

func (s *Socket) Name() string { return s.cfg.Name }

func (s *Socket) Kind() Kind { return KindSocket }

// Config returns a copy of the validated configuration
func (s *Socket) Config() SocketConfig {
	cfg := s.cfg
	cfg.Ports = append([]int(nil), s.cfg.Ports...)
	return cfg
}

func (s *Socket) UnitFileName() string { return unitFileName(s.cfg.Name, KindSocket) }

func (s *Socket) InstallDir() string { return SocketInstallDir }

// UnitFile renders the .socket unit. Listening on [::] with BindIPv6Only=both
// accepts IPv4 and IPv6 through a single stream.
func (s *Socket) UnitFile() (string, error) {
	u := newUnit()
	for _, port := range s.cfg.Ports {
		u.set("Socket", "ListenStream", fmt.Sprintf("[::]:%d", port))
	}
	u.set("Socket", "BindIPv6Only", "both")
	u.set("Socket", "Service", s.cfg.Service+".service")
	u.set("Install", "WantedBy", "sockets.target")
	return u.render(), nil
}
