package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cam-mcevenue/quadlet-forge/pkg/quadlet"
)

// Manifest is one project definition: shared resources plus the per-user
// selections that decide which units each unix user receives
type Manifest struct {
	// Distro names the target distribution, recorded with each run
	Distro string `yaml:"distro" validate:"required"`

	Networks   []NetworkSpec   `yaml:"networks,omitempty" validate:"dive"`
	Volumes    []VolumeSpec    `yaml:"volumes,omitempty" validate:"dive"`
	Containers []ContainerSpec `yaml:"containers,omitempty" validate:"dive"`
	Pods       []PodSpec       `yaml:"pods,omitempty" validate:"dive"`
	Sockets    []SocketSpec    `yaml:"sockets,omitempty" validate:"dive"`

	// Users select containers, pods and sockets by name. Networks and
	// volumes ship implicitly with whatever references them.
	Users []UserSpec `yaml:"users" validate:"required,min=1,dive"`
}

// NetworkSpec mirrors quadlet.NetworkConfig in YAML form
type NetworkSpec struct {
	Name          string `yaml:"name" validate:"required"`
	Subnet        string `yaml:"subnet" validate:"required"`
	Gateway       string `yaml:"gateway" validate:"required"`
	Driver        string `yaml:"driver,omitempty"`
	StrictGateway bool   `yaml:"strictGateway,omitempty"`
}

// VolumeSpec mirrors quadlet.VolumeConfig in YAML form
type VolumeSpec struct {
	Name      string `yaml:"name" validate:"required"`
	MountPath string `yaml:"mountPath" validate:"required"`
	HostPath  string `yaml:"hostPath,omitempty"`
	Label     string `yaml:"label,omitempty" validate:"omitempty,oneof=Z z"`
}

// ContainerSpec declares a container and the resources it attaches by name.
// Ports use the compose-style "external:internal" form.
type ContainerSpec struct {
	Name        string   `yaml:"name" validate:"required"`
	Image       string   `yaml:"image" validate:"required"`
	Description string   `yaml:"description,omitempty"`
	Networks    []string `yaml:"networks,omitempty"`
	Ports       []string `yaml:"ports,omitempty" validate:"dive,required"`
	Volumes     []string `yaml:"volumes,omitempty"`
}

// PodSpec declares a pod, its shared resources and its member containers
type PodSpec struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description,omitempty"`
	Networks    []string `yaml:"networks,omitempty"`
	Containers  []string `yaml:"containers,omitempty"`
	Ports       []string `yaml:"ports,omitempty" validate:"dive,required"`
	Volumes     []string `yaml:"volumes,omitempty"`
}

// SocketSpec mirrors quadlet.SocketConfig in YAML form
type SocketSpec struct {
	Name    string `yaml:"name" validate:"required"`
	Service string `yaml:"service" validate:"required"`
	Ports   []int  `yaml:"ports" validate:"required,min=1"`
}

// UserSpec selects the units one unix user receives
type UserSpec struct {
	Name       string   `yaml:"name" validate:"required"`
	Containers []string `yaml:"containers,omitempty"`
	Pods       []string `yaml:"pods,omitempty"`
	Sockets    []string `yaml:"sockets,omitempty"`
}

// Load parses and validates a manifest from r
func Load(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile parses and validates the manifest at path
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the manifest shape. Cross-resource rules such as duplicate
// names and attachment conflicts are enforced later by the builders.
func (m *Manifest) Validate() error {
	err := validator.New().Struct(m)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			parts[i] = fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid manifest: %s", strings.Join(parts, "; "))
	}
	return fmt.Errorf("invalid manifest: %w", err)
}

// parsePort parses a compose-style "external:internal" port spec
func parsePort(spec string) (quadlet.PortMapping, error) {
	external, internal, ok := strings.Cut(spec, ":")
	if !ok {
		return quadlet.PortMapping{}, fmt.Errorf("port %q must use the external:internal form", spec)
	}
	ext, err := strconv.Atoi(external)
	if err != nil {
		return quadlet.PortMapping{}, fmt.Errorf("port %q: external part is not a number", spec)
	}
	intl, err := strconv.Atoi(internal)
	if err != nil {
		return quadlet.PortMapping{}, fmt.Errorf("port %q: internal part is not a number", spec)
	}
	return quadlet.PortMapping{External: ext, Internal: intl}, nil
}
