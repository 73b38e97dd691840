package quadlet

import "fmt"

// Kind identifies the flavor of unit a resource generates
type Kind string

const (
	KindContainer Kind = "container"
	KindPod       Kind = "pod"
	KindNetwork   Kind = "network"
	KindVolume    Kind = "volume"
	KindSocket    Kind = "socket"
)

// Install directories, relative to the target user's home directory.
// Quadlet units must land in the podman systemd generator's search path;
// plain socket units belong to the systemd user manager.
const (
	QuadletInstallDir = ".config/containers/systemd"
	SocketInstallDir  = ".config/systemd/user"
)

// Resource is implemented by every unit-generating resource
type Resource interface {
	// Name is the unique identifier within the resource's kind. It doubles
	// as the systemd unit name stem.
	Name() string

	// Kind reports the unit flavor
	Kind() Kind

	// UnitFileName is Name plus the kind extension, e.g. "app.network"
	UnitFileName() string

	// InstallDir is the home-relative directory the unit installs into
	InstallDir() string

	// UnitFile renders the full unit file text. Rendering never mutates
	// the resource; the same state always yields the same text.
	UnitFile() (string, error)
}

// Ref names another resource without owning it
type Ref struct {
	Name string
	Kind Kind
}

// UnitFileName is the unit file name of the referenced resource
func (r Ref) UnitFileName() string {
	return unitFileName(r.Name, r.Kind)
}

// PortMapping publishes an external port to a port inside the container
type PortMapping struct {
	External int
	Internal int
}

// String renders the mapping in podman's external:internal form
func (p PortMapping) String() string {
	return fmt.Sprintf("%d:%d", p.External, p.Internal)
}

// Artifact is one generated unit file together with its install location
type Artifact struct {
	// FileName is the base name, e.g. "caddy.container"
	FileName string

	// OutputDir is the home-relative install directory
	OutputDir string

	// Contents is the complete unit file text
	Contents string
}

// NewArtifact renders a resource into an installable artifact
func NewArtifact(r Resource) (Artifact, error) {
	text, err := r.UnitFile()
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		FileName:  r.UnitFileName(),
		OutputDir: r.InstallDir(),
		Contents:  text,
	}, nil
}

func unitFileName(name string, kind Kind) string {
	return name + "." + string(kind)
}

func checkPortRange(p PortMapping) error {
	if p.External < 1 || p.External > 65535 {
		return newError(ErrInvalidResourceConfig, "external port %d is outside 1-65535", p.External)
	}
	if p.Internal < 1 || p.Internal > 65535 {
		return newError(ErrInvalidResourceConfig, "internal port %d is outside 1-65535", p.Internal)
	}
	return nil
}
