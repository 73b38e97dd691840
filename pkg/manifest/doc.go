/*
Package manifest loads project manifests and assembles them into per-user
unit artifacts.

A manifest is one YAML document declaring the project's resources (networks,
volumes, containers, pods, sockets) and the unix users that receive them.
Users select containers, pods and sockets by name; networks and volumes are
never selected directly, they ship with whatever references them.

# Manifest Format

	distro: fedora

	networks:
	  - name: app
	    subnet: 10.89.0.0/24
	    gateway: 10.89.0.1

	volumes:
	  - name: data
	    mountPath: /var/lib/data
	    label: Z

	containers:
	  - name: caddy
	    image: docker.io/caddy:latest
	    networks: [app]
	    ports: ["80:80"]
	    volumes: [data]

	sockets:
	  - name: caddy
	    service: caddy
	    ports: [80]

	users:
	  - name: deploy
	    containers: [caddy]
	    sockets: [caddy]

Ports use the compose-style "external:internal" string form. Volume entries
with a hostPath become bind mounts: containers reference them by path and no
.volume unit ships.

# Assembly

Loading validates YAML shape only. NewAssembler(...).Assemble() then runs the
real rules in dependency order:

 1. Factories create networks, volumes, containers, pods, sockets;
    each kind lands in a registry that rejects duplicate names
 2. Attachment specs run through the builders, which enforce the
    network/pod exclusion, port uniqueness and mount path rules
 3. Each user's selections resolve through the registries and expand to
    their dependency closure: a container pulls its networks, volumes and
    pod; a pod pulls its networks, volumes and member containers

The result is one UserUnits per manifest user, holding rendered artifacts in
install order with shared dependencies deduplicated. Builder failures
surface as *quadlet.Error values, so callers can branch on stable codes:

	units, err := manifest.NewAssembler(m).Assemble()
	if quadlet.CodeOf(err) == quadlet.ErrPodPortInUse {
		...
	}

# Usage Example

	m, err := manifest.LoadFile("deploy.yaml")
	if err != nil {
		return err
	}
	units, err := manifest.NewAssembler(m).Assemble()
	if err != nil {
		return err
	}
	for _, user := range units {
		for _, artifact := range user.Artifacts {
			fmt.Println(user.User, artifact.FileName)
		}
	}

# See Also

  - pkg/quadlet for the resource model and invariants
  - pkg/writer for installing the assembled artifacts
*/
package manifest
