// Package jetty marks an embedded Jetty-style server as available. Import it for side
// effects from the binary that runs the server.
package jetty

import "github.com/gburgyan/go-envdep"

func init() {
	envdep.RegisterCapability(envdep.CapabilityJetty)
}
