//go:build gwtdev

package main

// Hosted-mode development builds link the GWT tooling capability.
import _ "github.com/gburgyan/go-envdep/capability/gwtdev"
