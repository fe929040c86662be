// Package gwtdev marks the GWT hosted-mode development tooling as available. Import it
// for side effects, and only from development builds:
//
//	//go:build gwtdev
//
//	package main
//
//	import _ "github.com/gburgyan/go-envdep/capability/gwtdev"
package gwtdev

import "github.com/gburgyan/go-envdep"

func init() {
	envdep.RegisterCapability(envdep.CapabilityGwtDevHostedMode)
}
