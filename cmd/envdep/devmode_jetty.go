//go:build jetty

package main

import _ "github.com/gburgyan/go-envdep/capability/jetty"
