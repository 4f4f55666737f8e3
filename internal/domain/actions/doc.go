// Package actions executes remote-control actions on the host machine.
//
// Three actions (office, web, media) resolve a program by probing an ordered
// list of known install locations and launching the first one that exists. When
// none exists, exactly one shell launch (cmd /C "start "" "<program>" "<url>"")
// is issued. Arguments are quoted for the configured shell and an argument the
// shell cannot take literally is refused. On Windows the shell's command line
// is passed unmodified.
// The custom action launches a caller-supplied path as-is and the command action
// runs a caller-supplied shell command synchronously under a timeout.
//
// Candidate locations live in a Catalog that can be overridden per host from a
// YAML or TOML file:
//
//	office:
//	  candidates:
//	    - 'D:\Office\root\Office16\WINWORD.EXE'
//	web:
//	  name: Edge
//	  fallback: msedge
//
// Example Usage:
//
//	exec := actions.NewExecutor(actions.DefaultConfig(), actions.NewOSLauncher(), logger)
//	outcome := exec.OpenWebpage("https://example.com")
package actions
