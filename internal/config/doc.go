// Package config loads the depstate CLI configuration.
//
// Values are resolved in order, later sources winning:
//
//  1. defaults (New)
//  2. depstate.json, depstate.yaml or depstate.yml in the working directory,
//     or the file named by --config
//  3. DEPSTATE_* environment variables
//  4. command-line flags (applied by the CLI)
//
// Example depstate.yaml:
//
//	debug: true
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  namespace: myapp
//	render:
//	  maxFlushPasses: 20
//	trace:
//	  endpoint: http://localhost:4318
package config
