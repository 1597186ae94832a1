// Package config loads dvue.json or dvue.yaml project configuration.
//
// # Configuration File Structure
//
//	name: counter
//	template: index.html
//	data: data.json
//	el: "#app"
//	methods:
//	  add: {action: increment, key: count}
//	  reset: {action: set, key: count, value: 0}
//	server:
//	  host: localhost
//	  port: 3000
//	  heartbeat: 30s
//	metrics:
//	  enabled: true
//	  path: /metrics
//	log:
//	  level: debug
//	s3:
//	  region: eu-west-1
//
// Template and data may be local paths, resolved against the config
// file's directory, or s3://bucket/key URIs.
//
// DVUE_HOST, DVUE_PORT and DVUE_LOG_LEVEL override the file.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Address:", cfg.Address())
package config
