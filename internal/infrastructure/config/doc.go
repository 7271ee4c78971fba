// Package config handles loading and validating Relay Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The shared authorisation secret is only ever read from the RELAY_SECRET
//     environment variable; it has no YAML key and no default value
//   - A missing secret is a fatal configuration error (the service fails
//     closed rather than starting unauthenticated)
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Relay.SupportedGPIOPins)
package config
