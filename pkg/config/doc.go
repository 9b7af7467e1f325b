// Package config loads environment-driven configuration structs.
//
// Every package that needs settings exposes a Config struct tagged for
// github.com/caarlos0/env. Load parses the process environment (after loading
// an optional .env file once) into such a struct and caches the result per
// type, so repeated calls across packages see the same values.
//
//	var cfg blob.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
