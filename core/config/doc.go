// Package config loads client settings from a .env file, an optional YAML
// file and the environment, in increasing order of precedence.
//
//	cfg, err := config.Load("aistats.yaml")
//	if err != nil {
//		return err
//	}
//	c, err := cfg.NewClient()
package config
