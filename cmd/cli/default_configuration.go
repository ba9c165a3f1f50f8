package cli

import _ "embed"

//go:embed default_config.yaml
var defaultConfigurationYAML []byte

// EmbeddedDefaultConfiguration returns a copy of the baked-in configuration
// document together with its type identifier for the configuration loader.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	configurationCopy := make([]byte, len(defaultConfigurationYAML))
	copy(configurationCopy, defaultConfigurationYAML)
	return configurationCopy, configurationTypeConstant
}
