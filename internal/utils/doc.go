// Package utils houses the ambient plumbing shared across prmend commands:
// the Viper-backed ConfigurationLoader, the zap LoggerFactory, command
// context accessors, and an output writer that flushes after every write.
package utils
