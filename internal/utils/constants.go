package utils

// LoggerInitializationFailedMessageFormat formats the panic message raised when
// the application logger cannot be constructed.
const LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"

// ApplicationExecutionFailedMessage prefixes fatal command execution failures.
const ApplicationExecutionFailedMessage = "lineage execution failed"

// ConfigFileName is the name of the lineage configuration file.
const ConfigFileName = ".lineage.yaml"

// GlobalConfigDirectoryName is the directory under the user's home directory
// that holds the global configuration file.
const GlobalConfigDirectoryName = ".config/lineage"
