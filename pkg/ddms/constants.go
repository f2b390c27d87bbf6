package ddms

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // All documents valid
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitVersionError    = 11 // Unsupported or missing DDMS version
	ExitInvalidDocument = 12 // Document failed component validation
	ExitMalformedXML    = 13 // Document is not well-formed XML
	ExitSchemaInvalid   = 14 // Document failed XML Schema validation
)

const (
	// DefaultExtendedValue is substituted for optional name elements that are
	// present but blank.
	DefaultExtendedValue = "Unknown"

	// MaxDocumentSize bounds how much a Reader will buffer from one source.
	MaxDocumentSize = 16 * 1024 * 1024

	// DocumentExtension is the file extension the directory scanner reads.
	DocumentExtension = ".xml"
)
