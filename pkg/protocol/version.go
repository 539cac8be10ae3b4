package protocol

// ProtocolVersion represents the MCP protocol version to use.
type ProtocolVersion string

const (
	// ProtocolVersion20241105 represents the 2024-11-05 MCP specification.
	ProtocolVersion20241105 ProtocolVersion = "2024-11-05"

	// ProtocolVersion20250326 represents the 2025-03-26 MCP specification.
	ProtocolVersion20250326 ProtocolVersion = "2025-03-26"

	// LatestProtocolVersion is offered when the client asks for a version we don't know.
	LatestProtocolVersion = ProtocolVersion20250326
)

// SupportedProtocolVersions lists every version the server can speak, newest first.
var SupportedProtocolVersions = []ProtocolVersion{
	ProtocolVersion20250326,
	ProtocolVersion20241105,
}

// NegotiateVersion echoes the requested version if supported, otherwise the latest one.
func NegotiateVersion(requested string) ProtocolVersion {
	for _, v := range SupportedProtocolVersions {
		if string(v) == requested {
			return v
		}
	}
	return LatestProtocolVersion
}
