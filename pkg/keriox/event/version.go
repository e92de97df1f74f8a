package event

import (
	"fmt"

	"github.com/cvsouth/keri-go/pkg/keriox/kerr"
)

// Dialect identifies which serialization a message frame uses.
type Dialect string

const (
	DialectJSON Dialect = "JSON"
	DialectCBOR Dialect = "CBOR"
	DialectMGPK Dialect = "MGPK"
)

// VersionInfo is the parsed form of the 17-byte version string every frame
// opens with: protocol major/minor version, the serialization dialect, and
// the exact byte length of the frame that follows.
type VersionInfo struct {
	Major   int
	Minor   int
	Dialect Dialect
	Size    int
}

const versionStringLen = 17

// ParseVersionString parses the fixed KERI version string: "KERI" + one
// major digit + one minor digit + a 4-character dialect tag + 6 hex digits
// of frame size + "_".
func ParseVersionString(s string) (VersionInfo, error) {
	if len(s) < versionStringLen {
		return VersionInfo{}, kerr.Malformed("version string too short: %q", s)
	}
	s = s[:versionStringLen]
	if s[0:4] != "KERI" {
		return VersionInfo{}, kerr.Malformed("not a KERI version string: %q", s)
	}
	if s[16] != '_' {
		return VersionInfo{}, kerr.Malformed("version string missing terminator: %q", s)
	}
	major := int(s[4] - '0')
	minor := int(s[5] - '0')
	if major < 0 || major > 9 || minor < 0 || minor > 9 {
		return VersionInfo{}, kerr.Malformed("invalid version digits in %q", s)
	}
	dialect := Dialect(s[6:10])
	switch dialect {
	case DialectJSON, DialectCBOR, DialectMGPK:
	default:
		return VersionInfo{}, kerr.Malformed("unknown dialect %q", dialect)
	}
	var size int
	if _, err := fmt.Sscanf(s[10:16], "%06x", &size); err != nil {
		return VersionInfo{}, kerr.Malformed("invalid size field in %q: %v", s, err)
	}
	return VersionInfo{Major: major, Minor: minor, Dialect: dialect, Size: size}, nil
}

// String renders v back to its 17-byte wire form.
func (v VersionInfo) String() string {
	return fmt.Sprintf("KERI%d%d%s%06x_", v.Major, v.Minor, v.Dialect, v.Size)
}
