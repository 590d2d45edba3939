package computeenv

// CloudProvider identifies a public cloud.
type CloudProvider int

const (
	AWS CloudProvider = iota + 1
	Azure
	GoogleCloud
)

// Valid reports whether p names a known provider.
func (p CloudProvider) Valid() bool {
	return p >= AWS && p <= GoogleCloud
}

// String returns the display name.
func (p CloudProvider) String() string {
	switch p {
	case AWS:
		return "AWS"
	case Azure:
		return "Azure"
	case GoogleCloud:
		return "Google Cloud"
	default:
		return "unknown"
	}
}

// Code returns the OpenTelemetry cloud.provider value.
func (p CloudProvider) Code() string {
	switch p {
	case AWS:
		return "aws"
	case Azure:
		return "azure"
	case GoogleCloud:
		return "gcp"
	default:
		return ""
	}
}

// MarshalText encodes the provider as its OpenTelemetry code.
func (p CloudProvider) MarshalText() ([]byte, error) {
	return []byte(p.Code()), nil
}
