package simba

// Version is the current release version of the SDK.
const Version = "0.1.0"

// DefaultUserAgent returns the User-Agent value stamped on outgoing requests
// when the configuration does not override it.
func DefaultUserAgent() string {
	return "simba-sdk-go/" + Version
}
