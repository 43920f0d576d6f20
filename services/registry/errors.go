package registry

import "saaam-quantumgate/pkg/errutil"

func errInvalidRequest(msg string) error {
	return errutil.ValidationFailed(msg)
}

// The message never reveals whether the key was well-formed, absent or
// revoked.
func errInvalidCredential() error {
	return errutil.Unauthorized("invalid api key")
}

func errExpiredLicense() error {
	return errutil.New(errutil.StatusExpiredLicense, "license has expired")
}

func errKeyCollisionExhausted() error {
	return errutil.Internal("license key derivation retries exhausted; check entropy source")
}
