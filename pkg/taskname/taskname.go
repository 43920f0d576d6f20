package taskname

const (
	LicenseExpire      = "license:expire"
	LicenseExpireSweep = "license:expire_sweep"
)
