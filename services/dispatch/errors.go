package dispatch

import (
	"fmt"

	"saaam-quantumgate/pkg/errutil"
)

func errRateLimitExceeded() error {
	return errutil.TooManyRequest("rate limit exceeded; retry after backoff")
}

func errFeatureNotEntitled(feature string) error {
	return errutil.New(errutil.StatusFeatureNotEntitled,
		fmt.Sprintf("feature %q is not entitled on this license tier", feature))
}

func errMissingFeature() error {
	return errutil.ValidationFailed("required_feature must not be empty")
}
