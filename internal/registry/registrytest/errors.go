package registrytest

import "github.com/pkg/errors"

var errNotAuthoritative = errors.New("registrytest: registry configured to fail search for this coordinate")

var errArtifactMissing = errors.New("registrytest: no artifact registered for this coordinate and version")
