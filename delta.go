// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import "github.com/wavefronthq/wavefront-sdk-go/internal/sanitize"

// deltaCounterName prefixes name with the delta-counter sentinel unless
// it is already so prefixed.
func deltaCounterName(name string) string {
	if sanitize.HasDeltaPrefix(name) {
		return name
	}
	return string(sanitize.DeltaPrefixMinus) + name
}
