// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package version holds the SDK's compile-time identity, usable for
// user-agent style diagnostics. Nothing in the SDK sends it on the wire.
package version

// SDKVersion and Language identify this binding. Language names the
// host language; the self-metrics prefix carries its own fixed platform
// tag and does not use this constant.
const (
	SDKVersion = "3.0.0"
	Language   = "go"
)
