// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

import "github.com/wavefronthq/wavefront-sdk-go/internal/heartbeat"

// heartbeatAdapter narrows a Sender down to the single-method capability
// internal/heartbeat depends on, translating its Unix-seconds timestamp
// into the pointer form SendMetric expects.
type heartbeatAdapter struct {
	metric func(name string, value float64, timestamp *int64, source string, tags map[string]string) error
}

func (h heartbeatAdapter) SendMetric(name string, value float64, timestamp int64, source string, tags map[string]string) error {
	ts := timestamp
	return h.metric(name, value, &ts, source, tags)
}

// startHeartbeat returns nil when no components were configured via
// ApplicationIdentity.
func startHeartbeat(cfg config, source string, sendMetric func(name string, value float64, timestamp *int64, source string, tags map[string]string) error) *heartbeat.Service {
	if len(cfg.heartbeatComponents) == 0 {
		return nil
	}
	return heartbeat.New(heartbeatAdapter{metric: sendMetric}, cfg.appTags, cfg.heartbeatComponents, source)
}
