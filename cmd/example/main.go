// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Command example wires a Wavefront sender and emits one of each
// telemetry family: a gauge, a delta counter, a histogram distribution,
// a traced span with a span log, and an event.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	wavefront "github.com/wavefronthq/wavefront-sdk-go"
	"github.com/wavefronthq/wavefront-sdk-go/histogram"
	"github.com/wavefronthq/wavefront-sdk-go/internal/heartbeat"
)

func main() {
	factory := wavefront.NewFactory()
	if err := factory.AddClient(
		"https://example-token@cluster.wavefront.com",
		wavefront.Source("example-host"),
		wavefront.Tags(map[string]string{"env": "demo"}),
		wavefront.ApplicationIdentity(
			heartbeat.ApplicationTags{Application: "example-app", Service: "example-service"},
			"sender",
		),
	); err != nil {
		fmt.Fprintln(os.Stderr, "add client:", err)
		os.Exit(1)
	}

	sender := factory.GetClient()
	defer sender.Close()

	if err := sender.SendMetricNow("example.request.latency", 42.0, "", nil); err != nil {
		fmt.Fprintln(os.Stderr, "send metric:", err)
	}

	if err := sender.SendDeltaCounter("example.request.count", 1, "", nil, time.Now().Unix()); err != nil {
		fmt.Fprintln(os.Stderr, "send delta counter:", err)
	}

	clock := time.Now().UnixMilli()
	h := histogram.NewWavefrontHistogram(func() int64 { return clock })
	worker := histogram.NewWorkerHandle()
	h.Update(worker, 12.5)
	h.Update(worker, 17.0)
	// Only finished minutes are flushed, so step the clock into the next one.
	clock += 60000
	for _, d := range h.FlushDistributions() {
		granularities := map[wavefront.Granularity]struct{}{wavefront.MinuteGranularity: {}}
		ts := d.TimestampMillis / 1000
		if err := sender.SendDistribution("example.request.size", d.Centroids, granularities, &ts, "", nil); err != nil {
			fmt.Fprintln(os.Stderr, "send distribution:", err)
		}
	}

	traceID, spanID := uuid.New(), uuid.New()
	span := wavefront.Span{
		Name:        "handleRequest",
		StartMillis: time.Now().UnixMilli(),
		DurationMs:  125,
		Source:      "example-host",
		TraceID:     traceID,
		SpanID:      spanID,
		Tags:        []wavefront.SpanTag{{Key: "application", Value: "example-app"}},
		SpanLogs: []wavefront.SpanLog{
			{TimestampMicros: time.Now().UnixMicro(), Fields: map[string]string{"event": "cache-miss"}},
		},
	}
	if err := sender.SendSpan(span); err != nil {
		fmt.Fprintln(os.Stderr, "send span:", err)
	}

	end := time.Now().UnixMilli()
	if err := sender.SendEvent(wavefront.Event{
		Name:        "deployment",
		StartMillis: end - 1000,
		EndMillis:   &end,
		Tags:        []string{"example-host"},
		Annotations: map[string]string{"severity": "info"},
	}); err != nil {
		fmt.Fprintln(os.Stderr, "send event:", err)
	}

	if err := sender.FlushNow(); err != nil {
		fmt.Fprintln(os.Stderr, "flush:", err)
	}
}
