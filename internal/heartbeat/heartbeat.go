// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package heartbeat periodically emits the well-known ~component.heartbeat
// gauge so server-side dashboards can tell a reporting application apart
// from one that has stopped sending data entirely.
package heartbeat

import (
	"sync"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
)

const (
	heartbeatMetric = "~component.heartbeat"
	nullTagValue    = "none"

	defaultInterval = 5 * time.Minute
)

// Sender is the minimal capability the heartbeater needs from its
// owning client.
type Sender interface {
	SendMetric(name string, value float64, timestamp int64, source string, tags map[string]string) error
}

// ApplicationTags identifies the reporting application for heartbeat and
// other ambient tagging purposes.
type ApplicationTags struct {
	Application string
	Cluster     string
	Service     string
	Shard       string
	CustomTags  map[string]string
}

func (t ApplicationTags) orNull(v string) string {
	if v == "" {
		return nullTagValue
	}
	return v
}

// Service reports one heartbeat per registered component tag set, plus
// one-shot custom tag sets registered via ReportCustomTags.
type Service struct {
	sender   Sender
	source   string
	interval time.Duration

	tagSets []map[string]string

	mu         sync.Mutex
	customTags []map[string]string
	closed     bool
	done       chan struct{}
}

// New constructs a heartbeat service for the given components and starts
// reporting immediately.
func New(sender Sender, tags ApplicationTags, components []string, source string) *Service {
	s := &Service{sender: sender, source: source, interval: defaultInterval, done: make(chan struct{})}
	for _, component := range components {
		metricTags := map[string]string{
			"application": tags.Application,
			"cluster":     tags.orNull(tags.Cluster),
			"service":     tags.Service,
			"shard":       tags.orNull(tags.Shard),
			"component":   component,
		}
		for k, v := range tags.CustomTags {
			metricTags[k] = v
		}
		s.tagSets = append(s.tagSets, metricTags)
	}
	s.report()
	go s.loop()
	return s
}

// ReportCustomTags registers a one-shot tag set: it is emitted exactly
// once, on the next report, then discarded.
func (s *Service) ReportCustomTags(tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customTags = append(s.customTags, tags)
}

func (s *Service) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.report()
		case <-s.done:
			return
		}
	}
}

func (s *Service) report() {
	now := time.Now().Unix()
	for _, tags := range s.tagSets {
		if err := s.sender.SendMetric(heartbeatMetric, 1.0, now, s.source, tags); err != nil {
			log.Warn("cannot report %s to Wavefront: %v", heartbeatMetric, err)
		}
	}

	s.mu.Lock()
	drained := s.customTags
	s.customTags = nil
	s.mu.Unlock()
	for _, tags := range drained {
		if err := s.sender.SendMetric(heartbeatMetric, 1.0, now, s.source, tags); err != nil {
			log.Warn("cannot report %s to Wavefront: %v", heartbeatMetric, err)
		}
	}
}

// Close cancels the timer. Idempotent.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.done)
}
