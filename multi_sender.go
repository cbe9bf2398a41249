// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package wavefront

// multiSender fans every call out to a fixed list of senders, in order,
// returning the first error encountered (but still attempting every
// sender, matching the reference behavior of never letting one
// destination's failure block delivery to the others).
type multiSender struct {
	senders []Sender
}

// newMultiSender wraps two or more senders behind a single Sender. Callers
// should use a factory rather than construct this directly.
func newMultiSender(senders []Sender) Sender {
	return &multiSender{senders: senders}
}

func (m *multiSender) SendMetric(name string, value float64, timestamp *int64, source string, tags map[string]string) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendMetric(name, value, timestamp, source, tags); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) SendMetricNow(name string, value float64, source string, tags map[string]string) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendMetricNow(name, value, source, tags); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) SendDeltaCounter(name string, value float64, source string, tags map[string]string, timestamp int64) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendDeltaCounter(name, value, source, tags, timestamp); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) SendDistribution(name string, centroids []Centroid, granularities map[Granularity]struct{}, timestamp *int64, source string, tags map[string]string) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendDistribution(name, centroids, granularities, timestamp, source, tags); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) SendDistributionNow(name string, centroids []Centroid, granularities map[Granularity]struct{}, source string, tags map[string]string) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendDistributionNow(name, centroids, granularities, source, tags); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) SendSpan(span Span) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendSpan(span); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) SendEvent(event Event) error {
	var first error
	for _, s := range m.senders {
		if err := s.SendEvent(event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) FlushNow() error {
	var first error
	for _, s := range m.senders {
		if err := s.FlushNow(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSender) Close() {
	for _, s := range m.senders {
		s.Close()
	}
}

func (m *multiSender) FailureCount() int64 {
	var total int64
	for _, s := range m.senders {
		total += s.FailureCount()
	}
	return total
}
