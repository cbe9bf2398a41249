// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package lineproto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wavefronthq/wavefront-sdk-go/internal/sanitize"
	"github.com/wavefronthq/wavefront-sdk-go/internal/werr"
)

var errInvalidArgument = werr.ErrInvalidArgument

// MetricLine formats a single metric point as
// `<name> <value> [<timestamp>] source=<source> [tags...]\n`.
//
//	MetricLine("new-york.power.usage", 42422, &ts, "localhost",
//	    map[string]string{"datacenter": "dc1"}, "defaultSource")
//	=> `"new-york.power.usage" 42422.0 1493773500 source="localhost" "datacenter"="dc1"` + "\n"
func MetricLine(name string, value float64, timestamp *int64, source string, tags map[string]string, defaultSource string) (string, error) {
	if sanitize.IsBlank(name) {
		return "", fmt.Errorf("%w: metric name cannot be blank", errInvalidArgument)
	}
	if sanitize.IsBlank(source) {
		source = defaultSource
	}
	var b strings.Builder
	b.WriteString(sanitize.Name(name))
	b.WriteByte(' ')
	b.WriteString(formatFloat(value))
	if timestamp != nil {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(*timestamp, 10))
	}
	b.WriteString(" source=")
	b.WriteString(sanitize.Value(source))
	if err := writeSortedTags(&b, tags, "Metric"); err != nil {
		return "", err
	}
	b.WriteByte('\n')
	return b.String(), nil
}

// formatFloat renders a float64 the way the Wavefront wire format
// requires: always with a decimal point, even for integral values
// (e.g. "42422.0", never "42422").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func writeSortedTags(b *strings.Builder, tags map[string]string, kind string) error {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := tags[k]
		if sanitize.IsBlank(k) {
			return fmt.Errorf("%w: %s tag key cannot be blank", errInvalidArgument, kind)
		}
		if sanitize.IsBlank(v) {
			return fmt.Errorf("%w: %s tag value cannot be blank", errInvalidArgument, kind)
		}
		b.WriteByte(' ')
		b.WriteString(sanitize.Name(k))
		b.WriteByte('=')
		b.WriteString(sanitize.Value(v))
	}
	return nil
}
