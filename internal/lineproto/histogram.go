// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package lineproto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wavefronthq/wavefront-sdk-go/internal/sanitize"
)

var granularityOrder = []Granularity{MinuteGranularity, HourGranularity, DayGranularity}

// HistogramLine formats one line per granularity (ordered minute, hour,
// day), joined by '\n', with a trailing '\n':
//
//	!M [<timestamp>] #<count> <mean> [...] <name> source=<source> [tags]
func HistogramLine(name string, centroids []Centroid, granularities map[Granularity]struct{}, timestamp *int64, source string, tags map[string]string, defaultSource string) (string, error) {
	if sanitize.IsBlank(name) {
		return "", fmt.Errorf("%w: histogram name cannot be blank", errInvalidArgument)
	}
	if len(granularities) == 0 {
		return "", fmt.Errorf("%w: histogram granularities cannot be empty", errInvalidArgument)
	}
	if len(centroids) == 0 {
		return "", fmt.Errorf("%w: a distribution must have at least one centroid", errInvalidArgument)
	}
	if sanitize.IsBlank(source) {
		source = defaultSource
	}

	var lines []string
	for _, g := range granularityOrder {
		if _, ok := granularities[g]; !ok {
			continue
		}
		var b strings.Builder
		b.WriteString(string(g))
		if timestamp != nil {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatInt(*timestamp, 10))
		}
		for _, c := range centroids {
			b.WriteString(" #")
			b.WriteString(strconv.FormatInt(c.Count, 10))
			b.WriteByte(' ')
			b.WriteString(formatFloat(c.Mean))
		}
		b.WriteByte(' ')
		b.WriteString(sanitize.Name(name))
		b.WriteString(" source=")
		b.WriteString(sanitize.Value(source))
		if err := writeSortedTags(&b, tags, "Histogram"); err != nil {
			return "", err
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n") + "\n", nil
}
