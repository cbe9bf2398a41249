// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

package lineproto

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wavefronthq/wavefront-sdk-go/internal/sanitize"
)

type eventJSON struct {
	Name        string            `json:"name"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Hosts       []string          `json:"hosts,omitempty"`
	StartTime   int64             `json:"startTime"`
	EndTime     int64             `json:"endTime"`
	Tags        []string          `json:"tags,omitempty"`
}

func validateEvent(e EventData) error {
	if sanitize.IsBlank(e.Name) {
		return fmt.Errorf("%w: event name cannot be blank", errInvalidArgument)
	}
	for _, t := range e.Tags {
		if sanitize.IsBlank(t) {
			return fmt.Errorf("%w: event tag cannot be blank", errInvalidArgument)
		}
	}
	for k, v := range e.Annotations {
		if sanitize.IsBlank(k) || sanitize.IsBlank(v) {
			return fmt.Errorf("%w: event annotation key/value cannot be blank", errInvalidArgument)
		}
	}
	return nil
}

func eventEndMillis(e EventData) int64 {
	if e.EndMillis != nil {
		return *e.EndMillis
	}
	return e.StartMillis + 1
}

// EventJSON renders an event for direct ingestion as the JSON body the
// events API expects.
func EventJSON(e EventData, defaultSource string) (string, error) {
	if err := validateEvent(e); err != nil {
		return "", err
	}
	source := e.Source
	if sanitize.IsBlank(source) {
		source = defaultSource
	}
	payload := eventJSON{
		Name:        e.Name,
		Annotations: e.Annotations,
		Hosts:       []string{source},
		StartTime:   e.StartMillis,
		EndTime:     eventEndMillis(e),
		Tags:        e.Tags,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EventLine renders an event for proxy ingestion as:
//
//	@Event <startMs> <endMs> "<name>" <annotationKey>="<annotationValue>" ...
//	host="<source>" tag="<t>" ...\n
func EventLine(e EventData, defaultSource string) (string, error) {
	if err := validateEvent(e); err != nil {
		return "", err
	}
	source := e.Source
	if sanitize.IsBlank(source) {
		source = defaultSource
	}

	var b strings.Builder
	b.WriteString("@Event ")
	b.WriteString(strconv.FormatInt(e.StartMillis, 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(eventEndMillis(e), 10))
	b.WriteByte(' ')
	b.WriteString(sanitize.Value(e.Name))

	annotationKeys := make([]string, 0, len(e.Annotations))
	for k := range e.Annotations {
		annotationKeys = append(annotationKeys, k)
	}
	sort.Strings(annotationKeys)
	for _, k := range annotationKeys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(sanitize.Value(e.Annotations[k]))
	}

	b.WriteString(" host=")
	b.WriteString(sanitize.Value(source))

	for _, t := range e.Tags {
		b.WriteString(" tag=")
		b.WriteString(sanitize.Value(t))
	}
	b.WriteByte('\n')
	return b.String(), nil
}
