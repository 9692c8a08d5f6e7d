// Package throttle emulates degraded network conditions on a browser session
// through the Chrome DevTools Protocol.
package throttle

import (
	"fmt"
	"strings"
	"time"
)

// EmulateNetworkConditionsMethod is the DevTools command that applies Conditions.
const EmulateNetworkConditionsMethod = "Network.emulateNetworkConditions"

// Conditions is a sparse set of network emulation parameters. A nil field
// means "leave the current driver setting alone".
type Conditions struct {
	// DownloadThroughput is the maximal aggregated download throughput in bytes/sec.
	DownloadThroughput *int
	// UploadThroughput is the maximal aggregated upload throughput in bytes/sec.
	UploadThroughput *int
	Latency          *time.Duration
	Offline          *bool
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Duration returns a pointer to v.
func Duration(v time.Duration) *time.Duration { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// IsZero reports whether no field is set.
func (c Conditions) IsZero() bool {
	return c.DownloadThroughput == nil && c.UploadThroughput == nil && c.Latency == nil && c.Offline == nil
}

// Merge returns c with every field present in update overriding c's value.
func (c Conditions) Merge(update Conditions) Conditions {
	merged := c
	if update.DownloadThroughput != nil {
		merged.DownloadThroughput = Int(*update.DownloadThroughput)
	}
	if update.UploadThroughput != nil {
		merged.UploadThroughput = Int(*update.UploadThroughput)
	}
	if update.Latency != nil {
		merged.Latency = Duration(*update.Latency)
	}
	if update.Offline != nil {
		merged.Offline = Bool(*update.Offline)
	}
	return merged
}

// Payload builds the Network.emulateNetworkConditions parameters. Fields that
// are not set are omitted entirely. Latency is sent in milliseconds.
func (c Conditions) Payload() map[string]any {
	payload := make(map[string]any, 4)
	if c.DownloadThroughput != nil {
		payload["downloadThroughput"] = *c.DownloadThroughput
	}
	if c.UploadThroughput != nil {
		payload["uploadThroughput"] = *c.UploadThroughput
	}
	if c.Latency != nil {
		payload["latency"] = c.Latency.Milliseconds()
	}
	if c.Offline != nil {
		payload["offline"] = *c.Offline
	}
	return payload
}

func (c Conditions) String() string {
	if c.IsZero() {
		return "unchanged"
	}
	var parts []string
	if c.DownloadThroughput != nil {
		parts = append(parts, fmt.Sprintf("download=%dB/s", *c.DownloadThroughput))
	}
	if c.UploadThroughput != nil {
		parts = append(parts, fmt.Sprintf("upload=%dB/s", *c.UploadThroughput))
	}
	if c.Latency != nil {
		parts = append(parts, fmt.Sprintf("latency=%s", *c.Latency))
	}
	if c.Offline != nil {
		parts = append(parts, fmt.Sprintf("offline=%t", *c.Offline))
	}
	return strings.Join(parts, " ")
}
