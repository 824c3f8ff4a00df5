// Package hostinfo collects a snapshot of the host machine for session
// records in the power log.
package hostinfo

import (
	"context"

	"github.com/shirou/gopsutil/v3/host"
)

// Info is a snapshot of the machine the daemon runs on. It is recorded
// once per session so a trace pulled off a device identifies where it
// came from.
type Info struct {
	Hostname        string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	KernelArch      string
	UptimeSeconds   uint64
}

// Collect gathers host details. A failure is not fatal to the daemon; the
// caller decides whether a session record without host details is
// acceptable.
func Collect(ctx context.Context) (*Info, error) {
	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	return &Info{
		Hostname:        h.Hostname,
		OS:              h.OS,
		Platform:        h.Platform,
		PlatformVersion: h.PlatformVersion,
		KernelVersion:   h.KernelVersion,
		KernelArch:      h.KernelArch,
		UptimeSeconds:   h.Uptime,
	}, nil
}
