package throttle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownProfile is returned by Profile for a name it does not know.
var ErrUnknownProfile = errors.New("unknown throttle profile")

// Profile names.
const (
	// ProfileSlowNetwork is the default for scenario runs.
	ProfileSlowNetwork = "slow-network"
	// ProfileNone applies nothing and leaves the driver's network as is.
	ProfileNone = "none"
)

var profiles = map[string]func() Conditions{
	ProfileSlowNetwork: SlowNetwork,
	ProfileNone:        func() Conditions { return Conditions{} },
}

// SlowNetwork returns 10000 B/s down with 5s of latency. Upload and offline
// are set explicitly so the first Apply pins every field.
func SlowNetwork() Conditions {
	return Conditions{
		DownloadThroughput: Int(10000),
		UploadThroughput:   Int(-1),
		Latency:            Duration(5 * time.Second),
		Offline:            Bool(false),
	}
}

// Profile returns the conditions registered under name.
func Profile(name string) (Conditions, error) {
	build, ok := profiles[name]
	if !ok {
		return Conditions{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownProfile, name, ProfileNames())
	}
	return build(), nil
}

// ProfileNames lists the registered profile names in order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
