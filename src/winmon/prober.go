package winmon

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// guiHints filters the process table down to likely windowed applications.
// Best-effort only: the prober cannot see window geometry, so it detects
// application churn (launch/quit) rather than individual window moves.
var guiHints = []string{
	".app/", "\\program files", "applications", "electron",
}

// ProcessProber snapshots running processes via gopsutil. It reports every
// process whose executable path looks like a desktop application; platform
// accessibility collaborators provide the focused entry when available.
type ProcessProber struct{}

func (ProcessProber) Snapshot() ([]WindowInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	infos := make([]WindowInfo, 0, len(procs))
	for _, p := range procs {
		exe, err := p.Exe()
		if err != nil || exe == "" {
			continue
		}
		if !looksWindowed(exe) {
			continue
		}
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		infos = append(infos, WindowInfo{App: name})
	}
	return infos, nil
}

func looksWindowed(exe string) bool {
	lower := strings.ToLower(exe)
	for _, hint := range guiHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
