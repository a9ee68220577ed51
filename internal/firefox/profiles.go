package firefox

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lotas/tabstash/internal/types"
)

// FindFirefoxDir returns the platform's Firefox data directory, or "" when
// it is unknown.
func FindFirefoxDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".mozilla", "firefox")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Firefox")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Mozilla", "Firefox")
		}
	}
	return ""
}

// iniProfiles is what profiles.ini declares before paths are resolved.
type iniProfiles struct {
	profiles []types.Profile
	// Default= values of [Install...] sections; newer Firefox marks the
	// profile in use there instead of on the profile itself.
	installDefaults map[string]bool
}

func parseINI(r io.Reader) (iniProfiles, error) {
	out := iniProfiles{installDefaults: make(map[string]bool)}
	var current *types.Profile
	inInstall := false

	flush := func() {
		if current != nil {
			out.profiles = append(out.profiles, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			section := line[1 : len(line)-1]
			inInstall = strings.HasPrefix(section, "Install")
			if strings.HasPrefix(section, "Profile") {
				current = &types.Profile{}
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch {
		case inInstall && key == "Default":
			out.installDefaults[value] = true
		case current == nil:
		case key == "Name":
			current.Name = value
		case key == "Path":
			current.Path = value
		case key == "IsRelative":
			current.IsRelative = value == "1"
		case key == "Default":
			current.IsDefault = value == "1"
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return iniProfiles{}, fmt.Errorf("scan profiles.ini: %w", err)
	}
	return out, nil
}

// hasSession reports whether a profile directory holds a session file.
func hasSession(profileDir string) bool {
	backupDir := filepath.Join(profileDir, "sessionstore-backups")
	for _, name := range sessionFiles {
		if _, err := os.Stat(filepath.Join(backupDir, name)); err == nil {
			return true
		}
	}
	return false
}

// ParseProfilesINI reads profiles.ini and returns the profiles that have a
// session file to read tabs from. Relative paths are resolved against
// firefoxDir.
func ParseProfilesINI(iniPath, firefoxDir string) ([]types.Profile, error) {
	f, err := os.Open(iniPath)
	if err != nil {
		return nil, fmt.Errorf("open profiles.ini: %w", err)
	}
	defer f.Close()

	ini, err := parseINI(f)
	if err != nil {
		return nil, err
	}

	var usable []types.Profile
	for _, p := range ini.profiles {
		if ini.installDefaults[p.Path] {
			p.IsDefault = true
		}
		if p.IsRelative {
			p.Path = filepath.Join(firefoxDir, filepath.FromSlash(p.Path))
		}
		if hasSession(p.Path) {
			usable = append(usable, p)
		}
	}
	return usable, nil
}

// DiscoverProfiles finds and parses Firefox profiles on this system.
func DiscoverProfiles() ([]types.Profile, error) {
	dir := FindFirefoxDir()
	if dir == "" {
		return nil, fmt.Errorf("could not find Firefox directory for %s", runtime.GOOS)
	}
	return ParseProfilesINI(filepath.Join(dir, "profiles.ini"), dir)
}

// SelectProfile picks a profile by name. An empty name picks the default
// profile, or the first one when none is marked default.
func SelectProfile(profiles []types.Profile, name string) (types.Profile, error) {
	if len(profiles) == 0 {
		return types.Profile{}, errors.New("no Firefox profiles found")
	}
	if name == "" {
		for _, p := range profiles {
			if p.IsDefault {
				return p, nil
			}
		}
		return profiles[0], nil
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
		names = append(names, p.Name)
	}
	return types.Profile{}, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(names, ", "))
}
