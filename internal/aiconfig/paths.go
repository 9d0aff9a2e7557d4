package aiconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the config document name inside the app directory.
const FileName = "ai_config.json"

// DefaultPath returns the platform config file location:
//
//	macOS:   ~/Library/Application Support/NeuroNexus/ai_config.json
//	Windows: %APPDATA%\NeuroNexus\ai_config.json
//	other:   $XDG_CONFIG_HOME/neuronexus/ai_config.json (~/.config fallback)
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, appDirName(runtime.GOOS), FileName), nil
}

func appDirName(goos string) string {
	switch goos {
	case "darwin", "windows":
		return "NeuroNexus"
	default:
		return "neuronexus"
	}
}
