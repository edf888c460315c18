package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speech engine: auto, espeak, say or mock
# auto picks mock in CI, espeak on Linux and say on macOS
engine: "auto"
# voice list retries before giving up (0-10)
max_attempts: 10
# wait before each voice list query
retry_delay: "100ms"

# Request properties. Leave unset to keep the engine's own defaults.
# voice: "English_(America)"
# lang: "en-US"
# volume: 1.0  # 0.0 to 1.0
# pitch: 1.0   # 0.0 to 2.0
# rate: 1.0    # 0.1 to 10.0

# espeak-ng / espeak settings
espeak:
  # binary: "/usr/bin/espeak-ng"
  # device: espeak plays the audio itself; oto: play through basictts
  playback: "device"
  list_timeout: "5s"

# macOS say settings
say:
  binary: "say"
  list_timeout: "5s"

# mock engine settings (for testing)
mock:
  voices: ["Mock Voice 1", "Mock Voice 2", "Mock Voice 3"]
  # empty voice lists returned before the voices above
  empty_queries: 0
  # end, error or silent
  outcome: "end"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the basictts config file",
	Long:    paragraph(fmt.Sprintf("\n%s the basictts config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("basictts config\nbasictts config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("basictts", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
