package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
)

const initHeader = `# assetstager configuration
# Paths are relative to root, which is relative to this file.
# ${VAR} references are expanded from the environment, .env.local and .env.
`

// Init writes an example configuration file containing the built-in manifest.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.NewError(derrors.CategoryAlreadyExists, "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(example); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := enc.Close(); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return derrors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
