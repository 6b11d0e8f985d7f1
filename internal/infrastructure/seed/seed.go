package seed

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"moderator/internal/errs"
	"moderator/internal/ports"
)

// LoadFile reads a moderation configuration; the extension picks the format.
func LoadFile(path string) (ports.ModerationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ports.ModerationConfig{}, errs.Wrapf(err, "read seed file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeTOML(raw)
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	default:
		return ports.ModerationConfig{}, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

func DecodeTOML(raw []byte) (ports.ModerationConfig, error) {
	var cfg ports.ModerationConfig
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return ports.ModerationConfig{}, errs.Wrap(err, "decode toml seed")
	}
	return cfg, nil
}

func DecodeYAML(raw []byte) (ports.ModerationConfig, error) {
	var cfg ports.ModerationConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return ports.ModerationConfig{}, errs.Wrap(err, "decode yaml seed")
	}
	return cfg, nil
}
