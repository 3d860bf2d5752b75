package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/benoitkugler/svgconv/svgconv"
)

// defaultConfigFile is looked up in the working directory
// when no --config flag is given.
const defaultConfigFile = "svgconv.toml"

// fileConfig is the content of a configuration file:
//
//	[convert]
//	output_dir = "out"
//	size_mode = "exact"
//	width = 64
//	height = 64
//	crop = true
//	background = "#ffffff"
type fileConfig struct {
	Convert svgconv.Request `toml:"convert"`
}

// loadConfig reads the configuration at `path`, or defaultConfigFile
// when `path` is empty. Only an explicit path is required to exist.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fileConfig{}, fmt.Errorf("reading config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
