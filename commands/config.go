/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package commands

import (
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the settings that can be given in the configuration file.
// Command line flags take precedence.
type Config struct {
	LogLevel      string `toml:"log-level"`
	Workers       int    `toml:"workers"`
	VerifyContent bool   `toml:"verify-content"`
}

func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		Workers:  runtime.NumCPU(),
	}
}

func (c *Config) load(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrapf(err, "failed to load config %s", path)
	}
	for _, key := range md.Undecoded() {
		logrus.WithField("key", key.String()).Warn("unknown configuration key")
	}
	return nil
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log-level")
	}
	return nil
}
