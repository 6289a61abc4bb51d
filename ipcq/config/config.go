// Copyright 2025 The hostipc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides the global configuration for the ipcq tool.
//
// Fields are registered as command-line flags through RegisterFlags and
// populated through NewFromFlags. A TOML file named by --config supplies
// values for flags the command line leaves unset, so a machine-wide file
// can pick logging and queue limits while explicit flags still win.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/hostipc/hostipc/ipcq/flag"
	"github.com/hostipc/hostipc/pkg/log"
	"github.com/hostipc/hostipc/pkg/mq"
)

// Config holds configuration shared by all ipcq commands. It is populated
// once during startup and must not change while commands execute.
type Config struct {
	// LogFilename is the file to log to. If empty, the log goes to stderr.
	LogFilename string `flag:"log"`

	// LogFormat is the log file format, "text" or "json".
	LogFormat string `flag:"log-format"`

	// Debug enables debug logging.
	Debug bool `flag:"debug"`

	// AlsoLogToStderr mirrors log records to stderr when a log file is in
	// use.
	AlsoLogToStderr bool `flag:"alsologtostderr"`

	// MaxMsg is the queue depth used when a command creates a queue and no
	// per-command flag overrides it.
	MaxMsg int `flag:"maxmsg"`

	// MsgSize is the message size limit in bytes used when a command
	// creates a queue and no per-command flag overrides it.
	MsgSize int `flag:"msgsize"`

	// Mode holds the permission bits for created queues.
	Mode FileMode `flag:"mode"`

	// ConfigFile is a TOML file supplying values for flags the command
	// line leaves unset. It cannot be set from the file itself.
	ConfigFile string `flag:"config"`
}

// RegisterFlags registers all flags used to populate Config.
func RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.String("log", "", "file path where logs are written; empty means stderr.")
	flagSet.String("log-format", "text", `log format: "text" or "json".`)
	flagSet.Bool("debug", false, "enable debug logging.")
	flagSet.Bool("alsologtostderr", false, "send log records to stderr in addition to the log file.")
	flagSet.Int("maxmsg", mq.DefaultMaxMsg, "queue depth used when a command creates a queue.")
	flagSet.Int("msgsize", mq.DefaultMsgSize, "message size limit in bytes used when a command creates a queue.")
	flagSet.Var(fileModePtr(mq.DefaultMode), "mode", "octal permission bits for created queues.")
	flagSet.String("config", "", "TOML file supplying values for flags not set on the command line.")
}

// NewFromFlags creates a Config with values from the given FlagSet, which
// must already be parsed. When --config names a file, its values are
// applied to every flag the command line left unset.
func NewFromFlags(flagSet *flag.FlagSet) (*Config, error) {
	conf := &Config{}

	obj := reflect.ValueOf(conf).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		name, ok := f.Tag.Lookup("flag")
		if !ok {
			// No flag set for this field.
			continue
		}
		fl := flagSet.Lookup(name)
		if fl == nil {
			panic(fmt.Sprintf("Flag %q not found", name))
		}
		x := reflect.ValueOf(flag.Get(fl.Value))
		obj.Field(i).Set(x)
	}

	if conf.ConfigFile != "" {
		if err := conf.applyFile(flagSet, conf.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// applyFile overlays values from a TOML file onto every flag the command
// line left unset. Values are written through the flag so they go through
// the same parsing as the command line.
func (c *Config) applyFile(flagSet *flag.FlagSet, path string) error {
	var values map[string]any
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("decoding config file %q: %w", path, err)
	}

	set := make(map[string]bool)
	flagSet.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
	})

	for name, value := range values {
		if name == "config" {
			return fmt.Errorf("config file %q cannot set %q", path, name)
		}
		if set[name] {
			// The command line wins.
			continue
		}
		if err := c.Override(flagSet, name, fmt.Sprintf("%v", value)); err != nil {
			return err
		}
	}
	return nil
}

// Override writes a new value to a flag and to the matching Config field,
// using the same parsing rules as the command line.
func (c *Config) Override(flagSet *flag.FlagSet, name string, value string) error {
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		fieldName, ok := f.Tag.Lookup("flag")
		if !ok || fieldName != name {
			// Not a flag field, or flag name doesn't match.
			continue
		}
		fl := flagSet.Lookup(name)
		if fl == nil {
			// Flag must exist if there is a field match above.
			panic(fmt.Sprintf("Flag %q not found", name))
		}

		// Use the flag to convert the string value, using the same rules as
		// the command line for consistency.
		if err := fl.Value.Set(value); err != nil {
			return fmt.Errorf("setting flag %s=%q: %w", name, value, err)
		}
		x := reflect.ValueOf(flag.Get(fl.Value))
		obj.Field(i).Set(x)

		// Validate the config again to ensure it's left in a consistent
		// state.
		return c.validate()
	}
	return fmt.Errorf("flag %q not found. Cannot set it to %q", name, value)
}

// ToFlags returns the flags that correspond to the given Config, skipping
// flags that still hold their default value.
func (c *Config) ToFlags() []string {
	flagSet := flag.NewFlagSet("tmp", flag.ContinueOnError)
	RegisterFlags(flagSet)

	var rv []string
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		name, ok := f.Tag.Lookup("flag")
		if !ok {
			// No flag set for this field.
			continue
		}
		val := getVal(obj.Field(i))

		fl := flagSet.Lookup(name)
		if fl == nil {
			panic(fmt.Sprintf("Flag %q not found", name))
		}
		if val == fl.DefValue {
			continue
		}
		rv = append(rv, fmt.Sprintf("--%s=%s", name, val))
	}
	return rv
}

func getVal(field reflect.Value) string {
	if str, ok := field.Addr().Interface().(fmt.Stringer); ok {
		return str.String()
	}
	switch field.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(field.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(field.Uint(), 10)
	case reflect.String:
		return field.String()
	default:
		panic("unknown type " + field.Kind().String())
	}
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf(`invalid log format %q, must be "text" or "json"`, c.LogFormat)
	}
	if c.MaxMsg < 1 || c.MaxMsg > mq.HardMaxMsg {
		return fmt.Errorf("maxmsg must be between 1 and %d, got %d", mq.HardMaxMsg, c.MaxMsg)
	}
	if c.MsgSize < 1 || c.MsgSize > mq.HardMaxMsgSize {
		return fmt.Errorf("msgsize must be between 1 and %d, got %d", mq.HardMaxMsgSize, c.MsgSize)
	}
	return nil
}

// Log logs the config to the debug log, one field per line.
func (c *Config) Log() {
	if !log.IsLogging(log.Debug) {
		return
	}
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if name, ok := f.Tag.Lookup("flag"); ok {
			log.Debugf("Config.%s (--%s): %s", f.Name, name, getVal(obj.Field(i)))
		} else {
			log.Debugf("Config.%s: %v", f.Name, obj.Field(i).Interface())
		}
	}
}

// FileMode is a flag.Value holding permission bits, formatted in octal the
// way callers write them on the command line.
type FileMode os.FileMode

func fileModePtr(v FileMode) *FileMode {
	return &v
}

// String implements flag.Value.
func (m *FileMode) String() string {
	return fmt.Sprintf("%#o", os.FileMode(*m).Perm())
}

// Get implements flag.Getter.
func (m *FileMode) Get() any {
	return *m
}

// Set implements flag.Value.
func (m *FileMode) Set(v string) error {
	bits, err := strconv.ParseUint(v, 8, 32)
	if err != nil || bits > 0o777 {
		return fmt.Errorf("invalid file mode %q, want octal permission bits", v)
	}
	*m = FileMode(bits)
	return nil
}

// OSFileMode returns the mode as the os package type.
func (m FileMode) OSFileMode() os.FileMode {
	return os.FileMode(m)
}
