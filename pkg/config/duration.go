package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration in the config file. It accepts Go duration
// strings ("10s", "6h") or a bare integer number of seconds.
type Duration struct {
	time.Duration
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Duration) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case int64:
		return d.set(time.Duration(v)*time.Second, fmt.Sprint(v))
	default:
		return fmt.Errorf("duration: unsupported value %v (%T)", v, v)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler, used for environment
// values.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	return d.set(parsed, string(text))
}

func (d *Duration) set(v time.Duration, raw string) error {
	if v < 0 {
		return fmt.Errorf("duration: %s is negative", raw)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
