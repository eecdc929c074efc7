package stream

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the YAML configuration of the streamer.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		Topics   struct {
			Stream string `yaml:"stream"`
			Events string `yaml:"events"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Stream struct {
		Pixels    int           `yaml:"pixels"`
		FrameRate float64       `yaml:"frameRate"`
		Duration  time.Duration `yaml:"duration"`
		Loop      bool          `yaml:"loop"`
	} `yaml:"stream"`
	Api struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
	Scene string `yaml:"scene"`
}

// DefaultConfig returns the values used for anything a config file leaves
// out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledtimeline"
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Mqtt.Topics.Events = "home/xmastree/events"
	c.Stream.Pixels = 500
	c.Stream.FrameRate = 30
	c.Stream.Duration = 10 * time.Second
	c.Stream.Loop = true
	c.Api.Listen = ":3000"
	c.Scene = "scene.yaml"
	return c
}

// ReadConfig decodes YAML from r over the defaults.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// LoadConfig reads the config file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// Validate checks the values the streamer cannot run without.
func (c Config) Validate() error {
	switch {
	case c.Stream.Pixels <= 0 || c.Stream.Pixels > 0xffff:
		return fmt.Errorf("stream.pixels must be in 1..65535, got %d", c.Stream.Pixels)
	case c.Stream.FrameRate <= 0:
		return fmt.Errorf("stream.frameRate must be positive, got %g", c.Stream.FrameRate)
	case c.Stream.Duration <= 0:
		return fmt.Errorf("stream.duration must be positive, got %s", c.Stream.Duration)
	}
	return nil
}

// FrameInterval is the time between two published frames.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Stream.FrameRate)
}
