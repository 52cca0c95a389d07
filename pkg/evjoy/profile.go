package evjoy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	EmptyNameErr = fmt.Errorf("empty names are not allowed")
)

// Profile gives human names to the dense button and axis indices of a
// joystick, for display purposes. Entry N names index N; indices beyond
// the list fall back to a generated name.
type Profile struct {
	Name    string   `yaml:"name"`
	Buttons []string `yaml:"buttons"`
	Axes    []string `yaml:"axes"`
}

func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile from %q: %w", path, err)
	}
	p, err := LoadProfileFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return p, nil
}

func LoadProfileFromBytes(yamlBytes []byte) (*Profile, error) {
	p := Profile{}
	err := yaml.Unmarshal(yamlBytes, &p)
	if err != nil {
		return nil, err
	}
	for _, name := range p.Buttons {
		if name == "" {
			return nil, fmt.Errorf("%w: in 'buttons'", EmptyNameErr)
		}
	}
	for _, name := range p.Axes {
		if name == "" {
			return nil, fmt.Errorf("%w: in 'axes'", EmptyNameErr)
		}
	}
	return &p, nil
}

// ButtonName returns the profile name of button i, or "button<i>".
func (p *Profile) ButtonName(i int) string {
	if p != nil && i < len(p.Buttons) {
		return p.Buttons[i]
	}
	return fmt.Sprintf("button%d", i)
}

// AxisName returns the profile name of axis i, or "axis<i>".
func (p *Profile) AxisName(i int) string {
	if p != nil && i < len(p.Axes) {
		return p.Axes[i]
	}
	return fmt.Sprintf("axis%d", i)
}
