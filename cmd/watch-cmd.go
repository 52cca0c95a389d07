package cmd

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/guettli/evjoy/pkg/evjoy"
	"github.com/spf13/cobra"
)

type watchCmdConfig struct {
	ProfileFile string
}

func init() {
	config := watchCmdConfig{}
	watchCmd := &cobra.Command{
		Use:   "watch [flags] device",
		Short: "Connect to one joystick-like evdev device and print consolidated state updates per report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchMain(args[0], config)
		},
		Args: cobra.ExactArgs(1),
	}
	watchCmd.Flags().StringVarP(&config.ProfileFile, "profile", "p", "", "yaml file naming the buttons and axes")
	rootCmd.AddCommand(watchCmd)
}

func watchMain(path string, config watchCmdConfig) error {
	var profile *evjoy.Profile
	if config.ProfileFile != "" {
		p, err := evjoy.LoadProfile(config.ProfileFile)
		if err != nil {
			return err
		}
		profile = p
	}

	dev, err := evjoy.OpenDevice(path)
	if err != nil {
		return err
	}
	dispatcher := evjoy.NewDispatcher(dev)
	filter := evjoy.NewJoystickFilter(dispatcher, dev.Capabilities())

	for i, code := range dev.Capabilities().Codes(evjoy.EV_ABS) {
		params, err := dev.AbsParams(code)
		if err != nil {
			continue
		}
		filter.SetAxisRange(i, params.Min, params.Max)
	}

	filter.AddListener(&statePrinter{
		profile: profile,
		held:    mapset.NewSet[string](),
	})

	if err := dispatcher.Start(); err != nil {
		dev.Close()
		return err
	}
	fmt.Printf("Watching %q: %d buttons, %d axes. Hit enter to quit.\n",
		dev.Name(), len(dev.Capabilities().Codes(evjoy.EV_KEY)), len(dev.Capabilities().Codes(evjoy.EV_ABS)))
	waitForEnterOrEndOfStream(dispatcher)
	return dispatcher.Close()
}

type statePrinter struct {
	profile *evjoy.Profile
	held    mapset.Set[string]
}

func (p *statePrinter) ButtonsChanged(changed []bool, state *evjoy.JoystickState) {
	for i, c := range changed {
		if !c {
			continue
		}
		name := p.profile.ButtonName(i)
		if state.Button(i) {
			p.held.Add(name)
		} else {
			p.held.Remove(name)
		}
	}
	names := p.held.ToSlice()
	sort.Strings(names)
	fmt.Printf("buttons held: [%s]\n", strings.Join(names, " "))
}

func (p *statePrinter) AxesMoved(changed []bool, state *evjoy.JoystickState) {
	parts := make([]string, 0, len(changed))
	for i, c := range changed {
		if !c {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d (%d..%d)",
			p.profile.AxisName(i), state.Axis(i), state.AxisMin(i), state.AxisMax(i)))
	}
	fmt.Printf("axes: %s\n", strings.Join(parts, " "))
}
