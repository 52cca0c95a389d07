package cmd

import (
	"fmt"

	"github.com/guettli/evjoy/pkg/evjoy"
	"github.com/holoplot/go-evdev"
	"github.com/spf13/cobra"
)

func init() {
	infoCmd := &cobra.Command{
		Use:   "info device",
		Short: "Show identity, driver version and supported events of one evdev device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return infoMain(args[0])
		},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
	}
	rootCmd.AddCommand(infoCmd)
}

func infoMain(path string) error {
	dev, err := evjoy.OpenDevice(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	v := dev.DriverVersion()
	fmt.Printf("Input driver version is %d.%d.%d\n", v>>16, (v>>8)&0xff, v&0xff)
	id := dev.ID()
	fmt.Printf("Input device ID: bus 0x%x vendor 0x%x product 0x%x version 0x%x\n",
		id.BusType, id.Vendor, id.Product, id.Version)
	fmt.Printf("Input device name: %q\n", dev.Name())

	fmt.Println("Supported events:")
	caps := dev.Capabilities()
	for _, t := range caps.Types() {
		fmt.Printf("  Event type %d (%s)\n", t, evdev.TypeName(evdev.EvType(t)))
		for _, code := range caps.Codes(t) {
			fmt.Printf("    Event code %d (%s)\n", code, evdev.CodeName(evdev.EvType(t), evdev.EvCode(code)))
			if t != evjoy.EV_ABS {
				continue
			}
			params, err := dev.AbsParams(code)
			if err != nil {
				fmt.Printf("      failed to get axis parameters: %s\n", err.Error())
				continue
			}
			fmt.Printf("      %s\n", params.String())
		}
	}
	return nil
}
