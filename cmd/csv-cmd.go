package cmd

import (
	"fmt"
	"time"

	"github.com/guettli/evjoy/pkg/evjoy"
	"github.com/spf13/cobra"
)

func init() {
	csvCmd := &cobra.Command{
		Use:   "csv device",
		Short: "Connect to one evdev device and write the events in CSV format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return csvMain(args[0])
		},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
	}
	rootCmd.AddCommand(csvCmd)
}

type csvPrinter struct{}

func (csvPrinter) Event(ev evjoy.Event) {
	if ev.Type == evjoy.EV_SYN || ev.Type == evjoy.EV_MSC {
		return
	}
	fmt.Print(eventToCsvLine(ev))
}

func eventToCsvLine(ev evjoy.Event) string {
	return fmt.Sprintf("%d;%d;%s;%s;%d\n", ev.Sec, ev.Usec, ev.TypeName(), ev.CodeName(), ev.Value)
}

func csvMain(path string) error {
	dev, err := evjoy.OpenDevice(path)
	if err != nil {
		return err
	}
	dispatcher := evjoy.NewDispatcher(dev)
	dispatcher.AddListener(csvPrinter{})
	if err := dispatcher.Start(); err != nil {
		dev.Close()
		return err
	}
	fmt.Printf("#Reading %s %s\n", dev.Name(), time.Now().String())
	waitForEnterOrEndOfStream(dispatcher)
	return dispatcher.Close()
}
