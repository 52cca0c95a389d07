package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/guettli/evjoy/pkg/evjoy"
	"github.com/spf13/cobra"
)

func init() {
	printCmd := &cobra.Command{
		Use:   "print device",
		Short: "Connect to one evdev device and print the decoded events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printMain(args[0])
		},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
	}
	rootCmd.AddCommand(printCmd)
}

type eventPrinter struct{}

func (eventPrinter) Event(ev evjoy.Event) {
	fmt.Println(ev.String())
}

func printMain(path string) error {
	dev, err := evjoy.OpenDevice(path)
	if err != nil {
		return err
	}
	dispatcher := evjoy.NewDispatcher(dev)
	dispatcher.AddListener(eventPrinter{})
	if err := dispatcher.Start(); err != nil {
		dev.Close()
		return err
	}
	fmt.Printf("Reading %q. Hit enter to quit.\n", dev.Name())
	waitForEnterOrEndOfStream(dispatcher)
	return dispatcher.Close()
}

// waitForEnterOrEndOfStream returns when the user hits enter or when
// the dispatch loop ends on its own (device unplugged, read error).
func waitForEnterOrEndOfStream(dispatcher *evjoy.Dispatcher) {
	enter := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()
	select {
	case <-enter:
	case <-dispatcher.Done():
	}
}
