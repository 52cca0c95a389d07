package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evjoy",
	Short: "evjoy reads Linux evdev input devices and consolidates joystick events into per-report state updates.",
	Long:  `evjoy (evdev joystick). https://github.com/guettli/evjoy`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
