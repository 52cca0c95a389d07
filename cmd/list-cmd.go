package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guettli/evjoy/pkg/evjoy"
	"github.com/holoplot/go-evdev"
	"github.com/spf13/cobra"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the evdev devices under /dev/input",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMain()
		},
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
	}
	rootCmd.AddCommand(listCmd)
}

func listMain() error {
	basePath := "/dev/input"
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return err
	}
	foundOne := false
	for _, entry := range entries {
		if entry.Type()&os.ModeCharDevice == 0 {
			// not a character device file.
			continue
		}
		path := filepath.Join(basePath, entry.Name())
		dev, err := evjoy.OpenDevice(path)
		if err != nil {
			continue
		}
		foundOne = true
		types := make([]string, 0, len(dev.Capabilities().Types()))
		for _, t := range dev.Capabilities().Types() {
			types = append(types, evdev.TypeName(evdev.EvType(t)))
		}
		fmt.Printf("%s: %s [%s]\n", path, dev.Name(), strings.Join(types, " "))
		dev.Close()
	}
	if !foundOne {
		fmt.Println("No single device was found. It is likely that you have no permission to access /dev/input/... (`sudo` might help)")
	}
	return nil
}
