package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var socketCmd = &cobra.Command{
	Use:   "socket",
	Short: "Print the resolved event socket path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSocket()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}
