package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ctxstore"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ctxstore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ctxstore version %s\n", strings.TrimSpace(ctxstore.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
