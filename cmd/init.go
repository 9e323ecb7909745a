/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/taskapi/internal/ui"
	"github.com/josephgoksu/taskapi/store"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty task store",
	Long: `Create an empty task collection at the configured data file.

A store that already holds tasks is left alone unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		taskStore, closeStore, err := GetStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		out := cmd.OutOrStdout()
		err = store.Init(cmd.Context(), taskStore, initForce)
		var exists *store.ExistsError
		switch {
		case errors.As(err, &exists):
			fmt.Fprintln(out, ui.Warning(fmt.Sprintf("%s already holds %d tasks; use --force to reset it", describeStore(taskStore), exists.Count)))
			return nil
		case err != nil:
			return fmt.Errorf("initialize task store: %w", err)
		}

		fmt.Fprintln(out, ui.Success("Initialized empty task store at "+describeStore(taskStore)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite a store that already holds tasks")
}
