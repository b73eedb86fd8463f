package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kozaktomas/wallcal/internal/client"
	"github.com/kozaktomas/wallcal/internal/constants"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the calendar from a running server",
	Long: `Download the current calendar PNG from a wallcal server and save it
to a file, for example to use as a desktop wallpaper.

The file is replaced atomically, so a wallpaper watcher never sees a
partial image. Without --width/--height the server defaults are used.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("server", "", "Server URL (default: WALLCAL_SERVER or http://localhost:5001)")
	fetchCmd.Flags().Int("width", 0, "Image width in pixels")
	fetchCmd.Flags().Int("height", 0, "Image height in pixels")
	fetchCmd.Flags().String("theme", "", "Theme name")
	fetchCmd.Flags().String("output", "calendar.png", "File to write")
	fetchCmd.Flags().Duration("timeout", constants.DefaultFetchTimeout, "Download timeout")
}

// resolveServerURL picks the server from the flag, then the environment.
func resolveServerURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("WALLCAL_SERVER"); env != "" {
		return env
	}
	return fmt.Sprintf("http://localhost:%d", constants.DefaultPort)
}

func runFetch(cmd *cobra.Command, args []string) error {
	c, err := client.New(resolveServerURL(mustGetString(cmd, "server")), nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), mustGetDuration(cmd, "timeout"))
	defer cancel()

	req := client.Request{
		Width:  mustGetInt(cmd, "width"),
		Height: mustGetInt(cmd, "height"),
		Theme:  mustGetString(cmd, "theme"),
	}
	output := mustGetString(cmd, "output")

	n, err := c.SaveToFile(ctx, req, output)
	if err != nil {
		return fmt.Errorf("fetching calendar: %w", err)
	}

	fmt.Printf("Saved %s (%d bytes)\n", output, n)
	return nil
}
