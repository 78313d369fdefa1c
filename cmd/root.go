package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hw",
		Short:         "Home watch (hw): track item freshness and camera streams",
		Long:          "hw keeps an inventory of monitored items in your home, classifies how recently each was observed, syncs observation times from Home Assistant and ZoneMinder, and manages live camera stream connections.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newItemCmd(app),
		newStatusCmd(app),
		newSyncCmd(app),
		newStreamCmd(app),
	)

	return rootCmd
}
