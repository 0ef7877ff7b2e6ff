package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "artcast",
	Short: "artcast - scheduled art and NFT content delivery bot",
	Long: `artcast posts artist spotlights and NFT listings to Discord channels
and Telegram chats on user-defined cron schedules.`,
	Version: Version,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
}
