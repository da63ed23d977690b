package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mpu-platform",
	Short: "MPU preparation platform backend",
	Long:  "Backend for the MPU preparation platform: accounts, AI interview training, consultation bookings, and Stripe-backed purchases.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
