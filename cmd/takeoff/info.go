package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [pdf]",
	Short: "Display page information of a drawing",
	Long:  "Show the title, page count and page sizes (in pixels at zoom 1) of a PDF drawing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := cfg.Poppler(args[0]).Info(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("Drawing Information")
	fmt.Println("===================")
	if info.Title != "" {
		fmt.Printf("Title: %s\n", info.Title)
	}
	fmt.Printf("File: %s\n", info.Path)
	fmt.Printf("Pages: %d\n\n", len(info.Pages))

	for i, p := range info.Pages {
		fmt.Printf("  Page %d: %.0f x %.0f px\n", i+1, p.Width, p.Height)
	}
	return nil
}
