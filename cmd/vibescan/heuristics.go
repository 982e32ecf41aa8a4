package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vibescan/internal/config"
	"vibescan/internal/heuristics"
)

var heuristicsCmd = &cobra.Command{
	Use:   "heuristics",
	Short: "Inspect and configure the signal catalogue",
}

var heuristicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every catalogued signal with its family and default weight",
	RunE:  runHeuristicsList,
}

var heuristicsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .vibescan.toml to the current directory",
	Long: `Write a starter configuration file with the default settings and a
commented example weight override. Fails if the file already exists.`,
	RunE: runHeuristicsInit,
}

func init() {
	heuristicsCmd.AddCommand(heuristicsListCmd)
	heuristicsCmd.AddCommand(heuristicsInitCmd)
	rootCmd.AddCommand(heuristicsCmd)
}

func runHeuristicsList(cmd *cobra.Command, args []string) error {
	return printResponse(heuristics.All())
}

func runHeuristicsInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	target := filepath.Join(cwd, config.FileName)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s already exists", target)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(cwd); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", target)
	fmt.Println("Add weight overrides under [[heuristics.override]], for example:")
	fmt.Println()
	fmt.Println("  [[heuristics.override]]")
	fmt.Println("  id = \"go.errors.errorf_wrap\"")
	fmt.Println("  weight = 2.0")
	return nil
}
