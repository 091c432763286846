package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/muurk/ggdiscover/internal/config"
)

func init() {
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileDefaultCmd)

	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved connection profiles",
	Long: `Manage named connection profiles.

A profile stores the endpoint, thing name and the paths of the certificate,
key and CA files. The files themselves are not copied.`,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the connection flags as a profile",
	Example: `  ggdiscover profile save lab --endpoint abc123-ats.iot.eu-west-1.amazonaws.com \
    --thing sensor-01 --cert sensor-01.cert.pem --key sensor-01.private.key`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileSave,
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry(configPath)
	if err != nil {
		return err
	}

	base := &config.Profile{}
	if existing, ok := registry.Profiles[args[0]]; ok {
		base = existing
	}
	p := mergeFlags(cmd, base)

	// Store absolute paths so the profile works from any directory
	for _, path := range []*string{&p.CertFile, &p.KeyFile, &p.CAFile} {
		if *path == "" {
			continue
		}
		abs, err := filepath.Abs(*path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *path, err)
		}
		*path = abs
	}

	if err := registry.SetProfile(args[0], p); err != nil {
		return err
	}
	if err := registry.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("Profile %q saved\n", args[0])
	return nil
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry(configPath)
		if err != nil {
			return err
		}

		names := registry.ProfileNames()
		if len(names) == 0 {
			fmt.Println("No profiles saved. Use 'ggdiscover profile save NAME' to create one.")
			return nil
		}

		for _, name := range names {
			p := registry.Profiles[name]
			marker := " "
			if name == registry.DefaultProfile {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
			fmt.Printf("    Endpoint: %s\n", p.Endpoint)
			fmt.Printf("    Thing:    %s\n", p.ThingName)
			if p.LastCore != "" {
				fmt.Printf("    Core:     %s\n", p.LastCore)
			}
		}
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry(configPath)
		if err != nil {
			return err
		}
		if !registry.RemoveProfile(args[0]) {
			return fmt.Errorf("profile %q not found", args[0])
		}
		if err := registry.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Profile %q removed\n", args[0])
		return nil
	},
}

var profileDefaultCmd = &cobra.Command{
	Use:   "default NAME",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry(configPath)
		if err != nil {
			return err
		}
		if _, err := registry.GetProfile(args[0]); err != nil {
			return err
		}
		registry.DefaultProfile = args[0]
		if err := registry.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Default profile set to %q\n", args[0])
		return nil
	},
}
