package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/shailu9/MediaInfoApi/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage notification recipients",
	Long: `Manage notification recipients and CC entries in the configuration file.

Examples:
  mediainfo-api config list recipients
  mediainfo-api config add recipient --key jane --name "Jane Doe" --email "jane@example.com"
  mediainfo-api config add cc --name "Ops Inbox" --email "ops@example.com"
  mediainfo-api config remove recipient jane`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configUpdateCmd)
}

// --- ADD command ---

var (
	addKey   string
	addName  string
	addEmail string
)

var configAddCmd = &cobra.Command{
	Use:   "add [recipient|cc]",
	Short: "Add a new config entry",
	Long: `Add a new notification recipient or CC entry to the configuration.

Recipients are addressed by key; CC entries go on every notification.

Examples:
  mediainfo-api config add recipient --key jane --name "Jane Doe" --email "jane@example.com"
  mediainfo-api config add cc --name "Ops Inbox" --email "ops@example.com"`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAdd,
}

func init() {
	configAddCmd.Flags().StringVar(&addKey, "key", "", "Unique key for the entry (required for recipient)")
	configAddCmd.Flags().StringVar(&addName, "name", "", "Display name (required)")
	configAddCmd.Flags().StringVar(&addEmail, "email", "", "Email address (required)")
	configAddCmd.MarkFlagRequired("name")
	configAddCmd.MarkFlagRequired("email")
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	return RunConfigAddWithDependencies(cfg, cfgFile, args[0], addKey, addName, addEmail, DefaultOutput)
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, key, name, email string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "recipient":
		if key == "" {
			return fmt.Errorf("--key is required for recipients")
		}
		if err := mgr.AddRecipient(key, name, email); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added recipient %q: %s <%s>\n", key, name, email)

	case "cc":
		if err := mgr.AddCC(name, email); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added CC: %s <%s>\n", name, email)

	default:
		return fmt.Errorf("unknown entity type %q. Use recipient or cc", entityType)
	}

	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list [recipients|ccs]",
	Short: "List config entries",
	Long: `List all notification recipients or CC entries.

Examples:
  mediainfo-api config list recipients
  mediainfo-api config list ccs`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	return RunConfigListWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	switch entityType {
	case "recipients":
		recipients := mgr.ListRecipients()
		if len(recipients) == 0 {
			fmt.Fprintln(out, "No recipients configured.")
			return nil
		}
		// Sort by key for consistent output
		sort.Slice(recipients, func(i, j int) bool {
			return recipients[i].Key < recipients[j].Key
		})
		fmt.Fprintln(w, "KEY\tNAME\tEMAIL")
		for _, r := range recipients {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, r.Name, r.Address)
		}

	case "ccs":
		ccs := mgr.ListCCs()
		if len(ccs) == 0 {
			fmt.Fprintln(out, "No CCs configured.")
			return nil
		}
		fmt.Fprintln(w, "NAME\tEMAIL")
		for _, c := range ccs {
			fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Address)
		}

	default:
		return fmt.Errorf("unknown entity type %q. Use recipients or ccs", entityType)
	}

	return w.Flush()
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove [recipient|cc] <key|email>",
	Short: "Remove a config entry",
	Long: `Remove a notification recipient or CC entry from the configuration.

Recipients are removed by key, CC entries by email address.

Examples:
  mediainfo-api config remove recipient jane
  mediainfo-api config remove cc ops@example.com`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigRemove,
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, key string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "recipient":
		if err := mgr.RemoveRecipient(key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed recipient %q\n", key)

	case "cc":
		if err := mgr.RemoveCC(key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed CC %q\n", key)

	default:
		return fmt.Errorf("unknown entity type %q. Use recipient or cc", entityType)
	}

	return nil
}

// --- UPDATE command ---

var (
	updateName  string
	updateEmail string
)

var configUpdateCmd = &cobra.Command{
	Use:   "update recipient <key>",
	Short: "Update a config entry",
	Long: `Update an existing notification recipient in the configuration.

CC entries carry no key, so they are replaced with remove and add instead.

Examples:
  mediainfo-api config update recipient jane --email "jane.new@example.com"
  mediainfo-api config update recipient jane --name "Jane Smith"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigUpdate,
}

func init() {
	configUpdateCmd.Flags().StringVar(&updateName, "name", "", "New display name")
	configUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "New email address")
}

func runConfigUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	if updateName == "" && updateEmail == "" {
		return fmt.Errorf("at least one of --name or --email is required")
	}

	return RunConfigUpdateWithDependencies(cfg, cfgFile, args[0], args[1], updateName, updateEmail, DefaultOutput)
}

// RunConfigUpdateWithDependencies runs the update command with injected dependencies
func RunConfigUpdateWithDependencies(cfg *config.Config, configPath, entityType, key, name, email string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch entityType {
	case "recipient":
		if err := mgr.UpdateRecipient(key, name, email); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated recipient %q\n", key)

	case "cc":
		return fmt.Errorf("cc entries cannot be updated; remove and re-add instead")

	default:
		return fmt.Errorf("unknown entity type %q. Use recipient", entityType)
	}

	return nil
}
