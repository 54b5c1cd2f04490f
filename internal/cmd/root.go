package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/persuade/internal/config"
	"github.com/Iron-Ham/persuade/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "persuade",
	Short: "Two-agent persuasion dialogues over an item catalog",
	Long: `Persuade runs argumentation dialogues between two agents that rank
the same catalog of engines by different criteria. Each agent proposes its
favourite, defends it with arguments built from its preferences, and
either concedes or proposes another item when it runs out of rebuttals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), cmd, err)
	}
	return err
}

// reportError prints err for the user. Input mistakes get a usage hint;
// failures inside the dialogue engine are flagged as internal.
func reportError(w io.Writer, cmd *cobra.Command, err error) {
	if errors.Is(err, errors.ErrCanceled) {
		fmt.Fprintln(w, "Interrupted")
		return
	}
	if errors.GetSeverity(err) == errors.SeverityCritical {
		fmt.Fprintf(w, "Internal error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.IsDomainError(err) {
		return
	}
	if errors.IsSemanticError(err) || !errors.IsUserFacing(err) {
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/persuade/config.yaml)")
	rootCmd.PersistentFlags().String("state-dir", "", "directory for recorded dialogues and the debug log")
}

func initConfig() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("paths.state_dir", rootCmd.PersistentFlags().Lookup("state-dir"))

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/persuade")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PERSUADE")
	// e.g., PERSUADE_DIALOGUE_TOP_FRACTION for dialogue.top_fraction
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// bindFlags maps command flags onto config keys. Binding happens when the
// command runs so commands sharing a key do not overwrite each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}
