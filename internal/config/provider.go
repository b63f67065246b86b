package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DataDirName holds local CLI state such as config.local.json
const DataDirName = ".buidl"

// projectMarkers identify a project root, in priority order
var projectMarkers = []string{BuidlFileName, "hardhat.config.ts", "hardhat.config.js", "foundry.toml"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	loadEnvFiles(projectRoot)

	file, err := loadBuidlFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:           projectRoot,
		DataDir:               filepath.Join(projectRoot, DataDirName),
		ConfigSource:          "built-in",
		Networks:              mergeNetworks(DefaultNetworks(), file),
		Debug:                 v.GetBool("debug"),
		NonInteractive:        v.GetBool("non_interactive"),
		DryRun:                v.GetBool("dry_run"),
		ConfirmationsOverride: v.GetUint64("confirmations"),
		PollInterval:          v.GetDuration("poll_interval"),
	}
	if file != nil {
		cfg.ConfigSource = BuidlFileName
	}

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = DefaultNetworkName
	}
	network, err := ResolveNetwork(cfg.Networks, networkName)
	if err != nil {
		return nil, err
	}
	cfg.Network = network

	cfg.Accounts, err = resolveAccounts(file, network)
	if err != nil {
		return nil, err
	}

	var paths PathsFile
	if file != nil {
		paths = file.Paths
	}
	cfg.ArtifactsDir = resolvePath(projectRoot, paths.Artifacts, "artifacts")
	cfg.DeploymentsDir = resolvePath(projectRoot, paths.Deployments, "deployments")
	cfg.SeedFile = resolvePath(projectRoot, paths.Seed, DefaultSeedFile)
	cfg.AddressesFile = resolvePath(projectRoot, v.GetString("addresses_file"),
		filepath.Join(cfg.DeploymentsDir, network.Name, config.AddressesFileName))

	return cfg, nil
}

func resolvePath(root, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(root, value)
}

// FindProjectRoot walks up from the current directory to the first directory holding
// buidl.toml or a hardhat/foundry config. It falls back to the current directory.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	for dir := cwd; ; {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("BUIDL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", DefaultNetworkName)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// Describe renders a short description of where configuration came from.
func Describe(cfg *config.RuntimeConfig) string {
	return fmt.Sprintf("%s (network %s, chain %d)", cfg.ConfigSource, cfg.Network.Name, cfg.Network.ChainID)
}
