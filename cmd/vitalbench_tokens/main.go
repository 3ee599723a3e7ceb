// vitalbench_tokens manages the InfluxDB API tokens of the benchmark
// deployment: provisioning the standard set, inspecting, rotating and
// auditing them.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blagojts/viper"
	"github.com/spf13/cobra"

	vbinflux "github.com/vitalbench/vitalbench/pkg/influx"
	"github.com/vitalbench/vitalbench/pkg/tokens"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:              "vitalbench_tokens",
		Short:            "Manage the InfluxDB API tokens of the benchmark deployment",
		PersistentPreRun: initViperConfig,
	}

	var influxConfig vbinflux.Config
	influxConfig.AddToFlagSet(root.PersistentFlags())
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
		panic(fmt.Errorf("could not bind flags to configuration: %v", err))
	}

	root.AddCommand(
		listCmd(),
		createCmd(),
		infoCmd(),
		updateCmd(),
		deleteCmd(),
		setupCmd(),
		auditCmd(),
		rotateCmd(),
		exportCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initViperConfig(*cobra.Command, []string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// newManager builds the token manager from the effective configuration.
func newManager(ctx context.Context) (*tokens.Manager, *vbinflux.Client, error) {
	var cfg vbinflux.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unable to decode config: %s", err)
	}
	client := vbinflux.NewClient(cfg)
	mgr, err := tokens.NewManager(ctx, client)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return mgr, client, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every token of the organization",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			auths, err := mgr.List(ctx)
			if err != nil {
				fail(err)
			}
			fmt.Printf("%-40s %-10s %s\n", "NAME", "STATUS", "PERMISSIONS")
			for i := range auths {
				a := &auths[i]
				status := "inactive"
				if tokens.IsActive(a) {
					status = "active"
				}
				fmt.Printf("%-40s %-10s %d\n", tokens.Description(a), status, tokens.PermissionCount(a))
			}
		},
	}
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create one of the standard tokens by name",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var def *tokens.Definition
			for _, d := range tokens.StandardDefinitions() {
				if d.Name == args[0] {
					def = &d
					break
				}
			}
			if def == nil {
				fail(fmt.Errorf("unknown token %q, expected one of the standard definitions", args[0]))
			}

			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			created, err := mgr.Create(ctx, *def)
			if err != nil {
				fail(err)
			}
			fmt.Printf("created %s\n", tokens.Description(created))
			if created.Token != nil {
				fmt.Printf("secret (shown once): %s\n", *created.Token)
			}
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show the permissions and status of a token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			auth, err := mgr.Find(ctx, args[0])
			if err != nil {
				fail(err)
			}
			status := "inactive"
			if tokens.IsActive(auth) {
				status = "active"
			}
			fmt.Printf("name:   %s\nstatus: %s\n", tokens.Description(auth), status)
			if auth.CreatedAt != nil {
				fmt.Printf("created: %s\n", auth.CreatedAt.Format(time.RFC3339))
			}
			if auth.Permissions != nil {
				fmt.Println("permissions:")
				for _, p := range *auth.Permissions {
					fmt.Printf("  %s %s\n", p.Action, p.Resource.Type)
				}
			}
		},
	}
}

func updateCmd() *cobra.Command {
	var activate, deactivate bool
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Activate or deactivate a token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if activate == deactivate {
				fail(fmt.Errorf("pass exactly one of --activate or --deactivate"))
			}
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			auth, err := mgr.Find(ctx, args[0])
			if err != nil {
				fail(err)
			}
			if _, err := mgr.SetActive(ctx, auth, activate); err != nil {
				fail(err)
			}
			fmt.Printf("updated %s\n", args[0])
		},
	}
	cmd.Flags().BoolVar(&activate, "activate", false, "Set the token active")
	cmd.Flags().BoolVar(&deactivate, "deactivate", false, "Set the token inactive")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Revoke a token permanently",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			auth, err := mgr.Find(ctx, args[0])
			if err != nil {
				fail(err)
			}
			if err := mgr.Delete(ctx, auth); err != nil {
				fail(err)
			}
			fmt.Printf("deleted %s\n", args[0])
		},
	}
}

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Provision the standard token set, skipping tokens that already exist",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			created, err := mgr.Setup(ctx)
			if err != nil {
				fail(err)
			}
			if len(created) == 0 {
				fmt.Println("standard tokens already present, nothing to do")
				return
			}
			for _, def := range created {
				fmt.Printf("created %s (%s)\n", def.Name, def.Purpose)
			}
		},
	}
}

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check the token set for hygiene problems",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			auths, err := mgr.List(ctx)
			if err != nil {
				fail(err)
			}
			findings := tokens.Audit(auths)
			if len(findings) == 0 {
				fmt.Println("no findings, token set is clean")
				return
			}
			for _, f := range findings {
				fmt.Printf("[%s] %s: %s\n", f.Severity, f.Token, f.Message)
			}
		},
	}
}

func rotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <name>",
		Short: "Replace a token with a fresh secret and deactivate the old one",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			created, err := mgr.Rotate(ctx, args[0], time.Now())
			if err != nil {
				fail(err)
			}
			fmt.Printf("rotated %s -> %s\n", args[0], tokens.Description(created))
			if created.Token != nil {
				fmt.Printf("secret (shown once): %s\n", *created.Token)
			}
		},
	}
}

func exportCmd() *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the token list as JSON with secrets redacted",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			mgr, client, err := newManager(ctx)
			if err != nil {
				fail(err)
			}
			defer client.Close()

			auths, err := mgr.List(ctx)
			if err != nil {
				fail(err)
			}
			raw, err := tokens.Export(auths)
			if err != nil {
				fail(err)
			}
			if outputFile == "" {
				fmt.Println(string(raw))
				return
			}
			if err := os.WriteFile(outputFile, raw, 0644); err != nil {
				fail(err)
			}
			fmt.Printf("exported %d tokens to %s\n", len(auths), outputFile)
		},
	}
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Write the export to this file (default stdout)")
	return cmd
}
