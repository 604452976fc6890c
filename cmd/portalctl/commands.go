package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/authz"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/config/db"
	"github.com/linskybing/hpc-portal/internal/directory"
	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/system"
	"github.com/linskybing/hpc-portal/internal/migrations"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func init() {
	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd(), newGrantCmd(), newRevokeCmd(), newDirectoryCmd())
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrations.Up(config.PostgresURL())
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrations.Down(config.PostgresURL(), steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

// adminService opens the database and loads the role policy.
func adminService() (*application.AdminService, error) {
	if err := db.Init(); err != nil {
		return nil, err
	}
	repos := repository.NewRepositories(db.DB)
	enforcer, err := authz.NewEnforcer(repos.User)
	if err != nil {
		return nil, err
	}
	return application.NewAdminService(repos, enforcer), nil
}

// SystemsFile is the YAML document used to seed systems.
type SystemsFile struct {
	Systems []system.SystemInput `yaml:"systems"`
}

func loadSystems(path string) ([]system.SystemInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file SystemsFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parse systems file: %w", err)
	}
	for i, s := range file.Systems {
		if s.Name == "" {
			return nil, fmt.Errorf("system %d: name is required", i)
		}
	}
	return file.Systems, nil
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}

	var institutionsFile string
	institutions := &cobra.Command{
		Use:   "institutions",
		Short: "Create or update institutions from a policy file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if institutionsFile == "" {
				institutionsFile = config.InstitutionsFile
			}
			insts, err := institution.LoadPolicies(institutionsFile)
			if err != nil {
				return err
			}
			svc, err := adminService()
			if err != nil {
				return err
			}
			if err := svc.SeedInstitutions(insts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d institutions\n", len(insts))
			return nil
		},
	}
	institutions.Flags().StringVar(&institutionsFile, "file", "", "policy file (default INSTITUTIONS_FILE)")

	var systemsFile string
	systems := &cobra.Command{
		Use:   "systems",
		Short: "Create or update systems from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadSystems(systemsFile)
			if err != nil {
				return err
			}
			svc, err := adminService()
			if err != nil {
				return err
			}
			if err := svc.SeedSystems(inputs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d systems\n", len(inputs))
			return nil
		},
	}
	systems.Flags().StringVar(&systemsFile, "file", "systems.yaml", "systems file")

	cmd.AddCommand(institutions, systems)
	return cmd
}

func newGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <email> <role>",
		Short: "Grant a role to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminService()
			if err != nil {
				return err
			}
			if err := svc.GrantRole(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s\n", args[1], args[0])
			return nil
		},
	}
}

func newRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <email> <role>",
		Short: "Revoke a role from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminService()
			if err != nil {
				return err
			}
			if err := svc.RevokeRole(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s from %s\n", args[1], args[0])
			return nil
		},
	}
}

func newDirectoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Inspect and repair the directory sync queue",
	}

	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Queue the tasks that bring the directory in line with the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			queue, closeQueue, err := openQueue(ctx)
			if err != nil {
				return err
			}
			defer closeQueue()

			if err := db.Init(); err != nil {
				return err
			}
			store := repository.NewSyncStore(repository.NewRepositories(db.DB))
			n, err := directory.Reconcile(ctx, store, queue)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued %d tasks\n", n)
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show queue lengths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, closeQueue, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeQueue()

			s, err := queue.Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}

	cmd.AddCommand(reconcile, stats)
	return cmd
}

func openQueue(ctx context.Context) (*directory.Queue, func(), error) {
	rdb, err := db.NewRedis(ctx, config.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return directory.NewQueue(rdb, config.SyncQueuePrefix), func() { _ = rdb.Close() }, nil
}
