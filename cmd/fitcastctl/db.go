package main

import (
	"fmt"
	"time"

	"fitcast-backend/middleware"
	"fitcast-backend/models"
	"fitcast-backend/outfit"
	"fitcast-backend/repository"
	"fitcast-backend/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var dropFirst bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the profiles, initial_preferences and packing_plans tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if dropFirst {
			if err := repository.DropSchema(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Dropped existing tables")
		}
		if err := repository.CreateSchema(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Schema ready")
		return nil
	},
}

var (
	seedUserID    string
	seedUsername  string
	seedLocation  string
	seedTolerance int
	seedLayers    bool
	seedExclude   []string
	seedTokenTTL  time.Duration
)

var seedProfileCmd = &cobra.Command{
	Use:   "seed-profile",
	Short: "Insert a test profile with onboarding preferences and print a dev token",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := uuid.New()
		if seedUserID != "" {
			id, err := uuid.Parse(seedUserID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}
			userID = id
		}
		if !outfit.ColdTolerance(seedTolerance).Valid() {
			return service.ErrInvalidTolerance
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		profile := &models.Profile{ID: userID, Username: &seedUsername, Location: &seedLocation}
		if err := repository.NewProfileRepository(db).Upsert(ctx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		prefs := &models.Preferences{
			UserID:         userID,
			ColdTolerance:  outfit.ColdTolerance(seedTolerance),
			PreferredItems: []string{},
			ExcludedItems:  service.NormalizeItems(seedExclude),
			PrefersLayers:  seedLayers,
		}
		if err := repository.NewPreferencesRepository(db).Save(ctx, prefs); err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Test profile created\n")
		fmt.Fprintf(out, "   ID: %s\n", userID)
		fmt.Fprintf(out, "   Username: %s\n", seedUsername)
		fmt.Fprintf(out, "   Location: %s\n", seedLocation)

		if cfg.JWTSecret == "" {
			fmt.Fprintln(out, "   JWT_SECRET not set, no token issued")
			return nil
		}
		token, err := middleware.IssueToken(userID, cfg.JWTSecret, seedTokenTTL)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		fmt.Fprintf(out, "   Token: %s\n", token)
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&dropFirst, "drop", false, "drop existing tables first (development only)")

	seedProfileCmd.Flags().StringVar(&seedUserID, "user-id", "", "profile id (defaults to a new UUID)")
	seedProfileCmd.Flags().StringVar(&seedUsername, "username", "testuser", "username")
	seedProfileCmd.Flags().StringVar(&seedLocation, "location", "Palo Alto", "home location")
	seedProfileCmd.Flags().IntVar(&seedTolerance, "tolerance", 0, "cold tolerance: -1 gets cold, 0 neutral, 1 rarely cold")
	seedProfileCmd.Flags().BoolVar(&seedLayers, "layers", false, "prefers layers")
	seedProfileCmd.Flags().StringSliceVar(&seedExclude, "exclude", nil, "clothing items never to recommend")
	seedProfileCmd.Flags().DurationVar(&seedTokenTTL, "token-ttl", 24*time.Hour, "lifetime of the printed dev token")
}
