package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coresync/coach/internal/config"
	"coresync/coach/internal/domain"
	"coresync/coach/internal/prompt"
	"coresync/coach/internal/repository/mongo"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes of the plan store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != config.StoreMongo {
			return fmt.Errorf("indexes only apply to the mongo store, not %q", cfg.Store.Driver)
		}

		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		defer func() { _ = mongo.DisconnectDB(dbClient) }()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, dbClient.Database(cfg.Database.Name)); err != nil {
			return err
		}
		logger.Info("indexes ensured", zap.String("database", cfg.Database.Name))
		return nil
	},
}

var promptAttrs domain.ProgramAttributes

var promptCmd = &cobra.Command{
	Use:       "prompt [workout|diet]",
	Short:     "Print the plan-generation prompt for the given intake answers",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"workout", "diet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "workout":
			fmt.Fprintln(cmd.OutOrStdout(), prompt.WorkoutPrompt(promptAttrs))
		case "diet":
			fmt.Fprintln(cmd.OutOrStdout(), prompt.DietPrompt(promptAttrs))
		}
		return nil
	},
}

func init() {
	f := promptCmd.Flags()
	f.StringVar(&promptAttrs.Age, "age", "", "age")
	f.StringVar(&promptAttrs.Height, "height", "", "height")
	f.StringVar(&promptAttrs.Weight, "weight", "", "weight")
	f.StringVar(&promptAttrs.Injuries, "injuries", "", "injuries or limitations")
	f.StringVar(&promptAttrs.WorkoutDays, "workout-days", "", "available workout days")
	f.StringVar(&promptAttrs.FitnessGoal, "goal", "", "fitness goal")
	f.StringVar(&promptAttrs.FitnessLevel, "level", "", "fitness level")
	f.StringVar(&promptAttrs.DietaryRestrictions, "dietary-restrictions", "", "dietary restrictions")
}
