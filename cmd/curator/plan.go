package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/learnplan/internal/adapters/memory"
	"github.com/zatekoja/learnplan/internal/application/services"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/aiml"
	"github.com/zatekoja/learnplan/pkg/config"
)

type planOptions struct {
	catalogPath string
	req         entities.PlanRequest
	offline     bool
}

// PlanCmd runs the plan pipeline against a catalog file and prints the result
func PlanCmd() *cobra.Command {
	var opts planOptions
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a study plan from a local catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.req.Description == "" {
				opts.req.Description = "Learn " + opts.req.Topic
			}

			ctx := cmd.Context()
			store := memory.NewResourceStore()
			if _, err := loadInto(ctx, store, opts.catalogPath, cmd.ErrOrStderr()); err != nil {
				return err
			}

			var gateway providers.SuggestionProvider
			if !opts.offline {
				var err error
				if gateway, err = suggestionProvider(); err != nil {
					return err
				}
			}

			result := services.NewPlanService(store, gateway, config.DefaultCandidatePool).GeneratePlan(ctx, opts.req)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("plan failed: %s", result.Error)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalogPath, "catalog", "data/catalog.yaml", "Path to the catalog YAML file")
	flags.StringVar(&opts.req.Topic, "topic", "", "Subject to study")
	flags.StringVar(&opts.req.Description, "description", "", "What the learner wants to achieve")
	flags.StringVar(&opts.req.Level, "level", "beginner", "beginner, intermediate or advanced")
	flags.IntVar(&opts.req.Duration, "days", 7, "Number of days in the plan")
	flags.StringVar(&opts.req.Intensity, "intensity", "moderate", "light, moderate or intensive")
	flags.StringSliceVar(&opts.req.Materials, "material", nil, "Preferred material types (repeatable)")
	flags.BoolVar(&opts.offline, "offline", false, "Skip the AI gateway and use the catalog only")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

// suggestionProvider returns the AI gateway when AIML_API_KEY is set, else nil
func suggestionProvider() (providers.SuggestionProvider, error) {
	if os.Getenv("AIML_API_KEY") == "" {
		log.Info().Msg("AIML_API_KEY is not set; using catalog only")
		return nil, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, err := aiml.NewClient(&cfg.AIML)
	if err != nil {
		return nil, err
	}
	return client, nil
}
