package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptrun/internal/prompts"
	"github.com/jackzampolin/promptrun/internal/render"
)

var validateProfile string

var validateCmd = &cobra.Command{
	Use:   "validate [prompt]...",
	Short: "Validate prompt definitions against the schema",
	Long: `Validate checks prompt YAML files against the prompt schema and
reports every violation. With no arguments, all prompts in the prompts
directory are validated. With --profile, each prompt template is also
rendered against the profile, so unresolved variables surface without
any network or database access.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := appConfig()
		if err != nil {
			return err
		}

		refs := args
		if len(refs) == 0 {
			refs, err = prompts.List(cfg.PromptsDir)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no prompts found in %s\n", cfg.PromptsDir)
				return nil
			}
		}

		var profile map[string]interface{}
		if validateProfile != "" {
			profile, err = prompts.LoadProfile(validateProfile)
			if err != nil {
				return err
			}
		}

		failed := 0
		for _, ref := range refs {
			if err := validateOne(ref, cfg.PromptsDir, profile); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", ref, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK   %s\n", ref)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d prompts failed validation", failed, len(refs))
		}
		return nil
	},
}

// validateOne schema-checks a prompt and, when a profile is supplied,
// renders its templates against it.
func validateOne(ref, promptsDir string, profile map[string]interface{}) error {
	path, err := prompts.Resolve(ref, promptsDir)
	if err != nil {
		return err
	}
	doc, err := prompts.LoadDocument(path)
	if err != nil {
		return err
	}
	if err := prompts.ValidateDocument(path, doc); err != nil {
		return err
	}

	if profile == nil {
		return nil
	}
	cfg, err := prompts.Load(path)
	if err != nil {
		return err
	}
	ctx := render.BuildContext(profile, time.Now(), os.Environ())
	if _, err := render.Render(cfg.Name, cfg.Prompt, ctx); err != nil {
		return err
	}
	if cfg.Delivery.Subject != "" {
		if _, err := render.Render(cfg.Name+":subject", cfg.Delivery.Subject, ctx); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateProfile, "profile", "", "profile YAML file; also render templates against it")
}
