package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func executeCLI() error {
	root := buildRootCommand()
	if err := root.Execute(); err != nil {
		return err
	}
	return nil
}

func buildRootCommand() *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:   "rangers",
		Short: "AI marketing ranger team for Thai SMEs",
		Long: strings.TrimSpace(`rangers is a five-persona AI marketing team with keyword routing,
dual-gate content validation, and a brand guard.

Use CLI commands to onboard, manage brand profiles, chat with the team,
and validate content against your brand identity.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show build/version metadata")

	root.AddCommand(newOnboardCommand())
	root.AddCommand(newChatCommand())
	root.AddCommand(newAskCommand())
	root.AddCommand(newRouteCommand())
	root.AddCommand(newGuardCommand())
	root.AddCommand(newBrandCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func runLegacyWithArgs(args []string, fn func()) error {
	original := os.Args
	os.Args = append([]string{original[0]}, args...)
	defer func() {
		os.Args = original
	}()
	fn()
	return nil
}

func newOnboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "onboard",
		Short:   "Initialize ~/.rangers config",
		Long:    "Create the default configuration file for a new rangers installation.",
		Example: "  rangers onboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"onboard"}, onboard)
		},
	}
}

func newChatCommand() *cobra.Command {
	var (
		user   string
		brand  string
		ranger string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with the ranger team",
		Long:  "Run an interactive session. Switch rangers with /ranger, inspect guard reports with /report.",
		Example: strings.Join([]string{
			"  rangers chat",
			"  rangers chat --ranger content",
			"  rangers chat --brand brand-abc123 --user somchai",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"chat"}
			if debug {
				legacyArgs = append(legacyArgs, "--debug")
			}
			if strings.TrimSpace(user) != "" {
				legacyArgs = append(legacyArgs, "--user", user)
			}
			if strings.TrimSpace(brand) != "" {
				legacyArgs = append(legacyArgs, "--brand", brand)
			}
			if strings.TrimSpace(ranger) != "" {
				legacyArgs = append(legacyArgs, "--ranger", ranger)
			}
			return runLegacyWithArgs(legacyArgs, chatCmd)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "local", "User id scoping history and brands")
	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Brand profile id (default: most recent)")
	cmd.Flags().StringVarP(&ranger, "ranger", "r", "consult", "Starting ranger (brand, content, planning, marketing, consult)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func newAskCommand() *cobra.Command {
	var (
		user   string
		brand  string
		ranger string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "ask \"question\"",
		Short: "One-shot question to a ranger",
		Long:  "Send a single question and print the answer. Without --ranger the question is routed by keywords.",
		Args:  cobra.ExactArgs(1),
		Example: strings.Join([]string{
			"  rangers ask \"ช่วยคิดแคปชั่น IG ให้หน่อย\"",
			"  rangers ask --ranger marketing \"วิเคราะห์ตลาดกาแฟพิเศษ\"",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"ask"}
			if debug {
				legacyArgs = append(legacyArgs, "--debug")
			}
			if strings.TrimSpace(user) != "" {
				legacyArgs = append(legacyArgs, "--user", user)
			}
			if strings.TrimSpace(brand) != "" {
				legacyArgs = append(legacyArgs, "--brand", brand)
			}
			if strings.TrimSpace(ranger) != "" {
				legacyArgs = append(legacyArgs, "--ranger", ranger)
			}
			legacyArgs = append(legacyArgs, "--message", args[0])
			return runLegacyWithArgs(legacyArgs, askCmd)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "local", "User id scoping history and brands")
	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Brand profile id (default: most recent)")
	cmd.Flags().StringVarP(&ranger, "ranger", "r", "", "Ranger to ask (default: route by keywords)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func newRouteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "route \"question\"",
		Short:   "Show which ranger a question routes to",
		Args:    cobra.MinimumNArgs(1),
		Example: "  rangers route \"อยากทำคอนเทนต์ TikTok\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs(append([]string{"route"}, args...), routeCmd)
		},
	}
}

func newGuardCommand() *cobra.Command {
	var (
		user     string
		brand    string
		file     string
		original string
	)

	cmd := &cobra.Command{
		Use:   "guard [content]",
		Short: "Run the brand guard over a piece of content",
		Long:  "Validate content against the brand profile: isolation, copycat, fact claims, USP grounding, references, tone.",
		Args:  cobra.MaximumNArgs(1),
		Example: strings.Join([]string{
			"  rangers guard \"โปรโมชั่นลดราคาถูกที่สุดในสามโลก\"",
			"  rangers guard --file draft.md --brand brand-abc123",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"guard"}
			if strings.TrimSpace(user) != "" {
				legacyArgs = append(legacyArgs, "--user", user)
			}
			if strings.TrimSpace(brand) != "" {
				legacyArgs = append(legacyArgs, "--brand", brand)
			}
			if strings.TrimSpace(file) != "" {
				legacyArgs = append(legacyArgs, "--file", file)
			}
			if strings.TrimSpace(original) != "" {
				legacyArgs = append(legacyArgs, "--original", original)
			}
			if len(args) == 1 {
				legacyArgs = append(legacyArgs, args[0])
			}
			return runLegacyWithArgs(legacyArgs, guardCmd)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "local", "User id scoping brands")
	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Brand profile id (default: most recent)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from a file instead of the argument")
	cmd.Flags().StringVarP(&original, "original", "o", "", "Original content for similarity comparison")

	return cmd
}

func newBrandCommand() *cobra.Command {
	brandRoot := &cobra.Command{
		Use:   "brand",
		Short: "Manage brand profiles",
		Long:  "Onboard, list, inspect, and remove the brand profiles the rangers answer under.",
	}

	var user string
	brandRoot.PersistentFlags().StringVarP(&user, "user", "u", "local", "User id owning the brands")

	withUser := func(args ...string) []string {
		if strings.TrimSpace(user) != "" {
			args = append(args, "--user", user)
		}
		return args
	}

	brandRoot.AddCommand(&cobra.Command{
		Use:     "add",
		Short:   "Onboard a new brand (interactive)",
		Example: "  rangers brand add",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs(withUser("brand", "add"), brandCmd)
		},
	})

	brandRoot.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "List brand profiles",
		Example: "  rangers brand list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs(withUser("brand", "list"), brandCmd)
		},
	})

	brandRoot.AddCommand(&cobra.Command{
		Use:     "show <brand_id>",
		Short:   "Show one brand profile",
		Args:    cobra.ExactArgs(1),
		Example: "  rangers brand show brand-abc123",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs(withUser("brand", "show", args[0]), brandCmd)
		},
	})

	brandRoot.AddCommand(&cobra.Command{
		Use:     "remove <brand_id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a brand profile",
		Args:    cobra.ExactArgs(1),
		Example: "  rangers brand remove brand-abc123",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs(withUser("brand", "remove", args[0]), brandCmd)
		},
	})

	return brandRoot
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show configuration, provider, and runtime readiness",
		Example: "  rangers status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"status"}, statusCmd)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show build/version metadata",
		Example: "  rangers version",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()
			return nil
		},
	}
}
