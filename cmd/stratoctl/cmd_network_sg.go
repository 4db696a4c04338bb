package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/domain/model"
	netuc "github.com/stratokube/strato/usecase/network"
	"gopkg.in/yaml.v3"
)

// newCmdNetworkSG returns the security group command group.
func newCmdNetworkSG() *cobra.Command {
	c := &cobra.Command{
		Use:                "sg",
		Short:              "Manage security groups",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdNetworkSGCreate())
	c.AddCommand(newCmdNetworkSGGet())
	c.AddCommand(newCmdNetworkSGList())
	c.AddCommand(newCmdNetworkSGDelete())
	c.AddCommand(newCmdNetworkSGRule())
	return c
}

// ruleSpec is the YAML/JSON input schema for a single security rule.
type ruleSpec struct {
	Direction   string   `yaml:"direction" json:"direction"`
	Protocol    string   `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	FromPort    int32    `yaml:"fromPort,omitempty" json:"fromPort,omitempty"`
	ToPort      int32    `yaml:"toPort,omitempty" json:"toPort,omitempty"`
	CIDRBlocks  []string `yaml:"cidrBlocks,omitempty" json:"cidrBlocks,omitempty"`
	PeerGroups  []string `yaml:"peerGroups,omitempty" json:"peerGroups,omitempty"`
	SourceTags  []string `yaml:"sourceTags,omitempty" json:"sourceTags,omitempty"`
	TargetTags  []string `yaml:"targetTags,omitempty" json:"targetTags,omitempty"`
	Priority    int32    `yaml:"priority,omitempty" json:"priority,omitempty"`
	Action      string   `yaml:"action,omitempty" json:"action,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// toModelRule converts a ruleSpec to a model.Rule.
func (s *ruleSpec) toModelRule() model.Rule {
	return model.Rule{
		Direction:   model.RuleDirection(s.Direction),
		Protocol:    s.Protocol,
		FromPort:    s.FromPort,
		ToPort:      s.ToPort,
		CIDRBlocks:  s.CIDRBlocks,
		PeerGroups:  s.PeerGroups,
		SourceTags:  s.SourceTags,
		TargetTags:  s.TargetTags,
		Priority:    s.Priority,
		Action:      model.RuleAction(s.Action),
		Description: s.Description,
	}
}

// securityGroupSpec is the YAML/JSON input schema for `sg create`.
type securityGroupSpec struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	VPCID       string            `yaml:"vpcID,omitempty" json:"vpcID,omitempty"`
	Rules       []ruleSpec        `yaml:"rules,omitempty" json:"rules,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

func (s *securityGroupSpec) toModelSpec() model.SecurityGroupSpec {
	spec := model.SecurityGroupSpec{
		Name:        s.Name,
		Description: s.Description,
		VPCID:       s.VPCID,
		Tags:        s.Tags,
	}
	for i := range s.Rules {
		spec.Rules = append(spec.Rules, s.Rules[i].toModelRule())
	}
	return spec
}

// loadSecurityGroupSpec loads a security group spec from a YAML or JSON file.
func loadSecurityGroupSpec(path string) (*securityGroupSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var spec securityGroupSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML/JSON: %w", err)
	}
	return &spec, nil
}

// loadRuleSpec loads a single rule from a YAML or JSON file.
func loadRuleSpec(path string) (*ruleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var spec ruleSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML/JSON: %w", err)
	}
	return &spec, nil
}

// loadRuleSpecs loads a list of rules from a YAML or JSON file.
func loadRuleSpecs(path string) ([]ruleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var specs []ruleSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML/JSON: %w", err)
	}
	return specs, nil
}

func newCmdNetworkSGCreate() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "create",
		Short:              "Create a security group",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			spec, err := loadSecurityGroupSpec(file)
			if err != nil {
				return err
			}
			if spec.Name == "" {
				return fmt.Errorf("name is required in the specification file")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.sg.create", spec.Name)
			defer func() { cleanup(err) }()

			out, err := u.GroupCreate(ctx, &netuc.GroupCreateInput{
				Scope: scope,
				Spec:  spec.toModelSpec(),
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Group)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing the security group specification (required)")
	return cmd
}

func newCmdNetworkSGGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <id>",
		Short:              "Get a security group",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.GroupGet(ctx, &netuc.GroupGetInput{Scope: scope, ID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Group)
		},
	}
}

func newCmdNetworkSGList() *cobra.Command {
	var vpcID string
	cmd := &cobra.Command{
		Use:                "list",
		Short:              "List a VPC's security groups",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if vpcID == "" {
				return fmt.Errorf("--vpc is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.GroupList(ctx, &netuc.GroupListInput{Scope: scope, VPCID: vpcID})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Groups)
		},
	}
	cmd.Flags().StringVar(&vpcID, "vpc", "", "VPC ID (required)")
	return cmd
}

func newCmdNetworkSGDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <id>",
		Short:              "Delete a security group",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.sg.delete", args[0])
			defer func() { cleanup(err) }()

			if err := u.GroupDelete(ctx, &netuc.GroupDeleteInput{Scope: scope, ID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

// newCmdNetworkSGRule returns the rule command group.
func newCmdNetworkSGRule() *cobra.Command {
	c := &cobra.Command{
		Use:                "rule",
		Short:              "Manage security group rules",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdNetworkSGRuleAdd())
	c.AddCommand(newCmdNetworkSGRuleRemove())
	c.AddCommand(newCmdNetworkSGRuleReplace())
	return c
}

func newCmdNetworkSGRuleAdd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "add <group-id>",
		Short:              "Authorize a rule on a security group",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			spec, err := loadRuleSpec(file)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.sg.rule.add", args[0])
			defer func() { cleanup(err) }()

			if err := u.RuleAdd(ctx, &netuc.RuleAddInput{
				Scope:   scope,
				GroupID: args[0],
				Rule:    spec.toModelRule(),
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added rule to %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing the rule (required)")
	return cmd
}

func newCmdNetworkSGRuleRemove() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "remove <group-id>",
		Short:              "Revoke a rule from a security group",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			spec, err := loadRuleSpec(file)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.sg.rule.remove", args[0])
			defer func() { cleanup(err) }()

			if err := u.RuleRemove(ctx, &netuc.RuleRemoveInput{
				Scope:   scope,
				GroupID: args[0],
				Rule:    spec.toModelRule(),
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed rule from %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing the rule (required)")
	return cmd
}

func newCmdNetworkSGRuleReplace() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "replace <group-id>",
		Short:              "Replace all rules on a security group",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			specs, err := loadRuleSpecs(file)
			if err != nil {
				return err
			}
			rules := make([]model.Rule, 0, len(specs))
			for i := range specs {
				rules = append(rules, specs[i].toModelRule())
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.sg.rule.replace", args[0])
			defer func() { cleanup(err) }()

			// Partial failures still return the applied/unapplied split, so
			// encode the output before surfacing the error.
			out, err := u.ReplaceRules(ctx, &netuc.RuleReplaceInput{
				Scope:   scope,
				GroupID: args[0],
				Rules:   rules,
			})
			if out != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(out); encErr != nil && err == nil {
					err = encErr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing the rule list (required)")
	return cmd
}
