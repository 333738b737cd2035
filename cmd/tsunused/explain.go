package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tsunused/internal/checker"
	"tsunused/internal/rules/unusedvars"
)

type explainOption struct {
	Name        string `json:"name"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type explainMessage struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Template string `json:"template"`
}

type explainPayload struct {
	Rule         string           `json:"rule"`
	Description  string           `json:"description"`
	CheckerCodes []int            `json:"checker_codes"`
	Kinds        []string         `json:"kinds"`
	Options      []explainOption  `json:"options"`
	Messages     []explainMessage `json:"messages"`
}

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Describe the no-unused-vars rule, its options and messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			payload := buildExplainPayload()
			switch strings.ToLower(format) {
			case "pretty":
				colored, err := useColor(cmd, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				renderExplainPretty(cmd.OutOrStdout(), payload, colored)
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func buildExplainPayload() explainPayload {
	p := explainPayload{
		Rule:         unusedvars.Name,
		Description:  unusedvars.Description,
		CheckerCodes: checker.UnusedCodes(),
		Options: []explainOption{
			{
				Name:        "variables.ignoredNamesRegex",
				Default:     fmt.Sprintf("%q", unusedvars.DefaultIgnoredNamesRegex),
				Description: "unused names matching this regex are not reported; false disables ignoring",
			},
			{
				Name:        "arguments.ignoredNamesRegex",
				Default:     "inherits variables.ignoredNamesRegex",
				Description: "pattern applied to parameters instead of the variables one",
			},
			{
				Name:        "arguments.ignoreIfArgsAfterAreUsed",
				Default:     "false",
				Description: "do not report an unused parameter followed by a used one in the same signature",
			},
		},
	}
	for _, k := range unusedvars.BindingKinds() {
		p.Kinds = append(p.Kinds, k.String())
	}
	for _, v := range unusedvars.Variants() {
		p.Messages = append(p.Messages, explainMessage{ID: v.ID(), Code: v.Code().ID(), Template: v.Template()})
	}
	return p
}

func renderExplainPretty(out io.Writer, p explainPayload, colored bool) {
	heading := color.New(color.Bold)
	name := color.New(color.FgCyan)
	if colored {
		heading.EnableColor()
		name.EnableColor()
	} else {
		heading.DisableColor()
		name.DisableColor()
	}

	fmt.Fprintf(out, "%s: %s\n\n", heading.Sprint(p.Rule), p.Description)

	codes := make([]string, len(p.CheckerCodes))
	for i, c := range p.CheckerCodes {
		codes[i] = fmt.Sprintf("TS%d", c)
	}
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("Checker diagnostics:"), strings.Join(codes, ", "))
	fmt.Fprintf(out, "%s %s\n\n", heading.Sprint("Binding kinds:"), strings.Join(p.Kinds, ", "))

	fmt.Fprintln(out, heading.Sprint("Options:"))
	for _, o := range p.Options {
		fmt.Fprintf(out, "  %s (default: %s)\n      %s\n", name.Sprint(o.Name), o.Default, o.Description)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, heading.Sprint("Messages:"))
	for _, m := range p.Messages {
		fmt.Fprintf(out, "  %s %-24s %s\n", m.Code, name.Sprint(m.ID), m.Template)
	}
}
