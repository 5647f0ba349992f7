package cli

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/doxyrst/internal/configloader"
	"github.com/yaklabco/doxyrst/internal/ui/pretty"
)

// annotationConfigHelp marks commands whose help lists the environment
// variables and configuration files they read.
const annotationConfigHelp = "doxyrst:config-help"

// flagGap is the minimum run of spaces pflag leaves between a flag and
// its description.
const flagGap = "  "

// helpStyles are the styles of the help output, derived from the report
// styles so that both share one palette.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	env     lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	s := pretty.NewStyles(colorEnabled)
	return helpStyles{
		heading: s.Warning,
		command: s.Success,
		flag:    s.Member,
		env:     s.Doxygen,
		dim:     s.Dim,
	}
}

// HelpFormatter renders command help as titled sections.
type HelpFormatter struct {
	// colorMode is the fallback when the command has no --color flag.
	colorMode string
}

// NewHelpFormatter creates a formatter. The --color flag of the command
// being described takes precedence over colorMode.
func NewHelpFormatter(colorMode string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

// ApplyToCommand installs the formatter on cmd. Subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.write(c.OutOrStdout(), c, true); err != nil {
			c.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.write(c.OutOrStderr(), c, false)
	})
}

// write renders the help of cmd. The long description is only part of
// the full help, not of the usage shown after an error.
func (h *HelpFormatter) write(w io.Writer, cmd *cobra.Command, full bool) error {
	st := newHelpStyles(pretty.IsColorEnabled(h.mode(cmd), w))

	var sections []string
	if full {
		if text := strings.TrimSpace(cmp.Or(cmd.Long, cmd.Short)); text != "" {
			sections = append(sections, trimTrailingSpace(text))
		}
	}

	sections = append(sections, section(st, "Usage", usageLines(st, cmd)))
	if len(cmd.Aliases) > 0 {
		sections = append(sections, section(st, "Aliases", []string{st.command.Render(strings.Join(cmd.Aliases, ", "))}))
	}
	if cmd.HasExample() {
		sections = append(sections, section(st, "Examples", exampleLines(cmd.Example)))
	}
	if cmd.HasAvailableSubCommands() {
		sections = append(sections, section(st, "Available Commands", commandLines(st, cmd)))
	}
	if cmd.HasAvailableLocalFlags() {
		sections = append(sections, section(st, "Flags", flagLines(st, cmd.LocalFlags().FlagUsages())))
	}
	if cmd.HasAvailableInheritedFlags() {
		sections = append(sections, section(st, "Global Flags", flagLines(st, cmd.InheritedFlags().FlagUsages())))
	}
	if _, ok := cmd.Annotations[annotationConfigHelp]; ok {
		sections = append(sections,
			section(st, "Environment", envLines(st)),
			section(st, "Configuration Files", configLines(st)),
		)
	}
	if cmd.HasAvailableSubCommands() {
		sections = append(sections, fmt.Sprintf("Use %q for more information about a command.",
			cmd.CommandPath()+" [command] --help"))
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	return err
}

func (h *HelpFormatter) mode(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		return flag.Value.String()
	}
	return h.colorMode
}

// section renders a heading followed by indented lines.
func section(st helpStyles, title string, lines []string) string {
	var sb strings.Builder
	sb.WriteString(st.heading.Render(title + ":"))
	for _, line := range lines {
		sb.WriteString("\n")
		if line != "" {
			sb.WriteString("  " + line)
		}
	}
	return sb.String()
}

func usageLines(st helpStyles, cmd *cobra.Command) []string {
	var lines []string
	if cmd.Runnable() {
		lines = append(lines, st.command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		lines = append(lines, st.command.Render(cmd.CommandPath()+" [command]"))
	}
	return lines
}

func commandLines(st helpStyles, cmd *cobra.Command) []string {
	var lines []string
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() && sub.Name() != "help" {
			continue
		}
		name := fmt.Sprintf("%-*s", cmd.NamePadding(), sub.Name())
		lines = append(lines, st.command.Render(name)+" "+sub.Short)
	}
	return lines
}

// exampleLines drops the two-space indent cobra examples are written with.
func exampleLines(example string) []string {
	lines := strings.Split(strings.TrimRight(example, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return lines
}

// flagLines styles the pflag usage lines: flag names in colour, type
// placeholders dimmed. Column alignment is kept.
func flagLines(st helpStyles, usages string) []string {
	usages = strings.TrimRight(usages, "\n")
	if usages == "" {
		return nil
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(line, flagGap)
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]

		def, rest, ok := strings.Cut(trimmed, flagGap)
		if !ok {
			lines[i] = line
			continue
		}
		desc := strings.TrimLeft(rest, " ")
		gap := trimmed[len(def) : len(trimmed)-len(desc)]

		tokens := strings.Fields(def)
		for j, token := range tokens {
			name, comma := strings.CutSuffix(token, ",")
			if !strings.HasPrefix(name, "-") {
				tokens[j] = st.dim.Render(token)
				continue
			}
			tokens[j] = st.flag.Render(name)
			if comma {
				tokens[j] += ","
			}
		}
		lines[i] = indent + strings.Join(tokens, " ") + gap + desc
	}
	return lines
}

// envLines lists the DOXYRST_* variables in name order.
func envLines(st helpStyles) []string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	lines := make([]string, 0, len(names)+1)
	for _, name := range names {
		lines = append(lines, st.env.Render(fmt.Sprintf("%-*s", width, name))+"  "+vars[name])
	}
	return append(lines, st.dim.Render("Variables are also read from a .env file in the working directory."))
}

// configLines lists the project file names in search order and the
// precedence of the layers.
func configLines(st helpStyles) []string {
	lines := []string{
		"Searched upward from the working directory, first match wins:",
		"  " + strings.Join(configloader.ProjectConfigNames(), ", "),
		"Precedence: flags > environment > --config > project > user > system.",
	}
	return append(lines, st.dim.Render("Run \"doxyrst init\" to write a documented starting point."))
}

// trimTrailingSpace removes trailing blanks from every line.
func trimTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
