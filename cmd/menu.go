package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentic-research/shortcuts/internal/control"
	"github.com/agentic-research/shortcuts/internal/menu"
	"github.com/agentic-research/shortcuts/internal/rpc"
	"github.com/spf13/cobra"
)

// ask picks the menu or action on a terminal.
const ask = -2

// prompt is a menu.Chooser reading numbered answers from a terminal.
// Preset answers other than ask skip the question.
type prompt struct {
	in     *bufio.Reader
	out    io.Writer
	menu   int
	action int
}

func (p *prompt) choose(title string, labels []string, preset int) (int, error) {
	if preset != ask {
		return preset, nil
	}
	fmt.Fprintln(p.out, folderStyle.Render(title))
	for i, l := range labels {
		fmt.Fprintf(p.out, "  %d) %s\n", i, l)
	}
	fmt.Fprint(p.out, hintStyle.Render("choice (empty cancels): "))
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("invalid choice %q", line)
	}
	return n, nil
}

func (p *prompt) ChooseMenu(options []menu.Option) (int, error) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	return p.choose("Add to which menu?", labels, p.menu)
}

func (p *prompt) ChooseAction(actions []menu.Action) (int, error) {
	labels := make([]string, len(actions))
	for i, act := range actions {
		labels[i] = act.Label + "  " + targetStyle.Render(act.Command)
	}
	return p.choose("Which action?", labels, p.action)
}

func newMenuCmd(a *app) *cobra.Command {
	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Edit menu documents",
	}

	var (
		req     menu.Request
		choices prompt
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a library location to a menu",
		Long: `Add lists the location through the host, offers the main menu and every
existing submenu, then appends a shortcut to the chosen one. Choosing the
autofill option also writes a submenu of the location's sub-directories.`,
		Example: `  shortcuts menu add --path videodb://movies/genres/ --label Genres --menu 1 --action 0`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			choices.in = bufio.NewReader(cmd.InOrStdin())
			choices.out = cmd.OutOrStdout()

			ctl, err := control.OpenOrCreate(a.cfg.ControlFile)
			if err != nil {
				return err
			}
			defer func() { _ = ctl.Close() }() // ignore

			adder := &menu.Adder{
				Lister:  rpc.NewClient(a.cfg.RPCEndpoint),
				Docs:    a.documents(),
				Chooser: &choices,
				Signal:  ctl,
				Log:     a.log,
			}
			res, err := adder.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s: %s\n", res.LabelID, res.Group, res.Action)
			return err
		},
	}
	f := addCmd.Flags()
	f.StringVar(&req.Path, "path", "", "Location to add")
	f.StringVar(&req.Label, "label", "", "Shortcut label")
	f.StringVar(&req.Icon, "icon", "", "Shortcut icon")
	f.StringVar(&req.Content, "content", "", "Content type of the location (albums enables Play)")
	f.StringVar(&req.Window, "window", "10025", "Window the location opens in")
	f.IntVar(&choices.menu, "menu", ask, "Menu option index, prompts when unset")
	f.IntVar(&choices.action, "action", ask, "Action index, prompts when unset")
	_ = addCmd.MarkFlagRequired("path")
	_ = addCmd.MarkFlagRequired("label")

	menuCmd.AddCommand(addCmd)
	return menuCmd
}
