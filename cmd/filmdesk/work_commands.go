package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmdesk/internal/draft"
	"filmdesk/internal/form"
	"filmdesk/internal/imagefile"
	"filmdesk/internal/messages"
	"filmdesk/internal/upload"
)

func newWorkCommand(ctx *commandContext) *cobra.Command {
	workCmd := &cobra.Command{
		Use:   "work",
		Short: "Add, edit, and inspect catalog works",
	}

	workCmd.AddCommand(newWorkNewCommand(ctx))
	workCmd.AddCommand(newWorkEditCommand(ctx))
	workCmd.AddCommand(newWorkShowCommand(ctx))

	return workCmd
}

// formSession is one form controller wired to terminal output.
type formSession struct {
	ctrl   *form.Controller
	alerts *statusAlerts
	nav    *listNavigator
}

func newFormSession(cmd *cobra.Command, ws *workspace, quiet bool) *formSession {
	alerts := newStatusAlerts(cmd.OutOrStdout(), quiet)
	nav := &listNavigator{}
	ctrl := form.New(ws.cfg, form.Deps{
		Works:     ws.client,
		Uploader:  upload.New(ws.client),
		Alerts:    alerts,
		Navigator: nav,
		Notifier:  ws.notifier,
		Logger:    ws.logger,
	})
	return &formSession{ctrl: ctrl, alerts: alerts, nav: nav}
}

func (s *formSession) selectPoster(cmd *cobra.Command, path string, quiet bool) error {
	file, err := imagefile.Open(path)
	if err != nil {
		return err
	}
	if err := s.ctrl.SelectPoster(file); err != nil {
		return err
	}
	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderStatusLine("Poster", statusInfo, fmt.Sprintf("%s (%s, %s)", file.Name, file.ContentType, file.HumanSize()), shouldColorize(out)))
	}
	return nil
}

// submit waits for background uploads, then sends the draft.
func (s *formSession) submit(cmd *cobra.Command, jsonOutput bool) error {
	s.ctrl.Wait()
	outcome, err := s.ctrl.Submit(cmd.Context())
	if jsonOutput {
		result := submitResultJSON{
			State:     outcome.State.String(),
			Mode:      string(outcome.Mode),
			Multipart: outcome.Multipart,
			Alerts:    s.alerts.Messages(),
			Work:      outcome.Work,
		}
		if outcome.Work != nil {
			result.ID = outcome.Work.Identifier()
		}
		if outcome.Mode == "" {
			result.State = s.ctrl.State().String()
			result.Mode = string(s.ctrl.Mode())
		}
		if writeErr := writeJSON(cmd, result); writeErr != nil {
			return writeErr
		}
		return err
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	detail := string(outcome.Mode)
	if outcome.Work != nil {
		if id := outcome.Work.Identifier(); id != "" {
			detail += " " + id
		}
	}
	if outcome.Multipart {
		detail += " with poster"
	}
	fmt.Fprintln(out, renderStatusLine("Saved", statusOK, detail, colorize))
	if s.nav.Returned() {
		fmt.Fprintln(out, renderStatusLine("List", statusInfo, "back to the entry list", colorize))
	}
	return nil
}

func newWorkNewCommand(ctx *commandContext) *cobra.Command {
	var entryPath string
	var posterPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Add a work from a TOML entry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				if _, err := ws.requireAccess(cmd.Context()); err != nil {
					return err
				}
				entry, err := loadEntry(entryPath)
				if err != nil {
					return err
				}

				session := newFormSession(cmd, ws, jsonOutput)
				defer session.ctrl.Close()
				if err := session.ctrl.Open(cmd.Context(), ""); err != nil {
					return err
				}
				jobs, err := entry.apply(session.ctrl)
				if err != nil {
					return err
				}
				if err := startImageJobs(session.ctrl, jobs); err != nil {
					return err
				}
				if posterPath == "" {
					posterPath = entry.posterPath()
				}
				if posterPath != "" {
					if err := session.selectPoster(cmd, posterPath, jsonOutput); err != nil {
						return err
					}
				}
				return session.submit(cmd, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVarP(&entryPath, "file", "f", "", "TOML entry file")
	cmd.Flags().StringVar(&posterPath, "poster", "", "Poster image to upload with the work")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type editFlags struct {
	entryPath      string
	sets           []string
	posterPath     string
	addCast        []string
	removeCast     []int
	addPlatform    []string
	removePlatform []int
	directorImage  string
	assistantImage string
	castImages     []string
	jsonOutput     bool
}

func newWorkEditCommand(ctx *commandContext) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit an existing work",
		Long: "Load a work, apply changes, and save it. Changes apply in this order: " +
			"--file, --remove-cast/--remove-platform (indices of the loaded work), " +
			"--add-cast/--add-platform, --set, then image uploads.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				if _, err := ws.requireAccess(cmd.Context()); err != nil {
					return err
				}

				session := newFormSession(cmd, ws, flags.jsonOutput)
				defer session.ctrl.Close()
				if err := session.ctrl.Open(cmd.Context(), args[0]); err != nil {
					return err
				}
				if session.ctrl.Mode() != form.ModeEdit {
					return fmt.Errorf("invalid work id %q", args[0])
				}
				if err := applyEdits(cmd, session, flags); err != nil {
					return err
				}
				return session.submit(cmd, flags.jsonOutput)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.entryPath, "file", "f", "", "TOML patch file")
	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "Set a field, e.g. --set year=1999 (repeatable)")
	cmd.Flags().StringVar(&flags.posterPath, "poster", "", "Poster image to upload with the work")
	cmd.Flags().StringArrayVar(&flags.addCast, "add-cast", nil, "Append a cast member (repeatable)")
	cmd.Flags().IntSliceVar(&flags.removeCast, "remove-cast", nil, "Remove the cast member at index (repeatable)")
	cmd.Flags().StringArrayVar(&flags.addPlatform, "add-platform", nil, "Append a platform as NAME=URL (repeatable)")
	cmd.Flags().IntSliceVar(&flags.removePlatform, "remove-platform", nil, "Remove the platform at index (repeatable)")
	cmd.Flags().StringVar(&flags.directorImage, "director-image", "", "Upload a director portrait")
	cmd.Flags().StringVar(&flags.assistantImage, "assistant-image", "", "Upload an assistant director portrait")
	cmd.Flags().StringArrayVar(&flags.castImages, "cast-image", nil, "Upload a cast portrait as INDEX=PATH (repeatable)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func applyEdits(cmd *cobra.Command, session *formSession, flags editFlags) error {
	ctrl := session.ctrl
	var jobs []imageJob
	posterPath := flags.posterPath

	if flags.entryPath != "" {
		entry, err := loadEntry(flags.entryPath)
		if err != nil {
			return err
		}
		entryJobs, err := entry.apply(ctrl)
		if err != nil {
			return err
		}
		jobs = append(jobs, entryJobs...)
		if posterPath == "" {
			posterPath = entry.posterPath()
		}
	}

	for _, i := range descending(flags.removeCast) {
		if err := ctrl.RemoveCast(i); err != nil {
			return fmt.Errorf("remove cast %d: %w", i, err)
		}
	}
	for _, i := range descending(flags.removePlatform) {
		if err := ctrl.RemovePlatform(i); err != nil {
			return fmt.Errorf("remove platform %d: %w", i, err)
		}
	}
	for _, name := range flags.addCast {
		if err := ctrl.AddCast(); err != nil {
			return err
		}
		if err := ctrl.SetCastName(len(ctrl.Draft().Cast)-1, name); err != nil {
			return err
		}
	}
	for _, pair := range flags.addPlatform {
		name, url, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("--add-platform %q: expected NAME=URL", pair)
		}
		if err := ctrl.AddPlatform(); err != nil {
			return err
		}
		i := len(ctrl.Draft().Platforms) - 1
		if err := ctrl.SetPlatformField(i, "name", strings.ToLower(strings.TrimSpace(name))); err != nil {
			return err
		}
		if err := ctrl.SetPlatformField(i, "url", strings.TrimSpace(url)); err != nil {
			return err
		}
	}
	for _, pair := range flags.sets {
		field, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("--set %q: expected FIELD=VALUE", pair)
		}
		if err := ctrl.SetField(strings.TrimSpace(field), value); err != nil {
			if errors.Is(err, draft.ErrUnknownField) {
				return fmt.Errorf("--set %q: unknown field (known: %s)", pair, strings.Join(draft.Fields(), ", "))
			}
			return err
		}
	}

	if flags.directorImage != "" {
		jobs = append(jobs, imageJob{target: imageDirector, path: flags.directorImage})
	}
	if flags.assistantImage != "" {
		jobs = append(jobs, imageJob{target: imageAssistant, path: flags.assistantImage})
	}
	for _, pair := range flags.castImages {
		index, path, ok := strings.Cut(pair, "=")
		i, err := strconv.Atoi(strings.TrimSpace(index))
		if !ok || err != nil {
			return fmt.Errorf("--cast-image %q: expected INDEX=PATH", pair)
		}
		jobs = append(jobs, imageJob{target: imageCast, index: i, path: path})
	}
	if err := startImageJobs(ctrl, jobs); err != nil {
		return err
	}
	if posterPath != "" {
		return session.selectPoster(cmd, posterPath, flags.jsonOutput)
	}
	return nil
}

func descending(values []int) []int {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	return slices.Compact(sorted)
}

var showFields = []struct {
	field string
	label string
}{
	{"type", "Type"},
	{"nameArabic", "Arabic name"},
	{"nameEnglish", "English name"},
	{"year", "Year"},
	{"director", "Director"},
	{"directorImageUrl", "Director image"},
	{"assistantDirector", "Assistant director"},
	{"assistantDirectorImageUrl", "Assistant image"},
	{"genre", "Genre"},
	{"country", "Country"},
	{"filmingLocation", "Filming location"},
	{"summary", "Summary"},
	{"posterUrl", "Poster"},
	{"seasonsCount", "Seasons"},
	{"episodesCount", "Episodes"},
}

func newWorkShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a work as the edit form sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws *workspace) error {
				if _, err := ws.requireAccess(cmd.Context()); err != nil {
					return err
				}
				session := newFormSession(cmd, ws, jsonOutput)
				defer session.ctrl.Close()
				if err := session.ctrl.Open(cmd.Context(), args[0]); err != nil {
					return err
				}
				d := session.ctrl.Draft()
				if jsonOutput {
					return writeJSON(cmd, d)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDraft(args[0], d, ws.text))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderDraft(id string, d draft.Draft, text *messages.Catalog) string {
	rows := make([][]string, 0, len(showFields)+len(d.Cast)+len(d.Platforms))
	for _, item := range showFields {
		if !d.IsSeries() && (item.field == "seasonsCount" || item.field == "episodesCount") {
			continue
		}
		value, _ := d.Field(item.field)
		rows = append(rows, []string{item.label, value})
	}
	for i, member := range d.Cast {
		value := member.Name
		if member.ImageURL != "" {
			value += "\n" + member.ImageURL
		}
		rows = append(rows, []string{fmt.Sprintf("Cast %d", i), value})
	}
	for i, platform := range d.Platforms {
		rows = append(rows, []string{fmt.Sprintf("Platform %d", i), text.PlatformLabel(platform.Name) + "\n" + platform.URL})
	}
	return renderFieldTable(id, rows)
}
