package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/api"
	"github.com/eventzy/eventzy-go/internal/controller"
	"github.com/eventzy/eventzy-go/internal/dto"
	appExport "github.com/eventzy/eventzy-go/internal/export"
	"github.com/eventzy/eventzy-go/internal/gateway"
	"github.com/eventzy/eventzy-go/internal/models"
	"github.com/eventzy/eventzy-go/internal/picker"
	"github.com/eventzy/eventzy-go/internal/session"
	"github.com/eventzy/eventzy-go/pkg/config"
	"github.com/eventzy/eventzy-go/pkg/logger"
	"github.com/eventzy/eventzy-go/pkg/storage"
)

const usage = `Usage: eventzy <command> [flags]

Commands:
  login      Authenticate and store the session
  register   Create an account
  logout     Destroy the stored session
  profile    Show or update the profile
  events     List events
  show       Show one event by id
  create     Create an event (admin)
  edit       Edit an event (admin)
  delete     Delete an event (admin)
  join       Join an event
  leave      Leave an event
  export     Export the event list to csv or pdf
`

type app struct {
	conf     *config.Config
	events   *gateway.EventGateway
	auth     *gateway.AuthGateway
	sessions *session.Store
	notifier *toastNotifier
	logger   *zap.Logger
	stdin    *bufio.Reader
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	sessions, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer sessions.Close() //nolint:errcheck

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, sessions, logr)
	notifier := &toastNotifier{}
	a := &app{
		conf:     cfg,
		events:   gateway.NewEventGateway(client, nil, logr),
		auth:     gateway.NewAuthGateway(client, sessions, nil, logr),
		sessions: sessions,
		notifier: notifier,
		logger:   logr,
		stdin:    bufio.NewReader(os.Stdin),
	}

	ctx := context.Background()
	command, args := os.Args[1], os.Args[2:]

	if err := a.run(ctx, command, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if notifier.failed {
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		if err := a.auth.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	case "profile":
		return a.profile(ctx, args)
	case "events":
		return a.list(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "delete":
		return a.remove(ctx, args)
	case "join", "leave":
		return a.membership(ctx, command, args)
	case "export":
		return a.export(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	flags.Parse(args) //nolint:errcheck

	data, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", data.User.Username)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	username := flags.String("username", "", "display name")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	image := flags.String("image", "", "optional avatar file")
	flags.Parse(args) //nolint:errcheck

	data, err := a.auth.Register(ctx, dto.RegisterRequest{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		ImagePath: *image,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s\n", data.User.Username)
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("profile", flag.ExitOnError)
	username := flags.String("username", "", "new display name")
	email := flags.String("email", "", "new email")
	image := flags.String("image", "", "new avatar file")
	flags.Parse(args) //nolint:errcheck

	if *username == "" && *email == "" && *image == "" {
		user, err := a.auth.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Username: %s\nEmail:    %s\n", user.Username, user.Email)
		if user.ImageURL != "" {
			fmt.Printf("Avatar:   %s\n", user.ImageURL)
		}
		if user.IsAdmin {
			fmt.Println("Role:     administrator")
		}
		return nil
	}

	user, err := a.auth.UpdateProfile(ctx, dto.ProfileUpdateRequest{
		Username:  *username,
		Email:     *email,
		ImagePath: *image,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated: %s <%s>\n", user.Username, user.Email)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("events", flag.ExitOnError)
	category := flags.String("category", "All", "filter by category")
	joined := flags.Bool("joined", false, "only events you joined")
	flags.Parse(args) //nolint:errcheck

	ctl := controller.NewListController(a.events, a.auth, a.notifier, nil, a.logger)
	ctl.Mount(ctx)
	if models.Category(*category) != models.CategoryAll {
		ctl.SetCategory(ctx, models.Category(*category))
	}
	if *joined {
		ctl.SetViewMode(ctx, models.ViewJoined)
	}

	events := ctl.Events()
	if len(events) == 0 && !a.notifier.failed {
		if *joined {
			fmt.Println("You haven't joined any events")
		} else {
			fmt.Println("No events found")
		}
		return nil
	}
	for _, event := range events {
		marker := " "
		if event.IsJoined {
			marker = "*"
		}
		fmt.Printf("%s %-10s %-24s %-20s %s (%d participants)\n",
			marker, event.ID, truncate(event.Name, 24), event.DisplayDate(), event.Location, event.ParticipantsCount)
	}
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: eventzy show <id>")
	}
	ctl := controller.NewDetailController(a.events, a.auth, a.notifier, a.logger)
	ctl.Load(ctx, args[0])
	if ctl.NotFound() {
		fmt.Println("Event not found")
		return nil
	}
	event := ctl.Event()
	if event == nil {
		return nil
	}
	fmt.Printf("%s\n", event.Name)
	fmt.Printf("  Category:     %s\n", event.Category)
	fmt.Printf("  When:         %s\n", event.DisplayDate())
	fmt.Printf("  Where:        %s\n", event.Location)
	fmt.Printf("  Participants: %d\n", event.ParticipantsCount)
	if event.Description != "" {
		fmt.Printf("  About:        %s\n", event.Description)
	}
	if event.IsJoined {
		fmt.Println("  You have joined this event.")
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("create", flag.ExitOnError)
	name := flags.String("name", "", "event name")
	location := flags.String("location", "", "event location")
	category := flags.String("category", string(models.CategoryParty), "event category")
	date := flags.String("date", "", "event date (RFC 3339); prompts when omitted")
	flags.Parse(args) //nolint:errcheck

	form := controller.NewCreateForm()
	form.SetName(*name)
	form.SetLocation(*location)
	form.SetCategory(models.Category(*category))
	if err := a.fillDate(form, *date); err != nil {
		return err
	}
	payload, err := form.Payload()
	if err != nil {
		return err
	}

	ctl := controller.NewListController(a.events, a.auth, a.notifier, nil, a.logger)
	ctl.Mount(ctx)
	ctl.Create(ctx, payload)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: eventzy edit <id> [flags]")
	}
	id := args[0]
	flags := flag.NewFlagSet("edit", flag.ExitOnError)
	name := flags.String("name", "", "event name")
	location := flags.String("location", "", "event location")
	category := flags.String("category", "", "event category")
	date := flags.String("date", "", "event date (RFC 3339)")
	flags.Parse(args[1:]) //nolint:errcheck

	event, err := a.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	form := controller.NewEditForm(*event)
	if *name != "" {
		form.SetName(*name)
	}
	if *location != "" {
		form.SetLocation(*location)
	}
	if *category != "" {
		form.SetCategory(models.Category(*category))
	}
	if *date != "" {
		if err := a.fillDate(form, *date); err != nil {
			return err
		}
	}
	payload, err := form.Payload()
	if err != nil {
		return err
	}

	ctl := controller.NewDetailController(a.events, a.auth, a.notifier, a.logger)
	ctl.Load(ctx, id)
	ctl.Update(ctx, payload)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: eventzy delete <id> [--yes]")
	}
	id := args[0]
	flags := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := flags.Bool("yes", false, "skip the confirmation prompt")
	flags.Parse(args[1:]) //nolint:errcheck

	var confirm controller.Confirmer = &promptConfirmer{in: a.stdin}
	if *yes {
		confirm = autoConfirm{}
	}
	ctl := controller.NewListController(a.events, a.auth, a.notifier, confirm, a.logger)
	ctl.Mount(ctx)
	ctl.Delete(ctx, id)
	return nil
}

func (a *app) membership(ctx context.Context, action string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: eventzy %s <id>", action)
	}
	ctl := controller.NewDetailController(a.events, a.auth, a.notifier, a.logger)
	ctl.Load(ctx, args[0])
	if ctl.NotFound() {
		fmt.Println("Event not found")
		return nil
	}
	if action == "join" {
		ctl.Join(ctx)
	} else {
		ctl.Leave(ctx)
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	format := flags.String("format", a.conf.Export.Format, "csv or pdf")
	category := flags.String("category", "All", "filter by category")
	joined := flags.Bool("joined", false, "only events you joined")
	flags.Parse(args) //nolint:errcheck

	ctl := controller.NewListController(a.events, a.auth, a.notifier, nil, a.logger)
	ctl.Mount(ctx)
	if models.Category(*category) != models.CategoryAll {
		ctl.SetCategory(ctx, models.Category(*category))
	}
	if *joined {
		ctl.SetViewMode(ctx, models.ViewJoined)
	}
	if a.notifier.failed {
		return nil
	}

	store, err := storage.NewLocalStorage(a.conf.Export.Dir)
	if err != nil {
		return err
	}
	path, err := appExport.NewService(store, a.logger).Events(ctl.Events(), *format)
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// fillDate resolves the event timestamp, either from a flag value or by
// driving the date/time picker machine over the terminal.
func (a *app) fillDate(form *controller.EventForm, raw string) error {
	if raw != "" {
		parsed, err := parseDateFlag(raw)
		if err != nil {
			return err
		}
		form.SetDate(parsed)
		return nil
	}

	capability := picker.Sequential
	if a.conf.Picker.Mode == config.PickerCombined {
		capability = picker.Combined
	}

	resolved := make(chan time.Time, 1)
	reopened := make(chan struct{}, 1)
	machine := picker.NewMachine(picker.Config{
		Capability:  capability,
		ReopenDelay: a.conf.Picker.ReopenDelay,
		OnResolve:   func(t time.Time) { resolved <- t },
		OnReopen:    func() { reopened <- struct{}{} },
	})
	if err := machine.Open(); err != nil {
		return err
	}

	if capability == picker.Combined {
		value, ok := a.prompt("Date and time (YYYY-MM-DD HH:MM): ")
		if !ok {
			machine.Dismiss()
			return fmt.Errorf("date selection cancelled")
		}
		parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
		if err != nil {
			machine.Dismiss()
			return fmt.Errorf("invalid date %q", value)
		}
		if err := machine.ConfirmDateTime(parsed); err != nil {
			machine.Dismiss()
			return err
		}
	} else {
		value, ok := a.prompt("Date (YYYY-MM-DD): ")
		if !ok {
			machine.Dismiss()
			return fmt.Errorf("date selection cancelled")
		}
		day, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			machine.Dismiss()
			return fmt.Errorf("invalid date %q", value)
		}
		if err := machine.ConfirmDate(day); err != nil {
			machine.Dismiss()
			return err
		}
		<-reopened
		value, ok = a.prompt("Time (HH:MM): ")
		if !ok {
			machine.Dismiss()
			return fmt.Errorf("time selection cancelled")
		}
		clock, err := time.ParseInLocation("15:04", value, time.Local)
		if err != nil {
			machine.Dismiss()
			return fmt.Errorf("invalid time %q", value)
		}
		if err := machine.ConfirmTime(clock); err != nil {
			machine.Dismiss()
			return err
		}
	}

	form.SetDate(<-resolved)
	return nil
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Print(label)
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}

func parseDateFlag(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"} {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// toastNotifier prints transient outcomes to stderr.
type toastNotifier struct {
	failed bool
}

func (n *toastNotifier) Success(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

func (n *toastNotifier) Error(title, message string) {
	n.failed = true
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

// promptConfirmer asks for a y/N decision on stdin.
type promptConfirmer struct {
	in *bufio.Reader
}

func (c *promptConfirmer) Confirm(title, message string) bool {
	fmt.Fprintf(os.Stderr, "%s: %s [y/N]: ", title, message)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

type autoConfirm struct{}

func (autoConfirm) Confirm(string, string) bool { return true }
