package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gophertribe/notesync/pkg/auth"
	"github.com/gophertribe/notesync/pkg/config"
	"github.com/gophertribe/notesync/pkg/digest"
	"github.com/gophertribe/notesync/pkg/export"
	"github.com/gophertribe/notesync/pkg/fault"
	"github.com/gophertribe/notesync/pkg/frontend/discord"
	"github.com/gophertribe/notesync/pkg/frontend/telegram"
	"github.com/gophertribe/notesync/pkg/gateway"
	"github.com/gophertribe/notesync/pkg/notes"
	"github.com/gophertribe/notesync/pkg/session"
	"github.com/gophertribe/notesync/pkg/syncer"
)

const usage = `usage: notesync [flags] <command> [args]

commands:
  signup                 create an account (prompts for details)
  login                  log in (prompts for credentials)
  logout                 clear the stored session
  whoami                 show the logged-in profile
  list [-offline]        list notes (use -offline for the cached copy)
  search <query>         search notes server-side
  add <title> <content> [tags...]
  edit <id> <title> <content> [tags...]
  rm <id>                delete a note
  pin <id>               toggle a note's pinned flag
  export [dir]           write notes as markdown, commit if a git repo
  digest                 summarize the collection with Gemini
  bot                    run the Telegram frontend

flags:
`

// consoleNotifier renders toasts on stdout.
type consoleNotifier struct{}

func (consoleNotifier) Notify(message string, kind syncer.ToastKind) {
	fmt.Printf("[%s] %s\n", kind, message)
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	apiURL := flag.String("api", "", "override API base URL")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.WarnLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := session.OpenSQLite(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer store.Close()

	gw := gateway.NewClient(cfg.API.BaseURL, store, log)
	ctrl := auth.NewController(gw, store, log)

	var notify syncer.Notifier = consoleNotifier{}
	if cfg.Discord.Token != "" && cfg.Discord.ChannelID != "" {
		sink, err := discord.NewSink(cfg.Discord.Token, cfg.Discord.ChannelID, log)
		if err != nil {
			log.Warn().Err(err).Msg("discord sink disabled")
		} else {
			notify = sink
		}
	}
	sync := syncer.New(gw, store, notify, log)

	ctx := context.Background()
	if err := run(ctx, args, cfg, ctrl, sync, log); err != nil {
		if f, ok := fault.As(err); ok {
			fmt.Fprintln(os.Stderr, f.Message)
		} else {
			fmt.Fprintln(os.Stderr, "An unexpected error occurred. Please try again.")
			log.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.Config, ctrl *auth.Controller, sync *syncer.Synchronizer, log zerolog.Logger) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "signup":
		return runSignUp(ctx, ctrl)
	case "login":
		return runLogin(ctx, ctrl)
	case "logout":
		if err := ctrl.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		user, err := ctrl.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", user.FullName, user.Email)
		return nil
	case "list":
		if len(rest) > 0 && rest[0] == "-offline" {
			ok, err := sync.LoadCache()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No cached notes yet. Run `notesync list` online first.")
				return nil
			}
		} else if err := sync.FetchAll(ctx); err != nil {
			return err
		}
		printNotes(sync.Notes())
		return nil
	case "search":
		if len(rest) == 0 {
			return fault.New(fault.Validation, "usage: notesync search <query>")
		}
		if err := sync.Search(ctx, strings.Join(rest, " ")); err != nil {
			return err
		}
		if sync.SearchActive() {
			fmt.Println("Search results:")
		}
		printNotes(sync.Notes())
		return nil
	case "add":
		if len(rest) < 2 {
			return fault.New(fault.Validation, "usage: notesync add <title> <content> [tags...]")
		}
		return sync.Save(ctx, "", notes.Fields{Title: rest[0], Content: rest[1], Tags: rest[2:]})
	case "edit":
		if len(rest) < 3 {
			return fault.New(fault.Validation, "usage: notesync edit <id> <title> <content> [tags...]")
		}
		return sync.Save(ctx, rest[0], notes.Fields{Title: rest[1], Content: rest[2], Tags: rest[3:]})
	case "rm":
		if len(rest) != 1 {
			return fault.New(fault.Validation, "usage: notesync rm <id>")
		}
		return sync.Delete(ctx, rest[0])
	case "pin":
		if len(rest) != 1 {
			return fault.New(fault.Validation, "usage: notesync pin <id>")
		}
		if err := sync.FetchAll(ctx); err != nil {
			return err
		}
		return sync.TogglePin(ctx, rest[0])
	case "export":
		dir := cfg.Export.Dir
		if len(rest) > 0 {
			dir = rest[0]
		}
		if dir == "" {
			return fault.New(fault.Validation, "usage: notesync export <dir> (or set export.dir in config)")
		}
		return runExport(ctx, sync, dir)
	case "digest":
		return runDigest(ctx, cfg, sync)
	case "bot":
		return runBot(cfg, sync, log)
	default:
		flag.Usage()
		return fault.New(fault.Validation, fmt.Sprintf("unknown command %q", cmd))
	}
}

func runLogin(ctx context.Context, ctrl *auth.Controller) error {
	in := bufio.NewReader(os.Stdin)
	email := prompt(in, "Email: ")
	password := prompt(in, "Password: ")

	if _, err := ctrl.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func runSignUp(ctx context.Context, ctrl *auth.Controller) error {
	in := bufio.NewReader(os.Stdin)
	name := prompt(in, "Full name: ")
	email := prompt(in, "Email: ")
	password := prompt(in, "Password: ")
	confirmation := prompt(in, "Confirm password: ")

	res, err := ctrl.SignUp(ctx, name, email, password, confirmation)
	if err != nil {
		return err
	}
	if res.Celebrate {
		fmt.Println("🎉 Welcome aboard! Your account is ready.")
	}
	return nil
}

func runExport(ctx context.Context, sync *syncer.Synchronizer, dir string) error {
	if err := sync.FetchAll(ctx); err != nil {
		return err
	}
	exporter := export.NewExporter(dir)
	paths, err := exporter.Export(sync.Notes())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d notes to %s\n", len(paths), dir)

	if err := export.NewGitBackup(dir).Sync("notesync export"); err != nil {
		// Not a git worktree is fine; anything else is worth reporting.
		if !strings.Contains(err.Error(), "repository does not exist") {
			return err
		}
	}
	return nil
}

func runDigest(ctx context.Context, cfg *config.Config, sync *syncer.Synchronizer) error {
	if cfg.Gemini.APIKey == "" {
		return fault.New(fault.Validation, "set gemini.api_key (or GEMINI_API_KEY) to use digest")
	}
	if err := sync.FetchAll(ctx); err != nil {
		return err
	}

	client, err := digest.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Summarize(ctx, digest.CollectionPrompt(sync.Notes()))
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func runBot(cfg *config.Config, sync *syncer.Synchronizer, log zerolog.Logger) error {
	if cfg.Telegram.Token == "" {
		return fault.New(fault.Validation, "set telegram.token (or TELEGRAM_TOKEN) to run the bot")
	}

	bot, err := telegram.NewBot(cfg.Telegram.Token, sync, log)
	if err != nil {
		return err
	}
	if err := bot.Start(); err != nil {
		return err
	}
	defer bot.Stop()
	fmt.Println("Telegram bot started. Ctrl-C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func printNotes(list []notes.Note) {
	if len(list) == 0 {
		fmt.Println("No notes found.")
		return
	}
	for _, n := range list {
		marker := "  "
		if n.IsPinned {
			marker = "* "
		}
		line := fmt.Sprintf("%s%s  %s", marker, n.ID, n.Title)
		if len(n.Tags) > 0 {
			line += "  [" + strings.Join(n.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}
