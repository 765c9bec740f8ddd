package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"session-ready/internal/config"
	"session-ready/internal/live"
	"session-ready/internal/operator"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/session"
	"session-ready/internal/storage"
	"session-ready/internal/transcript"
	"session-ready/internal/ui"
)

// ChatOptions holds injectable dependencies for the chat REPL.
type ChatOptions struct {
	Config  *config.Config
	NewLive func(cfg *config.Config) (live.Client, error)
	Stdin   io.Reader
	Stdout  io.Writer
}

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "practice - rehearse therapy sessions with simulated clients",
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the available client personas",
	RunE:  runPersonas,
}

var promptCmd = &cobra.Command{
	Use:   "prompt <persona-id>",
	Short: "Print the system instruction for a persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run a text practice session in the terminal",
	RunE:  runChat,
}

var (
	searchFlag   string
	personaFlag  string
	nameFlag     string
	approachFlag string
)

func init() {
	personasCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Only list personas matching this text")
	for _, c := range []*cobra.Command{promptCmd, chatCmd} {
		c.Flags().StringVarP(&nameFlag, "name", "n", "", "Your name as the therapist")
		c.Flags().StringVarP(&approachFlag, "approach", "a", "", "Your approach or specialization")
	}
	chatCmd.Flags().StringVarP(&personaFlag, "persona", "p", "", "Persona id to start with")
	rootCmd.AddCommand(personasCmd, promptCmd, chatCmd)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// catalog returns the builtins plus any personas from PERSONAS_FILE_PATH.
func catalog(path string) (*persona.Store, error) {
	store := persona.NewStore(persona.ListBuiltins())
	if path == "" {
		return store, nil
	}
	custom, err := persona.LoadFile(path, nil)
	if err != nil {
		return nil, err
	}
	first := store.Current().ID
	for _, p := range custom {
		if err := store.AddCustom(p); err != nil {
			return nil, fmt.Errorf("add persona %s: %w", p.ID, err)
		}
	}
	if err := store.SetCurrentByID(first); err != nil {
		return nil, err
	}
	return store, nil
}

func runPersonas(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := catalog(cfg.PersonasFilePath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range persona.Search(store.All(), searchFlag) {
		fmt.Fprintf(out, "%-20s %-8s %s\n", p.ID, p.Voice, p.Name)
	}
	return nil
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := catalog(cfg.PersonasFilePath)
	if err != nil {
		return err
	}
	p, ok := store.Lookup(args[0])
	if !ok {
		return &persona.ResolutionError{ID: args[0]}
	}
	loc, err := prompt.ParseLocale(cfg.Locale, cfg.TimeZone)
	if err != nil {
		return err
	}
	text := prompt.NewBuilder(loc).SystemInstruction(p, operator.Profile{DisplayName: nameFlag, ApproachNotes: approachFlag})
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	return runChatWithOptions(cmd.Context(), ChatOptions{Config: cfg})
}

func runChatWithOptions(ctx context.Context, opts ChatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	newLive := opts.NewLive
	if newLive == nil {
		newLive = live.NewFromConfig
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	store, err := catalog(cfg.PersonasFilePath)
	if err != nil {
		return err
	}
	if personaFlag != "" {
		if err := store.SetCurrentByID(personaFlag); err != nil {
			return err
		}
	}
	loc, err := prompt.ParseLocale(cfg.Locale, cfg.TimeZone)
	if err != nil {
		return err
	}
	client, err := newLive(cfg)
	if err != nil {
		return err
	}
	var rec storage.Recorder
	if cfg.TranscriptLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.TranscriptLogPath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	ops := operator.NewStore()
	ops.SetDisplayName(nameFlag)
	ops.SetApproachNotes(approachFlag)
	flags := ui.NewFlags()
	flags.SetShowUserConfig(false)

	sess := session.New(session.Deps{
		Personas:   store,
		Operator:   ops,
		Flags:      flags,
		Live:       client,
		Prompt:     prompt.NewBuilder(loc),
		Model:      live.ModelFor(cfg),
		Modalities: []live.Modality{live.ModalityText},
		Recorder:   rec,
		OwnerID:    "cli",
	})
	defer sess.Close()

	sess.Subscribe(func(e transcript.Entry) {
		if e.Role == transcript.RoleCounterpart {
			fmt.Fprintf(stdout, "\n%s: %s\n", store.Current().Name, e.Content)
		}
	})

	fmt.Fprintln(stdout, "practice chat (/begin, /end, /persona <id>, /pause, /resume, /transcript, exit)")
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if err := handleLine(ctx, sess, stdout, input); err != nil {
			fmt.Fprintf(stdout, "Error: %v\n", err)
		}
	}
	return nil
}

func handleLine(ctx context.Context, sess *session.Session, out io.Writer, input string) error {
	cmd, arg, _ := strings.Cut(input, " ")
	switch cmd {
	case "/begin":
		err := sess.Connect(ctx)
		var cerr *session.ConnectError
		if errors.As(err, &cerr) {
			return errors.New(cerr.StatusMessage())
		}
		return err
	case "/end":
		sess.EndSession()
		fmt.Fprintln(out, "Session ended.")
		return nil
	case "/persona":
		return sess.SwitchPersona(ctx, strings.TrimSpace(arg), sess.Connected())
	case "/pause":
		return sess.Pause(ctx)
	case "/resume":
		return sess.Resume(ctx)
	case "/transcript":
		st := sess.Status()
		for _, e := range st.Transcript.Entries {
			who := "You"
			if e.Role == transcript.RoleCounterpart {
				who = st.Persona.Name
			}
			fmt.Fprintf(out, "[%s] %s: %s\n", e.Timestamp.Format("15:04"), who, e.Content)
		}
		return nil
	}
	_, err := sess.Submit(ctx, input)
	return err
}
