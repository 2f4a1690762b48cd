package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"medidoc/internal/config"
	"medidoc/internal/domain"
	"medidoc/internal/service/docsystem"
	"medidoc/internal/service/llm/conversation"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the documentation assistant",
	Long: `Starts an interactive session with the AI assistant. With a current
document selected, the assistant may propose document edits which you can
approve or reject; without one it answers in plain chat.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := initAppWithAssistant(cmd.Context())
		if err != nil {
			fatal(err)
		}

		// Route session logs to a file so log lines don't interleave with
		// the REPL output.
		if logFile, err := config.SetupLogFile(a.cfg.LogDir(), config.MaxLogFiles); err == nil {
			defer logFile.Close()
			a.logger = slog.New(slog.NewTextHandler(logFile, nil))
		} else {
			fmt.Fprintf(os.Stderr, "%s⚠ Session logs stay on stderr: %v%s\n", colorYellow, err, colorReset)
		}

		runChat(cmd.Context(), a)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type chatSession struct {
	ctx       context.Context
	app       *app
	convo     *conversation.Service
	autosaver *docsystem.AutoSaver
	scanner   *bufio.Scanner
}

func runChat(ctx context.Context, a *app) {
	session := &chatSession{
		ctx:       ctx,
		app:       a,
		convo:     conversation.NewService(a.store, a.gateway, a.logger),
		autosaver: docsystem.NewAutoSaver(a.store, a.cfg.AutosaveDelay, a.logger),
		scanner:   bufio.NewScanner(os.Stdin),
	}
	defer session.autosaver.Flush()

	fmt.Printf("\n%s╔══════════════════════════════════════╗%s\n", colorCyan, colorReset)
	fmt.Printf("%s║      Medidoc Assistant               ║%s\n", colorCyan, colorReset)
	fmt.Printf("%s╚══════════════════════════════════════╝%s\n", colorCyan, colorReset)
	if doc := a.store.Current(); doc != nil {
		fmt.Printf("%sCurrent document: %s (%s)%s\n", colorBlue, doc.Title, doc.ID, colorReset)
	} else {
		fmt.Printf("%sNo current document - plain chat mode%s\n", colorYellow, colorReset)
	}
	fmt.Println(`Type a message, or /help for commands.`)

	// Print the welcome message the conversation opens with
	for _, msg := range session.convo.Messages() {
		fmt.Printf("\n%sassistant>%s %s\n", colorGreen, colorReset, msg.Content)
	}

	for {
		fmt.Printf("\n%syou>%s ", colorBlue, colorReset)
		if !session.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(session.scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := session.command(line); quit {
				return
			}
			continue
		}

		session.sendTurn(line)
	}
}

// command handles a /-prefixed REPL command; returns true on /quit.
func (s *chatSession) command(line string) bool {
	parts := strings.SplitN(line, " ", 2)
	arg := ""
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch parts[0] {
	case "/quit", "/exit":
		fmt.Printf("%s✓ Goodbye!%s\n", colorGreen, colorReset)
		return true

	case "/help":
		fmt.Println(`Commands:
  /prompts         List canned prompts; send one with /prompts <number>
  /docs            List documents
  /use <id>        Switch the current document
  /append <text>   Append text to the current document (auto-saved)
  /quit            Leave the chat`)

	case "/prompts":
		s.prompts(arg)

	case "/docs":
		for _, d := range s.app.store.List() {
			fmt.Printf("  %s  %s (%s)\n", d.ID, d.Title, d.Type)
		}

	case "/use":
		doc, err := s.app.store.Get(arg)
		if err != nil {
			s.notify(err)
			return false
		}
		if err := s.app.store.SetCurrent(doc); err != nil {
			s.notify(err)
			return false
		}
		fmt.Printf("%s✓ Current document: %s%s\n", colorGreen, doc.Title, colorReset)

	case "/append":
		s.appendText(arg)

	default:
		fmt.Printf("%s⚠ Unknown command %s%s\n", colorYellow, parts[0], colorReset)
	}
	return false
}

// prompts lists the canned prompts, or sends one by number.
func (s *chatSession) prompts(arg string) {
	catalog := s.app.registry.Prompts()

	if arg == "" {
		for i, p := range catalog {
			fmt.Printf("  %d. %s%s%s - %s\n", i+1, colorCyan, p.Title, colorReset, p.Text)
		}
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(catalog) {
		fmt.Printf("%s⚠ Pick a prompt between 1 and %d%s\n", colorYellow, len(catalog), colorReset)
		return
	}
	s.sendTurn(catalog[n-1].Text)
}

// appendText adds text to the end of the current document body through the
// auto-saver, so rapid appends coalesce into one write.
func (s *chatSession) appendText(text string) {
	doc := s.app.store.Current()
	if doc == nil {
		fmt.Printf("%s⚠ No current document%s\n", colorYellow, colorReset)
		return
	}
	if text == "" {
		fmt.Printf("%s⚠ Nothing to append%s\n", colorYellow, colorReset)
		return
	}

	base := doc.Content
	if pending, ok := s.autosaver.Pending(doc.ID); ok {
		base = pending
	}
	s.autosaver.Save(doc.ID, base+"\n"+text)
	fmt.Printf("%s✓ Queued for save%s\n", colorGreen, colorReset)
}

// sendTurn runs one conversation turn and, if the assistant staged an
// edit, walks through the approval flow.
func (s *chatSession) sendTurn(text string) {
	// A queued append must land before the assistant reads the document
	s.autosaver.Flush()

	fmt.Printf("%s⏳ Thinking...%s\n", colorBlue, colorReset)

	result, err := s.convo.Send(s.ctx, text)
	if err != nil {
		s.notify(err)
		return
	}

	fmt.Printf("\n%sassistant>%s %s\n", colorGreen, colorReset, result.Reply.Content)

	if result.Edit != nil {
		s.approveFlow(result.Edit.EditContent.Changes)
	}
}

// approveFlow shows the proposed changes and asks for confirmation before
// anything touches the document.
func (s *chatSession) approveFlow(changes []string) {
	fmt.Printf("\n%sProposed changes:%s\n", colorCyan, colorReset)
	for i, change := range changes {
		fmt.Printf("  %d. %s\n", i+1, change)
	}
	fmt.Printf("\nApply these changes? (y/n): ")

	if !s.scanner.Scan() {
		s.convo.RejectEdit()
		return
	}

	answer := strings.ToLower(strings.TrimSpace(s.scanner.Text()))
	if answer != "y" && answer != "yes" {
		s.convo.RejectEdit()
		fmt.Printf("%s✓ Edit suggestion dismissed%s\n", colorGreen, colorReset)
		return
	}

	doc, err := s.convo.ApproveEdit(s.ctx)
	if err != nil {
		s.notify(err)
		return
	}
	fmt.Printf("%s✓ Document updated (%d words)%s\n", colorGreen, doc.WordCount, colorReset)
}

// notify prints a component error as a non-blocking warning. Nothing in a
// running session is fatal; the conversation history stays intact.
func (s *chatSession) notify(err error) {
	switch {
	case errors.Is(err, domain.ErrBusy):
		fmt.Printf("%s⚠ A request is already in flight%s\n", colorYellow, colorReset)
	case errors.Is(err, domain.ErrTransport):
		fmt.Printf("%s✗ Failed to get AI response: %v%s\n", colorRed, err, colorReset)
	case errors.Is(err, domain.ErrPersistence):
		fmt.Printf("%s⚠ Failed to save documents: %v%s\n", colorYellow, err, colorReset)
	default:
		fmt.Printf("%s⚠ %v%s\n", colorYellow, err, colorReset)
	}
}
