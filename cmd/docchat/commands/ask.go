// ABOUTME: Ask command streams an answer about a document to the terminal
// ABOUTME: Prints tokens as they arrive, with colored status output
package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marcus/docchat/internal/llm"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <document-id> <question>",
		Short: "Ask a question about a document",
		Long: `Ask a question about an ingested document.

The question is embedded, the most similar chunks are retrieved, and
the answer is streamed to the terminal token by token.`,
		Args: cobra.ExactArgs(2),
		RunE: runAsk,
		Example: `  docchat ask doc_4f3a... "What is the refund policy?"`,
	}

	return cmd
}

// terminalSink writes answer events to the terminal as they arrive.
// Keep-alives are meaningless locally and are dropped.
type terminalSink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *terminalSink) Token(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprint(s.out, text)
	return err
}

func (s *terminalSink) Done() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out)
	return err
}

func (s *terminalSink) NoContext(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := color.New(color.FgYellow).Fprintln(s.out, message)
	return err
}

func (s *terminalSink) Error(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := color.New(color.FgRed).Fprintf(s.out, "Error: %s\n", message)
	return err
}

func (s *terminalSink) KeepAlive() error { return nil }

func runAsk(cmd *cobra.Command, args []string) error {
	documentID, question := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("creating OpenAI client: %w", err)
	}

	streamer := buildStreamer(cfg, client, store)

	sink := &terminalSink{out: cmd.OutOrStdout()}
	if err := streamer.Stream(cmd.Context(), documentID, question, sink); err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	return nil
}
