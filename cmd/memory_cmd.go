package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pivolabs/pivobot/internal/brain"
	"github.com/pivolabs/pivobot/internal/config"
	"github.com/pivolabs/pivobot/internal/store"
	"github.com/pivolabs/pivobot/internal/store/file"
)

func memoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and exercise a chat's learned memory",
	}
	cmd.AddCommand(memoryQuestionsCmd())
	cmd.AddCommand(memoryAskCmd())
	cmd.AddCommand(memoryTeachCmd())
	return cmd
}

// openBrain builds a brain over the configured memory directory.
func openBrain() (*brain.Brain, store.MemoryStore, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, nil, err
	}
	st, err := file.NewMemoryStore(cfg.Brain.Dir)
	if err != nil {
		return nil, nil, err
	}
	b := brain.New(st, brain.Config{
		MatchThreshold: cfg.Brain.MatchThreshold,
		MaxAnswers:     cfg.Brain.MaxAnswers,
	})
	return b, st, nil
}

func parseChatID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q", arg)
	}
	return id, nil
}

// --- memory questions ---

type questionEntry struct {
	Question string `json:"question"`
	Answers  int    `json:"answers"`
}

func memoryQuestionsCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "questions <chat-id>",
		Short: "List the distinct questions learned for a chat",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			chatID, err := parseChatID(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			_, st, err := openBrain()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer st.Close()

			recs, err := st.Scan(context.Background(), chatID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			var entries []questionEntry
			for _, q := range store.Questions(recs) {
				entries = append(entries, questionEntry{
					Question: q,
					Answers:  len(store.AnswersFor(recs, q)),
				})
			}

			if jsonOutput {
				data, _ := json.MarshalIndent(entries, "", "  ")
				fmt.Println(string(data))
				return
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "QUESTION\tANSWERS\n")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\n", e.Question, e.Answers)
			}
			tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

// --- memory ask ---

func memoryAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <chat-id> <question...>",
		Short: "Ask a chat's memory a question",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			chatID, err := parseChatID(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			b, st, err := openBrain()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer st.Close()

			answer, ok, err := b.Answer(context.Background(), chatID, strings.Join(args[1:], " "))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !ok {
				fmt.Println("(no answer)")
				return
			}
			fmt.Println(answer)
		},
	}
}

// --- memory teach ---

func memoryTeachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teach <chat-id> <question> <answer>",
		Short: "Teach a chat's memory one question/answer pair",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			chatID, err := parseChatID(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			b, st, err := openBrain()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer st.Close()

			if err := b.Learn(context.Background(), chatID, args[1], args[2]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}
}
