package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pavonify-live-client/internal/config"
	"pavonify-live-client/internal/gamehub"
	"pavonify-live-client/internal/infra/file"
	redisinfra "pavonify-live-client/internal/infra/redis"
	"pavonify-live-client/internal/srs"
)

func newReviewCmd() *cobra.Command {
	var (
		limit int
		mode  string
		user  string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run a spaced-repetition review session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			hub := gamehub.New(newHubStore(s, user))
			if err := hub.Init(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := hub.Flush(ctx); err != nil {
					log.Printf("failed to save game hub state: %v", err)
				}
			}()

			client := srs.NewClient(s.apiBase,
				srs.WithHTTPClient(s.httpClient()),
				srs.WithCSRFTokenSource(s.csrfSource()),
			)
			session := srs.NewSession(client, srs.SessionOptions{
				QueueLimit: limit,
				QueueMode:  mode,
				Hub:        hub,
			})
			if err := session.Start(cmd.Context()); err != nil {
				if errors.Is(err, srs.ErrQueueEmpty) {
					fmt.Println("Nothing due for review. Come back later!")
					return nil
				}
				return err
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				word, ok := session.Current()
				if !ok {
					break
				}
				printCard(word)
				if !scanner.Scan() {
					break
				}
				answer := strings.TrimSpace(scanner.Text())
				if answer == "quit" || answer == "exit" {
					break
				}

				correct, err := session.SubmitAnswer(cmd.Context(), answer)
				if correct {
					fmt.Printf("Correct! +%d points (energy %d/100, tokens %d)\n",
						srs.PointsPerCorrect, hub.Energy(), hub.Tokens())
				} else {
					fmt.Printf("Not quite. The answer was %q.\n", word.Answer)
				}
				if errors.Is(err, srs.ErrQueueEmpty) {
					break
				}
				if err != nil {
					return err
				}
			}

			summary := session.Summary()
			fmt.Printf("Session done: %d/%d correct, %d points.\n", summary.Correct, summary.Attempted, summary.Points)
			return scanner.Err()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", srs.DefaultQueueLimit, "words per batch")
	cmd.Flags().StringVar(&mode, "mode", srs.DefaultQueueMode, "queue mode: due, new or mix")
	cmd.Flags().StringVar(&user, "user", os.Getenv("USER"), "owner key for game hub state")
	return cmd
}

// newHubStore prefers Redis when configured so the energy meter follows the
// student across devices, falling back to a local JSON file.
func newHubStore(s settings, user string) gamehub.Store {
	if s.cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		ttl := config.TTLDuration(s.cfg.Redis.TTL, 0)
		return redisinfra.NewHubStore(client, user, ttl)
	}

	path := s.cfg.GameHub.StatePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".pavonify", "gamehub.json")
	}
	return file.NewHubStore(path)
}

func printCard(word srs.ReviewWord) {
	fmt.Printf("\n[%s] %s\n", word.Activity(), word.Prompt)
	if len(word.Choices) > 0 {
		for i, choice := range word.Choices {
			fmt.Printf("  %d. %s\n", i+1, choice)
		}
	}
	fmt.Print("> ")
}
