package cli

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pavonify-live-client/internal/domain"
	"pavonify-live-client/internal/livegame"
)

func newPlayCmd() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "play <session-id>",
		Short: "Join a live game as a student and answer from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			api := livegame.NewClient(s.apiBase,
				livegame.WithHTTPClient(s.httpClient()),
				livegame.WithCSRFTokenSource(s.csrfSource()),
			)

			game := livegame.NewStudentGame(api, args[0], livegame.StudentOptions{
				WSBase:            s.wsBase,
				ReconnectInterval: s.reconnect,
				OnAccepted: func(result domain.AnswerResult) {
					if result.IsCorrect {
						fmt.Printf("Correct! +%d points\n", result.ScoreDelta)
					} else {
						fmt.Println("Answer received.")
					}
				},
			})
			defer game.Close()

			var params *livegame.JoinParams
			if displayName != "" {
				params = &livegame.JoinParams{DisplayName: displayName}
			}
			if err := game.Join(cmd.Context(), params); err != nil {
				return err
			}
			fmt.Println("Joined. Type an answer and press enter; 'state' shows the scoreboard, 'quit' leaves.")

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
				case "quit", "exit":
					return nil
				case "state":
					printStudentSnapshot(game.Snapshot())
				default:
					if err := game.Submit(cmd.Context(), line); err != nil {
						log.Printf("submit failed: %v", err)
					}
				}
				if game.Snapshot().Lock == livegame.LockEnded {
					fmt.Println("Game over.")
					printStudentSnapshot(game.Snapshot())
					return nil
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "display name shown on the leaderboard")
	return cmd
}

func printStudentSnapshot(snapshot livegame.StudentSnapshot) {
	if snapshot.State != nil {
		fmt.Printf("question %d/%d, lock %s (socket %s)\n",
			snapshot.State.CurrentQuestionIdx, snapshot.State.TotalQuestions, snapshot.Lock, snapshot.SocketStatus)
	}
	if len(snapshot.QuestionPayload) > 0 {
		fmt.Printf("payload: %s\n", snapshot.QuestionPayload)
	}
	if snapshot.You != nil {
		fmt.Printf("you: rank %d, %d points\n", snapshot.You.Rank, snapshot.You.Score)
	}
	for _, entry := range snapshot.Leaderboard {
		fmt.Printf("  #%d %-20s %6d (streak %d)\n", entry.Rank, entry.Name, entry.Score, entry.Streak)
	}
	if snapshot.SubmissionError != "" {
		fmt.Printf("submission error: %s\n", snapshot.SubmissionError)
	}
}
