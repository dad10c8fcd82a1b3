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

func newHostCmd() *cobra.Command {
	var (
		classID      string
		vocabListIDs []int
		questions    int
		questionTime int
		scoringMode  string
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Create and run a live game as the teacher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			api := livegame.NewClient(s.apiBase,
				livegame.WithHTTPClient(s.httpClient()),
				livegame.WithCSRFTokenSource(s.csrfSource()),
			)
			console := livegame.NewTeacherConsole(api, livegame.TeacherOptions{
				WSBase:            s.wsBase,
				ReconnectInterval: s.reconnect,
			})
			defer console.Close()

			params := livegame.CreateSessionParams{
				ClassID:         classID,
				VocabListIDs:    vocabListIDs,
				TotalQuestions:  questions,
				QuestionTimeSec: questionTime,
				ScoringMode:     domain.ScoringMode(scoringMode),
			}
			if err := console.CreateSession(cmd.Context(), params); err != nil {
				return err
			}
			snapshot := console.Snapshot()
			fmt.Printf("Session created. PIN: %s\n", snapshot.Lobby.PIN)
			fmt.Println("Commands: start, next, end, state, quit")

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				var err error
				switch strings.TrimSpace(scanner.Text()) {
				case "start":
					err = console.Start(cmd.Context())
				case "next":
					err = console.Next(cmd.Context())
				case "end":
					err = console.End(cmd.Context())
				case "state":
					printTeacherSnapshot(console.Snapshot())
				case "quit", "exit":
					return nil
				case "":
				default:
					fmt.Println("Commands: start, next, end, state, quit")
				}
				if err != nil {
					log.Printf("action failed: %v", err)
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&classID, "class", "", "class the game is hosted for")
	cmd.Flags().IntSliceVar(&vocabListIDs, "lists", nil, "vocabulary list ids to draw questions from")
	cmd.Flags().IntVar(&questions, "questions", 10, "number of questions")
	cmd.Flags().IntVar(&questionTime, "question-time", 20, "seconds per question")
	cmd.Flags().StringVar(&scoringMode, "scoring", string(domain.ScoringStandard), "scoring mode: STANDARD, FAST or STREAKY")
	return cmd
}

func printTeacherSnapshot(snapshot livegame.TeacherSnapshot) {
	fmt.Printf("status: %s (socket %s)\n", snapshot.StatusMessage, snapshot.SocketStatus)
	if snapshot.LastError != "" {
		fmt.Printf("last error: %s\n", snapshot.LastError)
	}
	if len(snapshot.Lobby.Participants) > 0 {
		fmt.Printf("lobby: %s\n", strings.Join(snapshot.Lobby.Participants, ", "))
	}
	for _, entry := range snapshot.Leaderboard {
		fmt.Printf("  #%d %-20s %6d (streak %d)\n", entry.Rank, entry.Name, entry.Score, entry.Streak)
	}
}
