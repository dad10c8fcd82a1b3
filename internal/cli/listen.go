package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pavonify-live-client/internal/livegame"
)

func newListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen <class-id> [class-id...]",
		Short: "Watch for live games announced to your classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			listener := livegame.ListenAnnouncements(s.wsBase, args, s.reconnect)
			defer listener.Close()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			fmt.Printf("Listening for games in %d classes...\n", len(args))
			for {
				select {
				case game := <-listener.Announcements():
					fmt.Printf("%s announced a game in class %s: session %s, PIN %s\n",
						game.HostName, game.ClassID, game.SessionID, game.PIN)
				case <-stop:
					return nil
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}
}
