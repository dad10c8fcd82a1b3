package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pavonify-live-client/internal/config"
	"pavonify-live-client/internal/enrich"
	"pavonify-live-client/internal/infra/memory"
	redisinfra "pavonify-live-client/internal/infra/redis"
)

func newEnrichCmd() *cobra.Command {
	var (
		listID  int
		approve bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "enrich word=translation [word=translation...]",
		Short: "Preview image and fact suggestions for new vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			entries := make([]enrich.WordEntry, 0, len(args))
			for _, arg := range args {
				word, translation, _ := strings.Cut(arg, "=")
				entries = append(entries, enrich.WordEntry{Word: word, Translation: translation})
			}

			client := enrich.NewClient(s.apiBase,
				enrich.WithHTTPClient(s.httpClient()),
				enrich.WithCSRFTokenSource(s.csrfSource()),
			)
			preview := enrich.NewPreview(newPreviewSource(s, client), listID)
			if err := preview.Load(cmd.Context(), entries); err != nil {
				return err
			}

			for _, row := range preview.Rows() {
				fmt.Printf("%s", row.Word)
				if row.Translation != "" {
					fmt.Printf(" (%s)", row.Translation)
				}
				fmt.Println()
				for _, img := range row.Images {
					marker := " "
					if selected, ok := preview.Selected(row.Word); ok && selected.URL == img.URL {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, img.URL)
				}
				if row.Fact.Text != "" {
					fmt.Printf("  fact (%s): %s\n", row.Fact.Type, row.Fact.Text)
				}
			}

			if approve {
				preview.ApproveAll()
			}
			if dryRun {
				return nil
			}
			if err := client.Confirm(cmd.Context(), listID, preview.Items()); err != nil {
				return err
			}
			fmt.Println("Saved.")
			return nil
		},
	}

	cmd.Flags().IntVar(&listID, "list", 0, "vocabulary list id")
	cmd.Flags().BoolVar(&approve, "approve", false, "approve the selected image for every word")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview only, skip the confirm call")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

// newPreviewSource wraps the origin client in a Redis-backed cache when one
// is configured, else a process-local one.
func newPreviewSource(s settings, client *enrich.Client) enrich.RowSource {
	ttl := config.TTLDuration(s.cfg.Enrich.TTL, 10*time.Minute)
	if s.cfg.Redis.Addr != "" {
		rc := redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		return redisinfra.NewPreviewCache(rc, client, ttl)
	}
	return memory.NewPreviewCache(client, ttl)
}
